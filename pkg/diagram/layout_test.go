package diagram

import (
	"reflect"
	"testing"
)

func TestGridPosition(t *testing.T) {
	tests := []struct {
		i    int
		want Position
	}{
		{0, Position{80, 40}},
		{1, Position{420, 40}},
		{2, Position{760, 40}},
		{3, Position{80, 280}},
		{7, Position{420, 520}},
	}
	for _, tt := range tests {
		if got := DefaultGrid.Position(tt.i); got != tt.want {
			t.Errorf("Position(%d) = %+v, want %+v", tt.i, got, tt.want)
		}
	}
}

func TestGridPositionZeroColumns(t *testing.T) {
	g := Grid{ColumnSpacing: 10, RowSpacing: 10}
	if got := g.Position(4); got != (Position{10, 10}) {
		t.Errorf("Position(4) = %+v, want {10 10}", got)
	}
}

func TestPlaceUniqueAndOrdered(t *testing.T) {
	g := Graph{}
	for i := 0; i < 8; i++ {
		g.Nodes = append(g.Nodes, Node{ID: string(rune('a' + i)), Order: i})
	}
	placed := Place(g, DefaultGrid)

	seen := make(map[Position]string)
	for i, n := range placed.Nodes {
		if prev, dup := seen[n.Position]; dup {
			t.Fatalf("%s and %s share position %+v", prev, n.ID, n.Position)
		}
		seen[n.Position] = n.ID
		if i > 0 {
			p := placed.Nodes[i-1].Position
			// Row-major: either further right on the same row or on a lower row.
			if !(n.Position.Y > p.Y || (n.Position.Y == p.Y && n.Position.X > p.X)) {
				t.Errorf("node %d at %+v not after %+v", i, n.Position, p)
			}
		}
	}
	if g.Nodes[0].Position != (Position{}) {
		t.Error("Place mutated its input")
	}
	if !reflect.DeepEqual(Place(placed, DefaultGrid), placed) {
		t.Error("Place is not idempotent")
	}
}
