package diagram

// Grid places nodes row by row in a fixed number of columns.
type Grid struct {
	Columns       int
	OriginX       float64
	OriginY       float64
	ColumnSpacing float64
	RowSpacing    float64
}

// DefaultGrid is the three-column layout used by the table and task pages.
var DefaultGrid = Grid{
	Columns:       3,
	OriginX:       80,
	OriginY:       40,
	ColumnSpacing: 340,
	RowSpacing:    240,
}

// Position returns the slot for the i-th node.
func (g Grid) Position(i int) Position {
	cols := g.Columns
	if cols <= 0 {
		cols = DefaultGrid.Columns
	}
	return Position{
		X: g.OriginX + float64(i%cols)*g.ColumnSpacing,
		Y: g.OriginY + float64(i/cols)*g.RowSpacing,
	}
}

// Place returns a copy of g with every node positioned on the grid in node
// order. Placing an already placed graph yields the same positions.
func Place(g Graph, grid Grid) Graph {
	out := g
	out.Nodes = make([]Node, len(g.Nodes))
	for i, n := range g.Nodes {
		n.Position = grid.Position(i)
		out.Nodes[i] = n
	}
	return out
}
