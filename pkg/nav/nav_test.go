package nav

import (
	"reflect"
	"testing"

	"github.com/starlake-ai/starlake-site-builder/pkg/metadata"
)

func TestTrail(t *testing.T) {
	tests := []struct {
		name     string
		section  string
		segments []string
		want     []Crumb
	}{
		{"section only", LoadPath, nil, []Crumb{{Label: "Load"}}},
		{"domain", TransformPath, []string{"kpi"}, []Crumb{
			{Label: "Transform", Href: "/transform"},
			{Label: "kpi"},
		}},
		{"table", LoadPath, []string{"sales", "orders"}, []Crumb{
			{Label: "Load", Href: "/load"},
			{Label: "sales", Href: "/load/sales"},
			{Label: "orders"},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Trail(tt.section, tt.segments...); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Trail = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestNeighbours(t *testing.T) {
	names := []string{"a", "b", "c"}

	pn := Neighbours(LoadPath, names, "b")
	if pn.Previous == nil || *pn.Previous != (Link{Label: "a", Href: "/load/a"}) {
		t.Errorf("previous = %+v", pn.Previous)
	}
	if pn.Next == nil || *pn.Next != (Link{Label: "c", Href: "/load/c"}) {
		t.Errorf("next = %+v", pn.Next)
	}

	if first := Neighbours(LoadPath, names, "a"); first.Previous != nil || first.Next == nil {
		t.Errorf("first = %+v", first)
	}
	if last := Neighbours(LoadPath, names, "c"); last.Previous == nil || last.Next != nil {
		t.Errorf("last = %+v", last)
	}
	if none := Neighbours(LoadPath, names, "zzz"); none.Previous != nil || none.Next != nil {
		t.Errorf("unknown = %+v", none)
	}
}

func TestNormalizePath(t *testing.T) {
	for in, want := range map[string]string{
		"":              "/",
		"/":             "/",
		"/load/":        "/load",
		"/load/sales":   "/load/sales",
		"/load/sales//": "/load/sales/",
	} {
		if got := NormalizePath(in); got != want {
			t.Errorf("NormalizePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSidebar(t *testing.T) {
	load := []metadata.DomainInfo{
		{Name: "sales", Tables: []metadata.TableInfo{{Name: "orders"}, {Name: "customers"}}},
	}
	transform := []metadata.TransformDomainInfo{
		{Name: "kpi", Tasks: []metadata.TaskInfo{{Name: "revenue"}}},
	}

	tests := []struct {
		path string
		want string
	}{
		{"/load", "/load"},
		{"/load/sales/", "/load/sales"},
		{"/load/sales/orders", "/load/sales/orders"},
		{"/transform/kpi/revenue", "/transform/kpi/revenue"},
		{"/", ""},
		{"/load/sales/nope", ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			tree := Sidebar(load, transform, tt.path)
			if len(tree) != 2 || tree[0].Label != "Load" || tree[1].Label != "Transform" {
				t.Fatalf("roots = %+v", tree)
			}
			count := countActive(tree)
			active, ok := Active(tree)
			if tt.want == "" {
				if ok || count != 0 {
					t.Errorf("no entry should be active, got %+v", active)
				}
				return
			}
			if !ok || active.Href != tt.want || count != 1 {
				t.Errorf("active = %+v (count %d), want %s", active, count, tt.want)
			}
		})
	}
}

func TestSidebarStructure(t *testing.T) {
	tree := Sidebar([]metadata.DomainInfo{
		{Name: "sales", Tables: []metadata.TableInfo{{Name: "orders"}}},
	}, nil, "/")
	sales := tree[0].Children[0]
	if sales.Href != "/load/sales" || sales.Children[0].Href != "/load/sales/orders" {
		t.Errorf("sales entry = %+v", sales)
	}
	if len(tree[1].Children) != 0 {
		t.Errorf("transform children = %+v", tree[1].Children)
	}
}

func countActive(entries []Entry) int {
	n := 0
	for _, e := range entries {
		if e.Active {
			n++
		}
		n += countActive(e.Children)
	}
	return n
}
