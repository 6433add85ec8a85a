package diagram

import "strings"

// =============================================================================
// Constants
// =============================================================================

// Kind identifies which document a graph was built from.
type Kind string

// Document kinds.
const (
	KindRelations Kind = "relations"
	KindLineage   Kind = "lineage"
)

// edgePrefix returns the edge id prefix for the kind.
func (k Kind) edgePrefix() string {
	if k == KindLineage {
		return "lineage-"
	}
	return "relation-"
}

// Side is the side of a node where a handle sits.
type Side string

// Node sides.
const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Direction classifies an edge by the discovery order of its endpoints.
type Direction string

// Edge directions.
const (
	LeftToRight Direction = "left-to-right"
	RightToLeft Direction = "right-to-left"
)

// =============================================================================
// Graph - Builder Output
// =============================================================================

// Graph is the node/edge list consumed by a diagram view.
type Graph struct {
	Kind  Kind   `json:"kind"`
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is one table, view or task box in the diagram.
type Node struct {
	ID      string   `json:"id"`
	Domain  string   `json:"domain"`
	Table   string   `json:"table"`
	Columns []Column `json:"columns"`
	IsTask  bool     `json:"isTask,omitempty"`

	// ColumnExpressions maps a column name to the distinct lineage
	// expressions that read or write it. Lineage graphs only.
	ColumnExpressions map[string][]string `json:"columnExpressions,omitempty"`

	// Order is the zero-based discovery order of the node.
	Order    int      `json:"order"`
	Position Position `json:"position"`

	SourcePosition Side `json:"sourcePosition"`
	TargetPosition Side `json:"targetPosition"`
	Draggable      bool `json:"draggable"`
}

// HasColumn reports whether the node has a column whose trimmed name equals
// the trimmed candidate. Comparison is case-sensitive.
func (n *Node) HasColumn(name string) bool {
	candidate := NormalizeHandle(name)
	if candidate == "" {
		return false
	}
	for _, c := range n.Columns {
		if NormalizeHandle(c.Name) == candidate {
			return true
		}
	}
	return false
}

// Column is one row of a node.
type Column struct {
	Name       string `json:"name"`
	ColumnType string `json:"columnType,omitempty"`
	PrimaryKey bool   `json:"primaryKey"`
	ForeignKey bool   `json:"foreignKey"`
}

// Edge is a directed connection between two nodes, optionally bound to
// column handles on either end.
type Edge struct {
	ID           string    `json:"id"`
	Source       string    `json:"source"`
	Target       string    `json:"target"`
	SourceHandle string    `json:"sourceHandle,omitempty"`
	TargetHandle string    `json:"targetHandle,omitempty"`
	Label        string    `json:"label,omitempty"`
	Direction    Direction `json:"direction"`
}

// Position is a node's top-left corner in diagram coordinates.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stats counts what a build kept and what it skipped.
type Stats struct {
	Entities            int `json:"entities"`
	Nodes               int `json:"nodes"`
	SkippedEntities     int `json:"skippedEntities"`
	Relations           int `json:"relations"`
	Edges               int `json:"edges"`
	MalformedRelations  int `json:"malformedRelations"`
	UnresolvedRelations int `json:"unresolvedRelations"`
}

// =============================================================================
// Graph Helpers
// =============================================================================

// Empty reports whether the graph has nothing to draw.
func (g Graph) Empty() bool { return len(g.Nodes) == 0 }

// Node returns the node with the given id.
func (g Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// =============================================================================
// Handles
// =============================================================================

// NormalizeHandle trims a column name for handle comparison.
func NormalizeHandle(name string) string {
	return strings.TrimSpace(name)
}

// SourceHandle returns the source handle id for a column on the given side.
func SourceHandle(side Side, column string) string {
	if side == SideLeft {
		return "s-l:" + NormalizeHandle(column)
	}
	return "s-r:" + NormalizeHandle(column)
}

// TargetHandle returns the target handle id for a column on the given side.
func TargetHandle(side Side, column string) string {
	if side == SideRight {
		return "t-r:" + NormalizeHandle(column)
	}
	return "t-l:" + NormalizeHandle(column)
}

// HandleColumn extracts the column name from a handle id.
// Returns false if the id is not a handle.
func HandleColumn(handle string) (string, bool) {
	_, column, ok := strings.Cut(handle, ":")
	if !ok || column == "" {
		return "", false
	}
	return column, true
}

// lineageNodeID is "domain.table" when domain is set, else the bare table
// name used for intermediate tables such as CTEs.
func lineageNodeID(domain, table string) string {
	if table == "" {
		return ""
	}
	if strings.TrimSpace(domain) != "" {
		return domain + "." + table
	}
	return table
}
