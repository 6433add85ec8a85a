package diagram

import (
	"strconv"
	"strings"
)

// Options configures [Build].
type Options struct {
	// Kind selects the edge id prefix and lineage-only extras.
	Kind Kind

	// Attributes enriches column key flags by lowercased column name.
	// Applied only to columns that carry neither flag.
	Attributes map[string]KeyFlags
}

// KeyFlags are the key markers of one attribute.
type KeyFlags struct {
	PrimaryKey bool
	ForeignKey bool
}

// Build converts a document into an unpositioned graph.
//
// Nodes follow the order of accepted entities. Edges follow the order of
// well-formed relations; an edge id embeds the relation's index among
// well-formed relations, so ids may have gaps when endpoints do not resolve.
// Every node position is the zero value until [Place] is applied.
func Build(doc Document, opts Options) (Graph, Stats) {
	if opts.Kind == "" {
		opts.Kind = KindRelations
	}
	b := &builder{
		opts:  opts,
		index: make(map[string]int, len(doc.Entities)),
		graph: Graph{Kind: opts.Kind, Nodes: []Node{}, Edges: []Edge{}},
	}
	b.stats.Entities = len(doc.Entities)
	b.stats.Relations = len(doc.Relations)

	for _, e := range doc.Entities {
		b.addEntity(e)
	}
	if opts.Kind == KindLineage {
		b.collectExpressions(doc.Relations)
	}

	wellFormed := 0
	for _, r := range doc.Relations {
		if !r.Valid() {
			b.stats.MalformedRelations++
			continue
		}
		i := wellFormed
		wellFormed++
		b.addRelation(i, r)
	}

	b.stats.Nodes = len(b.graph.Nodes)
	b.stats.Edges = len(b.graph.Edges)
	return b.graph, b.stats
}

type builder struct {
	opts  Options
	index map[string]int
	graph Graph
	stats Stats
}

// =============================================================================
// Nodes
// =============================================================================

func (b *builder) addEntity(e Entity) {
	if !e.Valid() {
		b.stats.SkippedEntities++
		return
	}
	// First occurrence wins so discovery order stays stable.
	if _, dup := b.index[e.ID]; dup {
		b.stats.SkippedEntities++
		return
	}

	columns := make([]Column, len(e.Columns))
	copy(columns, e.Columns)
	if len(b.opts.Attributes) > 0 {
		for i := range columns {
			enrich(&columns[i], b.opts.Attributes)
		}
	}

	order := len(b.graph.Nodes)
	b.index[e.ID] = order
	b.graph.Nodes = append(b.graph.Nodes, Node{
		ID:             e.ID,
		Domain:         e.Domain,
		Table:          e.Table,
		Columns:        columns,
		IsTask:         e.IsTask,
		Order:          order,
		SourcePosition: SideRight,
		TargetPosition: SideLeft,
		Draggable:      true,
	})
}

func enrich(c *Column, attrs map[string]KeyFlags) {
	if c.PrimaryKey || c.ForeignKey {
		return
	}
	flags, ok := attrs[strings.ToLower(NormalizeHandle(c.Name))]
	if !ok {
		return
	}
	c.PrimaryKey = flags.PrimaryKey
	c.ForeignKey = flags.ForeignKey
}

// collectExpressions attaches distinct relation expressions to both
// endpoint columns, in first-seen order.
func (b *builder) collectExpressions(relations []Relation) {
	for _, r := range relations {
		expr := strings.TrimSpace(r.Label)
		if expr == "" || !r.Valid() {
			continue
		}
		for _, ep := range []Endpoint{r.Source, r.Target} {
			id, column, ok := b.resolve(ep)
			column = NormalizeHandle(column)
			if !ok || column == "" {
				continue
			}
			node := &b.graph.Nodes[b.index[id]]
			if node.ColumnExpressions == nil {
				node.ColumnExpressions = make(map[string][]string)
			}
			if !contains(node.ColumnExpressions[column], r.Label) {
				node.ColumnExpressions[column] = append(node.ColumnExpressions[column], r.Label)
			}
		}
	}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// =============================================================================
// Edges
// =============================================================================

func (b *builder) addRelation(i int, r Relation) {
	srcID, srcCol, ok := b.resolve(r.Source)
	if !ok {
		b.stats.UnresolvedRelations++
		return
	}
	tgtID, tgtCol, ok := b.resolve(r.Target)
	if !ok {
		b.stats.UnresolvedRelations++
		return
	}

	src := &b.graph.Nodes[b.index[srcID]]
	tgt := &b.graph.Nodes[b.index[tgtID]]

	edge := Edge{
		ID:        b.opts.Kind.edgePrefix() + strconv.Itoa(i),
		Source:    srcID,
		Target:    tgtID,
		Label:     r.Label,
		Direction: LeftToRight,
	}
	sourceSide, targetSide := SideRight, SideLeft
	if src.Order > tgt.Order {
		edge.Direction = RightToLeft
		sourceSide, targetSide = SideLeft, SideRight
	}
	if src.HasColumn(srcCol) {
		edge.SourceHandle = SourceHandle(sourceSide, srcCol)
	}
	if tgt.HasColumn(tgtCol) {
		edge.TargetHandle = TargetHandle(targetSide, tgtCol)
	}
	b.graph.Edges = append(b.graph.Edges, edge)
}

// resolve maps an endpoint to a known node id and its column candidate.
//
// Dotted references take the first two segments as node id and the third as
// column. When that id is unknown, the first segment alone is tried so bare
// intermediate tables ("cte.column") still resolve.
func (b *builder) resolve(ep Endpoint) (id, column string, ok bool) {
	if ep.Structured {
		id = lineageNodeID(ep.Domain, ep.Table)
		_, ok = b.index[id]
		return id, ep.Column, ok
	}

	segments := strings.Split(ep.Dotted, ".")
	if len(segments) >= 2 {
		id = segments[0] + "." + segments[1]
		if len(segments) >= 3 {
			column = segments[2]
		}
	} else {
		id = segments[0]
	}
	if _, known := b.index[id]; known {
		return id, column, true
	}
	if len(segments) >= 2 {
		if _, known := b.index[segments[0]]; known {
			return segments[0], segments[1], true
		}
	}
	return "", "", false
}
