// Package search builds the site-wide search index and ranks queries
// against it.
//
// The index holds one record per load domain, table, transform domain and
// task. Ranking is a plain substring scorer:
//
//	exact title match         +1000
//	title starts with query    +500
//	title contains query       +250   (only the best of the three applies)
//	per query word in title    +100
//	per word in description     +50
//	per word in breadcrumb      +25
//	domain record that scored   +50
//
// Matching is case-insensitive. Zero-score records are dropped; ties keep
// index order; at most [MaxResults] records are returned.
package search

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starlake-ai/starlake-site-builder/pkg/metadata"
	"github.com/starlake-ai/starlake-site-builder/pkg/observability"
)

// MaxResults caps the number of ranked results.
const MaxResults = 10

// Type classifies a record.
type Type string

// Record types.
const (
	TypeDomain          Type = "domain"
	TypeTable           Type = "table"
	TypeTransformDomain Type = "transform-domain"
	TypeTask            Type = "task"
)

// Category groups records by site section.
type Category string

// Categories.
const (
	CategoryLoad      Category = "Load"
	CategoryTransform Category = "Transform"
)

// Record is one searchable page.
type Record struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	URL         string   `json:"url"`
	Type        Type     `json:"type"`
	Category    Category `json:"category"`
	Breadcrumb  string   `json:"breadcrumb"`
}

// isDomain reports whether the record gets the domain boost.
func (r Record) isDomain() bool {
	return r.Type == TypeDomain || r.Type == TypeTransformDomain
}

// Source lists the catalog content to index.
type Source interface {
	LoadDomains() []metadata.DomainInfo
	TransformDomains() []metadata.TransformDomainInfo
}

// =============================================================================
// Index
// =============================================================================

// BuildIndex reads both catalog sections concurrently and returns the load
// records followed by the transform records.
func BuildIndex(ctx context.Context, src Source) ([]Record, error) {
	start := time.Now()

	var (
		load      []metadata.DomainInfo
		transform []metadata.TransformDomainInfo
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		load = src.LoadDomains()
		return ctx.Err()
	})
	g.Go(func() error {
		transform = src.TransformDomains()
		return ctx.Err()
	})
	if err := g.Wait(); err != nil {
		observability.Search().OnIndexBuild(ctx, 0, time.Since(start), err)
		return nil, fmt.Errorf("build search index: %w", err)
	}

	records := IndexRecords(load, transform)
	observability.Search().OnIndexBuild(ctx, len(records), time.Since(start), nil)
	return records, nil
}

// IndexRecords maps domains, tables, transform domains and tasks to records
// in catalog order.
func IndexRecords(load []metadata.DomainInfo, transform []metadata.TransformDomainInfo) []Record {
	records := []Record{}
	for _, d := range load {
		records = append(records, Record{
			ID:          "load-domain-" + d.Name,
			Title:       d.Name,
			Description: fmt.Sprintf("Load domain with %s", plural(len(d.Tables), "table")),
			URL:         "/load/" + d.Name,
			Type:        TypeDomain,
			Category:    CategoryLoad,
			Breadcrumb:  "Load / " + d.Name,
		})
		for _, t := range d.Tables {
			records = append(records, Record{
				ID:          "load-table-" + d.Name + "-" + t.Name,
				Title:       t.Name,
				Description: "Table in " + d.Name + " domain",
				URL:         "/load/" + d.Name + "/" + t.Name,
				Type:        TypeTable,
				Category:    CategoryLoad,
				Breadcrumb:  "Load / " + d.Name + " / " + t.Name,
			})
		}
	}
	for _, d := range transform {
		records = append(records, Record{
			ID:          "transform-domain-" + d.Name,
			Title:       d.Name,
			Description: fmt.Sprintf("Transform domain with %s", plural(len(d.Tasks), "task")),
			URL:         "/transform/" + d.Name,
			Type:        TypeTransformDomain,
			Category:    CategoryTransform,
			Breadcrumb:  "Transform / " + d.Name,
		})
		for _, t := range d.Tasks {
			records = append(records, Record{
				ID:          "transform-task-" + d.Name + "-" + t.Name,
				Title:       t.Name,
				Description: "Task in " + d.Name + " domain",
				URL:         "/transform/" + d.Name + "/" + t.Name,
				Type:        TypeTask,
				Category:    CategoryTransform,
				Breadcrumb:  "Transform / " + d.Name + " / " + t.Name,
			})
		}
	}
	return records
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// =============================================================================
// Ranking
// =============================================================================

// Hit is a scored record.
type Hit struct {
	Record
	Score int `json:"score"`
}

// Score computes the relevance of r for an already lowered, trimmed query
// and its words.
func Score(r Record, query string, words []string) int {
	title := strings.ToLower(r.Title)
	desc := strings.ToLower(r.Description)
	crumb := strings.ToLower(r.Breadcrumb)

	score := 0
	switch {
	case title == query:
		score += 1000
	case strings.HasPrefix(title, query):
		score += 500
	case strings.Contains(title, query):
		score += 250
	}
	for _, w := range words {
		if strings.Contains(title, w) {
			score += 100
		}
		if strings.Contains(desc, w) {
			score += 50
		}
		if strings.Contains(crumb, w) {
			score += 25
		}
	}
	if score > 0 && r.isDomain() {
		score += 50
	}
	return score
}

// Rank scores every record and returns up to limit hits, best first.
// A blank query yields no hits. limit <= 0 means [MaxResults].
func Rank(query string, records []Record, limit int) []Hit {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return []Hit{}
	}
	if limit <= 0 {
		limit = MaxResults
	}
	words := strings.Fields(q)

	hits := []Hit{}
	for _, r := range records {
		if s := Score(r, q, words); s > 0 {
			hits = append(hits, Hit{Record: r, Score: s})
		}
	}
	sort.SliceStable(hits, func(i, j int) bool {
		return hits[i].Score > hits[j].Score
	})
	if len(hits) > limit {
		hits = hits[:limit]
	}
	return hits
}

// Search returns the top [MaxResults] records for query.
func Search(query string, records []Record) []Record {
	hits := Rank(query, records, MaxResults)
	out := make([]Record, len(hits))
	for i, h := range hits {
		out[i] = h.Record
	}
	return out
}
