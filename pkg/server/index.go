package server

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/starlake-ai/starlake-site-builder/pkg/search"
)

// Index caches the search records between catalog changes.
type Index struct {
	build func(ctx context.Context) ([]search.Record, error)
	group singleflight.Group

	mu         sync.RWMutex
	records    []search.Record
	valid      bool
	generation uint64
}

// NewIndex creates an index over src. Nothing is read until first use.
func NewIndex(src search.Source) *Index {
	return &Index{build: func(ctx context.Context) ([]search.Record, error) {
		return search.BuildIndex(ctx, src)
	}}
}

// Records returns the current records, building them if needed.
func (ix *Index) Records(ctx context.Context) ([]search.Record, error) {
	ix.mu.RLock()
	if ix.valid {
		records := ix.records
		ix.mu.RUnlock()
		return records, nil
	}
	ix.mu.RUnlock()

	v, err, _ := ix.group.Do("index", func() (any, error) {
		ix.mu.RLock()
		gen := ix.generation
		ix.mu.RUnlock()

		// One caller going away must not fail the others waiting on it.
		records, err := ix.build(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}

		ix.mu.Lock()
		if ix.generation == gen {
			ix.records = records
			ix.valid = true
		}
		ix.mu.Unlock()
		return records, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]search.Record), nil
}

// Invalidate drops the records; the next query rebuilds them. A build in
// flight when Invalidate is called is not stored.
func (ix *Index) Invalidate() {
	ix.mu.Lock()
	ix.valid = false
	ix.records = nil
	ix.generation++
	ix.mu.Unlock()
	ix.group.Forget("index")
}
