// Package cache stores built diagrams and rendered artifacts.
//
// Three backends implement [Cache]:
//
//   - [FileCache]: JSON entry files under a directory, for the CLI
//   - [RedisCache]: shared cache for multiple server instances
//   - [NullCache]: disables caching
//
// Keys come from a [Keyer]. Diagram keys embed a hash of the source document
// so edits to the metadata directory never serve stale diagrams, even before
// an entry's TTL runs out.
package cache

import (
	"context"
	"time"
)

// Default TTLs.
const (
	TTLDiagram  = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key/value store with per-entry TTL.
//
// Get reports a miss as (nil, false, nil); an error means the backend failed.
// A TTL of zero stores the entry without expiry.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Clearer is implemented by backends that can drop all their entries.
type Clearer interface {
	Clear(ctx context.Context) error
}

// =============================================================================
// Keys
// =============================================================================

// DiagramKeyOpts identifies one built diagram.
type DiagramKeyOpts struct {
	// Kind is "relations" or "lineage".
	Kind string `json:"kind"`
	// Domain and Name locate the table or task.
	Domain string `json:"domain"`
	Name   string `json:"name"`
}

// ArtifactKeyOpts identifies one rendering of a diagram.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
}

// Keyer derives cache keys.
type Keyer interface {
	// DiagramKey keys a built diagram by its location and source hash.
	DiagramKey(sourceHash string, opts DiagramKeyOpts) string
	// ArtifactKey keys a rendered diagram by the diagram hash.
	ArtifactKey(diagramHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes key components into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DiagramKey returns "diagram:<sha256>".
func (DefaultKeyer) DiagramKey(sourceHash string, opts DiagramKeyOpts) string {
	return hashKey("diagram", sourceHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(diagramHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", diagramHash, opts)
}

var _ Keyer = DefaultKeyer{}
