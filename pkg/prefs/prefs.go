// Package prefs stores per-client UI preferences, currently the last
// selected details tab of each page type.
//
// Backends:
//   - [MemoryStore]: in-process, for tests and single-instance servers
//   - [FileStore]: JSON files under a config directory, for the CLI
//   - [MongoStore]: a MongoDB collection, for shared deployments
//
// # Usage
//
//	store := prefs.NewMemoryStore()
//	p, err := prefs.New(clientID, prefs.ViewLoadDetails, "relations")
//	if err != nil {
//	    return err // unknown view or tab
//	}
//	store.Set(ctx, p)
//
//	tab := prefs.Tab(ctx, store, clientID, prefs.ViewLoadDetails) // "relations"
package prefs

import (
	"context"
	"slices"
	"time"

	"github.com/starlake-ai/starlake-site-builder/pkg/errors"
)

// View names a page type whose tab selection is remembered.
type View string

// Views.
const (
	ViewLoadDetails      View = "load-details-tab"
	ViewTransformDetails View = "transform-details-tab"
)

// DefaultTab is shown when nothing is stored.
const DefaultTab = "general"

var viewTabs = map[View][]string{
	ViewLoadDetails:      {"general", "attributes", "relations"},
	ViewTransformDetails: {"general", "attributes", "sql", "lineage"},
}

// Views lists the known views.
func Views() []View {
	return []View{ViewLoadDetails, ViewTransformDetails}
}

// Tabs returns the tabs a view accepts, or nil for an unknown view.
func Tabs(view View) []string {
	return slices.Clone(viewTabs[view])
}

// Pref is one stored selection.
type Pref struct {
	Client    string    `json:"client" bson:"client"`
	View      View      `json:"view" bson:"view"`
	Tab       string    `json:"tab" bson:"tab"`
	UpdatedAt time.Time `json:"updated_at" bson:"updated_at"`
}

// New validates a selection and stamps it with the current time.
func New(client string, view View, tab string) (*Pref, error) {
	if err := ValidateClient(client); err != nil {
		return nil, err
	}
	if err := Validate(view, tab); err != nil {
		return nil, err
	}
	return &Pref{Client: client, View: view, Tab: tab, UpdatedAt: time.Now()}, nil
}

// Validate checks that view is known and tab belongs to it.
func Validate(view View, tab string) error {
	tabs, ok := viewTabs[view]
	if !ok {
		return errors.New(errors.ErrCodeInvalidView, "unknown view: %s", view)
	}
	if !slices.Contains(tabs, tab) {
		return errors.New(errors.ErrCodeInvalidTab, "unknown tab %q for view %s", tab, view)
	}
	return nil
}

// ValidateClient checks a client id. Ids become file names in [FileStore].
func ValidateClient(client string) error {
	return errors.ValidateName("client", client)
}

// Store is the interface for preference backends.
type Store interface {
	// Get returns the stored selection, or nil, nil if there is none.
	Get(ctx context.Context, client string, view View) (*Pref, error)

	// Set stores a selection, replacing any previous one.
	Set(ctx context.Context, p *Pref) error

	// Delete removes a selection. Deleting a missing one is not an error.
	Delete(ctx context.Context, client string, view View) error

	// Close releases backend resources.
	Close() error
}

// Tab returns the remembered tab, or [DefaultTab] when nothing valid is
// stored or the store fails.
func Tab(ctx context.Context, s Store, client string, view View) string {
	p, err := s.Get(ctx, client, view)
	if err != nil || p == nil || Validate(view, p.Tab) != nil {
		return DefaultTab
	}
	return p.Tab
}
