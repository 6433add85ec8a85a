package prefs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/starlake-ai/starlake-site-builder/pkg/errors"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		view View
		tab  string
		code errors.Code
	}{
		{ViewLoadDetails, "general", ""},
		{ViewLoadDetails, "relations", ""},
		{ViewLoadDetails, "sql", errors.ErrCodeInvalidTab},
		{ViewTransformDetails, "sql", ""},
		{ViewTransformDetails, "lineage", ""},
		{ViewTransformDetails, "relations", errors.ErrCodeInvalidTab},
		{"other-tab", "general", errors.ErrCodeInvalidView},
	}
	for _, tt := range tests {
		err := Validate(tt.view, tt.tab)
		if tt.code == "" {
			if err != nil {
				t.Errorf("Validate(%s, %s) = %v", tt.view, tt.tab, err)
			}
			continue
		}
		if !errors.Is(err, tt.code) {
			t.Errorf("Validate(%s, %s) = %v, want %s", tt.view, tt.tab, err, tt.code)
		}
	}
}

func TestNewRejectsBadClient(t *testing.T) {
	for _, c := range []string{"", "../etc", "a/b"} {
		if _, err := New(c, ViewLoadDetails, "general"); !errors.Is(err, errors.ErrCodeInvalidName) {
			t.Errorf("New(%q) = %v", c, err)
		}
	}
}

func TestTabsIsACopy(t *testing.T) {
	tabs := Tabs(ViewLoadDetails)
	tabs[0] = "changed"
	if Tabs(ViewLoadDetails)[0] != "general" {
		t.Error("Tabs should not expose internal state")
	}
	if Tabs("nope") != nil {
		t.Error("unknown view should have no tabs")
	}
}

func storeContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	if p, err := s.Get(ctx, "c1", ViewLoadDetails); err != nil || p != nil {
		t.Fatalf("Get(empty) = %v, %v", p, err)
	}
	if got := Tab(ctx, s, "c1", ViewLoadDetails); got != DefaultTab {
		t.Errorf("Tab(empty) = %q", got)
	}

	p, err := New("c1", ViewLoadDetails, "relations")
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Set(ctx, p); err != nil {
		t.Fatalf("Set: %v", err)
	}
	other, _ := New("c1", ViewTransformDetails, "sql")
	if err := s.Set(ctx, other); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if got := Tab(ctx, s, "c1", ViewLoadDetails); got != "relations" {
		t.Errorf("Tab = %q, want relations", got)
	}
	if got := Tab(ctx, s, "c1", ViewTransformDetails); got != "sql" {
		t.Errorf("Tab = %q, want sql", got)
	}
	if got := Tab(ctx, s, "c2", ViewLoadDetails); got != DefaultTab {
		t.Errorf("other client Tab = %q", got)
	}

	replaced, _ := New("c1", ViewLoadDetails, "attributes")
	if err := s.Set(ctx, replaced); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := Tab(ctx, s, "c1", ViewLoadDetails); got != "attributes" {
		t.Errorf("Tab after replace = %q", got)
	}

	if err := s.Delete(ctx, "c1", ViewLoadDetails); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, "c1", ViewLoadDetails); err != nil {
		t.Fatalf("Delete twice: %v", err)
	}
	if p, _ := s.Get(ctx, "c1", ViewLoadDetails); p != nil {
		t.Errorf("Get after delete = %+v", p)
	}
	if got := Tab(ctx, s, "c1", ViewTransformDetails); got != "sql" {
		t.Errorf("unrelated view lost: %q", got)
	}
}

func TestMemoryStore(t *testing.T) {
	storeContract(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatal(err)
	}
	if s.Path() != dir {
		t.Errorf("Path = %q", s.Path())
	}
	storeContract(t, s)

	if _, err := os.Stat(filepath.Join(dir, "c1.json")); err != nil {
		t.Errorf("client file missing: %v", err)
	}
	s.Delete(context.Background(), "c1", ViewTransformDetails)
	if _, err := os.Stat(filepath.Join(dir, "c1.json")); !os.IsNotExist(err) {
		t.Errorf("empty client file should be removed: %v", err)
	}
}

func TestFileStoreRejectsTraversal(t *testing.T) {
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(context.Background(), "../x", ViewLoadDetails); err == nil {
		t.Error("Get should reject traversal")
	}
	if err := s.Set(context.Background(), &Pref{Client: "..", View: ViewLoadDetails, Tab: "general"}); err == nil {
		t.Error("Set should reject traversal")
	}
}

func TestFileStoreCorrupt(t *testing.T) {
	dir := t.TempDir()
	s, _ := NewFileStore(dir)
	os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0600)

	if _, err := s.Get(context.Background(), "bad", ViewLoadDetails); err == nil {
		t.Error("Get should report corrupt file")
	}
	if got := Tab(context.Background(), s, "bad", ViewLoadDetails); got != DefaultTab {
		t.Errorf("Tab on corrupt file = %q", got)
	}
}

func TestTabIgnoresInvalidStoredValue(t *testing.T) {
	s := NewMemoryStore()
	s.Set(context.Background(), &Pref{Client: "c", View: ViewLoadDetails, Tab: "sql"})
	if got := Tab(context.Background(), s, "c", ViewLoadDetails); got != DefaultTab {
		t.Errorf("Tab = %q, want %q", got, DefaultTab)
	}
}
