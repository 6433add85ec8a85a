package prefs

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
)

// Requires a running MongoDB; set STARLAKE_DOCS_MONGO_URI to enable.
func TestMongoStore(t *testing.T) {
	uri := os.Getenv("STARLAKE_DOCS_MONGO_URI")
	if uri == "" {
		t.Skip("STARLAKE_DOCS_MONGO_URI not set")
	}
	ctx := context.Background()
	s, err := NewMongoStore(ctx, MongoConfig{
		URI:        uri,
		Database:   "starlake_docs_test",
		Collection: "prefs_" + uuid.NewString()[:8],
	})
	if err != nil {
		t.Fatalf("NewMongoStore: %v", err)
	}
	t.Cleanup(func() {
		s.coll.Drop(context.Background())
		s.Close()
	})
	storeContract(t, s)
}
