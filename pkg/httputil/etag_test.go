package httputil

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestETag(t *testing.T) {
	tests := []struct {
		hash string
		want string
	}{
		{"", ""},
		{"abc", `"abc"`},
		{"0123456789abcdef0123", `"0123456789abcdef"`},
	}
	for _, tt := range tests {
		if got := ETag(tt.hash); got != tt.want {
			t.Errorf("ETag(%q) = %q, want %q", tt.hash, got, tt.want)
		}
	}
}

func TestNotModified(t *testing.T) {
	const etag = `"0123456789abcdef"`

	tests := []struct {
		name        string
		method      string
		ifNoneMatch string
		want        bool
	}{
		{"no header", http.MethodGet, "", false},
		{"match", http.MethodGet, etag, true},
		{"weak match", http.MethodGet, `W/` + etag, true},
		{"list", http.MethodGet, `"other", ` + etag, true},
		{"wildcard", http.MethodHead, "*", true},
		{"mismatch", http.MethodGet, `"other"`, false},
		{"put", http.MethodPut, etag, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, "/", nil)
			if tt.ifNoneMatch != "" {
				r.Header.Set("If-None-Match", tt.ifNoneMatch)
			}
			w := httptest.NewRecorder()

			if got := NotModified(w, r, etag); got != tt.want {
				t.Fatalf("NotModified() = %v, want %v", got, tt.want)
			}
			if w.Header().Get("ETag") != etag {
				t.Errorf("ETag header = %q", w.Header().Get("ETag"))
			}
			if tt.want && w.Code != http.StatusNotModified {
				t.Errorf("status = %d, want 304", w.Code)
			}
		})
	}
}

func TestNotModifiedWithoutTag(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("If-None-Match", "*")
	w := httptest.NewRecorder()
	if NotModified(w, r, "") {
		t.Error("empty etag should never match")
	}
	if w.Header().Get("ETag") != "" {
		t.Error("empty etag should not set a header")
	}
}
