package httputil

import (
	"net/http"
	"strings"
)

// etagLength is the number of hash characters kept in an entity tag.
const etagLength = 16

// CacheControl makes clients revalidate every time while still allowing
// them to keep a copy.
const CacheControl = "no-cache"

// ETag returns a strong entity tag for a content hash. An empty hash has no
// tag.
func ETag(hash string) string {
	if hash == "" {
		return ""
	}
	if len(hash) > etagLength {
		hash = hash[:etagLength]
	}
	return `"` + hash + `"`
}

// NotModified sets the ETag and Cache-Control headers and, when the request
// already holds etag, writes 304 and returns true. Only GET and HEAD are
// answered with 304.
func NotModified(w http.ResponseWriter, r *http.Request, etag string) bool {
	if etag == "" {
		return false
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Cache-Control", CacheControl)

	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		return false
	}
	if !matches(r.Header.Get("If-None-Match"), etag) {
		return false
	}
	w.WriteHeader(http.StatusNotModified)
	return true
}

// matches reports whether an If-None-Match header lists etag, comparing
// weakly as RFC 9110 requires for this header.
func matches(header, etag string) bool {
	if header == "" {
		return false
	}
	want := strings.TrimPrefix(etag, "W/")
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == want {
			return true
		}
	}
	return false
}
