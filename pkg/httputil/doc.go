// Package httputil provides HTTP helpers shared by the documentation server.
//
// # Conditional Requests
//
// Diagrams and the sitemap are derived from metadata files, so their content
// hash makes a stable entity tag. [ETag] formats one and [NotModified]
// answers a matching If-None-Match with 304:
//
//	etag := httputil.ETag(result.GraphHash)
//	if httputil.NotModified(w, r, etag) {
//	    return
//	}
//	w.Write(body)
package httputil
