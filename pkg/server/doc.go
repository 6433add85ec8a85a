// Package server exposes the metadata catalog, search, diagrams and site
// documents over HTTP.
//
// # Routes
//
//	GET  /api/search?q=                             ranked search results (at most 10)
//	GET  /api/load                                  load domains with their tables
//	GET  /api/load/{domain}                         domain page: breadcrumbs, prev/next
//	GET  /api/load/{domain}/{table}                 table details and relations diagram
//	GET  /api/load/{domain}/{table}/relations.{fmt} relations diagram as json, dot, svg, png, pdf
//	GET  /api/transform                             transform domains with their tasks
//	GET  /api/transform/{domain}                    domain page
//	GET  /api/transform/{domain}/{task}             task details and lineage diagram
//	GET  /api/transform/{domain}/{task}/lineage.{fmt}
//	GET  /api/nav/sidebar?path=                     sidebar tree with the active entry
//	GET  /api/prefs/{view}                          remembered details tab
//	PUT  /api/prefs/{view}                          {"tab": "..."}
//	GET  /sitemap.xml
//	GET  /robots.txt
//	GET  /healthz
//
// Unknown domains, tables and tasks answer 404; names that could escape the
// metadata directory answer 400. A table or task without a relations or
// lineage document answers an empty diagram.
//
// # Search Index
//
// The index is built on first use and shared by all requests. Concurrent
// rebuilds collapse into one through singleflight. A [Watcher] on the
// metadata directories invalidates it whenever a file changes.
//
// # Clients
//
// Preferences are keyed by a random client id kept in the "sl_client" cookie.
package server
