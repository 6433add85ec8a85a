// Package metadata reads statically-exported Starlake metadata.
//
// A [Catalog] is bound to two read-only file systems: the load side
// (tables/, table-relations/) and the transform side (tasks/, task-lineage/).
// They are usually the same directory:
//
//	tables/domains.json                              [{"name": "sales"}, ...]
//	tables/<domain>.<table>.json                     table definition
//	table-relations/<domain>.<table>-relations.json  relation document
//	tasks/tasks.json                                 [{"name": "kpi"}, ...]
//	tasks/<domain>.<task>.json                       task definition
//	task-lineage/<domain>.<task>-lineage.json        lineage document
//
// Loading is forgiving. A missing directory, index or unreadable file yields
// an empty result and a warning, never an error; lookups report absence
// with ok=false. Callers decide whether absence means 404 or "nothing to show".
//
// Table and task names come from file names, so a name may itself contain
// dots: "sales.orders.v2.json" is table "orders.v2" of domain "sales".
package metadata
