// Package diagram turns relation and lineage documents into node/edge lists
// for an explicitly-positioned schema diagram.
//
// Two document shapes are exported by Starlake and both decode into the same
// [Document]:
//
//	Relations (table-relations/<domain>.<table>-relations.json):
//	  {"items": [{"id": "sales.orders", "label": "orders", "columns": [...]}],
//	   "relations": [{"source": "sales.orders.customer_id",
//	                  "target": "sales.customers.id", "relationType": "FK"}]}
//
//	Lineage (task-lineage/<domain>.<task>-lineage.json):
//	  {"tables": [{"domain": "sales", "table": "orders", "columns": ["id"]}],
//	   "relations": [{"from": {"domain": "sales", "table": "orders", "column": "id"},
//	                  "to": {"table": "cte1", "column": "order_id"},
//	                  "expression": "o.id"}]}
//
// # Building
//
// [Build] computes the abstract graph: one [Node] per entity, one [Edge] per
// relation whose endpoints resolve to known nodes, and the column handles each
// edge may bind to. [Place] assigns grid coordinates as a separate step.
//
// Building is best-effort. Entities without an id or label, columns without a
// name and relations with malformed or unknown endpoints are skipped and only
// counted in [Stats]; they never cause an error.
//
// # Handles
//
// A handle is a column-level connection point. Each column exposes four:
//
//	s-r:<column>  source, right side
//	s-l:<column>  source, left side
//	t-l:<column>  target, left side
//	t-r:<column>  target, right side
//
// Edges between nodes in discovery order (source listed before or with the
// target) bind s-r/t-l; edges pointing back bind s-l/t-r, so edges keep
// flowing in one screen direction.
package diagram
