package diagram

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// =============================================================================
// Document - Builder Input
// =============================================================================

// Document is a decoded relation or lineage document.
//
// Entities and relations keep their input order. Fields that fail to decode
// leave the entry in place but invalid; [Build] skips invalid entries.
type Document struct {
	Entities  []Entity
	Relations []Relation
}

// Entity is one table, view, task or intermediate table in a document.
type Entity struct {
	// ID is the explicit "id", or "<domain>.<table>" / "<table>" when the
	// entry only names a table.
	ID     string
	Label  string
	Domain string
	Table  string
	IsTask bool

	Columns []Column

	// Raw is the undecoded entry, kept for attribute lookups.
	Raw json.RawMessage
}

// Valid reports whether the entity can become a node.
func (e Entity) Valid() bool {
	return e.ID != "" && e.Label != ""
}

// Relation is one edge candidate.
type Relation struct {
	Source Endpoint
	Target Endpoint
	// Label is the relation type ("FK") or lineage expression.
	Label string
}

// Valid reports whether both endpoints decoded.
func (r Relation) Valid() bool {
	return r.Source.Valid() && r.Target.Valid()
}

// Endpoint references a node and optionally one of its columns, either as a
// dotted string ("domain.table.column") or as a structured object.
type Endpoint struct {
	Dotted string

	Structured bool
	Domain     string
	Table      string
	Column     string
}

// Valid reports whether the endpoint carries a reference.
func (e Endpoint) Valid() bool {
	if e.Structured {
		return e.Table != ""
	}
	return e.Dotted != ""
}

// String renders the endpoint for logs.
func (e Endpoint) String() string {
	if !e.Structured {
		return e.Dotted
	}
	id := lineageNodeID(e.Domain, e.Table)
	if e.Column != "" {
		return id + "." + e.Column
	}
	return id
}

// =============================================================================
// Decoding
// =============================================================================

// ParseDocument decodes a relation or lineage document.
//
// Only a top-level value that is not a JSON object is an error. Entities are
// read from "items" and, when absent, from "tables". Individual entries with
// the wrong shape are kept as invalid entries rather than failing the parse.
func ParseDocument(data []byte) (Document, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return Document{}, fmt.Errorf("decode document: %w", err)
	}
	if top == nil {
		return Document{}, fmt.Errorf("decode document: not an object")
	}

	var doc Document
	entries := rawArray(top["items"])
	if entries == nil {
		entries = rawArray(top["tables"])
	}
	for _, raw := range entries {
		doc.Entities = append(doc.Entities, decodeEntity(raw))
	}
	for _, raw := range rawArray(top["relations"]) {
		doc.Relations = append(doc.Relations, decodeRelation(raw))
	}
	return doc, nil
}

func decodeEntity(raw json.RawMessage) Entity {
	obj := rawObject(raw)
	if obj == nil {
		return Entity{}
	}

	e := Entity{Raw: raw}
	id, _ := rawString(obj["id"])
	table, _ := rawString(obj["table"])
	domain, _ := rawString(obj["domain"])
	label, _ := rawString(obj["label"])

	if id == "" {
		id = lineageNodeID(domain, table)
	}
	if label == "" {
		label = table
	}
	if id == "" || label == "" {
		return Entity{Raw: raw}
	}

	// Relation documents only carry the dotted id; recover domain and table.
	segments := strings.Split(id, ".")
	if domain == "" && len(segments) >= 2 {
		domain = segments[0]
	}
	if table == "" {
		if len(segments) >= 2 && segments[1] != "" {
			table = segments[1]
		} else {
			table = label
		}
	}

	e.ID, e.Label, e.Domain, e.Table = id, label, domain, table
	e.IsTask, _ = rawBool(obj["isTask"])
	for _, c := range rawArray(obj["columns"]) {
		if col, ok := decodeColumn(c); ok {
			e.Columns = append(e.Columns, col)
		}
	}
	return e
}

// decodeColumn accepts a bare column name or a column object.
func decodeColumn(raw json.RawMessage) (Column, bool) {
	if name, ok := rawString(raw); ok {
		name = strings.TrimSpace(name)
		return Column{Name: name}, name != ""
	}
	obj := rawObject(raw)
	if obj == nil {
		return Column{}, false
	}
	name, _ := rawString(obj["name"])
	name = strings.TrimSpace(name)
	if name == "" {
		return Column{}, false
	}
	col := Column{Name: name}
	col.ColumnType, _ = rawString(obj["columnType"])
	col.PrimaryKey, _ = rawBool(obj["primaryKey"])
	col.ForeignKey, _ = rawBool(obj["foreignKey"])
	return col, true
}

func decodeRelation(raw json.RawMessage) Relation {
	obj := rawObject(raw)
	if obj == nil {
		return Relation{}
	}
	rel := Relation{
		Source: decodeEndpoint(firstPresent(obj, "source", "from")),
		Target: decodeEndpoint(firstPresent(obj, "target", "to")),
	}
	if label, ok := rawString(obj["relationType"]); ok {
		rel.Label = label
	} else {
		rel.Label, _ = rawString(obj["expression"])
	}
	return rel
}

func decodeEndpoint(raw json.RawMessage) Endpoint {
	if s, ok := rawString(raw); ok {
		return Endpoint{Dotted: s}
	}
	obj := rawObject(raw)
	if obj == nil {
		return Endpoint{}
	}
	table, ok := rawString(obj["table"])
	if !ok {
		return Endpoint{}
	}
	ep := Endpoint{Structured: true, Table: table}
	ep.Domain, _ = rawString(obj["domain"])
	ep.Column, _ = rawString(obj["column"])
	return ep
}

// =============================================================================
// Raw JSON Helpers
// =============================================================================

func firstPresent(obj map[string]json.RawMessage, keys ...string) json.RawMessage {
	for _, k := range keys {
		if v, ok := obj[k]; ok && !isNull(v) {
			return v
		}
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func rawArray(raw json.RawMessage) []json.RawMessage {
	if isNull(raw) {
		return nil
	}
	var arr []json.RawMessage
	if json.Unmarshal(raw, &arr) != nil {
		return nil
	}
	return arr
}

func rawObject(raw json.RawMessage) map[string]json.RawMessage {
	if isNull(raw) {
		return nil
	}
	var obj map[string]json.RawMessage
	if json.Unmarshal(raw, &obj) != nil {
		return nil
	}
	return obj
}

func rawString(raw json.RawMessage) (string, bool) {
	if isNull(raw) {
		return "", false
	}
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return "", false
	}
	return s, true
}

// rawBool is true only for a literal JSON true.
func rawBool(raw json.RawMessage) (bool, bool) {
	if isNull(raw) {
		return false, false
	}
	var b bool
	if json.Unmarshal(raw, &b) != nil {
		return false, false
	}
	return b, true
}
