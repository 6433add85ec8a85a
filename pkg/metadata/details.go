package metadata

import (
	"encoding/json"
	"strings"
)

// TableDetails is the general tab of a table page.
type TableDetails struct {
	Domain     string        `json:"domain"`
	Name       string        `json:"name"`
	Pattern    string        `json:"pattern,omitempty"`
	PrimaryKey string        `json:"primaryKey,omitempty"`
	Tags       string        `json:"tags,omitempty"`
	Comment    string        `json:"comment,omitempty"`
	Attributes AttributeGrid `json:"attributes"`
}

// TaskDetails is the general tab of a task page.
type TaskDetails struct {
	Domain        string        `json:"domain"`
	Name          string        `json:"name"`
	WriteStrategy string        `json:"writeStrategy,omitempty"`
	Tags          string        `json:"tags,omitempty"`
	Comment       string        `json:"comment,omitempty"`
	SQL           string        `json:"sql,omitempty"`
	Attributes    AttributeGrid `json:"attributes"`
}

// NewTableDetails extracts the displayed fields of a table definition.
func NewTableDetails(domain, name string, def Object) TableDetails {
	pattern, _ := def.First("pattern", "Pattern").(string)
	comment, _ := def.First("comment", "Comment").(string)
	return TableDetails{
		Domain:     domain,
		Name:       name,
		Pattern:    pattern,
		PrimaryKey: joinList(def.First("primaryKey", "primary_key", "pk")),
		Tags:       joinList(def.Value("tags")),
		Comment:    comment,
		Attributes: NewAttributeGrid(Attributes(def)),
	}
}

// NewTaskDetails extracts the displayed fields of a task definition.
func NewTaskDetails(domain, name string, def Object) TaskDetails {
	comment, _ := def.First("comment", "Comment").(string)
	return TaskDetails{
		Domain:        domain,
		Name:          name,
		WriteStrategy: WriteStrategy(def.First("writeStrategy", "write_strategy", "strategy")),
		Tags:          joinList(def.Value("tags")),
		Comment:       comment,
		SQL:           TaskSQL(def),
		Attributes:    NewAttributeGrid(Attributes(def)),
	}
}

// Attributes returns the object entries of the definition's "attributes".
func Attributes(def Object) []Object {
	return Objects(def.Value("attributes"))
}

// AttributeMaps converts attributes to plain maps for key-flag lookups.
func AttributeMaps(attrs []Object) []map[string]any {
	out := make([]map[string]any, len(attrs))
	for i, a := range attrs {
		out[i] = a.Map()
	}
	return out
}

// WriteStrategy renders a write strategy: a string as-is, an object by its
// string "type", anything else as compact JSON.
func WriteStrategy(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case Object:
		if t, ok := x.Value("type").(string); ok {
			return t
		}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return FormatCellValue(v)
	}
	return string(data)
}

// TaskSQL returns the first string among sql, SQL, query and statement.
func TaskSQL(def Object) string {
	for _, k := range []string{"sql", "SQL", "query", "statement"} {
		if s, ok := def.Value(k).(string); ok {
			return s
		}
	}
	return ""
}

// joinList renders a non-empty array joined by ", ", or a string as-is.
func joinList(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case []any:
		parts := make([]string, 0, len(x))
		for _, item := range x {
			parts = append(parts, FormatCellValue(item))
		}
		return strings.Join(parts, ", ")
	}
	return ""
}
