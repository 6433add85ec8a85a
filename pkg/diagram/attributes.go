package diagram

import "strings"

var (
	attributeNameKeys = []string{"name", "Name", "column", "column_name"}
	primaryKeyKeys    = []string{"primaryKey", "primary_key", "pk"}
	foreignKeyKeys    = []string{"foreignKey", "foreign_key", "fk"}
)

// AttributeFlags indexes key flags of task attributes by lowercased name.
// Attributes without a name are ignored. A flag is set only by a literal true.
func AttributeFlags(attributes []map[string]any) map[string]KeyFlags {
	out := make(map[string]KeyFlags, len(attributes))
	for _, attr := range attributes {
		name := firstString(attr, attributeNameKeys...)
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		out[name] = KeyFlags{
			PrimaryKey: anyTrue(attr, primaryKeyKeys...),
			ForeignKey: anyTrue(attr, foreignKeyKeys...),
		}
	}
	return out
}

func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func anyTrue(m map[string]any, keys ...string) bool {
	for _, k := range keys {
		if b, ok := m[k].(bool); ok && b {
			return true
		}
	}
	return false
}
