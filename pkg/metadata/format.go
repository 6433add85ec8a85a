package metadata

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FormatCellValue renders a JSON value for a grid cell: nil is empty,
// strings and numbers print as-is, booleans as true/false and anything else
// as compact JSON.
func FormatCellValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	case int:
		return strconv.Itoa(x)
	case bool:
		return strconv.FormatBool(x)
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}

// FormatAttributeValue renders one attribute field. Type fields get a
// trailing " [ ]" when the attribute is an array.
func FormatAttributeValue(key string, attr Object) string {
	value := FormatCellValue(attr.Value(key))
	if key == "type" || key == "columnType" {
		if attr.Value("array") == true || attr.Value("Array") == true {
			return value + " [ ]"
		}
	}
	return value
}

var excludedAttributeKeys = map[string]bool{
	"foreignkey":  true,
	"foreign_key": true,
	"description": true,
}

// AttributeKeys orders the union of attribute keys for a grid.
//
// Keys keep first-seen order, except that foreign-key and description keys
// are dropped, the array flag moves right after the type key (or first when
// there is none) and comment goes last. Matching is case-insensitive.
func AttributeKeys(attributes []Object) []string {
	if len(attributes) == 0 {
		return []string{}
	}

	seen := make(map[string]bool)
	var rest []string
	var typeKey, arrayKey, commentKey string
	for _, attr := range attributes {
		for _, k := range attr.Keys() {
			if seen[k] {
				continue
			}
			seen[k] = true
			lower := strings.ToLower(k)
			switch {
			case excludedAttributeKeys[lower]:
			case lower == "array" && arrayKey == "":
				arrayKey = k
			case lower == "comment" && commentKey == "":
				commentKey = k
			default:
				if typeKey == "" && (lower == "type" || lower == "columntype") {
					typeKey = k
				}
				rest = append(rest, k)
			}
		}
	}

	out := make([]string, 0, len(rest)+2)
	if arrayKey != "" && typeKey == "" {
		out = append(out, arrayKey)
	}
	for _, k := range rest {
		out = append(out, k)
		if k == typeKey && arrayKey != "" {
			out = append(out, arrayKey)
		}
	}
	if commentKey != "" {
		out = append(out, commentKey)
	}
	return out
}

// AttributeGrid is a rendered attribute table.
type AttributeGrid struct {
	Keys []string   `json:"keys"`
	Rows [][]string `json:"rows"`
}

// NewAttributeGrid renders attributes with [AttributeKeys] columns.
func NewAttributeGrid(attributes []Object) AttributeGrid {
	grid := AttributeGrid{Keys: AttributeKeys(attributes), Rows: [][]string{}}
	for _, attr := range attributes {
		row := make([]string, len(grid.Keys))
		for i, k := range grid.Keys {
			row[i] = FormatAttributeValue(k, attr)
		}
		grid.Rows = append(grid.Rows, row)
	}
	return grid
}
