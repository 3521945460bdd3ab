package driver

import (
	"fmt"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
	"github.com/soundprediction/verity/pkg/types"
)

// TypeConversionError represents an error during type conversion from database types.
type TypeConversionError struct {
	Expected string
	Actual   string
	Field    string
}

func (e *TypeConversionError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("type conversion error for field %q: expected %s, got %s", e.Field, e.Expected, e.Actual)
	}
	return fmt.Sprintf("type conversion error: expected %s, got %s", e.Expected, e.Actual)
}

// NewTypeConversionError creates a new TypeConversionError.
func NewTypeConversionError(expected, actual, field string) *TypeConversionError {
	return &TypeConversionError{
		Expected: expected,
		Actual:   actual,
		Field:    field,
	}
}

// ToRawNode flattens a driver node into its identity, labels and
// converted properties.
func ToRawNode(node dbtype.Node) *types.RawNode {
	props := make(map[string]any, len(node.Props))
	for k, v := range node.Props {
		props[k] = ConvertValue(v)
	}
	labels := append([]string(nil), node.Labels...)
	return &types.RawNode{
		Identity:   node.ElementId,
		Labels:     labels,
		Properties: props,
	}
}

// ConvertValue replaces driver-specific values with plain Go values.
// Nodes become *types.RawNode and relationships become a property map with
// a "type" entry. Lists and maps are converted element-wise.
func ConvertValue(v any) any {
	switch val := v.(type) {
	case dbtype.Node:
		return ToRawNode(val)
	case dbtype.Relationship:
		m := make(map[string]any, len(val.Props)+1)
		for k, p := range val.Props {
			m[k] = ConvertValue(p)
		}
		m["type"] = val.Type
		return m
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = ConvertValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = ConvertValue(item)
		}
		return out
	default:
		return v
	}
}

// RecordToRaw converts a driver record, keeping column order.
func RecordToRaw(rec *db.Record) types.RawRecord {
	if rec == nil {
		return types.NewRawRecord(nil, nil)
	}
	values := make([]any, len(rec.Values))
	for i, v := range rec.Values {
		values[i] = ConvertValue(v)
	}
	return types.NewRawRecord(rec.Keys, values)
}
