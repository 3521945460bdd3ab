package driver

import (
	"testing"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j/db"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j/dbtype"
	"github.com/soundprediction/verity/pkg/types"
)

func TestTypeConversionError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *TypeConversionError
		expected string
	}{
		{
			name: "with field",
			err: &TypeConversionError{
				Expected: "string",
				Actual:   "int64",
				Field:    "id",
			},
			expected: `type conversion error for field "id": expected string, got int64`,
		},
		{
			name: "without field",
			err: &TypeConversionError{
				Expected: "dbtype.Node",
				Actual:   "nil",
				Field:    "",
			},
			expected: "type conversion error: expected dbtype.Node, got nil",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestToRawNode(t *testing.T) {
	t.Parallel()

	node := dbtype.Node{
		ElementId: "4:abc:7",
		Labels:    []string{"Scrap"},
		Props: map[string]any{
			"id":       "s-7",
			"content":  "fog over the estuary",
			"tags":     []any{"fog", "water"},
			"metadata": `{"tone":"quiet"}`,
		},
	}

	raw := ToRawNode(node)
	if raw.Identity != "4:abc:7" {
		t.Errorf("Identity = %q", raw.Identity)
	}
	if !raw.HasLabel(types.ScrapLabel) {
		t.Errorf("expected Scrap label, got %v", raw.Labels)
	}
	if raw.Properties["content"] != "fog over the estuary" {
		t.Errorf("content = %v", raw.Properties["content"])
	}
	tags, ok := raw.Properties["tags"].([]any)
	if !ok || len(tags) != 2 {
		t.Errorf("tags = %#v", raw.Properties["tags"])
	}
}

func TestConvertValue(t *testing.T) {
	t.Parallel()

	nested := []any{
		dbtype.Node{ElementId: "1", Labels: []string{"Scrap"}, Props: map[string]any{"id": "a"}},
		map[string]any{"inner": dbtype.Node{ElementId: "2", Labels: []string{"Scrap"}}},
		dbtype.Relationship{Type: "RELATED_TO", Props: map[string]any{"strength": 0.4}},
		int64(3),
	}

	got, ok := ConvertValue(nested).([]any)
	if !ok || len(got) != 4 {
		t.Fatalf("ConvertValue() = %#v", got)
	}
	if n, ok := got[0].(*types.RawNode); !ok || n.Properties["id"] != "a" {
		t.Errorf("element 0 = %#v", got[0])
	}
	inner, _ := got[1].(map[string]any)
	if _, ok := inner["inner"].(*types.RawNode); !ok {
		t.Errorf("nested map node not converted: %#v", got[1])
	}
	rel, _ := got[2].(map[string]any)
	if rel["type"] != "RELATED_TO" || rel["strength"] != 0.4 {
		t.Errorf("relationship = %#v", got[2])
	}
	if got[3] != int64(3) {
		t.Errorf("scalar = %#v", got[3])
	}
}

func TestRecordToRaw(t *testing.T) {
	t.Parallel()

	rec := &db.Record{
		Keys: []string{"s", "relationType1"},
		Values: []any{
			dbtype.Node{ElementId: "1", Labels: []string{"Scrap"}, Props: map[string]any{"id": "a"}},
			"echo",
		},
	}

	raw := RecordToRaw(rec)
	if len(raw.Keys) != 2 || raw.Keys[0] != "s" || raw.Keys[1] != "relationType1" {
		t.Errorf("Keys = %v", raw.Keys)
	}
	if _, ok := raw.Values["s"].(*types.RawNode); !ok {
		t.Errorf("s = %#v", raw.Values["s"])
	}
	if v, _ := raw.Get("relationType1"); v != "echo" {
		t.Errorf("relationType1 = %#v", v)
	}

	if empty := RecordToRaw(nil); len(empty.Keys) != 0 {
		t.Errorf("nil record keys = %v", empty.Keys)
	}
}
