package cypher

import (
	"errors"
	"strings"
	"testing"

	"github.com/soundprediction/verity/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateAcceptsReadQueries(t *testing.T) {
	queries := []string{
		`MATCH (s:Scrap) WHERE s.content CONTAINS "nature" RETURN s LIMIT 10`,
		"match (s:Scrap)-[r:RELATED_TO]->(related1:Scrap) return s, r.type as relationType1, related1",
		"MATCH (s:Scrap)\nWHERE 'forest' IN s.tags\nRETURN s",
	}

	for _, q := range queries {
		t.Run(q, func(t *testing.T) {
			assert.NoError(t, Validate(q))
		})
	}
}

func TestValidateRejectsDeniedKeywords(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		keyword string
	}{
		{"delete", "MATCH (s:Scrap) DELETE s RETURN s", "delete"},
		{"detach delete reports delete first", "MATCH (s) DETACH DELETE s RETURN 1", "delete"},
		{"merge", "MERGE (s:Scrap {id: '1'}) WITH s MATCH (s) RETURN s", "merge"},
		{"set", "MATCH (s:Scrap) SET s.content = 'x' RETURN s", "set"},
		{"drop", "DROP INDEX scrap_id; MATCH (n) RETURN n", "drop"},
		{"remove", "MATCH (s:Scrap) REMOVE s.tags RETURN s", "remove"},
		{"create index", "CREATE INDEX FOR (s:Scrap) ON (s.id) MATCH (n) RETURN n", "create index"},
		{"create constraint", "CREATE CONSTRAINT FOR (s:Scrap) REQUIRE s.id IS UNIQUE MATCH (n) RETURN n", "create constraint"},
		{"mixed case", "MaTcH (s) sEt s.x = 1 ReTuRn s", "set"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.query)
			require.Error(t, err)
			assert.True(t, errors.Is(err, types.ErrUnsafeQuery))
			assert.Contains(t, err.Error(), tt.keyword)

			kw, found := DeniedKeyword(tt.query)
			assert.True(t, found)
			assert.Equal(t, tt.keyword, kw)
		})
	}
}

func TestValidateEveryDeniedKeywordInAnyCase(t *testing.T) {
	for _, kw := range DeniedKeywords {
		for _, variant := range []string{strings.ToLower(kw), strings.ToUpper(kw)} {
			q := "MATCH (s:Scrap) " + variant + " RETURN s"
			assert.ErrorIs(t, Validate(q), types.ErrUnsafeQuery, q)
		}
	}
}

func TestValidateRequiresMatchAndReturn(t *testing.T) {
	tests := []string{
		"RETURN 1",
		"MATCH (s:Scrap)",
		"CALL db.labels()",
		"",
	}

	for _, q := range tests {
		t.Run(q, func(t *testing.T) {
			err := Validate(q)
			require.Error(t, err)
			assert.ErrorIs(t, err, types.ErrUnsafeQuery)
			assert.Contains(t, err.Error(), "not read-only")
		})
	}
}

// Substring matching over-rejects words that merely contain a keyword.
func TestValidateOverRejectsSubstrings(t *testing.T) {
	err := Validate(`MATCH (s:Scrap) WHERE s.content CONTAINS "sunset" RETURN s`)
	assert.ErrorIs(t, err, types.ErrUnsafeQuery)
}
