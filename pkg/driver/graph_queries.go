package driver

// Canned read queries for direct scrap access. Column names follow the
// conventions the normalizer understands.
const (
	GetScrapQuery = `MATCH (s:Scrap {id: $id}) RETURN s`

	GetRelatedScrapsQuery = `MATCH (s:Scrap {id: $id})-[r:RELATED_TO]->(related:Scrap)
RETURN related, r.type AS relationType, r.strength AS relationStrength, r.aiReasoning AS reasoning
ORDER BY r.strength DESC`

	SearchScrapsQuery = `MATCH (s:Scrap)
WHERE toLower(s.content) CONTAINS toLower($text)
   OR any(tag IN coalesce(s.tags, []) WHERE toLower(tag) CONTAINS toLower($text))
RETURN s
LIMIT $limit`

	ListScrapsQuery = `MATCH (s:Scrap) RETURN s LIMIT $limit`
)

// Limits for scrap listing and keyword search.
const (
	DefaultListLimit = 100
	MaxListLimit     = 1000
	SearchLimit      = 20
)

// ClampLimit bounds a requested list size to [1, MaxListLimit].
func ClampLimit(limit int) int {
	switch {
	case limit < 1:
		return 1
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}
