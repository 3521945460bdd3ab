package driver

import (
	"context"
	"strings"

	"github.com/soundprediction/verity/pkg/normalize"
	"github.com/soundprediction/verity/pkg/types"
)

// ScrapStore runs the canned scrap queries against a QueryExecutor.
type ScrapStore struct {
	exec       QueryExecutor
	normalizer *normalize.Normalizer
}

// NewScrapStore wraps exec. A nil normalizer decodes strictly.
func NewScrapStore(exec QueryExecutor, normalizer *normalize.Normalizer) *ScrapStore {
	if normalizer == nil {
		normalizer = normalize.New(normalize.Options{})
	}
	return &ScrapStore{exec: exec, normalizer: normalizer}
}

// GetScrap returns the scrap with the given id or a not-found error.
func (s *ScrapStore) GetScrap(ctx context.Context, id string) (*types.Scrap, error) {
	if strings.TrimSpace(id) == "" {
		return nil, types.NewInvalidInputError(types.ErrEmptyID.Error())
	}

	records, err := s.exec.ExecuteQuery(ctx, GetScrapQuery, map[string]any{"id": id})
	if err != nil {
		return nil, types.NewExecutionError(err)
	}

	scraps := s.normalizer.Normalize(records)
	if len(scraps) == 0 {
		return nil, types.NewNotFoundError("scrap not found: " + id)
	}
	return &scraps[0], nil
}

// GetRelatedScraps returns the scraps id points at. Each result carries one
// relationship back to id describing the edge.
func (s *ScrapStore) GetRelatedScraps(ctx context.Context, id string) ([]types.Scrap, error) {
	if strings.TrimSpace(id) == "" {
		return nil, types.NewInvalidInputError(types.ErrEmptyID.Error())
	}

	records, err := s.exec.ExecuteQuery(ctx, GetRelatedScrapsQuery, map[string]any{"id": id})
	if err != nil {
		return nil, types.NewExecutionError(err)
	}

	source := &types.RawNode{Properties: map[string]any{"id": id}}
	out := make([]types.Scrap, 0, len(records))
	for _, rec := range records {
		v, _ := rec.Get("related")
		node, ok := v.(*types.RawNode)
		if !ok || !node.HasLabel(types.ScrapLabel) {
			continue
		}
		relType, _ := rec.Get("relationType")
		strength, _ := rec.Get("relationStrength")
		reasoning, _ := rec.Get("reasoning")
		scrap := s.normalizer.ScrapFromNode(node)
		scrap.Relationships = []types.Relationship{
			normalize.NewRelationship(relType, strength, reasoning, source),
		}
		out = append(out, scrap)
	}
	return out, nil
}

// SearchScraps finds up to SearchLimit scraps whose content or tags contain
// text, ignoring case.
func (s *ScrapStore) SearchScraps(ctx context.Context, text string) ([]types.Scrap, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, types.NewInvalidInputError(types.ErrEmptyQuery.Error())
	}

	records, err := s.exec.ExecuteQuery(ctx, SearchScrapsQuery, map[string]any{
		"text":  text,
		"limit": int64(SearchLimit),
	})
	if err != nil {
		return nil, types.NewExecutionError(err)
	}
	return s.normalizer.Normalize(records), nil
}

// ListScraps returns up to limit scraps. limit is clamped with ClampLimit.
func (s *ScrapStore) ListScraps(ctx context.Context, limit int) ([]types.Scrap, error) {
	records, err := s.exec.ExecuteQuery(ctx, ListScrapsQuery, map[string]any{
		"limit": int64(ClampLimit(limit)),
	})
	if err != nil {
		return nil, types.NewExecutionError(err)
	}
	return s.normalizer.Normalize(records), nil
}
