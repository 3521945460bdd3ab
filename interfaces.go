package verity

import (
	"context"

	"github.com/soundprediction/verity/pkg/types"
)

// QueryGenerator turns a prompt into a query.
type QueryGenerator interface {
	Generate(ctx context.Context, prompt string) (*types.QueryInfo, error)
}

// Searcher runs the natural-language pipeline.
type Searcher interface {
	// Search translates prompt, validates and executes the query, and
	// returns the normalized results with the query that produced them.
	Search(ctx context.Context, prompt string) (*types.SearchResults, error)
}

// ScrapReader reads scraps directly, bypassing the language model.
type ScrapReader interface {
	GetScrap(ctx context.Context, id string) (*types.Scrap, error)
	GetRelatedScraps(ctx context.Context, id string) ([]types.Scrap, error)
	SearchScraps(ctx context.Context, text string) ([]types.Scrap, error)
	ListScraps(ctx context.Context, limit int) ([]types.Scrap, error)
}

// QueryRunner executes caller-supplied queries after validation.
type QueryRunner interface {
	ExecuteValidated(ctx context.Context, query string) ([]types.Scrap, error)
}
