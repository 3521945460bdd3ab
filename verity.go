package verity

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/soundprediction/verity/pkg/cypher"
	"github.com/soundprediction/verity/pkg/driver"
	"github.com/soundprediction/verity/pkg/normalize"
	"github.com/soundprediction/verity/pkg/types"
)

// Verity is the full client surface.
type Verity interface {
	Searcher
	ScrapReader
	QueryRunner

	// Close closes all connections and cleans up resources.
	Close(ctx context.Context) error
}

// Client is the main implementation of the Verity interface.
type Client struct {
	store     driver.QueryExecutor
	scraps    *driver.ScrapStore
	generator QueryGenerator
	logger    *slog.Logger

	normalizer *normalize.Normalizer
}

var _ Verity = (*Client)(nil)

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithMetadataRepair lets almost-JSON metadata strings be repaired instead
// of returned verbatim.
func WithMetadataRepair(enabled bool) ClientOption {
	return func(c *Client) {
		c.normalizer = normalize.New(normalize.Options{RepairMetadata: enabled})
	}
}

// NewClient creates a client over a graph store and a query generator.
func NewClient(store driver.QueryExecutor, gen QueryGenerator, logger *slog.Logger, opts ...ClientOption) (*Client, error) {
	if store == nil {
		return nil, errors.New("graph store is required")
	}
	if gen == nil {
		return nil, errors.New("query generator is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	c := &Client{
		store:      store,
		generator:  gen,
		logger:     logger,
		normalizer: normalize.New(normalize.Options{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.scraps = driver.NewScrapStore(store, c.normalizer)
	return c, nil
}

// Search implements Searcher.
func (c *Client) Search(ctx context.Context, prompt string) (*types.SearchResults, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, types.NewInvalidInputError(types.ErrEmptyPrompt.Error())
	}

	info, err := c.generator.Generate(ctx, prompt)
	if err != nil {
		if types.KindOf(err) == "" {
			err = types.NewGenerationError(types.CategoryUnknown, "failed to generate query", err)
		}
		return nil, err
	}
	if info == nil || strings.TrimSpace(info.Query) == "" {
		return nil, types.NewGenerationError(types.CategoryUnknown, "completion returned an empty query", nil)
	}

	results, err := c.execute(ctx, info.Query)
	if err != nil {
		c.logger.Warn("search failed", "prompt", prompt, "query", info.Query, "error", err)
		return nil, err
	}

	c.logger.Info("search completed", "prompt", prompt, "results", len(results))
	return &types.SearchResults{
		Results:   results,
		QueryInfo: *info,
	}, nil
}

// ExecuteValidated runs a caller-supplied query through the same validation
// and normalization as Search.
func (c *Client) ExecuteValidated(ctx context.Context, query string) ([]types.Scrap, error) {
	if strings.TrimSpace(query) == "" {
		return nil, types.NewInvalidInputError(types.ErrEmptyQuery.Error())
	}
	return c.execute(ctx, query)
}

func (c *Client) execute(ctx context.Context, query string) ([]types.Scrap, error) {
	if err := cypher.Validate(query); err != nil {
		return nil, err
	}

	records, err := c.store.ExecuteQuery(ctx, query, nil)
	if err != nil {
		return nil, types.NewExecutionError(err)
	}
	c.logger.Debug("query executed", "query", query, "records", len(records))

	return c.normalizer.Normalize(records), nil
}

// GetScrap implements ScrapReader.
func (c *Client) GetScrap(ctx context.Context, id string) (*types.Scrap, error) {
	return c.scraps.GetScrap(ctx, id)
}

// GetRelatedScraps implements ScrapReader.
func (c *Client) GetRelatedScraps(ctx context.Context, id string) ([]types.Scrap, error) {
	return c.scraps.GetRelatedScraps(ctx, id)
}

// SearchScraps implements ScrapReader.
func (c *Client) SearchScraps(ctx context.Context, text string) ([]types.Scrap, error) {
	return c.scraps.SearchScraps(ctx, text)
}

// ListScraps implements ScrapReader.
func (c *Client) ListScraps(ctx context.Context, limit int) ([]types.Scrap, error) {
	return c.scraps.ListScraps(ctx, limit)
}

// Close closes the generator and the store when they hold resources.
func (c *Client) Close(ctx context.Context) error {
	var errs []error
	if closer, ok := c.generator.(interface{ Close() error }); ok {
		errs = append(errs, closer.Close())
	}
	if closer, ok := c.store.(interface{ Close(context.Context) error }); ok {
		errs = append(errs, closer.Close(ctx))
	}
	return errors.Join(errs...)
}
