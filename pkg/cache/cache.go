// Package cache stores search records under opaque ids and evicts them
// after a maximum age.
//
// A record older than the max age is never returned, whether or not a
// cleanup pass has removed it yet.
package cache

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/soundprediction/verity/pkg/config"
	"github.com/soundprediction/verity/pkg/types"
)

// DefaultMaxAge is how long a search record stays retrievable.
const DefaultMaxAge = time.Hour

// Store is a ResultCache implementation.
type Store interface {
	// Set stores rec under id, replacing any previous record.
	Set(id string, rec *types.SearchRecord) error

	// Get returns the record for id, or a not-found error when it is
	// missing or older than the max age.
	Get(id string) (*types.SearchRecord, error)

	// Delete removes id. Deleting a missing id is not an error.
	Delete(id string) error

	// CleanOldEntries removes every record older than the max age and
	// reports how many were removed.
	CleanOldEntries() (int, error)

	// Close stops background cleanup and releases resources.
	Close() error
}

// Options configure a Store.
type Options struct {
	MaxAge          time.Duration
	CleanupInterval time.Duration
	Logger          *slog.Logger

	// Now is the clock used for timestamps and expiry checks.
	Now func() time.Time
}

func (o Options) withDefaults() Options {
	if o.MaxAge <= 0 {
		o.MaxAge = DefaultMaxAge
	}
	if o.Logger == nil {
		o.Logger = slog.Default()
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// New creates the store selected by cfg.Backend.
func New(cfg config.CacheConfig, logger *slog.Logger) (Store, error) {
	opts := Options{
		MaxAge:          cfg.MaxAge,
		CleanupInterval: cfg.CleanupInterval,
		Logger:          logger,
	}

	switch cfg.Backend {
	case "", "memory":
		return NewMemoryStore(opts), nil
	case "badger":
		return NewBadgerStore(cfg.Path, opts)
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

func notFound(id string) error {
	return types.NewNotFoundError(fmt.Sprintf("search results not found or expired: %s", id))
}
