package cache

import (
	"sync"

	"github.com/soundprediction/verity/pkg/types"
)

// MemoryStore keeps records in a map guarded by a mutex. It is meant to be
// created once per process and shared by all handlers.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*types.SearchRecord
	opts    Options
	janitor *janitor
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts Options) *MemoryStore {
	s := &MemoryStore{
		entries: make(map[string]*types.SearchRecord),
		opts:    opts.withDefaults(),
	}
	s.janitor = startJanitor(s.opts.CleanupInterval, s.CleanOldEntries, s.opts.Logger)
	return s
}

func (s *MemoryStore) Set(id string, rec *types.SearchRecord) error {
	if id == "" {
		return types.NewInvalidInputError(types.ErrEmptyID.Error())
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = s.opts.Now()
	}

	s.mu.Lock()
	s.entries[id] = rec
	size := len(s.entries)
	s.mu.Unlock()

	s.opts.Logger.Debug("cache set", "id", id, "entries", size)
	return nil
}

func (s *MemoryStore) Get(id string) (*types.SearchRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.entries[id]
	if !ok {
		return nil, notFound(id)
	}
	if rec.Expired(s.opts.Now(), s.opts.MaxAge) {
		delete(s.entries, id)
		return nil, notFound(id)
	}
	return rec, nil
}

func (s *MemoryStore) Delete(id string) error {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
	return nil
}

// CleanOldEntries holds the lock for the whole scan so a concurrent Set
// of the same id cannot be removed by a stale check.
func (s *MemoryStore) CleanOldEntries() (int, error) {
	now := s.opts.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, rec := range s.entries {
		if rec.Expired(now, s.opts.MaxAge) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed, nil
}

// Len reports the number of stored records, expired or not.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MemoryStore) Close() error {
	s.janitor.close()
	return nil
}
