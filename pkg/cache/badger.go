package cache

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/soundprediction/verity/pkg/types"
)

const keyPrefix = "search:"

// BadgerStore persists records in a Badger database. Entries are written
// with a native TTL of the max age; Get also checks the stored timestamp so
// expiry follows the configured clock.
type BadgerStore struct {
	db      *badger.DB
	opts    Options
	janitor *janitor
}

// NewBadgerStore opens (or creates) a store at path. An empty path opens an
// in-memory database.
func NewBadgerStore(path string, opts Options) (*BadgerStore, error) {
	bopts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		bopts = bopts.WithInMemory(true)
	}

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger cache: %w", err)
	}

	s := &BadgerStore{db: db, opts: opts.withDefaults()}
	s.janitor = startJanitor(s.opts.CleanupInterval, s.CleanOldEntries, s.opts.Logger)
	return s, nil
}

func cacheKey(id string) []byte {
	return []byte(keyPrefix + id)
}

func (s *BadgerStore) Set(id string, rec *types.SearchRecord) error {
	if id == "" {
		return types.NewInvalidInputError(types.ErrEmptyID.Error())
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = s.opts.Now()
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode search record: %w", err)
	}

	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(badger.NewEntry(cacheKey(id), data).WithTTL(s.opts.MaxAge))
	})
	if err != nil {
		return fmt.Errorf("failed to store search record: %w", err)
	}

	s.opts.Logger.Debug("cache set", "id", id, "backend", "badger")
	return nil
}

func (s *BadgerStore) Get(id string) (*types.SearchRecord, error) {
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(cacheKey(id))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, notFound(id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read search record: %w", err)
	}

	var rec types.SearchRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to decode search record: %w", err)
	}
	if rec.Expired(s.opts.Now(), s.opts.MaxAge) {
		_ = s.Delete(id)
		return nil, notFound(id)
	}
	return &rec, nil
}

func (s *BadgerStore) Delete(id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(cacheKey(id))
	})
}

// CleanOldEntries scans and deletes in one read-write transaction. A
// concurrent Set of a scanned key makes the commit fail with a conflict
// instead of deleting the fresh record; the next pass picks up whatever
// was left.
func (s *BadgerStore) CleanOldEntries() (int, error) {
	now := s.opts.Now()
	removed := 0

	err := s.db.Update(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.IteratorOptions{Prefix: []byte(keyPrefix), PrefetchValues: true, PrefetchSize: 100})

		var stale [][]byte
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			var rec types.SearchRecord
			err := item.Value(func(v []byte) error {
				return json.Unmarshal(v, &rec)
			})
			if err != nil || rec.Expired(now, s.opts.MaxAge) {
				stale = append(stale, item.KeyCopy(nil))
			}
		}
		it.Close()

		for _, k := range stale {
			if err := txn.Delete(k); err != nil {
				return err
			}
		}
		removed = len(stale)
		return nil
	})
	if errors.Is(err, badger.ErrConflict) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to clean cache: %w", err)
	}
	return removed, nil
}

func (s *BadgerStore) Close() error {
	s.janitor.close()
	return s.db.Close()
}
