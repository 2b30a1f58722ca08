// Package store keeps finished search runs in an embedded BadgerDB so that
// long searches, and the 48-bit survivors they produced, outlive the process.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"

	"github.com/vktec/seedfinder"
)

var ErrNotFound = errors.New("run not found")

const runPrefix = "run/"

type Config struct {
	// Path is the database directory. Ignored when InMemory is set.
	Path       string
	InMemory   bool
	SyncWrites bool
	// Logger receives BadgerDB's own messages; nil silences them.
	Logger logrus.FieldLogger
}

// Record is one stored run: its report and the observations it searched for,
// in the observation file format.
type Record struct {
	Report       seedfinder.Report `json:"report"`
	Observations string            `json:"observations,omitempty"`
	Created      time.Time         `json:"created"`
}

type Store struct {
	db *badger.DB
}

func Open(cfg Config) (*Store, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, errors.New("store: path is required for a persistent store")
		}
		if err := os.MkdirAll(cfg.Path, 0o750); err != nil {
			return nil, fmt.Errorf("store: create directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites).WithNumVersionsToKeep(1)
	if cfg.Logger != nil {
		opts = opts.WithLogger(cfg.Logger)
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("store: open: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func runKey(id string) []byte {
	return []byte(runPrefix + id)
}

// Save writes rec under its run ID, replacing any earlier record.
func (s *Store) Save(rec *Record) error {
	if rec.Report.RunID == "" {
		return errors.New("store: record has no run ID")
	}
	if rec.Created.IsZero() {
		rec.Created = time.Now()
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("store: encode %s: %w", rec.Report.RunID, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(runKey(rec.Report.RunID), data)
	})
}

// Load returns the run with the given ID, or the only run whose ID starts
// with it.
func (s *Store) Load(id string) (*Record, error) {
	var rec *Record
	err := s.db.View(func(txn *badger.Txn) error {
		key, err := resolve(txn, id)
		if err != nil {
			return err
		}
		item, err := txn.Get(key)
		if err != nil {
			return err
		}
		rec, err = decode(item)
		return err
	})
	return rec, err
}

// resolve finds the key of the run named id, accepting a unique prefix.
func resolve(txn *badger.Txn, id string) ([]byte, error) {
	key := runKey(id)
	if _, err := txn.Get(key); err == nil {
		return key, nil
	} else if !errors.Is(err, badger.ErrKeyNotFound) {
		return nil, err
	}

	matches := keysWithPrefix(txn, key)
	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	case 1:
		return matches[0], nil
	}
	return nil, fmt.Errorf("store: run ID prefix %q is ambiguous", id)
}

// List returns every stored run, oldest first.
func (s *Store) List() ([]*Record, error) {
	var recs []*Record
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		prefix := []byte(runPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			rec, err := decode(it.Item())
			if err != nil {
				return err
			}
			recs = append(recs, rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(recs, func(a, b *Record) int {
		if c := a.Created.Compare(b.Created); c != 0 {
			return c
		}
		return strings.Compare(a.Report.RunID, b.Report.RunID)
	})
	return recs, nil
}

// Delete removes a run, accepting the same ID prefixes as Load.
func (s *Store) Delete(id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		key, err := resolve(txn, id)
		if err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

func keysWithPrefix(txn *badger.Txn, prefix []byte) [][]byte {
	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = false
	it := txn.NewIterator(opts)
	defer it.Close()

	var keys [][]byte
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		keys = append(keys, it.Item().KeyCopy(nil))
	}
	return keys
}

func decode(item *badger.Item) (*Record, error) {
	rec := new(Record)
	err := item.Value(func(val []byte) error {
		return json.Unmarshal(val, rec)
	})
	if err != nil {
		return nil, fmt.Errorf("store: decode %s: %w", item.Key(), err)
	}
	return rec, nil
}
