package persist

import (
	"context"
	"encoding/json"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"
)

// keyPrefix namespaces entry keys so the database can hold other data.
const keyPrefix = "entry/"

// BadgerStorage persists entries as JSON values in a badger database.
type BadgerStorage struct {
	db *badger.DB
}

// OpenBadger opens (or creates) a database in dir. An empty dir opens an
// in-memory database.
func OpenBadger(dir string) (*BadgerStorage, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "open badger at %q", dir)
	}
	return &BadgerStorage{db: db}, nil
}

// Load returns nil fields for an id that was never persisted.
func (s *BadgerStorage) Load(_ context.Context, id string) (map[string]any, error) {
	var raw []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + id))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", id)
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, errors.Wrapf(err, "decode %s", id)
	}
	return fields, nil
}

func (s *BadgerStorage) Put(_ context.Context, id string, fields map[string]any) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return errors.Wrapf(err, "encode %s", id)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPrefix+id), raw)
	})
	return errors.Wrapf(err, "store %s", id)
}

// Close closes the database.
func (s *BadgerStorage) Close() error {
	return s.db.Close()
}
