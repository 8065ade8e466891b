package db

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v3"
	"github.com/slbug/nbrb-currency/internal/domain/entity"
)

// BadgerDocumentCache persists raw rate documents in BadgerDB so an
// earlier fetch can be replayed without touching the network. It stores
// response bodies verbatim; parsing happens downstream either way.
type BadgerDocumentCache struct {
	db *badger.DB
}

// NewBadgerDocumentCache creates a new BadgerDB document cache
func NewBadgerDocumentCache(db *badger.DB) *BadgerDocumentCache {
	return &BadgerDocumentCache{db: db}
}

// Save stores a raw rates document under the given cache key.
func (c *BadgerDocumentCache) Save(key string, raw []byte) error {
	if c == nil || c.db == nil || key == "" {
		return entity.ErrInvalidCache
	}

	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte("doc:"+key), raw)
	})
	if err != nil {
		return fmt.Errorf("failed to store rates document: %w", err)
	}
	return nil
}

// Load retrieves a raw rates document by cache key. A missing key is an
// ErrInvalidCache: the caller asked for cached data that does not exist,
// and stale-data fallback is never silent.
func (c *BadgerDocumentCache) Load(key string) ([]byte, error) {
	if c == nil || c.db == nil || key == "" {
		return nil, entity.ErrInvalidCache
	}

	var raw []byte
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte("doc:" + key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			raw = append([]byte(nil), val...)
			return nil
		})
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, entity.ErrInvalidCache
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load rates document: %w", err)
	}

	return raw, nil
}
