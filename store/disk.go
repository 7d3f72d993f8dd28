package store

import (
	"context"

	"github.com/dgraph-io/badger"

	"github.com/oriole-systems/causallog/causalerr"
)

// Disk is a BadgerDB-backed BlockStore: a single badger.DB opened with
// SyncWrites disabled, blocks keyed directly by their content hash since
// a block store has no secondary indices to maintain.
type Disk struct {
	db *badger.DB
}

// OpenDisk opens (or creates) a BadgerDB-backed store rooted at path.
func OpenDisk(path string) (*Disk, error) {
	opts := badger.DefaultOptions(path)
	opts.SyncWrites = false

	db, err := badger.Open(opts)
	if err != nil {
		return nil, causalerr.Wrap(causalerr.StoreError, err, "opening badger store at %s", path)
	}

	return &Disk{db: db}, nil
}

// Close releases the underlying database handle.
func (d *Disk) Close() error {
	return d.db.Close()
}

// Put implements BlockStore.
func (d *Disk) Put(ctx context.Context, data []byte) (Hash, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	h := hashBlock(data)

	tx := d.db.NewTransaction(true)
	defer tx.Discard()

	if err := tx.Set([]byte(h), data); err != nil {
		return "", causalerr.Wrap(causalerr.StoreError, err, "set %s", h)
	}

	if err := tx.Commit(); err != nil {
		return "", causalerr.Wrap(causalerr.StoreError, err, "commit %s", h)
	}

	return h, nil
}

// Get implements BlockStore.
func (d *Disk) Get(ctx context.Context, hash Hash) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var data []byte

	err := d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(hash))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			data = make([]byte, len(val))
			copy(data, val)
			return nil
		})
	})

	if err == badger.ErrKeyNotFound {
		return nil, causalerr.New(causalerr.NotFound, "no block with hash %s", hash)
	}
	if err != nil {
		return nil, causalerr.Wrap(causalerr.StoreError, err, "get %s", hash)
	}

	return data, nil
}
