package iavl

import (
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"

	"github.com/iov-one/custodia/errors"
	"github.com/iov-one/custodia/store"
)

// number of tree nodes held in memory before evicting to disk
const cacheSize = 10000

// CommitStore manages a iavl committed state
type CommitStore struct {
	tree *iavl.MutableTree
}

var _ store.CommitKVStore = CommitStore{}

// NewCommitStore creates a new store with disk backing under the
// given directory. The name selects the database file.
func NewCommitStore(dir, name string) (CommitStore, error) {
	db, err := dbm.NewGoLevelDB(name, dir)
	if err != nil {
		return CommitStore{}, errors.Wrap(err, "cannot open backing database")
	}
	return CommitStore{tree: iavl.NewMutableTree(db, cacheSize)}, nil
}

// MockCommitStore returns a CommitStore backed by memory,
// for tests and demos.
func MockCommitStore() CommitStore {
	return CommitStore{tree: iavl.NewMutableTree(dbm.NewMemDB(), cacheSize)}
}

// Get returns the value at last committed state
// returns nil iff key doesn't exist. Panics on nil key.
func (s CommitStore) Get(key []byte) []byte {
	_, value := s.tree.Get(key)
	return value
}

// Commit the next version to disk, and returns info
func (s CommitStore) Commit() store.CommitID {
	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		panic(err)
	}
	return store.CommitID{
		Version: version,
		Hash:    hash,
	}
}

// LoadLatestVersion loads the latest persisted version.
// If there was a crash during the last commit, it is guaranteed
// to return a stable state, even if older.
func (s CommitStore) LoadLatestVersion() error {
	_, err := s.tree.Load()
	return errors.Wrap(err, "cannot load persisted state")
}

// LatestVersion returns info on the latest version saved to disk
func (s CommitStore) LatestVersion() store.CommitID {
	return store.CommitID{
		Version: s.tree.Version(),
		Hash:    s.tree.Hash(),
	}
}

// CacheWrap gives us a savepoint to perform actions
func (s CommitStore) CacheWrap() store.KVCacheWrap {
	return Cache{parent: s}
}

// Cache is the working state on top of the last commit. Writes go
// directly into the mutable tree and become durable on Write, which
// saves the next version.
type Cache struct {
	parent CommitStore
}

var _ store.KVCacheWrap = Cache{}

// Get returns nil iff key doesn't exist. Panics on nil key.
func (c Cache) Get(key []byte) []byte {
	_, value := c.parent.tree.Get(key)
	return value
}

// Has checks if a key exists. Panics on nil key.
func (c Cache) Has(key []byte) bool {
	return c.parent.tree.Has(key)
}

// Set adds a new value
func (c Cache) Set(key, value []byte) {
	c.parent.tree.Set(key, value)
}

// Delete removes from the tree
func (c Cache) Delete(key []byte) {
	c.parent.tree.Remove(key)
}

// CacheWrap wraps us once again, with btree
func (c Cache) CacheWrap() store.KVCacheWrap {
	return store.NewBTreeCacheWrap(c, nil)
}

// Write commits the working state as the next version.
func (c Cache) Write() {
	c.parent.Commit()
}

// Discard rolls the working state back to the last saved version.
func (c Cache) Discard() {
	c.parent.tree.Rollback()
}

// Iterator over a domain of keys in ascending order. End is exclusive.
// Start must be less than end, or the Iterator is invalid.
// CONTRACT: No writes may happen within a domain while an iterator exists over it.
func (c Cache) Iterator(start, end []byte) store.Iterator {
	return c.iterate(start, end, true)
}

// ReverseIterator over a domain of keys in descending order. End is exclusive.
// Start must be greater than end, or the Iterator is invalid.
// CONTRACT: No writes may happen within a domain while an iterator exists over it.
func (c Cache) ReverseIterator(start, end []byte) store.Iterator {
	return c.iterate(start, end, false)
}

func (c Cache) iterate(start, end []byte, ascending bool) store.Iterator {
	var res []store.Model
	add := func(key []byte, value []byte) bool {
		res = append(res, store.Model{Key: key, Value: value})
		return false
	}
	c.parent.tree.IterateRange(start, end, ascending, add)
	return store.NewSliceIterator(res)
}
