package store

import (
	"bytes"

	"github.com/google/btree"
)

const (
	// DefaultFreeListSize is the size we hold for free node in btree
	DefaultFreeListSize = 500
)

// BTreeCacheable adds a simple in-memory cache to a KVStore.
// All writes go to the cache until Write is called on it.
type BTreeCacheable struct {
	KVStore
}

var _ CacheableKVStore = BTreeCacheable{}

// CacheWrap returns a BTreeCacheWrap that can be later
// written to this store, or rolled back.
func (b BTreeCacheable) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(b.KVStore, nil)
}

// MemStore returns a simple implementation of both KVStore
// and CacheableKVStore, backed by an in-memory btree. Useful
// for tests and wiring up prototypes.
func MemStore() CacheableKVStore {
	return NewBTreeCacheWrap(EmptyKVStore{}, nil)
}

///////////////////////////////////////////////
// Actual CacheWrap implementation

// BTreeCacheWrap places a btree on top of a backing store and
// records all writes in the btree. Reads consult the btree first
// and fall through to the backing store on a miss.
type BTreeCacheWrap struct {
	bt   *btree.BTree
	free *btree.FreeList
	back ReadOnlyKVStore
}

var _ KVStore = BTreeCacheWrap{}
var _ KVCacheWrap = BTreeCacheWrap{}

// NewBTreeCacheWrap initializes a BTreeCacheWrap and sets up the
// free list. Use this, not direct construction.
func NewBTreeCacheWrap(kv ReadOnlyKVStore, free *btree.FreeList) BTreeCacheWrap {
	if free == nil {
		free = btree.NewFreeList(DefaultFreeListSize)
	}
	return BTreeCacheWrap{
		bt:   btree.NewWithFreeList(2, free),
		free: free,
		back: kv,
	}
}

// CacheWrap layers another cache on top of this one. The writes
// sets to be writable.
func (b BTreeCacheWrap) CacheWrap() KVCacheWrap {
	// reuse the freelist between all layers of the cache
	return NewBTreeCacheWrap(b, b.free)
}

// Write syncs the cached writes into the backing store and keeps
// the cache in place, so the wrap remains usable afterwards.
func (b BTreeCacheWrap) Write() {
	kv, ok := b.back.(KVStore)
	if !ok {
		// MemStore has nothing below it and nothing to flush
		return
	}
	b.bt.Ascend(func(item btree.Item) bool {
		switch t := item.(type) {
		case setItem:
			kv.Set(t.key, t.value)
		case deleteItem:
			kv.Delete(t.key)
		default:
			panic("unexpected item in btree")
		}
		return true
	})
	b.bt.Clear(true)
}

// Discard frees up the cache without writing to the backing store.
func (b BTreeCacheWrap) Discard() {
	b.bt.Clear(true)
}

// Set writes the key's value to the cache.
func (b BTreeCacheWrap) Set(key, value []byte) {
	b.bt.ReplaceOrInsert(newSetItem(key, value))
}

// Delete marks the key as deleted in the cache.
func (b BTreeCacheWrap) Delete(key []byte) {
	b.bt.ReplaceOrInsert(newDeleteItem(key))
}

// Get reads from the cache first, then the backing store.
func (b BTreeCacheWrap) Get(key []byte) []byte {
	res := b.bt.Get(bkey{key})
	switch t := res.(type) {
	case setItem:
		return t.value
	case deleteItem:
		return nil
	case nil:
		return b.back.Get(key)
	default:
		panic("unexpected item in btree")
	}
}

// Has reads from the cache first, then the backing store.
func (b BTreeCacheWrap) Has(key []byte) bool {
	res := b.bt.Get(bkey{key})
	switch res.(type) {
	case setItem:
		return true
	case deleteItem:
		return false
	case nil:
		return b.back.Has(key)
	default:
		panic("unexpected item in btree")
	}
}

// Iterator over a domain of keys in ascending order.
// Combines the backing store with the cached writes.
func (b BTreeCacheWrap) Iterator(start, end []byte) Iterator {
	return NewSliceIterator(b.materialize(start, end))
}

// ReverseIterator over a domain of keys in descending order.
func (b BTreeCacheWrap) ReverseIterator(start, end []byte) Iterator {
	models := b.materialize(start, end)
	for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
		models[i], models[j] = models[j], models[i]
	}
	return NewSliceIterator(models)
}

// materialize resolves the given range into a sorted slice, applying
// the cached writes on top of the backing store content.
func (b BTreeCacheWrap) materialize(start, end []byte) []Model {
	models := make([]Model, 0, 16)
	iter := b.back.Iterator(start, end)
	for ; iter.Valid(); iter.Next() {
		models = append(models, Model{Key: iter.Key(), Value: iter.Value()})
	}
	iter.Close()

	insert := func(item btree.Item) bool {
		switch t := item.(type) {
		case setItem:
			models = setModel(models, t.key, t.value)
		case deleteItem:
			models = deleteModel(models, t.key)
		default:
			panic("unexpected item in btree")
		}
		return true
	}

	switch {
	case start == nil && end == nil:
		b.bt.Ascend(insert)
	case start == nil:
		b.bt.AscendLessThan(bkey{end}, insert)
	case end == nil:
		b.bt.AscendGreaterOrEqual(bkey{start}, insert)
	default:
		b.bt.AscendRange(bkey{start}, bkey{end}, insert)
	}
	return models
}

// setModel inserts or overwrites the key in a sorted model slice.
func setModel(models []Model, key, value []byte) []Model {
	i := findModel(models, key)
	if i < len(models) && bytes.Equal(models[i].Key, key) {
		models[i].Value = value
		return models
	}
	models = append(models, Model{})
	copy(models[i+1:], models[i:])
	models[i] = Model{Key: key, Value: value}
	return models
}

// deleteModel removes the key from a sorted model slice if present.
func deleteModel(models []Model, key []byte) []Model {
	i := findModel(models, key)
	if i < len(models) && bytes.Equal(models[i].Key, key) {
		return append(models[:i], models[i+1:]...)
	}
	return models
}

// findModel returns the lowest index whose key is >= the given key.
func findModel(models []Model, key []byte) int {
	lo, hi := 0, len(models)
	for lo < hi {
		mid := (lo + hi) / 2
		if bytes.Compare(models[mid].Key, key) < 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}

/////////////////////////////////////////////////////////
// Items to write to btree

// we enforce all writes are in range [key, key+1)
type keyItem interface {
	btree.Item
	Key() []byte
}

func compareItems(a, b btree.Item) int {
	ka := a.(keyItem).Key()
	kb := b.(keyItem).Key()
	return bytes.Compare(ka, kb)
}

// bkey implements keyItem with no data, useful for lookups
type bkey struct {
	key []byte
}

var _ keyItem = bkey{}

func (k bkey) Key() []byte {
	return k.key
}

func (k bkey) Less(item btree.Item) bool {
	return compareItems(k, item) < 0
}

type setItem struct {
	key   []byte
	value []byte
}

var _ keyItem = setItem{}

// newSetItem copies the data to keep the btree stable if the
// caller mutates the passed slices.
func newSetItem(key, value []byte) setItem {
	return setItem{key: ccopy(key), value: ccopy(value)}
}

func (i setItem) Key() []byte {
	return i.key
}

func (i setItem) Less(item btree.Item) bool {
	return compareItems(i, item) < 0
}

type deleteItem struct {
	key []byte
}

var _ keyItem = deleteItem{}

func newDeleteItem(key []byte) deleteItem {
	return deleteItem{key: ccopy(key)}
}

func (i deleteItem) Key() []byte {
	return i.key
}

func (i deleteItem) Less(item btree.Item) bool {
	return compareItems(i, item) < 0
}

func ccopy(bz []byte) []byte {
	if bz == nil {
		return nil
	}
	res := make([]byte, len(bz))
	copy(res, bz)
	return res
}
