package store

import "github.com/iov-one/custodia"

// Move references for all storage types into this package
// for shorter names everywhere

type KVStore = custodia.KVStore
type ReadOnlyKVStore = custodia.ReadOnlyKVStore
type Iterator = custodia.Iterator
type CacheableKVStore = custodia.CacheableKVStore
type KVCacheWrap = custodia.KVCacheWrap
type CommitKVStore = custodia.CommitKVStore
type CommitID = custodia.CommitID
type Model = custodia.Model
