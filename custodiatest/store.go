package custodiatest

import (
	"testing"

	"github.com/iov-one/custodia"
	"github.com/iov-one/custodia/store/iavl"
)

// CommitKVStore returns a merkle backed store, held fully in memory.
// Use it when a test should exercise the commit and version logic,
// otherwise store.MemStore is enough.
func CommitKVStore(t testing.TB) custodia.CommitKVStore {
	t.Helper()

	db := iavl.MockCommitStore()
	if err := db.LoadLatestVersion(); err != nil {
		t.Fatalf("cannot load latest version: %s", err)
	}
	return db
}
