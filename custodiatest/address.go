package custodiatest

import (
	"encoding/binary"
	"sync/atomic"
	"testing"

	"github.com/iov-one/custodia"
)

// ParseAddress takes an address in a human readable format and returns
// its binary representation. This function is a test helper that is using
// custodia.ParseAddress function functionality.
func ParseAddress(t testing.TB, encodedAddress string) custodia.Address {
	t.Helper()

	addr, err := custodia.ParseAddress(encodedAddress)
	if err != nil {
		t.Fatalf("cannot parse %q address: %s", encodedAddress, err)
	}
	return addr
}

// condCnt is an always increasing counter used by condition generator to
// ensure uniqueness of produced data.
var condCnt uint64

// NewCondition returns a mock condition. Each call returns a unique
// instance.
func NewCondition() custodia.Condition {
	data := make([]byte, 8)
	binary.BigEndian.PutUint64(data, atomic.AddUint64(&condCnt, 1))
	return custodia.NewCondition("mock", "cond", data)
}

// NewAddress returns the address of a new mock condition.
func NewAddress() custodia.Address {
	return NewCondition().Address()
}
