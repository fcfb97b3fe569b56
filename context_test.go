package custodia_test

import (
	"context"
	"testing"
	"time"

	"github.com/iov-one/custodia"
	"github.com/iov-one/custodia/custodiatest/assert"
)

func TestContextBlockInfo(t *testing.T) {
	bg := context.Background()

	if _, ok := custodia.GetHeight(bg); ok {
		t.Fatal("empty context must not contain a height")
	}
	if _, ok := custodia.BlockTime(bg); ok {
		t.Fatal("empty context must not contain a block time")
	}

	now := time.Date(2019, 6, 1, 12, 0, 0, 0, time.UTC)
	ctx := custodia.WithHeight(bg, 123)
	ctx = custodia.WithBlockTime(ctx, now)

	height, ok := custodia.GetHeight(ctx)
	assert.Equal(t, true, ok)
	assert.Equal(t, int64(123), height)

	blockTime, ok := custodia.BlockTime(ctx)
	assert.Equal(t, true, ok)
	assert.Equal(t, now, blockTime)
}

func TestBlockTimeIsUTC(t *testing.T) {
	local := time.Date(2019, 6, 1, 14, 0, 0, 0, time.FixedZone("test", 2*60*60))
	ctx := custodia.WithBlockTime(context.Background(), local)
	got, ok := custodia.BlockTime(ctx)
	assert.Equal(t, true, ok)
	assert.Equal(t, time.UTC, got.Location())
	if !got.Equal(local) {
		t.Fatalf("want the same moment in time, got %s", got)
	}
}

func TestIsExpired(t *testing.T) {
	now := time.Date(2019, 6, 1, 12, 0, 0, 0, time.UTC)
	ctx := custodia.WithBlockTime(context.Background(), now)

	future := custodia.AsUnixTime(now).Add(5 * time.Minute)
	if custodia.IsExpired(ctx, future) {
		t.Fatal("future is not expired")
	}

	past := custodia.AsUnixTime(now).Add(-5 * time.Minute)
	if !custodia.IsExpired(ctx, past) {
		t.Fatal("past is expired")
	}

	// Expiration is inclusive.
	if !custodia.IsExpired(ctx, custodia.AsUnixTime(now)) {
		t.Fatal("when expiration time is equal to now it is expired")
	}
}

func TestIsExpiredRequiresBlockTime(t *testing.T) {
	assert.Panics(t, func() {
		custodia.IsExpired(context.Background(), custodia.UnixTime(123))
	})
}

func TestHeightReached(t *testing.T) {
	ctx := custodia.WithHeight(context.Background(), 100)

	if custodia.HeightReached(ctx, 101) {
		t.Fatal("future height is not reached")
	}
	if !custodia.HeightReached(ctx, 100) {
		t.Fatal("current height is reached")
	}
	if !custodia.HeightReached(ctx, 99) {
		t.Fatal("past height is reached")
	}
}

func TestHeightReachedRequiresHeight(t *testing.T) {
	assert.Panics(t, func() {
		custodia.HeightReached(context.Background(), 123)
	})
}

func TestGetLoggerDefault(t *testing.T) {
	if custodia.GetLogger(context.Background()) == nil {
		t.Fatal("context without a logger must return the default one")
	}
}
