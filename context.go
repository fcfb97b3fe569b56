package custodia

import (
	"context"
	"time"

	"github.com/tendermint/tendermint/libs/log"
)

// Context is just an alias for the standard implementation.
// We use functions to extend it to our domain.
type Context = context.Context

// DefaultLogger is used for all context that have not
// set anything themselves.
var DefaultLogger = log.NewNopLogger()

type contextKey int // local to the custodia module

const (
	contextKeyHeight contextKey = iota
	contextKeyTime
	contextKeyLogger
)

// WithHeight sets the block height for the Context.
// The height must not be changed once set.
func WithHeight(ctx Context, height int64) Context {
	return context.WithValue(ctx, contextKeyHeight, height)
}

// GetHeight returns the current block height and true. If the block height
// is not present in the context, second returned value is false.
func GetHeight(ctx Context) (int64, bool) {
	val, ok := ctx.Value(contextKeyHeight).(int64)
	return val, ok
}

// WithBlockTime sets the block time for the Context. Time is always
// represented in UTC.
func WithBlockTime(ctx Context, t time.Time) Context {
	return context.WithValue(ctx, contextKeyTime, t.UTC())
}

// BlockTime returns the block time and true. If the block time is not
// present in the context, second returned value is false.
func BlockTime(ctx Context) (time.Time, bool) {
	val, ok := ctx.Value(contextKeyTime).(time.Time)
	return val, ok
}

// WithLogger sets the logger for the Context.
func WithLogger(ctx Context, logger log.Logger) Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// GetLogger returns the logger stored in the context, or the DefaultLogger
// when none was set.
func GetLogger(ctx Context) log.Logger {
	if logger, ok := ctx.Value(contextKeyLogger).(log.Logger); ok {
		return logger
	}
	return DefaultLogger
}

// WithLogInfo accepts keyvalue pairs, and returns another
// context like this, after passing all the keyvals to the
// Logger
func WithLogInfo(ctx Context, keyvals ...interface{}) Context {
	logger := GetLogger(ctx).With(keyvals...)
	return WithLogger(ctx, logger)
}

// IsExpired returns true if given time is in the past as compared to the
// "now" as declared for the block. Expiration is inclusive, meaning that
// if current time is equal to the expiration time than this function
// returns true.
//
// This function panic if the block time is not provided in the context.
// This must never happen. The panic is here to prevent from broken setup
// to be processing data incorrectly.
func IsExpired(ctx Context, t UnixTime) bool {
	blockNow, ok := BlockTime(ctx)
	if !ok {
		panic("block time is not present")
	}
	return t <= AsUnixTime(blockNow)
}

// HeightReached returns true if the current block height is equal to or
// greater than the given height.
//
// Same as IsExpired, this function panic when the block height is missing
// from the context.
func HeightReached(ctx Context, height int64) bool {
	blockHeight, ok := GetHeight(ctx)
	if !ok {
		panic("block height is not present")
	}
	return blockHeight >= height
}
