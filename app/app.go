package app

import (
	"context"
	"fmt"

	abci "github.com/tendermint/tendermint/abci/types"
	"github.com/tendermint/tendermint/libs/log"

	"github.com/iov-one/custodia"
	"github.com/iov-one/custodia/errors"
)

// Application wires a commit store, a handler stack and the host bank
// into a minimal ABCI-shaped state machine. Writes of each delivered
// transaction become durable on Commit.
//
// BankSend instructions returned by a handler are executed against the
// host bank before the transaction writes are accepted. A failing send
// rolls the whole transaction back.
type Application struct {
	name    string
	logger  log.Logger
	db      custodia.CommitKVStore
	handler custodia.Handler
	decoder custodia.TxDecoder
	bank    custodia.Bank
	queries custodia.QueryRouter
	debug   bool

	// working state on top of the last commit
	deliver custodia.KVCacheWrap
	// throwaway layer for CheckTx, reset on every commit
	check custodia.KVCacheWrap

	baseContext  custodia.Context
	blockContext custodia.Context
}

// NewApplication sets up the application around the given store and
// handler stack. Call LoadState before use.
func NewApplication(name string, db custodia.CommitKVStore, handler custodia.Handler,
	decoder custodia.TxDecoder, bank custodia.Bank, queries custodia.QueryRouter) *Application {
	a := &Application{
		name:    name,
		db:      db,
		handler: handler,
		decoder: decoder,
		bank:    bank,
		queries: queries,
	}
	a.WithLogger(log.NewNopLogger())
	a.blockContext = a.baseContext
	return a
}

// WithLogger sets the logger on the Application and returns it,
// to make it easy to chain in initialization
func (a *Application) WithLogger(logger log.Logger) *Application {
	a.logger = logger
	a.baseContext = custodia.WithLogger(context.Background(), logger)
	return a
}

// WithDebug toggles full error details in transaction responses.
// Enable only outside of production.
func (a *Application) WithDebug(debug bool) *Application {
	a.debug = debug
	return a
}

// LoadState loads the latest persisted version and prepares the
// working caches.
func (a *Application) LoadState() error {
	if err := a.db.LoadLatestVersion(); err != nil {
		return err
	}
	a.resetCaches()
	return nil
}

// InitGenesis runs all initializers against the working state and
// commits the result as the first version.
func (a *Application) InitGenesis(opts custodia.Options, inits ...custodia.Initializer) error {
	for _, init := range inits {
		if err := init.FromGenesis(opts, a.deliver); err != nil {
			return errors.Wrap(err, "cannot initialize genesis state")
		}
	}
	a.Commit()
	return nil
}

// BeginBlock sets up the context all transactions of this block
// are executed against.
func (a *Application) BeginBlock(height int64, blockTime custodia.UnixTime) {
	ctx := custodia.WithHeight(a.baseContext, height)
	ctx = custodia.WithBlockTime(ctx, blockTime.Time())
	a.blockContext = ctx
}

// CheckTx runs the handler stack against the throwaway check state.
func (a *Application) CheckTx(raw []byte) abci.ResponseCheckTx {
	tx, err := a.loadTx(raw)
	if err != nil {
		return custodia.CheckTxError(err, a.debug)
	}
	res, err := a.handler.Check(a.blockContext, a.check, tx)
	return custodia.CheckOrError(res, err, a.debug)
}

// DeliverTx executes the transaction against the working state. All
// writes and emitted bank sends are applied together, or not at all.
func (a *Application) DeliverTx(raw []byte) abci.ResponseDeliverTx {
	tx, err := a.loadTx(raw)
	if err != nil {
		return custodia.DeliverTxError(err, a.debug)
	}

	cache := a.deliver.CacheWrap()
	res, err := a.handler.Deliver(a.blockContext, cache, tx)
	if err != nil {
		cache.Discard()
		return custodia.DeliverTxError(err, a.debug)
	}
	for _, msg := range res.Msgs {
		if err := a.bank.Execute(msg); err != nil {
			cache.Discard()
			return custodia.DeliverTxError(errors.Wrapf(err, "cannot execute %s", msg), a.debug)
		}
	}
	cache.Write()
	return res.ToABCI()
}

// Commit persists the working state as the next version and resets
// the check cache.
func (a *Application) Commit() custodia.CommitID {
	a.deliver.Write()
	id := a.db.LatestVersion()
	a.resetCaches()

	a.logger.Info("commit synced",
		"height", id.Version,
		"hash", fmt.Sprintf("%X", id.Hash),
	)
	return id
}

// Query resolves a query path against the registered handlers. Data
// is read from the working state, so it includes delivered but not
// yet committed transactions.
func (a *Application) Query(query abci.RequestQuery) (res abci.ResponseQuery) {
	qh := a.queries.Handler(query.Path)
	if qh == nil {
		res.Code = 1
		res.Log = fmt.Sprintf("unexpected query path: %v", query.Path)
		return res
	}

	models, err := qh.Query(a.deliver, "", query.Data)
	if err != nil {
		res.Code = 1
		res.Log = err.Error()
		return res
	}
	if len(models) > 0 {
		res.Key = models[0].Key
		res.Value = models[0].Value
	}
	res.Height = a.db.LatestVersion().Version
	return res
}

func (a *Application) loadTx(raw []byte) (custodia.Tx, error) {
	tx, err := a.decoder(raw)
	if err != nil {
		return nil, errors.Wrap(err, "cannot parse transaction")
	}
	return tx, nil
}

func (a *Application) resetCaches() {
	a.deliver = a.db.CacheWrap()
	a.check = a.deliver.CacheWrap()
}
