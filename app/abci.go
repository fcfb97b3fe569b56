package app

import (
	"encoding/json"

	abci "github.com/tendermint/tendermint/abci/types"

	"github.com/iov-one/custodia"
	"github.com/iov-one/custodia/errors"
)

// ABCI drives an Application through the interface the consensus
// engine expects.
//
// Errors on non-transaction steps are handled as panics, there is no
// way to report them gracefully to the engine.
type ABCI struct {
	app   *Application
	inits []custodia.Initializer
}

var _ abci.Application = (*ABCI)(nil)

// NewABCI wraps the application. The initializers run once, on
// InitChain.
func NewABCI(app *Application, inits ...custodia.Initializer) *ABCI {
	return &ABCI{app: app, inits: inits}
}

// Info returns the last committed height and app hash.
func (a *ABCI) Info(abci.RequestInfo) abci.ResponseInfo {
	id := a.app.db.LatestVersion()
	return abci.ResponseInfo{
		Data:             a.app.name,
		LastBlockHeight:  id.Version,
		LastBlockAppHash: id.Hash,
	}
}

// SetOption - ABCI
func (a *ABCI) SetOption(abci.RequestSetOption) abci.ResponseSetOption {
	return abci.ResponseSetOption{Log: "Not Implemented"}
}

// InitChain runs when the chain starts for the first time.
func (a *ABCI) InitChain(req abci.RequestInitChain) abci.ResponseInitChain {
	if len(req.AppStateBytes) == 0 {
		panic(errors.Wrap(errors.ErrEmpty, "app_state not set in genesis"))
	}
	var opts custodia.Options
	if err := json.Unmarshal(req.AppStateBytes, &opts); err != nil {
		panic(errors.Wrap(err, "cannot parse app_state"))
	}
	if err := a.app.InitGenesis(opts, a.inits...); err != nil {
		panic(err)
	}
	return abci.ResponseInitChain{}
}

// BeginBlock sets the context for all transactions of this block.
func (a *ABCI) BeginBlock(req abci.RequestBeginBlock) abci.ResponseBeginBlock {
	a.app.BeginBlock(req.Header.Height, custodia.AsUnixTime(req.Header.Time))
	return abci.ResponseBeginBlock{}
}

// CheckTx - ABCI
func (a *ABCI) CheckTx(raw []byte) abci.ResponseCheckTx {
	return a.app.CheckTx(raw)
}

// DeliverTx - ABCI
func (a *ABCI) DeliverTx(raw []byte) abci.ResponseDeliverTx {
	return a.app.DeliverTx(raw)
}

// EndBlock - ABCI
func (a *ABCI) EndBlock(abci.RequestEndBlock) abci.ResponseEndBlock {
	return abci.ResponseEndBlock{}
}

// Commit makes the block state durable.
func (a *ABCI) Commit() abci.ResponseCommit {
	id := a.app.Commit()
	return abci.ResponseCommit{Data: id.Hash}
}

// Query - ABCI
func (a *ABCI) Query(req abci.RequestQuery) abci.ResponseQuery {
	return a.app.Query(req)
}
