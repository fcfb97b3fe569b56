package escrow

import (
	"github.com/iov-one/custodia"
	"github.com/iov-one/custodia/coin"
	"github.com/iov-one/custodia/errors"
	"github.com/iov-one/custodia/x"
	"github.com/tendermint/tendermint/libs/common"
)

const (
	// pay escrow cost up-front
	createEscrowCost  int64 = 300
	returnEscrowCost  int64 = 0
	releaseEscrowCost int64 = 0
)

// RegisterRoutes will instantiate and register
// all handlers in this package
func RegisterRoutes(r custodia.Registry, auth x.Authenticator, bank custodia.BankQuerier) {
	r.Handle(pathCreateMsg, CreateEscrowHandler{auth: auth})
	r.Handle(pathReleaseMsg, ReleaseEscrowHandler{auth: auth, bank: bank})
	r.Handle(pathReturnMsg, ReturnEscrowHandler{auth: auth, bank: bank})
}

// RegisterQuery exposes the escrow state and the arbiter address.
func RegisterQuery(qr custodia.QueryRouter) {
	qr.Register("/escrow", stateQuery{})
	qr.Register("/escrow/arbiter", arbiterQuery{})
}

// CreateEscrowHandler initializes the escrow singleton
type CreateEscrowHandler struct {
	auth x.Authenticator
}

var _ custodia.Handler = CreateEscrowHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it.
func (h CreateEscrowHandler) Check(ctx custodia.Context, db custodia.KVStore, tx custodia.Tx) (*custodia.CheckResult, error) {
	_, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	return &custodia.CheckResult{GasAllocated: createEscrowCost}, nil
}

// Deliver persists the escrow if all preconditions are met. The host
// locks the funds on the contract account in the same transaction so
// no transfer instruction is emitted here.
func (h CreateEscrowHandler) Deliver(ctx custodia.Context, db custodia.KVStore, tx custodia.Tx) (*custodia.DeliverResult, error) {
	msg, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	// apply a default for source
	source := msg.Source
	if source == nil {
		main := x.MainSigner(ctx, h.auth)
		if main == nil {
			return nil, errors.Wrap(errors.ErrUnauthorized, "no source and no signer")
		}
		source = main.Address()
	}

	escrow := &Escrow{
		Arbiter:   msg.Arbiter,
		Recipient: msg.Recipient,
		Source:    source,
		EndHeight: msg.EndHeight,
		EndTime:   msg.EndTime,
		Address:   ContractAddress(),
	}
	if err := saveEscrow(db, escrow); err != nil {
		return nil, errors.Wrap(err, "cannot store escrow")
	}

	res := &custodia.DeliverResult{
		Data: escrow.Address,
		Tags: []common.KVPair{
			{Key: []byte("action"), Value: []byte("create")},
		},
	}
	return res, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h CreateEscrowHandler) validate(ctx custodia.Context, db custodia.KVStore, tx custodia.Tx) (*CreateMsg, error) {
	var msg CreateMsg
	if err := custodia.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}

	if hasEscrow(db) {
		return nil, errors.Wrap(errors.ErrState, "escrow already exists")
	}

	// refuse an escrow that is expired on arrival
	probe := Escrow{EndHeight: msg.EndHeight, EndTime: msg.EndTime}
	if isExpired(ctx, &probe) {
		return nil, errExpired(&probe)
	}

	// Source must authorize this (if not set, defaults to MainSigner).
	if msg.Source != nil {
		if !h.auth.HasAddress(ctx, msg.Source) {
			return nil, errors.ErrUnauthorized
		}
	}

	return &msg, nil
}

// ReleaseEscrowHandler sends funds to the recipient
type ReleaseEscrowHandler struct {
	auth x.Authenticator
	bank custodia.BankQuerier
}

var _ custodia.Handler = ReleaseEscrowHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it
func (h ReleaseEscrowHandler) Check(ctx custodia.Context, db custodia.KVStore, tx custodia.Tx) (*custodia.CheckResult, error) {
	_, _, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	return &custodia.CheckResult{GasAllocated: releaseEscrowCost}, nil
}

// Deliver emits a transfer from the contract account to the recipient
// if all preconditions are met. Without an amount in the message the
// full balance is sent.
func (h ReleaseEscrowHandler) Deliver(ctx custodia.Context, db custodia.KVStore, tx custodia.Tx) (*custodia.DeliverResult, error) {
	msg, escrow, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	// use amount in message, or the full balance
	request := coin.Coins(msg.Amount)
	if len(request) == 0 {
		available, err := h.bank.AllBalances(escrow.Address)
		if err != nil {
			return nil, errors.Wrap(err, "cannot query balance")
		}
		request = available
	}
	if !request.IsPositive() {
		return nil, errors.Wrap(errors.ErrAmount, "nothing to release")
	}

	res := &custodia.DeliverResult{
		Data: escrow.Address,
		Msgs: []custodia.BankSend{
			{From: escrow.Address, To: escrow.Recipient, Amount: request},
		},
		Tags: []common.KVPair{
			{Key: []byte("action"), Value: []byte("release")},
			{Key: []byte("recipient"), Value: []byte(escrow.Recipient.String())},
		},
	}
	return res, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h ReleaseEscrowHandler) validate(ctx custodia.Context, db custodia.KVStore, tx custodia.Tx) (*ReleaseMsg, *Escrow, error) {
	var msg ReleaseMsg
	if err := custodia.LoadMsg(tx, &msg); err != nil {
		return nil, nil, errors.Wrap(err, "load msg")
	}
	escrow, err := loadEscrow(db)
	if err != nil {
		return nil, nil, err
	}

	// an expired escrow refuses any release, even by the arbiter
	if isExpired(ctx, escrow) {
		return nil, nil, errExpired(escrow)
	}

	if !h.auth.HasAddress(ctx, escrow.Arbiter) {
		return nil, nil, errors.ErrUnauthorized
	}

	return &msg, escrow, nil
}

// ReturnEscrowHandler sends the remaining balance back to the source
type ReturnEscrowHandler struct {
	auth x.Authenticator
	bank custodia.BankQuerier
}

var _ custodia.Handler = ReturnEscrowHandler{}

// Check just verifies it is properly formed and returns
// the cost of executing it.
func (h ReturnEscrowHandler) Check(ctx custodia.Context, db custodia.KVStore, tx custodia.Tx) (*custodia.CheckResult, error) {
	_, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	return &custodia.CheckResult{GasAllocated: returnEscrowCost}, nil
}

// Deliver emits a transfer of the full remaining balance back to the
// source if all preconditions are met.
func (h ReturnEscrowHandler) Deliver(ctx custodia.Context, db custodia.KVStore, tx custodia.Tx) (*custodia.DeliverResult, error) {
	escrow, err := h.validate(ctx, db, tx)
	if err != nil {
		return nil, err
	}

	available, err := h.bank.AllBalances(escrow.Address)
	if err != nil {
		return nil, errors.Wrap(err, "cannot query balance")
	}
	if !available.IsPositive() {
		return nil, errors.Wrap(errors.ErrAmount, "nothing to return")
	}

	res := &custodia.DeliverResult{
		Data: escrow.Address,
		Msgs: []custodia.BankSend{
			{From: escrow.Address, To: escrow.Source, Amount: available},
		},
		Tags: []common.KVPair{
			{Key: []byte("action"), Value: []byte("return")},
			{Key: []byte("source"), Value: []byte(escrow.Source.String())},
		},
	}
	return res, nil
}

// validate does all common pre-processing between Check and Deliver.
func (h ReturnEscrowHandler) validate(ctx custodia.Context, db custodia.KVStore, tx custodia.Tx) (*Escrow, error) {
	var msg ReturnMsg
	if err := custodia.LoadMsg(tx, &msg); err != nil {
		return nil, errors.Wrap(err, "load msg")
	}
	escrow, err := loadEscrow(db)
	if err != nil {
		return nil, err
	}

	conf, err := loadConf(db)
	if err != nil {
		return nil, err
	}
	if !conf.AnyoneCanRefund && !h.auth.HasAddress(ctx, escrow.Arbiter) {
		return nil, errors.ErrUnauthorized
	}

	if !isExpired(ctx, escrow) {
		return nil, errNotExpired(escrow)
	}

	return escrow, nil
}

// stateQuery returns the raw serialized escrow.
type stateQuery struct{}

var _ custodia.QueryHandler = stateQuery{}

func (stateQuery) Query(db custodia.ReadOnlyKVStore, mod string, data []byte) ([]custodia.Model, error) {
	raw := db.Get(stateKey)
	if raw == nil {
		return nil, errors.Wrap(errors.ErrNotFound, "escrow")
	}
	return []custodia.Model{custodia.Pair(stateKey, raw)}, nil
}

// arbiterQuery returns only the arbiter address.
type arbiterQuery struct{}

var _ custodia.QueryHandler = arbiterQuery{}

func (arbiterQuery) Query(db custodia.ReadOnlyKVStore, mod string, data []byte) ([]custodia.Model, error) {
	escrow, err := loadEscrow(db)
	if err != nil {
		return nil, err
	}
	return []custodia.Model{custodia.Pair([]byte("arbiter"), escrow.Arbiter)}, nil
}
