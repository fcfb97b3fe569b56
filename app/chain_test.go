package app

import (
	"context"
	"testing"

	"github.com/iov-one/custodia"
	"github.com/iov-one/custodia/custodiatest"
	"github.com/iov-one/custodia/custodiatest/assert"
	"github.com/iov-one/custodia/errors"
	"github.com/iov-one/custodia/store"
	"github.com/iov-one/custodia/x/utils"
)

func TestChainDecorators(t *testing.T) {
	h := &custodiatest.Handler{}
	stack := ChainDecorators(
		utils.NewLogging(),
		nil, // nils are silently dropped
		utils.NewRecovery(),
		utils.NewSavepoint().OnDeliver(),
	).WithHandler(h)

	db := store.MemStore()
	tx := &custodiatest.Tx{Msg: &custodiatest.Msg{RoutePath: "ok/go"}}

	_, err := stack.Check(context.Background(), db, tx)
	assert.Nil(t, err)
	_, err = stack.Deliver(context.Background(), db, tx)
	assert.Nil(t, err)
	assert.Equal(t, 1, h.CheckCallCount())
	assert.Equal(t, 1, h.DeliverCallCount())
}

// panicHandler always panics, to prove the recovery middleware works
type panicHandler struct{}

var _ custodia.Handler = panicHandler{}

func (panicHandler) Check(custodia.Context, custodia.KVStore, custodia.Tx) (*custodia.CheckResult, error) {
	panic("check panic")
}

func (panicHandler) Deliver(custodia.Context, custodia.KVStore, custodia.Tx) (*custodia.DeliverResult, error) {
	panic("deliver panic")
}

func TestChainRecoversPanic(t *testing.T) {
	stack := ChainDecorators(utils.NewRecovery()).WithHandler(panicHandler{})

	db := store.MemStore()
	tx := &custodiatest.Tx{Msg: &custodiatest.Msg{RoutePath: "boom/now"}}

	_, err := stack.Check(context.Background(), db, tx)
	assert.IsErr(t, errors.ErrPanic, err)
	_, err = stack.Deliver(context.Background(), db, tx)
	assert.IsErr(t, errors.ErrPanic, err)
}

func TestSavepointRollsBackErrors(t *testing.T) {
	fail := &custodiatest.Handler{DeliverErr: errors.ErrHuman}
	stack := ChainDecorators(utils.NewSavepoint().OnDeliver()).WithHandler(fail)

	db := store.MemStore()
	db.Set([]byte("before"), []byte("kept"))

	tx := &custodiatest.Tx{Msg: &custodiatest.Msg{RoutePath: "no/luck"}}
	_, err := stack.Deliver(context.Background(), db, tx)
	assert.IsErr(t, errors.ErrHuman, err)
	assert.Equal(t, []byte("kept"), db.Get([]byte("before")))
}
