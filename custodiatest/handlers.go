package custodiatest

import "github.com/iov-one/custodia"

// Handler implements custodia.Handler and remembers how many times
// it was called. All results are configured upfront.
type Handler struct {
	checkCall   int
	CheckResult custodia.CheckResult
	CheckErr    error

	deliverCall   int
	DeliverResult custodia.DeliverResult
	DeliverErr    error
}

var _ custodia.Handler = (*Handler)(nil)

func (h *Handler) Check(ctx custodia.Context, db custodia.KVStore, tx custodia.Tx) (*custodia.CheckResult, error) {
	h.checkCall++
	if h.CheckErr != nil {
		return nil, h.CheckErr
	}
	res := h.CheckResult
	return &res, nil
}

func (h *Handler) Deliver(ctx custodia.Context, db custodia.KVStore, tx custodia.Tx) (*custodia.DeliverResult, error) {
	h.deliverCall++
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

func (h *Handler) CheckCallCount() int {
	return h.checkCall
}

func (h *Handler) DeliverCallCount() int {
	return h.deliverCall
}

func (h *Handler) CallCount() int {
	return h.checkCall + h.deliverCall
}
