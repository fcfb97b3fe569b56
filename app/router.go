package app

import (
	"fmt"
	"regexp"

	"github.com/iov-one/custodia"
	"github.com/iov-one/custodia/errors"
)

// isPath constrains message paths to "extension/operation" form
var isPath = regexp.MustCompile(`^[a-z_]+(/[a-z_]+)*$`).MatchString

// Router allows us to register many handlers with different paths and
// then direct each message to the registered handler.
type Router struct {
	routes map[string]custodia.Handler
}

var _ custodia.Registry = (*Router)(nil)
var _ custodia.Handler = (*Router)(nil)

// NewRouter initializes a router with no routes.
func NewRouter() *Router {
	return &Router{
		routes: make(map[string]custodia.Handler),
	}
}

// Handle adds a new Handler for the given path. It panics if another
// handler was already registered for this path or if the path is of an
// invalid format.
func (r *Router) Handle(path string, h custodia.Handler) {
	if !isPath(path) {
		panic(fmt.Sprintf("invalid path format: %q", path))
	}
	if _, ok := r.routes[path]; ok {
		panic(fmt.Sprintf("re-registering route: %q", path))
	}
	r.routes[path] = h
}

// Handler returns the registered Handler for this path. If no path is
// found, it returns a noSuchPathHandler that errors on all calls.
func (r *Router) Handler(path string) custodia.Handler {
	h, ok := r.routes[path]
	if !ok {
		return noSuchPathHandler(path)
	}
	return h
}

// Check dispatches to the proper handler based on path
func (r *Router) Check(ctx custodia.Context, store custodia.KVStore, tx custodia.Tx) (*custodia.CheckResult, error) {
	path := custodia.GetPath(tx)
	return r.Handler(path).Check(ctx, store, tx)
}

// Deliver dispatches to the proper handler based on path
func (r *Router) Deliver(ctx custodia.Context, store custodia.KVStore, tx custodia.Tx) (*custodia.DeliverResult, error) {
	path := custodia.GetPath(tx)
	return r.Handler(path).Deliver(ctx, store, tx)
}

// noSuchPathHandler always returns ErrNotFound with the path attached
type noSuchPathHandler string

var _ custodia.Handler = noSuchPathHandler("")

func (h noSuchPathHandler) Check(custodia.Context, custodia.KVStore, custodia.Tx) (*custodia.CheckResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(h))
}

func (h noSuchPathHandler) Deliver(custodia.Context, custodia.KVStore, custodia.Tx) (*custodia.DeliverResult, error) {
	return nil, errors.Wrapf(errors.ErrNotFound, "no handler for message path %q", string(h))
}
