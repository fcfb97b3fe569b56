package escrow

import (
	"fmt"

	"github.com/iov-one/custodia/errors"
)

// ABCI response codes for this extension, range 1010-1020.
var (
	// ErrEscrowExpired is returned when an operation requires a live
	// escrow but the end conditions already passed.
	ErrEscrowExpired = errors.Register(1010, "escrow expired")

	// ErrEscrowNotExpired is returned when a refund is requested
	// before any end condition passed.
	ErrEscrowNotExpired = errors.Register(1011, "escrow not expired")
)

func errExpired(e *Escrow) error {
	return errors.Wrap(ErrEscrowExpired, describeEnd(e))
}

func errNotExpired(e *Escrow) error {
	return errors.Wrap(ErrEscrowNotExpired, describeEnd(e))
}

// describeEnd renders the end conditions for error messages.
func describeEnd(e *Escrow) string {
	switch {
	case e.EndHeight != 0 && e.EndTime != 0:
		return fmt.Sprintf("end height %d, end time %s", e.EndHeight, e.EndTime)
	case e.EndHeight != 0:
		return fmt.Sprintf("end height %d", e.EndHeight)
	case e.EndTime != 0:
		return fmt.Sprintf("end time %s", e.EndTime)
	default:
		return "no end conditions"
	}
}
