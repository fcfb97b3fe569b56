package escrow

import (
	"github.com/iov-one/custodia"
	"github.com/iov-one/custodia/coin"
	"github.com/iov-one/custodia/errors"
)

const (
	pathCreateMsg  = "escrow/create"
	pathReleaseMsg = "escrow/release"
	pathReturnMsg  = "escrow/return"
)

var _ custodia.Msg = (*CreateMsg)(nil)
var _ custodia.Msg = (*ReleaseMsg)(nil)
var _ custodia.Msg = (*ReturnMsg)(nil)

// Path fulfills custodia.Msg interface to allow routing
func (CreateMsg) Path() string {
	return pathCreateMsg
}

// Path fulfills custodia.Msg interface to allow routing
func (ReleaseMsg) Path() string {
	return pathReleaseMsg
}

// Path fulfills custodia.Msg interface to allow routing
func (ReturnMsg) Path() string {
	return pathReturnMsg
}

// Validate makes sure that this is sensible
func (m *CreateMsg) Validate() error {
	if m.Arbiter == nil {
		return errors.Wrap(errors.ErrEmpty, "arbiter")
	}
	if m.Recipient == nil {
		return errors.Wrap(errors.ErrEmpty, "recipient")
	}
	if m.EndHeight < 0 {
		return errors.Wrap(errors.ErrInput, "negative end height")
	}
	if err := m.EndTime.Validate(); err != nil {
		return errors.Wrap(err, "invalid end time")
	}
	return validateAddresses(m.Arbiter, m.Recipient, m.Source)
}

// Validate makes sure that this is sensible. A missing amount means
// the full balance and is valid.
func (m *ReleaseMsg) Validate() error {
	if m.Amount == nil {
		return nil
	}
	return validateAmount(m.Amount)
}

// Validate always returns nil as there is no data
func (m *ReturnMsg) Validate() error {
	return nil
}

// validateAddresses returns an error if any address doesn't validate
// nil is considered valid here
func validateAddresses(addrs ...custodia.Address) error {
	for _, a := range addrs {
		if a != nil {
			if err := a.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateAmount(amount coin.Coins) error {
	// we enforce this is positive
	if !amount.IsPositive() {
		return errors.Wrapf(errors.ErrAmount, "non-positive: %#v", &amount)
	}
	// then make sure these are properly formatted coins
	return amount.Validate()
}
