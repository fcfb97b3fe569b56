package coin

import (
	"fmt"
	"regexp"

	"github.com/iov-one/custodia/errors"
)

//-------------- Coin -----------------------

// IsDenom is the RegExp to ensure valid denomination names
var IsDenom = regexp.MustCompile(`^[a-z][a-z0-9]{2,15}$`).MatchString

const (
	// MaxAmount is the largest amount we accept
	MaxAmount int64 = 999999999999999 // 10^15-1
	// MinAmount is the lowest amount we accept
	MinAmount = -MaxAmount
)

// NewCoin creates a new coin object
func NewCoin(amount int64, denom string) Coin {
	return Coin{
		Amount: amount,
		Denom:  denom,
	}
}

// NewCoinp returns a pointer to a new coin.
func NewCoinp(amount int64, denom string) *Coin {
	c := NewCoin(amount, denom)
	return &c
}

// ID returns a coin denomination name.
func (c Coin) ID() string {
	return c.Denom
}

// Add combines two coins of the same denomination.
// It returns an error on mismatched denominations or overflow.
func (c Coin) Add(o Coin) (Coin, error) {
	if !c.SameType(o) {
		err := errors.Wrapf(errors.ErrAmount, "adding %s to %s", c.Denom, o.Denom)
		return Coin{}, err
	}

	c.Amount += o.Amount
	if err := c.Validate(); err != nil {
		return Coin{}, err
	}
	return c, nil
}

// Subtract given amount.
func (c Coin) Subtract(amount Coin) (Coin, error) {
	return c.Add(amount.Negative())
}

// Negative returns the opposite coin value
//   c.Add(c.Negative()) == 0
func (c Coin) Negative() Coin {
	return Coin{
		Denom:  c.Denom,
		Amount: -1 * c.Amount,
	}
}

// Compare will check values of two coins, without matching types.
// It returns -1, 0 or 1 when c is respectively smaller, equal or
// greater than o.
func (c Coin) Compare(o Coin) int {
	switch {
	case c.Amount < o.Amount:
		return -1
	case c.Amount > o.Amount:
		return 1
	default:
		return 0
	}
}

// Equals returns true if all fields are identical
func (c Coin) Equals(o Coin) bool {
	return c.Denom == o.Denom && c.Amount == o.Amount
}

// IsEmpty returns true on null or zero amount
func IsEmpty(c *Coin) bool {
	return c == nil || c.IsZero()
}

// IsZero returns true amount is 0
func (c Coin) IsZero() bool {
	return c.Amount == 0
}

// IsPositive returns true if the value is greater than 0
func (c Coin) IsPositive() bool {
	return c.Amount > 0
}

// IsNonNegative returns true if the value is 0 or higher
func (c Coin) IsNonNegative() bool {
	return c.Amount >= 0
}

// IsGTE returns true if c is same denomination and at least as big as o
func (c Coin) IsGTE(o Coin) bool {
	if !c.SameType(o) || c.Amount < o.Amount {
		return false
	}
	return true
}

// SameType returns true if they have the same denomination
func (c Coin) SameType(o Coin) bool {
	return c.Denom == o.Denom
}

// Clone provides an independent copy of a coin pointer
func (c *Coin) Clone() *Coin {
	if c == nil {
		return nil
	}
	return &Coin{
		Denom:  c.Denom,
		Amount: c.Amount,
	}
}

// Validate ensures that the coin is in the valid amount range
// and the denomination is well formed.
func (c Coin) Validate() error {
	if !IsDenom(c.Denom) {
		return errors.Wrapf(errors.ErrInput, "invalid denomination: %s", c.Denom)
	}
	if c.Amount < MinAmount || c.Amount > MaxAmount {
		return errors.Wrap(errors.ErrOverflow, "amount out of range")
	}
	return nil
}

// HumanReadable prints the coin in the standard "<amount> <denom>" form.
func (c Coin) HumanReadable() string {
	return fmt.Sprintf("%d %s", c.Amount, c.Denom)
}
