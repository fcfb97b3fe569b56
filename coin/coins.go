package coin

import (
	"sort"
	"strings"

	"github.com/iov-one/custodia/errors"
)

// Coins represents a set of coins. Most operations on the coin set require
// normalized form. Make sure to normalize you collection before using.
type Coins []*Coin

// CombineCoins creates a Coins containing all given coins.
// It will sort them and combine duplicates to produce
// a normalized form regardless of input.
func CombineCoins(cs ...Coin) (Coins, error) {
	var err error
	coins := make(Coins, 0)
	for _, c := range cs {
		coins, err = coins.Add(c)
		if err != nil {
			return nil, err
		}
	}
	if err := coins.Validate(); err != nil {
		return nil, err
	}
	return coins, nil
}

// Clone returns a copy that can be safely modified
func (cs Coins) Clone() Coins {
	if cs == nil {
		return nil
	}
	res := make([]*Coin, len(cs))
	for i, c := range cs {
		res[i] = c.Clone()
	}
	return Coins(res)
}

// Add modifies the Coins, to increase the holdings by c
func (cs Coins) Add(c Coin) (Coins, error) {
	// We ignore zero values
	if c.IsZero() {
		return cs, nil
	}

	has, i := cs.findCoin(c.ID())
	// add to existing coin
	if has != nil {
		sum, err := has.Add(c)
		if err != nil {
			return nil, err
		}
		// if the result is zero, remove this coin
		if sum.IsZero() {
			return append(cs[:i], cs[i+1:]...), nil
		}
		cs[i] = &sum
		return cs, nil
	}

	// special case append to end
	if i == len(cs) {
		return append(cs, &c), nil
	}

	// insert in beginning or middle (with one alloc)
	res := append(cs, nil)
	copy(res[i+1:], res[i:])
	res[i] = &c
	return res, nil
}

// findCoin returns a coin with the given denomination along with its
// position in the set, or nil and the position where it should be
// inserted to keep the set sorted.
func (cs Coins) findCoin(denom string) (*Coin, int) {
	i := sort.Search(len(cs), func(n int) bool {
		return cs[n].Denom >= denom
	})
	if i == len(cs) || cs[i].Denom != denom {
		return nil, i
	}
	return cs[i], i
}

// Contains returns true if there is at least that much coin
// in the set. If it returns true, then:
//   cs.Remove(c).IsNonNegative() == true
func (cs Coins) Contains(c Coin) bool {
	has, _ := cs.findCoin(c.Denom)
	if has == nil {
		return false
	}
	return has.IsGTE(c)
}

// IsEmpty returns true when the set contains no coins.
func (cs Coins) IsEmpty() bool {
	return len(cs) == 0
}

// IsPositive returns true there is at least one coin
// and all coins are positive
func (cs Coins) IsPositive() bool {
	return !cs.IsEmpty() && cs.IsNonNegative()
}

// IsNonNegative returns true if all coins are positive,
// but also accepts an empty set
func (cs Coins) IsNonNegative() bool {
	for _, c := range cs {
		if !c.IsPositive() {
			return false
		}
	}
	return true
}

// Equals returns true if both sets contain same coins
func (cs Coins) Equals(o Coins) bool {
	if len(cs) != len(o) {
		return false
	}
	for i := range cs {
		if !cs[i].Equals(*o[i]) {
			return false
		}
	}
	return true
}

// Validate requires that all coins are in normalized form:
// sorted by denomination, no duplicates and all well formed.
func (cs Coins) Validate() error {
	last := ""
	for _, c := range cs {
		if c == nil {
			return errors.Wrap(errors.ErrState, "nil coin")
		}
		if err := c.Validate(); err != nil {
			return err
		}
		if c.IsZero() {
			return errors.Wrap(errors.ErrState, "zero coin in set")
		}
		if c.Denom < last {
			return errors.Wrapf(errors.ErrState, "not sorted: %s", c.Denom)
		}
		if c.Denom == last {
			return errors.Wrapf(errors.ErrState, "duplicate denomination: %s", c.Denom)
		}
		last = c.Denom
	}
	return nil
}

func (cs Coins) String() string {
	if len(cs) == 0 {
		return "(empty)"
	}
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.HumanReadable()
	}
	return strings.Join(out, ", ")
}
