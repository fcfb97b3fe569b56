package custodiatest

import (
	"github.com/iov-one/custodia"
	"github.com/iov-one/custodia/coin"
	"github.com/iov-one/custodia/errors"
)

// Bank is a mock implementing custodia.BankQuerier. Balances are held
// in memory and set directly by the test.
type Bank struct {
	// Err if set is returned by every query.
	Err error

	balances map[string]coin.Coins
}

var _ custodia.Bank = (*Bank)(nil)

// SetBalance overwrites the balance of the given account.
func (b *Bank) SetBalance(addr custodia.Address, funds coin.Coins) {
	if b.balances == nil {
		b.balances = make(map[string]coin.Coins)
	}
	b.balances[string(addr)] = funds
}

// AllBalances returns the configured balance of the account, or an
// empty set of coins when nothing was set.
func (b *Bank) AllBalances(addr custodia.Address) (coin.Coins, error) {
	if b.Err != nil {
		return nil, b.Err
	}
	return b.balances[string(addr)], nil
}

// Execute moves funds between two in-memory accounts.
func (b *Bank) Execute(msg custodia.BankSend) error {
	if b.Err != nil {
		return b.Err
	}
	from := b.balances[string(msg.From)]
	for _, c := range msg.Amount {
		var err error
		if from, err = from.Add(c.Negative()); err != nil {
			return err
		}
	}
	if !from.IsNonNegative() {
		return errors.Wrapf(errors.ErrAmount, "insufficient funds on %s", msg.From)
	}
	to := b.balances[string(msg.To)]
	for _, c := range msg.Amount {
		var err error
		if to, err = to.Add(*c); err != nil {
			return err
		}
	}
	b.SetBalance(msg.From, from)
	b.SetBalance(msg.To, to)
	return nil
}
