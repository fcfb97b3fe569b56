package custodia

import (
	"fmt"

	"github.com/iov-one/custodia/coin"
	"github.com/iov-one/custodia/errors"
)

// BankSend is an instruction for the host to move funds from the contract
// account to another address. The contract never mutates the ledger
// itself, it only emits those intents as part of a DeliverResult. The
// host must execute them after a successful delivery and before the
// state changes are committed.
type BankSend struct {
	// From is the account charged, usually the contract account.
	From Address
	// To is the address receiving the funds.
	To Address
	// Amount is the set of coins to transfer.
	Amount coin.Coins
}

// Validate returns an error if this instruction cannot be executed.
func (b BankSend) Validate() error {
	if err := b.From.Validate(); err != nil {
		return errors.Wrap(err, "from")
	}
	if err := b.To.Validate(); err != nil {
		return errors.Wrap(err, "to")
	}
	if err := coin.Coins(b.Amount).Validate(); err != nil {
		return errors.Wrap(err, "amount")
	}
	if !b.Amount.IsPositive() {
		return errors.Wrap(errors.ErrAmount, "non-positive transfer")
	}
	return nil
}

func (b BankSend) String() string {
	return fmt.Sprintf("send %s from %s to %s", b.Amount, b.From, b.To)
}

// BankQuerier resolves the current balance of an account on the host
// ledger. Balances are never cached by the contract because they can
// change between calls.
type BankQuerier interface {
	// AllBalances returns all coins held by the given account. A missing
	// account yields an empty set, not an error.
	AllBalances(addr Address) (coin.Coins, error)
}

// BankExecutor performs a transfer on the host ledger.
type BankExecutor interface {
	// Execute moves the funds. It must fail when the source account
	// does not hold enough coins.
	Execute(msg BankSend) error
}

// Bank gives full access to the host ledger.
type Bank interface {
	BankQuerier
	BankExecutor
}
