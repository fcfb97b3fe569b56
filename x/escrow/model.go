package escrow

import (
	"github.com/iov-one/custodia"
	"github.com/iov-one/custodia/errors"
	"github.com/iov-one/custodia/gconf"
)

// stateKey is the storage key of the one escrow this contract manages.
var stateKey = []byte("escrow:state")

// Condition is the permission the contract account is derived from.
func Condition() custodia.Condition {
	return custodia.NewCondition("escrow", "state", stateKey)
}

// ContractAddress is the account holding the locked funds.
func ContractAddress() custodia.Address {
	return Condition().Address()
}

// Validate ensures the escrow is valid
func (e *Escrow) Validate() error {
	if err := e.Arbiter.Validate(); err != nil {
		return errors.Wrap(err, "arbiter")
	}
	if err := e.Recipient.Validate(); err != nil {
		return errors.Wrap(err, "recipient")
	}
	if err := e.Source.Validate(); err != nil {
		return errors.Wrap(err, "source")
	}
	if e.EndHeight < 0 {
		return errors.Wrap(errors.ErrInput, "negative end height")
	}
	if err := e.EndTime.Validate(); err != nil {
		return errors.Wrap(err, "end time")
	}
	if err := e.Address.Validate(); err != nil {
		return errors.Wrap(err, "address")
	}
	return nil
}

// isExpired returns true when any end condition of the escrow passed.
// An escrow with no end conditions never expires.
func isExpired(ctx custodia.Context, e *Escrow) bool {
	if e.EndHeight > 0 && custodia.HeightReached(ctx, e.EndHeight) {
		return true
	}
	if e.EndTime > 0 && custodia.IsExpired(ctx, e.EndTime) {
		return true
	}
	return false
}

// hasEscrow checks for an initialized escrow without loading it.
func hasEscrow(db custodia.ReadOnlyKVStore) bool {
	return db.Has(stateKey)
}

// saveEscrow validates the escrow and persists it under the state key.
func saveEscrow(db custodia.KVStore, e *Escrow) error {
	if err := e.Validate(); err != nil {
		return errors.Wrap(err, "invalid escrow")
	}
	raw, err := e.Marshal()
	if err != nil {
		return errors.Wrap(err, "cannot serialize escrow")
	}
	db.Set(stateKey, raw)
	return nil
}

// loadEscrow returns the stored escrow or ErrNotFound when the
// contract was never initialized.
func loadEscrow(db custodia.ReadOnlyKVStore) (*Escrow, error) {
	raw := db.Get(stateKey)
	if raw == nil {
		return nil, errors.Wrap(errors.ErrNotFound, "escrow")
	}
	var e Escrow
	if err := e.Unmarshal(raw); err != nil {
		return nil, errors.Wrap(errors.ErrState, "cannot deserialize escrow")
	}
	return &e, nil
}

// Validate allows the Configuration to be stored via gconf.
func (c *Configuration) Validate() error {
	return nil
}

func loadConf(db custodia.ReadOnlyKVStore) (*Configuration, error) {
	var conf Configuration
	if err := gconf.Load(db, "escrow", &conf); err != nil {
		return nil, errors.Wrap(err, "load configuration")
	}
	return &conf, nil
}
