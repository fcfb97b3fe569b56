package escrow

import (
	"github.com/iov-one/custodia"
	"github.com/iov-one/custodia/errors"
	"github.com/iov-one/custodia/gconf"
)

var _ custodia.Initializer = (*Initializer)(nil)

// Initializer fulfils the Initializer interface to load data from the
// genesis file
type Initializer struct{}

// FromGenesis will parse the refund configuration and an optional
// initial escrow from genesis and save them in the database.
func (Initializer) FromGenesis(opts custodia.Options, db custodia.KVStore) error {
	var conf Configuration
	switch err := gconf.InitConfig(db, opts, "escrow", &conf); {
	case err == nil:
		// all set
	case errors.ErrNotFound.Is(err):
		// without explicit configuration only the arbiter can
		// trigger a refund
		if err := gconf.Save(db, "escrow", &Configuration{}); err != nil {
			return errors.Wrap(err, "save default configuration")
		}
	default:
		return err
	}

	var e struct {
		Arbiter   custodia.Address  `json:"arbiter"`
		Recipient custodia.Address  `json:"recipient"`
		Source    custodia.Address  `json:"source"`
		EndHeight int64             `json:"end_height"`
		EndTime   custodia.UnixTime `json:"end_time"`
	}
	if opts["escrow"] == nil {
		return nil
	}
	if err := opts.ReadOptions("escrow", &e); err != nil {
		return errors.Wrap(err, "read escrow genesis")
	}

	escrow := Escrow{
		Arbiter:   e.Arbiter,
		Recipient: e.Recipient,
		Source:    e.Source,
		EndHeight: e.EndHeight,
		EndTime:   e.EndTime,
		Address:   ContractAddress(),
	}
	if err := saveEscrow(db, &escrow); err != nil {
		return errors.Wrap(err, "invalid genesis escrow")
	}
	return nil
}
