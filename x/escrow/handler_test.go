package escrow

import (
	"context"
	"testing"
	"time"

	"github.com/iov-one/custodia"
	"github.com/iov-one/custodia/coin"
	"github.com/iov-one/custodia/custodiatest"
	"github.com/iov-one/custodia/custodiatest/assert"
	"github.com/iov-one/custodia/errors"
	"github.com/iov-one/custodia/gconf"
	"github.com/iov-one/custodia/store"
	"github.com/iov-one/custodia/x"
)

var (
	blockNow = time.Date(2019, 6, 1, 12, 0, 0, 0, time.UTC)

	initialCoins = mustCombineCoins(coin.NewCoin(1000, "earth"))
	partialCoins = mustCombineCoins(coin.NewCoin(500, "earth"))
)

// blockCtx returns a context positioned at the given block height,
// with the block time fixed at blockNow.
func blockCtx(height int64) custodia.Context {
	ctx := custodia.WithHeight(context.Background(), height)
	return custodia.WithBlockTime(ctx, blockNow)
}

func mustCombineCoins(cs ...coin.Coin) coin.Coins {
	s, err := coin.CombineCoins(cs...)
	if err != nil {
		panic(err)
	}
	return s
}

// savedEscrow writes a live escrow into the store, the state every
// release and return test starts from.
func savedEscrow(t testing.TB, db custodia.KVStore, arbiter, recipient, source custodia.Address, endHeight int64, endTime custodia.UnixTime) *Escrow {
	t.Helper()
	e := &Escrow{
		Arbiter:   arbiter,
		Recipient: recipient,
		Source:    source,
		EndHeight: endHeight,
		EndTime:   endTime,
		Address:   ContractAddress(),
	}
	if err := saveEscrow(db, e); err != nil {
		t.Fatalf("cannot save escrow: %s", err)
	}
	return e
}

func saveConf(t testing.TB, db custodia.KVStore, conf Configuration) {
	t.Helper()
	if err := gconf.Save(db, "escrow", &conf); err != nil {
		t.Fatalf("cannot save configuration: %s", err)
	}
}

func TestCreateEscrow(t *testing.T) {
	arbiter := custodiatest.NewCondition()
	recipient := custodiatest.NewCondition()
	source := custodiatest.NewCondition()
	stranger := custodiatest.NewCondition()

	cases := map[string]struct {
		msg      *CreateMsg
		signer   custodia.Condition
		height   int64
		existing bool
		wantErr  *errors.Error
	}{
		"happy path": {
			msg: &CreateMsg{
				Arbiter:   arbiter.Address(),
				Recipient: recipient.Address(),
				Source:    source.Address(),
				EndHeight: 1000,
			},
			signer: source,
			height: 876,
		},
		"source defaults to the main signer": {
			msg: &CreateMsg{
				Arbiter:   arbiter.Address(),
				Recipient: recipient.Address(),
				EndHeight: 1000,
			},
			signer: source,
			height: 876,
		},
		"escrow already initialized": {
			msg: &CreateMsg{
				Arbiter:   arbiter.Address(),
				Recipient: recipient.Address(),
				EndHeight: 1000,
			},
			signer:   source,
			height:   876,
			existing: true,
			wantErr:  errors.ErrState,
		},
		"expired on arrival": {
			msg: &CreateMsg{
				Arbiter:   arbiter.Address(),
				Recipient: recipient.Address(),
				EndHeight: 878,
			},
			signer:  source,
			height:  1000,
			wantErr: ErrEscrowExpired,
		},
		"source not authorized": {
			msg: &CreateMsg{
				Arbiter:   arbiter.Address(),
				Recipient: recipient.Address(),
				Source:    source.Address(),
				EndHeight: 1000,
			},
			signer:  stranger,
			height:  876,
			wantErr: errors.ErrUnauthorized,
		},
		"missing arbiter": {
			msg: &CreateMsg{
				Recipient: recipient.Address(),
				EndHeight: 1000,
			},
			signer:  source,
			height:  876,
			wantErr: errors.ErrEmpty,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			db := store.MemStore()
			if tc.existing {
				savedEscrow(t, db, arbiter.Address(), recipient.Address(), source.Address(), 1000, 0)
			}

			auth := &custodiatest.Auth{Signer: tc.signer}
			h := CreateEscrowHandler{auth: auth}
			ctx := blockCtx(tc.height)
			tx := &custodiatest.Tx{Msg: tc.msg}

			_, err := h.Check(ctx, db, tx)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.Nil(t, err)

			res, err := h.Deliver(ctx, db, tx)
			assert.Nil(t, err)
			assert.Equal(t, []byte(ContractAddress()), res.Data)

			stored, err := loadEscrow(db)
			assert.Nil(t, err)
			assert.Equal(t, arbiter.Address(), stored.Arbiter)
			assert.Equal(t, recipient.Address(), stored.Recipient)
			assert.Equal(t, source.Address(), stored.Source)
			assert.Equal(t, tc.msg.EndHeight, stored.EndHeight)
			assert.Equal(t, ContractAddress(), stored.Address)
		})
	}
}

func TestCreateExpiredIsNotPersisted(t *testing.T) {
	db := store.MemStore()
	auth := &custodiatest.Auth{Signer: custodiatest.NewCondition()}
	h := CreateEscrowHandler{auth: auth}

	msg := &CreateMsg{
		Arbiter:   custodiatest.NewAddress(),
		Recipient: custodiatest.NewAddress(),
		EndHeight: 878,
	}
	_, err := h.Deliver(blockCtx(1200), db, &custodiatest.Tx{Msg: msg})
	assert.IsErr(t, ErrEscrowExpired, err)
	assert.Equal(t, false, hasEscrow(db))
}

func TestReleaseEscrow(t *testing.T) {
	arbiter := custodiatest.NewCondition()
	recipient := custodiatest.NewCondition()
	source := custodiatest.NewCondition()
	stranger := custodiatest.NewCondition()

	cases := map[string]struct {
		amount     coin.Coins
		signer     custodia.Condition
		height     int64
		endTime    custodia.UnixTime
		balance    coin.Coins
		noEscrow   bool
		wantErr    *errors.Error
		wantAmount coin.Coins
	}{
		"arbiter releases everything": {
			signer:     arbiter,
			height:     900,
			balance:    initialCoins,
			wantAmount: initialCoins,
		},
		"arbiter releases a part": {
			amount:     partialCoins,
			signer:     arbiter,
			height:     988,
			balance:    initialCoins,
			wantAmount: partialCoins,
		},
		"requested amount is emitted even above the balance": {
			amount:     mustCombineCoins(coin.NewCoin(2000, "earth")),
			signer:     arbiter,
			height:     900,
			balance:    initialCoins,
			wantAmount: mustCombineCoins(coin.NewCoin(2000, "earth")),
		},
		"stranger cannot release": {
			signer:  stranger,
			height:  900,
			balance: initialCoins,
			wantErr: errors.ErrUnauthorized,
		},
		"source cannot release": {
			signer:  source,
			height:  900,
			balance: initialCoins,
			wantErr: errors.ErrUnauthorized,
		},
		"expired by height": {
			signer:  arbiter,
			height:  1001,
			balance: initialCoins,
			wantErr: ErrEscrowExpired,
		},
		"exactly at the end height counts as expired": {
			signer:  arbiter,
			height:  1000,
			balance: initialCoins,
			wantErr: ErrEscrowExpired,
		},
		"expired by time": {
			signer:  arbiter,
			height:  900,
			endTime: custodia.AsUnixTime(blockNow.Add(-time.Hour)),
			balance: initialCoins,
			wantErr: ErrEscrowExpired,
		},
		"empty account": {
			signer:  arbiter,
			height:  900,
			wantErr: errors.ErrAmount,
		},
		"not initialized": {
			signer:   arbiter,
			height:   900,
			noEscrow: true,
			wantErr:  errors.ErrNotFound,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			db := store.MemStore()
			bank := &custodiatest.Bank{}
			var escrow *Escrow
			if !tc.noEscrow {
				escrow = savedEscrow(t, db, arbiter.Address(), recipient.Address(), source.Address(), 1000, tc.endTime)
				bank.SetBalance(escrow.Address, tc.balance)
			}

			auth := &custodiatest.Auth{Signer: tc.signer}
			h := ReleaseEscrowHandler{auth: auth, bank: bank}
			ctx := blockCtx(tc.height)
			tx := &custodiatest.Tx{Msg: &ReleaseMsg{Amount: tc.amount}}

			res, err := h.Deliver(ctx, db, tx)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.Nil(t, err)

			assert.Equal(t, 1, len(res.Msgs))
			send := res.Msgs[0]
			assert.Equal(t, escrow.Address, send.From)
			assert.Equal(t, recipient.Address(), send.To)
			assert.Equal(t, tc.wantAmount, send.Amount)

			// state stays, a partial release can be followed by another
			_, err = loadEscrow(db)
			assert.Nil(t, err)
		})
	}
}

func TestReturnEscrow(t *testing.T) {
	arbiter := custodiatest.NewCondition()
	recipient := custodiatest.NewCondition()
	source := custodiatest.NewCondition()
	stranger := custodiatest.NewCondition()

	cases := map[string]struct {
		conf    Configuration
		signer  custodia.Condition
		height  int64
		balance coin.Coins
		wantErr *errors.Error
	}{
		"arbiter returns after expiry": {
			signer:  arbiter,
			height:  1001,
			balance: initialCoins,
		},
		"exactly at the end height": {
			signer:  arbiter,
			height:  1000,
			balance: initialCoins,
		},
		"not expired yet": {
			signer:  arbiter,
			height:  988,
			balance: initialCoins,
			wantErr: ErrEscrowNotExpired,
		},
		"stranger cannot return by default": {
			signer:  stranger,
			height:  1001,
			balance: initialCoins,
			wantErr: errors.ErrUnauthorized,
		},
		"anyone can return when configured": {
			conf:    Configuration{AnyoneCanRefund: true},
			signer:  stranger,
			height:  1001,
			balance: initialCoins,
		},
		"nothing left to return": {
			signer:  arbiter,
			height:  1001,
			wantErr: errors.ErrAmount,
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			db := store.MemStore()
			saveConf(t, db, tc.conf)
			escrow := savedEscrow(t, db, arbiter.Address(), recipient.Address(), source.Address(), 1000, 0)
			bank := &custodiatest.Bank{}
			bank.SetBalance(escrow.Address, tc.balance)

			auth := &custodiatest.Auth{Signer: tc.signer}
			h := ReturnEscrowHandler{auth: auth, bank: bank}
			ctx := blockCtx(tc.height)
			tx := &custodiatest.Tx{Msg: &ReturnMsg{}}

			res, err := h.Deliver(ctx, db, tx)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.Nil(t, err)

			assert.Equal(t, 1, len(res.Msgs))
			send := res.Msgs[0]
			assert.Equal(t, escrow.Address, send.From)
			assert.Equal(t, source.Address(), send.To)
			assert.Equal(t, tc.balance, send.Amount)
		})
	}
}

// The arbiter approves part of the funds, the rest flows back to the
// source after expiry. Mirrors a full life cycle on a mock ledger.
func TestEscrowLifecycle(t *testing.T) {
	arbiter := custodiatest.NewCondition()
	recipient := custodiatest.NewCondition()
	source := custodiatest.NewCondition()

	db := store.MemStore()
	saveConf(t, db, Configuration{})
	bank := &custodiatest.Bank{}
	bank.SetBalance(source.Address(), initialCoins)

	var auth x.Authenticator = &custodiatest.Auth{Signers: []custodia.Condition{arbiter, source}}

	// create at height 876
	create := CreateEscrowHandler{auth: auth}
	msg := &CreateMsg{
		Arbiter:   arbiter.Address(),
		Recipient: recipient.Address(),
		Source:    source.Address(),
		EndHeight: 1000,
	}
	res, err := create.Deliver(blockCtx(876), db, &custodiatest.Tx{Msg: msg})
	assert.Nil(t, err)
	contract := custodia.Address(res.Data)

	// the host locks the funds on the contract account
	assert.Nil(t, bank.Execute(custodia.BankSend{From: source.Address(), To: contract, Amount: initialCoins}))

	// partial release at height 988
	release := ReleaseEscrowHandler{auth: auth, bank: bank}
	res, err = release.Deliver(blockCtx(988), db, &custodiatest.Tx{Msg: &ReleaseMsg{Amount: partialCoins}})
	assert.Nil(t, err)
	for _, send := range res.Msgs {
		assert.Nil(t, bank.Execute(send))
	}
	got, err := bank.AllBalances(recipient.Address())
	assert.Nil(t, err)
	assert.Equal(t, partialCoins, got)

	// after expiry the arbiter returns the rest
	ret := ReturnEscrowHandler{auth: auth, bank: bank}
	res, err = ret.Deliver(blockCtx(1200), db, &custodiatest.Tx{Msg: &ReturnMsg{}})
	assert.Nil(t, err)
	for _, send := range res.Msgs {
		assert.Nil(t, bank.Execute(send))
	}
	got, err = bank.AllBalances(source.Address())
	assert.Nil(t, err)
	assert.Equal(t, partialCoins, got)

	left, err := bank.AllBalances(contract)
	assert.Nil(t, err)
	assert.Equal(t, true, left.IsEmpty())
}

func TestQueries(t *testing.T) {
	db := store.MemStore()
	arbiter := custodiatest.NewAddress()
	escrow := savedEscrow(t, db, arbiter, custodiatest.NewAddress(), custodiatest.NewAddress(), 1000, 0)

	qr := custodia.NewQueryRouter()
	RegisterQuery(qr)

	models, err := qr.Handler("/escrow").Query(db, "", nil)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(models))
	var got Escrow
	assert.Nil(t, got.Unmarshal(models[0].Value))
	assert.Equal(t, *escrow, got)

	models, err = qr.Handler("/escrow/arbiter").Query(db, "", nil)
	assert.Nil(t, err)
	assert.Equal(t, 1, len(models))
	assert.Equal(t, []byte(arbiter), models[0].Value)
}

func TestQueryMissingEscrow(t *testing.T) {
	db := store.MemStore()
	qr := custodia.NewQueryRouter()
	RegisterQuery(qr)

	_, err := qr.Handler("/escrow").Query(db, "", nil)
	assert.IsErr(t, errors.ErrNotFound, err)
}
