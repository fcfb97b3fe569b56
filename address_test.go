package custodia_test

import (
	"encoding/json"
	"testing"

	"github.com/iov-one/custodia"
	"github.com/iov-one/custodia/custodiatest/assert"
	"github.com/iov-one/custodia/errors"
)

func TestConditionAddress(t *testing.T) {
	cond := custodia.NewCondition("escrow", "state", []byte{1, 2, 3})
	assert.Nil(t, cond.Validate())

	addr := cond.Address()
	assert.Nil(t, addr.Validate())
	assert.Equal(t, custodia.AddressLength, len(addr))

	// deterministic derivation
	again := custodia.NewCondition("escrow", "state", []byte{1, 2, 3}).Address()
	assert.Equal(t, addr, again)

	// different data, different account
	other := custodia.NewCondition("escrow", "state", []byte{9}).Address()
	assert.Equal(t, false, addr.Equals(other))
}

func TestConditionParse(t *testing.T) {
	cond := custodia.NewCondition("mock", "cond", []byte("data"))
	ext, typ, data, err := cond.Parse()
	assert.Nil(t, err)
	assert.Equal(t, "mock", ext)
	assert.Equal(t, "cond", typ)
	assert.Equal(t, []byte("data"), data)

	_, _, _, err = custodia.Condition("garbage").Parse()
	assert.IsErr(t, errors.ErrInput, err)
}

func TestAddressValidate(t *testing.T) {
	cases := map[string]struct {
		addr    custodia.Address
		wantErr *errors.Error
	}{
		"valid":     {addr: make(custodia.Address, custodia.AddressLength)},
		"nil":       {addr: nil, wantErr: errors.ErrEmpty},
		"too short": {addr: custodia.Address{1, 2, 3}, wantErr: errors.ErrInput},
		"too long":  {addr: make(custodia.Address, 21), wantErr: errors.ErrInput},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			if tc.wantErr == nil {
				assert.Nil(t, tc.addr.Validate())
			} else {
				assert.IsErr(t, tc.wantErr, tc.addr.Validate())
			}
		})
	}
}

func TestAddressJSON(t *testing.T) {
	addr := custodia.NewAddress([]byte("demo"))

	raw, err := json.Marshal(addr)
	assert.Nil(t, err)

	var loaded custodia.Address
	assert.Nil(t, json.Unmarshal(raw, &loaded))
	assert.Equal(t, addr, loaded)
}

func TestParseAddressFormats(t *testing.T) {
	addr := custodia.NewAddress([]byte("demo"))

	// plain and explicit hex
	got, err := custodia.ParseAddress(addr.String())
	assert.Nil(t, err)
	assert.Equal(t, addr, got)

	got, err = custodia.ParseAddress("hex:" + addr.String())
	assert.Nil(t, err)
	assert.Equal(t, addr, got)

	// bech32 round trip
	got, err = custodia.ParseAddress("bech32:" + addr.Bech32String("cust"))
	assert.Nil(t, err)
	assert.Equal(t, addr, got)

	// condition format derives the account address
	cond := custodia.NewCondition("escrow", "state", []byte("key"))
	got, err = custodia.ParseAddress("cond:escrow/state/" + "6b6579")
	assert.Nil(t, err)
	assert.Equal(t, cond.Address(), got)

	if _, err = custodia.ParseAddress("hex:not-hex"); err == nil {
		t.Fatal("want an error for malformed hex")
	}
	_, err = custodia.ParseAddress("base64:AAAA")
	assert.IsErr(t, errors.ErrType, err)
}
