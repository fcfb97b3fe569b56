package custodia_test

import (
	"testing"

	"github.com/iov-one/custodia"
	"github.com/iov-one/custodia/custodiatest"
	"github.com/iov-one/custodia/custodiatest/assert"
	"github.com/iov-one/custodia/errors"
)

func TestLoadMsg(t *testing.T) {
	msg := &custodiatest.Msg{
		RoutePath:  "test/mine",
		Serialized: []byte("content"),
	}
	tx := &custodiatest.Tx{Msg: msg}

	var dest custodiatest.Msg
	assert.Nil(t, custodia.LoadMsg(tx, &dest))
	assert.Equal(t, *msg, dest)
}

func TestLoadMsgErrors(t *testing.T) {
	cases := map[string]struct {
		tx      custodia.Tx
		dest    custodia.Msg
		wantErr *errors.Error
	}{
		"cannot extract the message": {
			tx:      &custodiatest.Tx{Err: errors.ErrInput},
			dest:    &custodiatest.Msg{},
			wantErr: errors.ErrInput,
		},
		"message does not validate": {
			tx: &custodiatest.Tx{
				Msg: &custodiatest.Msg{Err: errors.ErrState},
			},
			dest:    &custodiatest.Msg{},
			wantErr: errors.ErrState,
		},
		"destination type mismatch": {
			tx: &custodiatest.Tx{
				Msg: &custodiatest.Msg{RoutePath: "test/mine"},
			},
			dest:    &otherMsg{},
			wantErr: errors.ErrType,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			err := custodia.LoadMsg(tc.tx, tc.dest)
			assert.IsErr(t, tc.wantErr, err)
		})
	}
}

func TestGetPath(t *testing.T) {
	tx := &custodiatest.Tx{
		Msg: &custodiatest.Msg{RoutePath: "test/mine"},
	}
	assert.Equal(t, "test/mine", custodia.GetPath(tx))

	broken := &custodiatest.Tx{Err: errors.ErrInput}
	assert.Equal(t, "(missing)", custodia.GetPath(broken))

	empty := &custodiatest.Tx{}
	assert.Equal(t, "(missing)", custodia.GetPath(empty))
}

// otherMsg is a message of a type that no handler expects.
type otherMsg struct{}

var _ custodia.Msg = (*otherMsg)(nil)

func (otherMsg) Path() string             { return "test/other" }
func (otherMsg) Validate() error          { return nil }
func (otherMsg) Marshal() ([]byte, error) { return nil, nil }
func (*otherMsg) Unmarshal([]byte) error  { return nil }
