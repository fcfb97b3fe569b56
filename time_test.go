package custodia_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/iov-one/custodia"
	"github.com/iov-one/custodia/custodiatest/assert"
	"github.com/iov-one/custodia/errors"
)

func TestUnixTimeUnmarshalJSON(t *testing.T) {
	cases := map[string]struct {
		raw      string
		wantErr  *errors.Error
		wantTime custodia.UnixTime
	}{
		"zero UNIX time": {
			raw:      "0",
			wantTime: 0,
		},
		"positive UNIX time": {
			raw:      "1559390400",
			wantTime: 1559390400,
		},
		"negative UNIX time": {
			raw:     "-1",
			wantErr: errors.ErrInput,
		},
		"string time format": {
			raw:      `"2019-06-01T12:00:00Z"`,
			wantTime: 1559390400,
		},
		"string time before epoch": {
			raw:     `"1969-12-31T23:59:59Z"`,
			wantErr: errors.ErrInput,
		},
		"invalid format": {
			raw:     `"not a time"`,
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var got custodia.UnixTime
			err := json.Unmarshal([]byte(tc.raw), &got)
			if tc.wantErr != nil {
				assert.IsErr(t, tc.wantErr, err)
				return
			}
			assert.Nil(t, err)
			assert.Equal(t, tc.wantTime, got)
		})
	}
}

func TestUnixTimeAdd(t *testing.T) {
	now := custodia.UnixTime(1559390400)
	assert.Equal(t, custodia.UnixTime(1559390460), now.Add(time.Minute))
	assert.Equal(t, custodia.UnixTime(1559390340), now.Add(-time.Minute))

	// Sub second granularity is ignored.
	assert.Equal(t, now, now.Add(999*time.Millisecond))
}

func TestUnixTimeValidate(t *testing.T) {
	assert.Nil(t, custodia.UnixTime(0).Validate())
	assert.Nil(t, custodia.UnixTime(1559390400).Validate())
	assert.IsErr(t, errors.ErrState, custodia.UnixTime(-1).Validate())
}

func TestAsUnixTime(t *testing.T) {
	stdtime := time.Date(2019, 6, 1, 12, 0, 0, 0, time.UTC)
	got := custodia.AsUnixTime(stdtime)
	assert.Equal(t, custodia.UnixTime(1559390400), got)
	if !got.Time().Equal(stdtime) {
		t.Fatalf("time conversion is not symmetric: %s", got)
	}
}
