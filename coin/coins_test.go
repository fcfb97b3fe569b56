package coin

import (
	"testing"

	"github.com/iov-one/custodia/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCombineCoins(t *testing.T) {
	cases := map[string]struct {
		input   []Coin
		want    Coins
		wantErr *errors.Error
	}{
		"empty input": {
			input: nil,
			want:  Coins{},
		},
		"single coin": {
			input: []Coin{NewCoin(1000, "earth")},
			want:  Coins{NewCoinp(1000, "earth")},
		},
		"sorts denominations": {
			input: []Coin{NewCoin(1, "moon"), NewCoin(2, "earth")},
			want:  Coins{NewCoinp(2, "earth"), NewCoinp(1, "moon")},
		},
		"combines duplicates": {
			input: []Coin{NewCoin(500, "earth"), NewCoin(500, "earth")},
			want:  Coins{NewCoinp(1000, "earth")},
		},
		"drops zero sums": {
			input: []Coin{NewCoin(7, "earth"), NewCoin(-7, "earth")},
			want:  Coins{},
		},
		"rejects malformed denomination": {
			input:   []Coin{NewCoin(1, "X")},
			wantErr: errors.ErrInput,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := CombineCoins(tc.input...)
			if tc.wantErr != nil {
				assert.True(t, tc.wantErr.Is(err), "unexpected error: %+v", err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tc.want.Equals(got), "want %s, got %s", tc.want, got)
		})
	}
}

func TestCoinsIsPositive(t *testing.T) {
	empty := Coins{}
	assert.False(t, empty.IsPositive())

	good, err := CombineCoins(NewCoin(1, "earth"), NewCoin(2, "moon"))
	require.NoError(t, err)
	assert.True(t, good.IsPositive())

	debt := Coins{NewCoinp(-1, "earth")}
	assert.False(t, debt.IsPositive())
}

func TestCoinsContains(t *testing.T) {
	cs, err := CombineCoins(NewCoin(1000, "earth"))
	require.NoError(t, err)

	assert.True(t, cs.Contains(NewCoin(1000, "earth")))
	assert.True(t, cs.Contains(NewCoin(500, "earth")))
	assert.False(t, cs.Contains(NewCoin(1001, "earth")))
	assert.False(t, cs.Contains(NewCoin(1, "moon")))
}

func TestCoinsValidate(t *testing.T) {
	unsorted := Coins{NewCoinp(1, "moon"), NewCoinp(1, "earth")}
	assert.True(t, errors.ErrState.Is(unsorted.Validate()))

	duplicate := Coins{NewCoinp(1, "earth"), NewCoinp(2, "earth")}
	assert.True(t, errors.ErrState.Is(duplicate.Validate()))

	zero := Coins{NewCoinp(0, "earth")}
	assert.True(t, errors.ErrState.Is(zero.Validate()))
}

func TestCoinsClone(t *testing.T) {
	cs, err := CombineCoins(NewCoin(1000, "earth"))
	require.NoError(t, err)

	cp := cs.Clone()
	cp[0].Amount = 1

	assert.Equal(t, int64(1000), cs[0].Amount)
}
