package voting

import (
	"math/big"
	"testing"

	"github.com/lxdao/fairsharing/internal/errs"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sum(values []decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}

func TestNormalizeWeightsWeighted(t *testing.T) {
	got, err := NormalizeWeights([]int64{50, 30, 20}, WeightedVote)
	require.NoError(t, err)
	require.Len(t, got, 3)

	want := []string{"0.5", "0.3", "0.2"}
	for i, w := range want {
		assert.True(t, got[i].Equal(decimal.RequireFromString(w)), "weight %d: got %s want %s", i, got[i], w)
	}
	assert.True(t, sum(got).Equal(decimal.NewFromInt(1)))
}

func TestNormalizeWeightsWeightedSumsToOne(t *testing.T) {
	inputs := [][]int64{
		{100},
		{1, 99},
		{33, 33, 34},
		{0, 0, 100, 0},
		{10, 10, 10, 10, 10, 10, 10, 10, 10, 10},
	}
	for _, in := range inputs {
		got, err := NormalizeWeights(in, WeightedVote)
		require.NoError(t, err)
		assert.True(t, sum(got).Equal(decimal.NewFromInt(1)), "input %v", in)

		units := ToContractUnits(got)
		total := new(big.Int)
		for _, u := range units {
			total.Add(total, u)
		}
		assert.Equal(t, "1000000000000000000", total.String(), "input %v", in)
	}
}

func TestNormalizeWeightsEqual(t *testing.T) {
	got, err := NormalizeWeights([]int64{70, 20, 10}, EqualVote)
	require.NoError(t, err)
	for _, w := range got {
		assert.True(t, w.Equal(got[0]))
	}
	assert.True(t, got[0].Equal(decimal.NewFromInt(1)))
}

func TestNormalizeWeightsRejectsBadSum(t *testing.T) {
	for _, system := range []VoteSystem{EqualVote, WeightedVote} {
		_, err := NormalizeWeights([]int64{40, 40, 10}, system)
		require.Error(t, err)
		assert.True(t, errs.IsValidation(err))

		var ve *errs.ValidationError
		require.ErrorAs(t, err, &ve)
		assert.Equal(t, "Weights must add up to 100%", ve.Message)
	}

	_, err := NormalizeWeights(nil, WeightedVote)
	assert.True(t, errs.IsValidation(err))
}

func TestNormalizeWeightsRejectsOutOfRange(t *testing.T) {
	_, err := NormalizeWeights([]int64{120, -20}, WeightedVote)
	assert.True(t, errs.IsValidation(err))
}

func TestNormalizeWeightsUnknownSystem(t *testing.T) {
	_, err := NormalizeWeights([]int64{100}, VoteSystem(7))
	assert.Equal(t, errs.KindConfiguration, errs.KindOf(err))
}
