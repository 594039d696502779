package voting

import (
	"math/big"

	"github.com/lxdao/fairsharing/internal/errs"
	"github.com/shopspring/decimal"
)

const (
	// WeightTotal 所有贡献者权重之和
	WeightTotal = 100

	// ContractDecimals 合约中权重和阈值使用的定点小数位数
	ContractDecimals int32 = 18
)

var hundred = decimal.NewFromInt(100)

// NormalizeWeights 将管理员填写的百分比权重转换为合约需要的权重。
//
// 任何模式下都先校验原始输入之和为 100。EqualVote 下每个贡献者权重为 1，
// 填写的数值只用于链下展示；WeightedVote 下权重为 百分比 / 100。
func NormalizeWeights(weights []int64, system VoteSystem) ([]decimal.Decimal, error) {
	var sum int64
	for i, w := range weights {
		if w < 0 || w > WeightTotal {
			return nil, errs.Validationf("voteWeight", "weight of contributor %d must be between 0 and 100", i+1)
		}
		sum += w
	}
	if sum != WeightTotal {
		return nil, errs.Validation("voteWeight", "Weights must add up to 100%")
	}

	out := make([]decimal.Decimal, len(weights))
	switch system {
	case EqualVote:
		for i := range out {
			out[i] = decimal.NewFromInt(1)
		}
	case WeightedVote:
		for i, w := range weights {
			out[i] = decimal.NewFromInt(w).Div(hundred)
		}
	default:
		return nil, errs.Configurationf("unknown vote system %d", system)
	}

	return out, nil
}

// ToContractUnits 转换为合约的定点整数
func ToContractUnits(values []decimal.Decimal) []*big.Int {
	out := make([]*big.Int, len(values))
	for i, v := range values {
		out[i] = toUnits(v)
	}
	return out
}

func toUnits(v decimal.Decimal) *big.Int {
	return v.Shift(ContractDecimals).BigInt()
}
