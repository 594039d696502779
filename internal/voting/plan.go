package voting

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/lxdao/fairsharing/internal/errs"
	"github.com/shopspring/decimal"
)

// Plan 提交到注册合约的投票参数
type Plan struct {
	Strategy Strategy          `json:"strategy"`
	Weights  []decimal.Decimal `json:"weights"`
}

// WeightUnits 权重的合约定点整数
func (p Plan) WeightUnits() []*big.Int {
	return ToContractUnits(p.Weights)
}

// Plan 校验并生成投票参数，任何一项失败都不会产生部分结果
func (r *Resolver) Plan(cfg VotingConfig, weights []int64) (Plan, error) {
	if !cfg.VoteSystem.Valid() {
		return Plan{}, errs.Configurationf("unknown vote system %d", cfg.VoteSystem)
	}

	normalized, err := NormalizeWeights(weights, cfg.VoteSystem)
	if err != nil {
		return Plan{}, err
	}

	strategy, err := r.Resolve(cfg)
	if err != nil {
		return Plan{}, err
	}

	return Plan{Strategy: strategy, Weights: normalized}, nil
}

// ParseVotePeriod 解析投票周期（天）
func ParseVotePeriod(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errs.Validation("votePeriod", "Voting period is required")
	}
	days, err := strconv.Atoi(raw)
	if err != nil || days <= 0 {
		return 0, errs.Validation("votePeriod", "Vote period must be number")
	}
	return days, nil
}
