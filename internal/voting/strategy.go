package voting

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/lxdao/fairsharing/internal/errs"
	"github.com/shopspring/decimal"
)

// Strategy 解析后的链上投票策略
type Strategy struct {
	ApproveType VoteApproveType `json:"approveType"`
	Address     common.Address  `json:"address"`
	Threshold   decimal.Decimal `json:"threshold"` // 0..1
}

// ThresholdUnits 阈值的合约定点整数
func (s Strategy) ThresholdUnits() *big.Int {
	return toUnits(s.Threshold)
}

// Resolver 通过规则 -> 策略合约地址 的固定映射
type Resolver struct {
	addresses map[VoteApproveType]common.Address
}

// NewResolver 创建策略解析器
func NewResolver(addresses map[VoteApproveType]common.Address) *Resolver {
	m := make(map[VoteApproveType]common.Address, len(addresses))
	for t, a := range addresses {
		m[t] = a
	}
	return &Resolver{addresses: m}
}

// NewResolverFromConfig 从配置的 名称 -> 地址 映射创建解析器
func NewResolverFromConfig(strategies map[string]string) (*Resolver, error) {
	addresses := make(map[VoteApproveType]common.Address, len(strategies))
	for key, addr := range strategies {
		t, ok := ParseVoteApproveType(key)
		if !ok {
			return nil, errs.Configurationf("unknown strategy key %q", key)
		}
		if !common.IsHexAddress(addr) {
			return nil, errs.Configurationf("invalid strategy address %q for %s", addr, key)
		}
		addresses[t] = common.HexToAddress(addr)
	}
	return NewResolver(addresses), nil
}

// Resolve 根据通过规则和阈值输入解析策略合约地址和阈值
func (r *Resolver) Resolve(cfg VotingConfig) (Strategy, error) {
	var (
		threshold decimal.Decimal
		err       error
	)

	switch cfg.VoteApproveType {
	case ForAtLeastAgainst:
		// 固定规则，不读取百分比输入
		threshold = decimal.Zero
	case ForRatioThreshold:
		threshold, err = parsePercentage("forWeightOfTotal", cfg.ForWeightOfTotal)
	case NetRatioThreshold:
		threshold, err = parsePercentage("differWeightOfTotal", cfg.DifferWeightOfTotal)
	default:
		return Strategy{}, errs.Configurationf("unknown vote approve type %d", cfg.VoteApproveType)
	}
	if err != nil {
		return Strategy{}, err
	}

	addr, ok := r.addresses[cfg.VoteApproveType]
	if !ok || addr == (common.Address{}) {
		return Strategy{}, errs.Configurationf("no strategy contract configured for %s", cfg.VoteApproveType)
	}

	return Strategy{
		ApproveType: cfg.VoteApproveType,
		Address:     addr,
		Threshold:   threshold,
	}, nil
}

// parsePercentage 解析 [0,100] 的百分比字符串并返回 值/100
func parsePercentage(field, raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	if raw == "" {
		return decimal.Decimal{}, errs.Validation(field, "percentage is required")
	}

	v, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, errs.Validation(field, "percentage must be a number")
	}
	if v.IsNegative() || v.GreaterThan(hundred) {
		return decimal.Decimal{}, errs.Validation(field, "percentage must be between 0 and 100")
	}

	return v.Div(hundred), nil
}
