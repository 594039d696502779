package outbox

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/lxdao/fairsharing/internal/errs"
	"github.com/lxdao/fairsharing/internal/logic"
	"github.com/lxdao/fairsharing/internal/model"
	"github.com/lxdao/fairsharing/internal/voting"
)

// Planner 根据投票配置和权重生成投票方案
type Planner interface {
	Plan(cfg voting.VotingConfig, weights []int64) (voting.Plan, error)
}

// Validated 通过校验的创建参数
type Validated struct {
	Plan           voting.Plan
	VotePeriodDays int
	Admins         []common.Address
	Members        []common.Address
}

// Validate 校验创建请求，不访问任何外部服务
func (c *Creator) Validate(req logic.CreateProjectRequest) (*Validated, error) {
	if !common.IsHexAddress(req.Wallet) {
		return nil, errs.Validation("wallet", "invalid wallet address")
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, errs.Validation("name", "Project name is required")
	}
	if strings.TrimSpace(req.Symbol) == "" {
		return nil, errs.Validation("symbol", "Token symbol is required")
	}
	if req.Network != c.chainId {
		return nil, errs.Validationf("network", "unsupported network %d", req.Network)
	}

	days, err := voting.ParseVotePeriod(req.VotePeriod)
	if err != nil {
		return nil, err
	}

	v := &Validated{VotePeriodDays: days}
	if len(req.Contributors) == 0 {
		return nil, errs.Validation("contributors", "At least one contributor is required")
	}
	seen := make(map[common.Address]bool, len(req.Contributors))
	for _, contributor := range req.Contributors {
		if !common.IsHexAddress(contributor.Wallet) {
			return nil, errs.Validationf("contributors", "invalid wallet address %q", contributor.Wallet)
		}
		addr := common.HexToAddress(contributor.Wallet)
		if seen[addr] {
			return nil, errs.Validationf("contributors", "duplicate wallet %s", addr.Hex())
		}
		seen[addr] = true

		switch contributor.Permission {
		case model.PermissionAdmin:
			v.Admins = append(v.Admins, addr)
		case model.PermissionMember:
		default:
			return nil, errs.Validationf("contributors", "unknown permission %q", contributor.Permission)
		}
		v.Members = append(v.Members, addr)
	}
	if len(v.Admins) == 0 {
		return nil, errs.Validation("contributors", "At least one admin is required")
	}

	plan, err := c.resolver.Plan(req.Voting, req.Weights())
	if err != nil {
		return nil, err
	}
	v.Plan = plan

	return v, nil
}
