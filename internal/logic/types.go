package logic

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/lxdao/fairsharing/internal/model"
	"github.com/lxdao/fairsharing/internal/voting"
)

// ContributorInput 创建项目时提交的成员
type ContributorInput struct {
	Wallet     string           `json:"wallet"`
	NickName   string           `json:"nickName"`
	Permission model.Permission `json:"permission"`
	VoteWeight int64            `json:"voteWeight"` // 0-100，合计 100
	Role       string           `json:"role"`
}

// CreateProjectRequest 创建项目请求
type CreateProjectRequest struct {
	Wallet       string              `json:"wallet"` // 发起人钱包
	Name         string              `json:"name"`
	Intro        string              `json:"intro"`
	Avatar       string              `json:"avatar"`
	Symbol       string              `json:"symbol"`
	Network      int64               `json:"network"`
	VotePeriod   string              `json:"votePeriod"` // 天
	Voting       voting.VotingConfig `json:"voting"`
	Contributors []ContributorInput  `json:"contributors"`
}

// Weights 按成员顺序返回投票权重
func (r *CreateProjectRequest) Weights() []int64 {
	weights := make([]int64, len(r.Contributors))
	for i, c := range r.Contributors {
		weights[i] = c.VoteWeight
	}
	return weights
}

// RegisterProject 链上注册成功后写入链下的项目
type RegisterProject struct {
	Request         CreateProjectRequest `json:"request"`
	VotePeriodDays  int                  `json:"votePeriodDays"`
	StrategyAddress string               `json:"strategyAddress"`
	Threshold       string               `json:"threshold"`
	ContractAddress string               `json:"contractAddress"`
	TxHash          string               `json:"txHash"`
}

// NormalizeWallet 统一钱包地址为校验和格式
func NormalizeWallet(wallet string) string {
	wallet = strings.TrimSpace(wallet)
	if !common.IsHexAddress(wallet) {
		return wallet
	}
	return common.HexToAddress(wallet).Hex()
}
