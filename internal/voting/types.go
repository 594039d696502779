// Package voting 负责项目创建时的投票配置：权重归一化与策略合约解析。
// 包内均为纯函数，不访问链和数据库。
package voting

import "strings"

// VoteSystem 投票制度
type VoteSystem int

const (
	EqualVote    VoteSystem = 1 // 一人一票
	WeightedVote VoteSystem = 2 // 按管理员设置的权重投票
)

// Valid 是否为已定义的投票制度
func (s VoteSystem) Valid() bool {
	return s == EqualVote || s == WeightedVote
}

func (s VoteSystem) String() string {
	switch s {
	case EqualVote:
		return "equal"
	case WeightedVote:
		return "weighted"
	default:
		return "unknown"
	}
}

// VoteApproveType 投票通过规则
type VoteApproveType int

const (
	ForAtLeastAgainst VoteApproveType = 1 // 赞成票 ≥ 反对票，且赞成票 ≥ 1
	ForRatioThreshold VoteApproveType = 2 // 赞成票 / 总票数 ≥ 阈值
	NetRatioThreshold VoteApproveType = 3 // (赞成票 - 反对票) / 总票数 ≥ 阈值
)

var approveTypeKeys = map[VoteApproveType]string{
	ForAtLeastAgainst: "for_at_least_against",
	ForRatioThreshold: "for_ratio_threshold",
	NetRatioThreshold: "net_ratio_threshold",
}

// Key 配置文件中使用的名称
func (t VoteApproveType) Key() string {
	if k, ok := approveTypeKeys[t]; ok {
		return k
	}
	return "unknown"
}

func (t VoteApproveType) String() string {
	return t.Key()
}

// ParseVoteApproveType 按配置名称解析通过规则
func ParseVoteApproveType(key string) (VoteApproveType, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	for t, k := range approveTypeKeys {
		if k == key {
			return t, true
		}
	}
	return 0, false
}

// VotingConfig 创建项目时填写的投票配置，仅在创建流程中存在
type VotingConfig struct {
	VoteSystem          VoteSystem      `json:"voteSystem"`
	VoteApproveType     VoteApproveType `json:"voteApproveType"`
	ForWeightOfTotal    string          `json:"forWeightOfTotal,omitempty"`
	DifferWeightOfTotal string          `json:"differWeightOfTotal,omitempty"`
}
