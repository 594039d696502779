// Package contribution 负责贡献列表的筛选和领取资格计算。
//
// 所有函数都是纯函数：相同的输入（包括 now）得到相同的输出，筛选只做收窄，
// 不改变顺序，因此对同一组条件重复筛选结果不变。
package contribution

import (
	"time"
)

// Status 贡献状态，只能 UNREADY -> READY -> CLAIM 单向推进
type Status string

const (
	StatusUnready Status = "UNREADY" // 尚未就绪
	StatusReady   Status = "READY"   // 可领取
	StatusClaim   Status = "CLAIM"   // 已领取
)

// Valid 是否为已定义状态
func (s Status) Valid() bool {
	switch s {
	case StatusUnready, StatusReady, StatusClaim:
		return true
	default:
		return false
	}
}

func (s Status) rank() int {
	switch s {
	case StatusUnready:
		return 0
	case StatusReady:
		return 1
	case StatusClaim:
		return 2
	default:
		return -1
	}
}

// CanTransitionTo 是否允许推进到 next（只允许前进一步）
func (s Status) CanTransitionTo(next Status) bool {
	if !s.Valid() || !next.Valid() {
		return false
	}
	return next.rank() == s.rank()+1
}

// Contribution 筛选所需的贡献字段
type Contribution struct {
	ID       int64     `json:"id"`
	CreateAt time.Time `json:"createAt"`
	Status   Status    `json:"status"`
	ToIDs    []string  `json:"toIds"`
}

// Credits 贡献是否记在 contributorID 名下
func (c Contribution) Credits(contributorID string) bool {
	for _, id := range c.ToIDs {
		if id == contributorID {
			return true
		}
	}
	return false
}

// VoteDeadline 投票截止时间 createAt + votePeriodDays 天
func VoteDeadline(c Contribution, votePeriodDays int) time.Time {
	return c.CreateAt.Add(time.Duration(votePeriodDays) * 24 * time.Hour)
}

// VoteEnded 投票期是否已结束
func VoteEnded(c Contribution, now time.Time, votePeriodDays int) bool {
	return now.After(VoteDeadline(c, votePeriodDays))
}

// CanClaim 状态为 READY 且投票期已结束时可领取。
// 每次调用都重新计算，不缓存。
func CanClaim(c Contribution, now time.Time, votePeriodDays int) bool {
	if c.Status != StatusReady {
		return false
	}
	return VoteEnded(c, now, votePeriodDays)
}

// Claimable 返回列表中可领取的贡献，保持原顺序
func Claimable(list []Contribution, now time.Time, votePeriodDays int) []Contribution {
	out := make([]Contribution, 0, len(list))
	for _, c := range list {
		if CanClaim(c, now, votePeriodDays) {
			out = append(out, c)
		}
	}
	return out
}
