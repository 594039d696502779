package contribution

import (
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/jinzhu/now"
	"github.com/lxdao/fairsharing/internal/errs"
)

// Period 时间范围筛选
type Period string

const (
	PeriodAll    Period = "All"
	PeriodWeek   Period = "Week"
	PeriodMonth  Period = "Month"
	PeriodSeason Period = "Season"
	PeriodYear   Period = "Year"
)

// VoteStatus 投票状态筛选
type VoteStatus string

const (
	VoteStatusAll         VoteStatus = "All"
	VoteStatusVoteByMe    VoteStatus = "VoteByMe"
	VoteStatusUnVotedByMe VoteStatus = "UnVotedByMe"
	VoteStatusVoteEnded   VoteStatus = "VoteEnded"
)

// AllContributors 不按贡献者筛选
const AllContributors = "All"

// 周从周日开始
var calendar = &now.Config{WeekStartDay: time.Sunday}

// FilterOptions 筛选条件
type FilterOptions struct {
	Period      Period
	VoteStatus  VoteStatus
	Contributor string // 贡献者ID，All 表示全部
}

// DefaultOptions 重置后的筛选条件
func DefaultOptions() FilterOptions {
	return FilterOptions{
		Period:      PeriodAll,
		VoteStatus:  VoteStatusAll,
		Contributor: AllContributors,
	}
}

// Env 筛选时的外部状态
type Env struct {
	Now            time.Time
	VotePeriodDays int
	MyVotes        map[string]int // 当前用户投过票的贡献ID -> 投票值
}

// ParsePeriod 解析时间范围，空值为 All
func ParsePeriod(raw string) (Period, error) {
	switch p := Period(strings.TrimSpace(raw)); p {
	case "":
		return PeriodAll, nil
	case PeriodAll, PeriodWeek, PeriodMonth, PeriodSeason, PeriodYear:
		return p, nil
	default:
		return "", errs.Validationf("period", "unknown period %q", raw)
	}
}

// ParseVoteStatus 解析投票状态，空值为 All
func ParseVoteStatus(raw string) (VoteStatus, error) {
	switch s := VoteStatus(strings.TrimSpace(raw)); s {
	case "":
		return VoteStatusAll, nil
	case VoteStatusAll, VoteStatusVoteByMe, VoteStatusUnVotedByMe, VoteStatusVoteEnded:
		return s, nil
	default:
		return "", errs.Validationf("voteStatus", "unknown vote status %q", raw)
	}
}

// ParseLocation 解析查看者所在时区，空值为 UTC
func ParseLocation(raw string) (*time.Location, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(raw)
	if err != nil {
		return nil, errs.Validationf("tz", "unknown time zone %q", raw)
	}
	return loc, nil
}

// Window 计算 t 所在时区的时间范围 [start, end]
func Window(p Period, t time.Time) (time.Time, time.Time) {
	n := calendar.With(t)
	switch p {
	case PeriodWeek:
		return n.BeginningOfWeek(), n.EndOfWeek()
	case PeriodMonth:
		return n.BeginningOfMonth(), n.EndOfMonth()
	case PeriodSeason:
		return n.BeginningOfQuarter(), n.EndOfQuarter()
	case PeriodYear:
		return n.BeginningOfYear(), n.EndOfYear()
	default:
		return t.AddDate(-5, 0, 0), t.AddDate(10, 0, 0)
	}
}

// Filter 依次执行：排除 UNREADY、时间范围、投票状态、贡献者
func Filter(list []Contribution, opts FilterOptions, env Env) []Contribution {
	out := excludeUnready(list)
	out = filterByPeriod(out, opts.Period, env.Now)
	out = filterByVoteStatus(out, opts.VoteStatus, env)
	return filterByContributor(out, opts.Contributor)
}

func excludeUnready(list []Contribution) []Contribution {
	return keep(list, func(c Contribution) bool {
		return c.Status != StatusUnready
	})
}

func filterByPeriod(list []Contribution, p Period, t time.Time) []Contribution {
	start, end := Window(p, t)
	return keep(list, func(c Contribution) bool {
		return !c.CreateAt.Before(start) && !c.CreateAt.After(end)
	})
}

func filterByVoteStatus(list []Contribution, s VoteStatus, env Env) []Contribution {
	switch s {
	case VoteStatusVoteEnded:
		return keep(list, func(c Contribution) bool {
			return VoteEnded(c, env.Now, env.VotePeriodDays)
		})
	case VoteStatusVoteByMe:
		return keep(list, func(c Contribution) bool {
			return votedBy(env.MyVotes, c)
		})
	case VoteStatusUnVotedByMe:
		return keep(list, func(c Contribution) bool {
			return !votedBy(env.MyVotes, c)
		})
	default:
		return list
	}
}

func filterByContributor(list []Contribution, contributor string) []Contribution {
	if contributor == "" || contributor == AllContributors {
		return list
	}
	return keep(list, func(c Contribution) bool {
		return c.Credits(contributor)
	})
}

func votedBy(votes map[string]int, c Contribution) bool {
	_, ok := votes[strconv.FormatInt(c.ID, 10)]
	return ok
}

func keep(list []Contribution, pred func(Contribution) bool) []Contribution {
	out := make([]Contribution, 0, len(list))
	for _, c := range list {
		if pred(c) {
			out = append(out, c)
		}
	}
	return out
}
