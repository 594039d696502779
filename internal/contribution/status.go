package contribution

import (
	"fmt"
	"time"
)

// StatusColor 状态文字颜色
func StatusColor(s Status) string {
	switch s {
	case StatusReady:
		return "#0A9B80"
	default:
		return "#64748B"
	}
}

// StatusCursor 状态对应的鼠标样式
func StatusCursor(s Status) string {
	switch s {
	case StatusUnready:
		return "wait"
	case StatusReady:
		return "pointer"
	default:
		return "not-allowed"
	}
}

// Countdown 距投票截止的剩余时间
type Countdown struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

// CountdownTo 计算 now 到 deadline 的倒计时，已过期为零值
func CountdownTo(now, deadline time.Time) Countdown {
	left := deadline.Sub(now)
	if left <= 0 {
		return Countdown{}
	}
	secs := int(left / time.Second)
	return Countdown{
		Days:    secs / 86400,
		Hours:   secs % 86400 / 3600,
		Minutes: secs % 3600 / 60,
		Seconds: secs % 60,
	}
}

// Text 倒计时文案
func (c Countdown) Text() string {
	switch {
	case c == Countdown{}:
		return "Vote ended"
	case c.Days > 0:
		return fmt.Sprintf("Vote ends in %dd %dh", c.Days, c.Hours)
	case c.Hours > 0:
		return fmt.Sprintf("Vote ends in %dh %dm", c.Hours, c.Minutes)
	case c.Minutes > 0:
		return fmt.Sprintf("Vote ends in %dm %ds", c.Minutes, c.Seconds)
	default:
		return fmt.Sprintf("Vote ends in %ds", c.Seconds)
	}
}

// StatusText 状态文案
func StatusText(c Contribution, now time.Time, votePeriodDays int) string {
	switch c.Status {
	case StatusClaim:
		return "Claimed"
	case StatusReady:
		return "To be claimed"
	default:
		return CountdownTo(now, VoteDeadline(c, votePeriodDays)).Text()
	}
}
