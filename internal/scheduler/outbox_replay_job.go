package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/lxdao/fairsharing/internal/logger"
	"github.com/lxdao/fairsharing/internal/outbox"
)

// Replayer 遗留创建意图的补偿
type Replayer interface {
	Replay(ctx context.Context) (outbox.ReplayResult, error)
}

// OutboxReplayJob 定时补偿链下登记失败的项目
type OutboxReplayJob struct {
	replayer Replayer
	interval time.Duration
}

// NewOutboxReplayJob 创建补偿任务，interval 单位为秒
func NewOutboxReplayJob(replayer Replayer, interval int) *OutboxReplayJob {
	return &OutboxReplayJob{
		replayer: replayer,
		interval: seconds(interval, 60),
	}
}

// GetName 获取任务名称
func (j *OutboxReplayJob) GetName() string {
	return "outbox_replay"
}

// GetSchedule 获取调度配置
func (j *OutboxReplayJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(j.interval)
}

// Execute 执行任务
func (j *OutboxReplayJob) Execute() {
	ctx, cancel := context.WithTimeout(context.Background(), j.interval)
	defer cancel()

	result, err := j.replayer.Replay(ctx)
	if err != nil {
		logger.Error("Outbox replay failed: %v", err)
		return
	}
	if result.Resubmitted+result.Discarded+result.Failed+result.Skipped == 0 {
		return
	}

	logger.Info("Outbox replay completed. resubmitted=%d discarded=%d failed=%d skipped=%d",
		result.Resubmitted, result.Discarded, result.Failed, result.Skipped)
}

func seconds(n, fallback int) time.Duration {
	if n <= 0 {
		n = fallback
	}
	return time.Duration(n) * time.Second
}
