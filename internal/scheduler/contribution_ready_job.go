package scheduler

import (
	"context"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/lxdao/fairsharing/internal/logger"
)

// Promoter 推进已有链上证明的贡献
type Promoter interface {
	PromoteAttested(ctx context.Context) (int64, error)
}

// ContributionReadyJob 将已写入证明ID的 UNREADY 贡献推进为 READY
type ContributionReadyJob struct {
	promoter Promoter
	interval time.Duration
}

// NewContributionReadyJob 创建贡献就绪任务，interval 单位为秒
func NewContributionReadyJob(promoter Promoter, interval int) *ContributionReadyJob {
	return &ContributionReadyJob{
		promoter: promoter,
		interval: seconds(interval, 30),
	}
}

// GetName 获取任务名称
func (j *ContributionReadyJob) GetName() string {
	return "contribution_ready"
}

// GetSchedule 获取调度配置
func (j *ContributionReadyJob) GetSchedule() gocron.JobDefinition {
	return gocron.DurationJob(j.interval)
}

// Execute 执行任务
func (j *ContributionReadyJob) Execute() {
	ctx, cancel := context.WithTimeout(context.Background(), j.interval)
	defer cancel()

	count, err := j.promoter.PromoteAttested(ctx)
	if err != nil {
		logger.Error("Failed to promote attested contributions: %v", err)
		return
	}
	if count > 0 {
		logger.Info("Promoted %d contributions to READY", count)
	}
}
