package monitoring

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/lxdao/fairsharing/internal/config"
	"github.com/lxdao/fairsharing/internal/logger"
)

// Init 初始化 Sentry，dsn 为空时上报为空操作
func Init(cfg config.SentryConfig) error {
	err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.Dsn,
		Environment: cfg.Environment,
	})
	if err != nil {
		return err
	}
	if cfg.Dsn == "" {
		logger.Info("Sentry disabled: no dsn configured")
	}
	return nil
}

// Message 上报消息
func Message(msg string) {
	sentry.CaptureMessage(msg)
}

// Error 上报错误
func Error(err error) {
	sentry.CaptureException(err)
}

// ErrorWithTags 带标签上报错误
func ErrorWithTags(err error, tags map[string]string) {
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTags(tags)
		sentry.CaptureException(err)
	})
}

// Flush 等待缓冲事件发送完毕
func Flush() {
	sentry.Flush(2 * time.Second)
}
