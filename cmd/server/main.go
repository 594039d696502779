package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lxdao/fairsharing/internal/chain"
	"github.com/lxdao/fairsharing/internal/config"
	"github.com/lxdao/fairsharing/internal/database"
	"github.com/lxdao/fairsharing/internal/logger"
	"github.com/lxdao/fairsharing/internal/logic"
	"github.com/lxdao/fairsharing/internal/monitor"
	"github.com/lxdao/fairsharing/internal/monitoring"
	"github.com/lxdao/fairsharing/internal/outbox"
	"github.com/lxdao/fairsharing/internal/router"
	"github.com/lxdao/fairsharing/internal/scheduler"
	"github.com/lxdao/fairsharing/internal/store"
	"github.com/lxdao/fairsharing/internal/voting"
)

func main() {
	// 加载配置
	cfg := config.Load()

	if err := logger.Init(cfg.Log); err != nil {
		logger.Fatal("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	if err := monitoring.Init(cfg.Sentry); err != nil {
		logger.Warn("Failed to initialize sentry: %v", err)
	}
	defer monitoring.Flush()

	// 初始化数据库
	db, err := database.Init(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to initialize database: %v", err)
	}

	// 待补偿的创建参数
	outboxStore, err := store.Open(cfg.Store.Path)
	if err != nil {
		logger.Fatal("Failed to open outbox store: %v", err)
	}
	defer outboxStore.Close()

	// 初始化链客户端
	chainManager, err := chain.NewManager(cfg.Chain)
	if err != nil {
		logger.Fatal("Failed to initialize chain manager: %v", err)
	}
	defer chainManager.Close()

	registry, err := chainManager.Registry()
	if err != nil {
		logger.Fatal("Failed to load project registry: %v", err)
	}
	logger.Info("Project registry %s, relayer %s", registry.Address().Hex(), registry.Sender().Hex())

	resolver, err := voting.NewResolverFromConfig(cfg.Chain.Strategies)
	if err != nil {
		logger.Fatal("Failed to load vote strategies: %v", err)
	}

	projectLogic := logic.NewProjectLogic(db)
	creator := outbox.NewCreator(registry, projectLogic, outboxStore, resolver, cfg.Chain.ChainId)

	// 启动时先补偿上次遗留的创建记录
	startupCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
	result, err := creator.Replay(startupCtx)
	cancel()
	if err != nil {
		logger.Error("Startup outbox replay failed: %v", err)
	} else if result.Failed > 0 {
		monitoring.Message(fmt.Sprintf("%d pending project registrations still failing after startup replay", result.Failed))
	}

	// 监听注册合约事件
	eventMonitor := monitor.NewEventMonitor(
		chainManager.GetContracts(),
		chainManager.GetClient(),
		logic.NewEventLogic(db),
		projectLogic,
		cfg.Chain.Confirmations,
	)
	if err := eventMonitor.Start(); err != nil {
		logger.Fatal("Failed to start event monitor: %v", err)
	}
	defer eventMonitor.Stop()

	// 启动定时任务
	taskManager, err := scheduler.NewManager(
		scheduler.NewOutboxReplayJob(creator, cfg.Task.Interval),
		scheduler.NewContributionReadyJob(logic.NewContributionLogic(db), cfg.Task.ReadyInterval),
	)
	if err != nil {
		logger.Fatal("Failed to create task manager: %v", err)
	}
	if err := taskManager.Start(); err != nil {
		logger.Fatal("Failed to start task manager: %v", err)
	}
	defer taskManager.Stop()

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化路由
	r := router.Setup(router.Deps{
		DB:           db,
		Creator:      creator,
		Resolver:     resolver,
		ChainManager: chainManager,
		Monitor:      eventMonitor,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Info("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigc)
	<-sigc

	logger.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed: %v", err)
	}
}
