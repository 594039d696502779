package router

import (
	"github.com/gin-gonic/gin"
	"github.com/lxdao/fairsharing/internal/chain"
	"github.com/lxdao/fairsharing/internal/handler"
	"github.com/lxdao/fairsharing/internal/logic"
	"github.com/lxdao/fairsharing/internal/monitor"
	"github.com/lxdao/fairsharing/internal/outbox"
	"github.com/lxdao/fairsharing/internal/voting"
	"gorm.io/gorm"
)

// Deps 路由依赖
type Deps struct {
	DB           *gorm.DB
	Creator      *outbox.Creator
	Resolver     *voting.Resolver
	ChainManager *chain.Manager
	Monitor      *monitor.EventMonitor
}

func Setup(deps Deps) *gin.Engine {
	r := gin.New()

	// 中间件
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(corsMiddleware())

	var health handler.HealthChecker
	if deps.ChainManager != nil {
		health = deps.ChainManager
	}
	var status handler.StatusReporter
	if deps.Monitor != nil {
		status = deps.Monitor
	}
	r.GET("/health", handler.NewHealthHandler(health, status).Health)

	projectLogic := logic.NewProjectLogic(deps.DB)
	projectHandler := handler.NewProjectHandler(projectLogic, deps.Creator, deps.Resolver)
	userHandler := handler.NewUserHandler(logic.NewUserLogic(deps.DB))
	contributionHandler := handler.NewContributionHandler(
		logic.NewContributionLogic(deps.DB),
		logic.NewAttestationLogic(deps.DB),
	)

	// API版本组
	v1 := r.Group("/api/v1")
	{
		projects := v1.Group("/projects")
		{
			projects.POST("", projectHandler.CreateProject)
			projects.GET("", projectHandler.GetProjects)
			projects.GET("/:id", projectHandler.GetProject)
			projects.GET("/:id/contributions", contributionHandler.GetContributions)
			projects.POST("/:id/contributions", contributionHandler.CreateContribution)
			projects.GET("/:id/votes", contributionHandler.GetVotes)
		}

		contributions := v1.Group("/contributions")
		{
			contributions.PUT("/:id/ready", contributionHandler.MarkReady)
			contributions.POST("/:id/claim", contributionHandler.Claim)
			contributions.POST("/:id/votes", contributionHandler.Vote)
		}

		v1.POST("/strategy/resolve", projectHandler.ResolveStrategy)
		v1.GET("/users/:wallet", userHandler.GetUserInfo)
		v1.GET("/outbox/:wallet", projectHandler.GetPendingIntent)
	}

	return r
}

// CORS中间件
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Content-Length, Accept-Encoding, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
