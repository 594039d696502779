package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthChecker 链连接状态
type HealthChecker interface {
	GetHealthStatus(ctx context.Context) map[string]interface{}
}

// StatusReporter 事件监控状态
type StatusReporter interface {
	GetStatus() map[string]interface{}
}

type HealthHandler struct {
	chain   HealthChecker
	monitor StatusReporter
}

func NewHealthHandler(chain HealthChecker, monitor StatusReporter) *HealthHandler {
	return &HealthHandler{chain: chain, monitor: monitor}
}

// Health 健康检查
func (h *HealthHandler) Health(c *gin.Context) {
	resp := gin.H{
		"status":  "ok",
		"service": "fairsharing-service",
	}
	if h.chain != nil {
		status := h.chain.GetHealthStatus(c.Request.Context())
		resp["chain"] = status
		if status["client_status"] != "connected" {
			resp["status"] = "degraded"
		}
	}
	if h.monitor != nil {
		resp["monitor"] = h.monitor.GetStatus()
	}

	c.JSON(http.StatusOK, resp)
}
