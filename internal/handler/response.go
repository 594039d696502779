package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lxdao/fairsharing/internal/errs"
	"github.com/lxdao/fairsharing/internal/logger"
	"github.com/lxdao/fairsharing/internal/logic"
	"github.com/lxdao/fairsharing/internal/outbox"
)

// SuccessResponse 成功响应
func SuccessResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	c.JSON(statusCode, Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// ErrorResponse 错误响应
func ErrorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, Response{
		Success: false,
		Message: message,
		Data:    nil,
	})
}

// HandleError 按错误类别返回对应状态码
func HandleError(c *gin.Context, err error) {
	ErrorResponse(c, StatusCode(err), err.Error())
}

// StatusCode 错误对应的 HTTP 状态码
func StatusCode(err error) int {
	switch {
	case errors.Is(err, outbox.ErrSubmissionInFlight):
		return http.StatusConflict
	case errors.Is(err, logic.ErrProjectNotFound), errors.Is(err, logic.ErrContributionNotFound):
		return http.StatusNotFound
	}

	switch errs.KindOf(err) {
	case errs.KindValidation:
		return http.StatusBadRequest
	case errs.KindExternalCall:
		return http.StatusBadGateway
	case errs.KindConsistency:
		// 链上已成功，链下登记待补偿
		return http.StatusAccepted
	case errs.KindConfiguration:
		logger.Error("Configuration error: %v", err)
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// parseIdParam 解析路径中的数字ID
func parseIdParam(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
