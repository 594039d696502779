package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lxdao/fairsharing/internal/model"
)

// UserService 用户查询
type UserService interface {
	GetUserInfo(ctx context.Context, wallet string) (*model.UserModel, error)
}

type UserHandler struct {
	users UserService
}

func NewUserHandler(users UserService) *UserHandler {
	return &UserHandler{users: users}
}

// GetUserInfo 按钱包获取用户信息
func (h *UserHandler) GetUserInfo(c *gin.Context) {
	user, err := h.users.GetUserInfo(c.Request.Context(), c.Param("wallet"))
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", user)
}
