package logic

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/lxdao/fairsharing/internal/errs"
	"github.com/lxdao/fairsharing/internal/model"
	"gorm.io/gorm"
)

// UserLogic 用户业务逻辑
type UserLogic struct {
	db *gorm.DB
}

// NewUserLogic 创建用户业务逻辑
func NewUserLogic(db *gorm.DB) *UserLogic {
	return &UserLogic{db: db}
}

// GetUserInfo 按钱包获取用户，不存在时创建
func (u *UserLogic) GetUserInfo(ctx context.Context, wallet string) (*model.UserModel, error) {
	if !common.IsHexAddress(wallet) {
		return nil, errs.Validation("wallet", "钱包地址格式错误")
	}

	user, err := getOrCreateUser(u.db.WithContext(ctx), wallet)
	if err != nil {
		return nil, fmt.Errorf("获取用户失败: %w", err)
	}
	return user, nil
}

// getOrCreateUser 在给定连接或事务中按钱包获取或创建用户
func getOrCreateUser(db *gorm.DB, wallet string) (*model.UserModel, error) {
	var user model.UserModel
	wallet = NormalizeWallet(wallet)
	if err := db.Where(model.UserModel{Wallet: wallet}).FirstOrCreate(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
