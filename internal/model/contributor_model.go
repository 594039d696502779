package model

import (
	"time"
)

// ContributorModel 项目成员
type ContributorModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProjectId  int64      `json:"project_id" gorm:"not null;uniqueIndex:idx_project_wallet"`
	UserId     int64      `json:"user_id" gorm:"index"`
	Wallet     string     `json:"wallet" gorm:"not null;size:42;uniqueIndex:idx_project_wallet"` // 成员钱包地址
	NickName   string     `json:"nick_name"`
	Permission Permission `json:"permission" gorm:"not null"`
	VoteWeight int64      `json:"vote_weight" gorm:"default:0"` // 0-100
	Role       string     `json:"role"`
}

// Permission 成员权限
type Permission string

const (
	PermissionAdmin  Permission = "admin"  // 管理员
	PermissionMember Permission = "member" // 普通成员
)

// TableName 自定义表名
func (ContributorModel) TableName() string {
	return "contributor"
}
