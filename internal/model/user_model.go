package model

import (
	"time"
)

// UserModel 用户
type UserModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Wallet string `json:"wallet" gorm:"not null;uniqueIndex;size:42"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// TableName 自定义表名
func (UserModel) TableName() string {
	return "user"
}
