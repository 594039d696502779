package model

import (
	"time"
)

// ProjectModel 项目
type ProjectModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 基本信息
	Name    string `json:"name" gorm:"not null"`
	Intro   string `json:"intro" gorm:"type:text"`
	Avatar  string `json:"avatar"`
	Symbol  string `json:"symbol" gorm:"not null"`
	Network int64  `json:"network" gorm:"not null"` // 链ID

	// 投票规则
	VotePeriod          int    `json:"vote_period" gorm:"not null"`  // 天
	VoteSystem          int    `json:"vote_system" gorm:"not null"`  // 1 等权 2 加权
	VoteApproveType     int    `json:"vote_approve_type" gorm:"not null"`
	ForWeightOfTotal    string `json:"for_weight_of_total"`
	DifferWeightOfTotal string `json:"differ_weight_of_total"`
	StrategyAddress     string `json:"strategy_address"`
	Threshold           string `json:"threshold"` // 0-1 小数

	// 创建者信息
	CreatorId     int64  `json:"creator_id" gorm:"index"`
	CreatorWallet string `json:"creator_wallet" gorm:"index"`

	// 区块链信息
	ContractAddress string `json:"contract_address" gorm:"uniqueIndex;size:42"`
	TransactionHash string `json:"transaction_hash"`
	ChainConfirmed  bool   `json:"chain_confirmed" gorm:"default:false"`

	Contributors []ContributorModel `json:"contributors,omitempty" gorm:"foreignKey:ProjectId"`
}

// TableName 自定义表名
func (ProjectModel) TableName() string {
	return "project"
}
