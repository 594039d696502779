package model

import (
	"time"
)

// EventModel 注册合约事件记录
type EventModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ContractAddress string `json:"contract_address" gorm:"not null"`
	ContractName    string `json:"contract_name" gorm:"not null"`
	EventType       string `json:"event_type" gorm:"not null"`
	ProjectAddress  string `json:"project_address" gorm:"index"` // ProjectCreated 事件创建的项目合约
	TxHash          string `json:"tx_hash" gorm:"not null;uniqueIndex:idx_tx_log"`
	BlockNum        int64  `json:"block_num" gorm:"not null"`
	LogIndex        int64  `json:"log_index" gorm:"uniqueIndex:idx_tx_log"`
	Data            string `json:"data" gorm:"type:text"`
	Processed       bool   `json:"processed" gorm:"default:false"`
}

// TableName 自定义表名
func (EventModel) TableName() string {
	return "event"
}
