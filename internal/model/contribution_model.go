package model

import (
	"encoding/json"
	"time"

	"github.com/lxdao/fairsharing/internal/contribution"
)

// ContributionModel 贡献记录
type ContributionModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ProjectId int64               `json:"project_id" gorm:"not null;index"`
	Detail    string              `json:"detail" gorm:"type:text"`
	Proof     string              `json:"proof" gorm:"type:text"`
	Credit    int64               `json:"credit" gorm:"default:0"`
	Status    contribution.Status `json:"status" gorm:"default:'UNREADY'"`
	ToIds     string              `json:"to_ids" gorm:"type:text"` // 贡献者ID的JSON数组
	UId       string              `json:"uid" gorm:"column:uid"`   // 链上证明ID
	Owner     string              `json:"owner"`                   // 提交者钱包
}

// TableName 自定义表名
func (ContributionModel) TableName() string {
	return "contribution"
}

// ContributorIds 解析 ToIds
func (m *ContributionModel) ContributorIds() []string {
	var ids []string
	if m.ToIds == "" {
		return ids
	}
	if err := json.Unmarshal([]byte(m.ToIds), &ids); err != nil {
		return nil
	}
	return ids
}

// SetContributorIds 写入 ToIds
func (m *ContributionModel) SetContributorIds(ids []string) {
	if ids == nil {
		ids = []string{}
	}
	data, _ := json.Marshal(ids)
	m.ToIds = string(data)
}

// Record 转换为筛选使用的结构
func (m *ContributionModel) Record() contribution.Contribution {
	return contribution.Contribution{
		ID:       m.Id,
		CreateAt: m.CreatedAt,
		Status:   m.Status,
		ToIDs:    m.ContributorIds(),
	}
}
