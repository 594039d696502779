package model

import (
	"time"
)

// VoteAttestationModel 投票证明
type VoteAttestationModel struct {
	Id        int64     `json:"id" gorm:"primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UId            string    `json:"uid" gorm:"column:uid;uniqueIndex"`
	ProjectId      int64     `json:"project_id" gorm:"not null;index"`
	ContributionId int64     `json:"contribution_id" gorm:"not null;uniqueIndex:idx_contribution_voter"`
	Voter          string    `json:"voter" gorm:"not null;size:42;uniqueIndex:idx_contribution_voter"`
	Value          VoteValue `json:"value" gorm:"not null"`
}

// VoteValue 投票值
type VoteValue int

const (
	VoteFor     VoteValue = 1 // 赞成
	VoteAgainst VoteValue = 2 // 反对
	VoteAbstain VoteValue = 3 // 弃权
)

// Valid 是否为已定义投票值
func (v VoteValue) Valid() bool {
	return v >= VoteFor && v <= VoteAbstain
}

// TableName 自定义表名
func (VoteAttestationModel) TableName() string {
	return "vote_attestation"
}
