package logic

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/lxdao/fairsharing/internal/contribution"
	"github.com/lxdao/fairsharing/internal/errs"
	"github.com/lxdao/fairsharing/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AttestationLogic 投票证明业务逻辑
type AttestationLogic struct {
	db *gorm.DB
}

// NewAttestationLogic 创建投票证明业务逻辑
func NewAttestationLogic(db *gorm.DB) *AttestationLogic {
	return &AttestationLogic{db: db}
}

// VoteRequest 投票请求
type VoteRequest struct {
	UId   string          `json:"uid"`
	Voter string          `json:"voter"`
	Value model.VoteValue `json:"value"`
}

// VoteTally 单条贡献的投票统计
type VoteTally struct {
	For     int `json:"for"`
	Against int `json:"against"`
	Abstain int `json:"abstain"`
}

// Record 记录投票证明，同一投票人重复投票时覆盖
func (a *AttestationLogic) Record(ctx context.Context, contributionId int64, req VoteRequest) (*model.VoteAttestationModel, error) {
	if strings.TrimSpace(req.UId) == "" {
		return nil, errs.Validation("uid", "证明ID不能为空")
	}
	if !common.IsHexAddress(req.Voter) {
		return nil, errs.Validation("voter", "投票人钱包地址格式错误")
	}
	if !req.Value.Valid() {
		return nil, errs.Validationf("value", "投票值错误: %d", req.Value)
	}

	record, err := NewContributionLogic(a.db).Get(ctx, contributionId)
	if err != nil {
		return nil, err
	}
	if record.Status == contribution.StatusClaim {
		return nil, errs.Validation("status", "贡献已领取，不能投票")
	}

	vote := &model.VoteAttestationModel{
		UId:            req.UId,
		ProjectId:      record.ProjectId,
		ContributionId: contributionId,
		Voter:          NormalizeWallet(req.Voter),
		Value:          req.Value,
	}
	err = a.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "contribution_id"}, {Name: "voter"}},
		DoUpdates: clause.AssignmentColumns([]string{"uid", "value", "updated_at"}),
	}).Create(vote).Error
	if err != nil {
		return nil, fmt.Errorf("记录投票失败: %w", err)
	}
	return vote, nil
}

// MyVotes 返回用户在项目中的投票，贡献ID -> 投票值
func (a *AttestationLogic) MyVotes(ctx context.Context, projectId int64, wallet string) (map[string]int, error) {
	votes := make(map[string]int)
	if wallet == "" {
		return votes, nil
	}

	var records []model.VoteAttestationModel
	if err := a.db.WithContext(ctx).
		Where("project_id = ? AND voter = ?", projectId, NormalizeWallet(wallet)).
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("获取投票记录失败: %w", err)
	}

	for _, r := range records {
		votes[strconv.FormatInt(r.ContributionId, 10)] = int(r.Value)
	}
	return votes, nil
}

// VoteMap 返回项目中每条贡献的投票统计
func (a *AttestationLogic) VoteMap(ctx context.Context, projectId int64) (map[string]VoteTally, error) {
	var records []model.VoteAttestationModel
	if err := a.db.WithContext(ctx).Where("project_id = ?", projectId).Find(&records).Error; err != nil {
		return nil, fmt.Errorf("获取投票记录失败: %w", err)
	}

	tallies := make(map[string]VoteTally)
	for _, r := range records {
		key := strconv.FormatInt(r.ContributionId, 10)
		t := tallies[key]
		switch r.Value {
		case model.VoteFor:
			t.For++
		case model.VoteAgainst:
			t.Against++
		case model.VoteAbstain:
			t.Abstain++
		}
		tallies[key] = t
	}
	return tallies, nil
}
