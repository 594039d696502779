package logic

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/lxdao/fairsharing/internal/contribution"
	"github.com/lxdao/fairsharing/internal/errs"
	"github.com/lxdao/fairsharing/internal/model"
	"gorm.io/gorm"
)

// ContributionLogic 贡献业务逻辑
type ContributionLogic struct {
	db *gorm.DB
}

// NewContributionLogic 创建贡献业务逻辑
func NewContributionLogic(db *gorm.DB) *ContributionLogic {
	return &ContributionLogic{db: db}
}

// CreateContributionRequest 提交贡献请求
type CreateContributionRequest struct {
	Owner  string   `json:"owner"`
	Detail string   `json:"detail"`
	Proof  string   `json:"proof"`
	Credit int64    `json:"credit"`
	ToIds  []string `json:"toIds"` // 贡献者ID
	UId    string   `json:"uid"`   // 链上证明ID，可稍后补充
}

// ContributionView 列表中的贡献及其展示状态
type ContributionView struct {
	model.ContributionModel
	ContributorIds []string  `json:"contributor_ids"`
	VoteDeadline   time.Time `json:"vote_deadline"`
	Claimable      bool      `json:"claimable"`
	StatusText     string    `json:"status_text"`
	StatusColor    string    `json:"status_color"`
	StatusCursor   string    `json:"status_cursor"`
	MyVote         int       `json:"my_vote,omitempty"`
}

// Create 创建贡献，初始状态为 UNREADY
func (c *ContributionLogic) Create(ctx context.Context, projectId int64, req CreateContributionRequest) (*model.ContributionModel, error) {
	if !common.IsHexAddress(req.Owner) {
		return nil, errs.Validation("owner", "提交者钱包地址格式错误")
	}
	if strings.TrimSpace(req.Detail) == "" {
		return nil, errs.Validation("detail", "贡献内容不能为空")
	}
	if req.Credit < 0 {
		return nil, errs.Validation("credit", "贡献积分不能为负数")
	}
	if len(req.ToIds) == 0 {
		return nil, errs.Validation("toIds", "至少需要一名贡献者")
	}

	ids := make([]int64, 0, len(req.ToIds))
	for _, raw := range req.ToIds {
		id, ok := parseId(raw)
		if !ok {
			return nil, errs.Validationf("toIds", "贡献者ID格式错误: %s", raw)
		}
		ids = append(ids, id)
	}

	db := c.db.WithContext(ctx)
	var project model.ProjectModel
	if err := db.First(&project, projectId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("获取项目失败: %w", err)
	}

	// 贡献者必须是项目成员
	var members int64
	if err := db.Model(&model.ContributorModel{}).
		Where("project_id = ? AND id IN ?", projectId, ids).
		Count(&members).Error; err != nil {
		return nil, fmt.Errorf("查询项目成员失败: %w", err)
	}
	if members != int64(len(ids)) {
		return nil, errs.Validation("toIds", "贡献者不是项目成员")
	}

	record := &model.ContributionModel{
		ProjectId: projectId,
		Detail:    req.Detail,
		Proof:     req.Proof,
		Credit:    req.Credit,
		Status:    contribution.StatusUnready,
		UId:       req.UId,
		Owner:     NormalizeWallet(req.Owner),
	}
	record.SetContributorIds(req.ToIds)

	if err := db.Create(record).Error; err != nil {
		return nil, fmt.Errorf("创建贡献失败: %w", err)
	}
	return record, nil
}

// List 获取项目全部贡献，按创建时间倒序
func (c *ContributionLogic) List(ctx context.Context, projectId int64) ([]model.ContributionModel, error) {
	var records []model.ContributionModel
	if err := c.db.WithContext(ctx).
		Where("project_id = ?", projectId).
		Order("created_at DESC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("获取贡献列表失败: %w", err)
	}
	return records, nil
}

// Get 获取单条贡献
func (c *ContributionLogic) Get(ctx context.Context, id int64) (*model.ContributionModel, error) {
	var record model.ContributionModel
	if err := c.db.WithContext(ctx).First(&record, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContributionNotFound
		}
		return nil, fmt.Errorf("获取贡献失败: %w", err)
	}
	return &record, nil
}

// MarkReady 写入链上证明ID并将 UNREADY 推进为 READY
func (c *ContributionLogic) MarkReady(ctx context.Context, id int64, uId string) (*model.ContributionModel, error) {
	if strings.TrimSpace(uId) == "" {
		return nil, errs.Validation("uid", "证明ID不能为空")
	}

	record, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := c.transition(ctx, record, contribution.StatusReady, map[string]interface{}{"uid": uId}); err != nil {
		return nil, err
	}
	record.UId = uId
	return record, nil
}

// MarkClaimed 投票期结束后将 READY 推进为 CLAIM
func (c *ContributionLogic) MarkClaimed(ctx context.Context, id int64, now time.Time) (*model.ContributionModel, error) {
	record, err := c.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	var project model.ProjectModel
	if err := c.db.WithContext(ctx).First(&project, record.ProjectId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("获取项目失败: %w", err)
	}

	if !contribution.CanClaim(record.Record(), now, project.VotePeriod) {
		return nil, errs.Validation("status", "贡献当前不可领取")
	}
	if err := c.transition(ctx, record, contribution.StatusClaim, nil); err != nil {
		return nil, err
	}
	return record, nil
}

// transition 按状态机推进，数据库中的状态已被并发修改时视为非法推进
func (c *ContributionLogic) transition(ctx context.Context, record *model.ContributionModel, next contribution.Status, extra map[string]interface{}) error {
	if !record.Status.CanTransitionTo(next) {
		return errs.Validationf("status", "贡献状态不能从 %s 变为 %s", record.Status, next)
	}

	updates := map[string]interface{}{"status": next}
	for k, v := range extra {
		updates[k] = v
	}
	result := c.db.WithContext(ctx).Model(&model.ContributionModel{}).
		Where("id = ? AND status = ?", record.Id, record.Status).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("更新贡献状态失败: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errs.Validationf("status", "贡献状态已变更")
	}

	record.Status = next
	return nil
}

// PromoteAttested 将已有链上证明的 UNREADY 贡献推进为 READY
func (c *ContributionLogic) PromoteAttested(ctx context.Context) (int64, error) {
	result := c.db.WithContext(ctx).Model(&model.ContributionModel{}).
		Where("status = ? AND uid <> ?", contribution.StatusUnready, "").
		Update("status", contribution.StatusReady)
	if result.Error != nil {
		return 0, fmt.Errorf("更新贡献状态失败: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Filtered 按筛选条件返回项目贡献，myVotes 为当前用户的投票记录
func (c *ContributionLogic) Filtered(ctx context.Context, projectId int64, opts contribution.FilterOptions, myVotes map[string]int, now time.Time) ([]ContributionView, error) {
	var project model.ProjectModel
	if err := c.db.WithContext(ctx).First(&project, projectId).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("获取项目失败: %w", err)
	}

	records, err := c.List(ctx, projectId)
	if err != nil {
		return nil, err
	}

	byId := make(map[int64]*model.ContributionModel, len(records))
	list := make([]contribution.Contribution, 0, len(records))
	for i := range records {
		byId[records[i].Id] = &records[i]
		list = append(list, records[i].Record())
	}

	env := contribution.Env{Now: now, VotePeriodDays: project.VotePeriod, MyVotes: myVotes}
	filtered := contribution.Filter(list, opts, env)

	views := make([]ContributionView, 0, len(filtered))
	for _, item := range filtered {
		views = append(views, ContributionView{
			ContributionModel: *byId[item.ID],
			ContributorIds:    item.ToIDs,
			VoteDeadline:      contribution.VoteDeadline(item, project.VotePeriod),
			Claimable:         contribution.CanClaim(item, now, project.VotePeriod),
			StatusText:        contribution.StatusText(item, now, project.VotePeriod),
			StatusColor:       contribution.StatusColor(item.Status),
			StatusCursor:      contribution.StatusCursor(item.Status),
			MyVote:            myVotes[fmt.Sprint(item.ID)],
		})
	}
	return views, nil
}
