package logic

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/lxdao/fairsharing/internal/model"
	"github.com/lxdao/fairsharing/internal/voting"
	"gorm.io/gorm"
)

// ProjectLogic 项目业务逻辑
type ProjectLogic struct {
	db *gorm.DB
}

// NewProjectLogic 创建项目业务逻辑
func NewProjectLogic(db *gorm.DB) *ProjectLogic {
	return &ProjectLogic{db: db}
}

// ProjectQuery 项目列表查询条件
type ProjectQuery struct {
	UserId   int64
	Page     int
	PageSize int
}

// CreateProject 登记链上已注册的项目，同一合约地址重复登记时返回已有项目
func (p *ProjectLogic) CreateProject(ctx context.Context, rp RegisterProject) (*model.ProjectModel, error) {
	if rp.ContractAddress == "" {
		return nil, errors.New("合约地址不能为空")
	}
	contractAddress := NormalizeWallet(rp.ContractAddress)

	existing, err := p.FindByAddress(ctx, contractAddress)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, ErrProjectNotFound) {
		return nil, err
	}

	req := rp.Request
	project := &model.ProjectModel{
		Name:                req.Name,
		Intro:               req.Intro,
		Avatar:              req.Avatar,
		Symbol:              req.Symbol,
		Network:             req.Network,
		VotePeriod:          rp.VotePeriodDays,
		VoteSystem:          int(req.Voting.VoteSystem),
		VoteApproveType:     int(req.Voting.VoteApproveType),
		ForWeightOfTotal:    req.Voting.ForWeightOfTotal,
		DifferWeightOfTotal: req.Voting.DifferWeightOfTotal,
		StrategyAddress:     rp.StrategyAddress,
		Threshold:           rp.Threshold,
		CreatorWallet:       NormalizeWallet(req.Wallet),
		ContractAddress:     contractAddress,
		TransactionHash:     rp.TxHash,
	}

	err = p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		creator, err := getOrCreateUser(tx, req.Wallet)
		if err != nil {
			return fmt.Errorf("创建用户失败: %w", err)
		}
		project.CreatorId = creator.Id

		if err := tx.Create(project).Error; err != nil {
			return fmt.Errorf("创建项目失败: %w", err)
		}

		for _, c := range req.Contributors {
			user, err := getOrCreateUser(tx, c.Wallet)
			if err != nil {
				return fmt.Errorf("创建用户失败: %w", err)
			}
			contributor := &model.ContributorModel{
				ProjectId:  project.Id,
				UserId:     user.Id,
				Wallet:     user.Wallet,
				NickName:   c.NickName,
				Permission: c.Permission,
				VoteWeight: c.VoteWeight,
				Role:       c.Role,
			}
			if err := tx.Create(contributor).Error; err != nil {
				return fmt.Errorf("创建项目成员失败: %w", err)
			}
			project.Contributors = append(project.Contributors, *contributor)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return project, nil
}

// HasProject 项目是否在用户的项目列表中（创建者或成员）
func (p *ProjectLogic) HasProject(ctx context.Context, wallet, contractAddress string) (bool, error) {
	wallet = NormalizeWallet(wallet)
	members := p.db.Model(&model.ContributorModel{}).Select("project_id").Where("wallet = ?", wallet)

	var count int64
	err := p.db.WithContext(ctx).Model(&model.ProjectModel{}).
		Where("contract_address = ?", NormalizeWallet(contractAddress)).
		Where("creator_wallet = ? OR id IN (?)", wallet, members).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("查询用户项目失败: %w", err)
	}
	return count > 0, nil
}

// GetProjectList 分页获取项目列表，UserId 不为 0 时只返回该用户参与的项目
func (p *ProjectLogic) GetProjectList(ctx context.Context, q ProjectQuery) ([]model.ProjectModel, int64, error) {
	var projects []model.ProjectModel
	var total int64

	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize < 1 || q.PageSize > 100 {
		q.PageSize = 20
	}

	query := p.db.WithContext(ctx).Model(&model.ProjectModel{})
	if q.UserId > 0 {
		members := p.db.Model(&model.ContributorModel{}).Select("project_id").Where("user_id = ?", q.UserId)
		query = query.Where("creator_id = ? OR id IN (?)", q.UserId, members)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("获取项目总数失败: %w", err)
	}

	offset := (q.Page - 1) * q.PageSize
	if err := query.Offset(offset).Limit(q.PageSize).Order("created_at DESC").Find(&projects).Error; err != nil {
		return nil, 0, fmt.Errorf("获取项目列表失败: %w", err)
	}

	return projects, total, nil
}

// GetProject 获取项目详情
func (p *ProjectLogic) GetProject(ctx context.Context, id int64) (*model.ProjectModel, error) {
	var project model.ProjectModel
	if err := p.db.WithContext(ctx).Preload("Contributors").First(&project, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("获取项目详情失败: %w", err)
	}

	return &project, nil
}

// FindByAddress 按合约地址查找项目
func (p *ProjectLogic) FindByAddress(ctx context.Context, contractAddress string) (*model.ProjectModel, error) {
	var project model.ProjectModel
	err := p.db.WithContext(ctx).Where("contract_address = ?", NormalizeWallet(contractAddress)).First(&project).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("获取项目失败: %w", err)
	}
	return &project, nil
}

// MarkChainConfirmed 监听到链上创建事件后标记项目，返回是否找到项目
func (p *ProjectLogic) MarkChainConfirmed(ctx context.Context, contractAddress, txHash string) (bool, error) {
	updates := map[string]interface{}{"chain_confirmed": true}
	if txHash != "" {
		updates["transaction_hash"] = txHash
	}

	result := p.db.WithContext(ctx).Model(&model.ProjectModel{}).
		Where("contract_address = ?", NormalizeWallet(contractAddress)).
		Updates(updates)
	if result.Error != nil {
		return false, fmt.Errorf("更新项目链上状态失败: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// VotingConfig 从项目还原投票配置
func VotingConfig(project *model.ProjectModel) voting.VotingConfig {
	return voting.VotingConfig{
		VoteSystem:          voting.VoteSystem(project.VoteSystem),
		VoteApproveType:     voting.VoteApproveType(project.VoteApproveType),
		ForWeightOfTotal:    project.ForWeightOfTotal,
		DifferWeightOfTotal: project.DifferWeightOfTotal,
	}
}

// parseId 解析路径或请求中的数字ID
func parseId(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	return id, err == nil && id > 0
}
