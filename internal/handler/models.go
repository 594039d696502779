package handler

import (
	"math/big"

	"github.com/lxdao/fairsharing/internal/logic"
	"github.com/lxdao/fairsharing/internal/model"
	"github.com/lxdao/fairsharing/internal/voting"
)

// 通用响应结构
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// 分页信息结构
type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"pageSize"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"totalPage"`
}

// NewPagination 计算分页信息
func NewPagination(page, pageSize int, total int64) Pagination {
	p := Pagination{Page: page, PageSize: pageSize, Total: total}
	if pageSize > 0 {
		p.TotalPage = (total + int64(pageSize) - 1) / int64(pageSize)
	}
	return p
}

// ProjectResponse 项目响应模型
type ProjectResponse struct {
	*model.ProjectModel
	Voting voting.VotingConfig `json:"voting"`
}

// NewProjectResponse 转换项目响应
func NewProjectResponse(project *model.ProjectModel) ProjectResponse {
	return ProjectResponse{
		ProjectModel: project,
		Voting:       logic.VotingConfig(project),
	}
}

// GetProjectsResponse 获取项目列表响应
type GetProjectsResponse struct {
	Projects   []ProjectResponse `json:"projects"`
	Pagination Pagination        `json:"pagination"`
}

// ResolveStrategyRequest 预览投票策略请求
type ResolveStrategyRequest struct {
	Voting  voting.VotingConfig `json:"voting"`
	Weights []int64             `json:"weights"`
}

// ResolveStrategyResponse 预览投票策略响应
type ResolveStrategyResponse struct {
	ApproveType     string   `json:"approveType"`
	StrategyAddress string   `json:"strategyAddress"`
	Threshold       string   `json:"threshold"`
	ThresholdUnits  string   `json:"thresholdUnits"`
	Weights         []string `json:"weights"`
	WeightUnits     []string `json:"weightUnits"`
}

// NewResolveStrategyResponse 转换投票方案
func NewResolveStrategyResponse(plan voting.Plan) ResolveStrategyResponse {
	resp := ResolveStrategyResponse{
		ApproveType:     plan.Strategy.ApproveType.Key(),
		StrategyAddress: plan.Strategy.Address.Hex(),
		Threshold:       plan.Strategy.Threshold.String(),
		ThresholdUnits:  plan.Strategy.ThresholdUnits().String(),
		Weights:         make([]string, 0, len(plan.Weights)),
	}
	for _, w := range plan.Weights {
		resp.Weights = append(resp.Weights, w.String())
	}
	resp.WeightUnits = bigStrings(plan.WeightUnits())
	return resp
}

func bigStrings(values []*big.Int) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, v.String())
	}
	return out
}

// ContributionsResponse 贡献列表响应
type ContributionsResponse struct {
	Contributions []logic.ContributionView `json:"contributions"`
	Total         int                      `json:"total"`
}

// ReadyRequest 贡献就绪请求
type ReadyRequest struct {
	UId string `json:"uid"`
}
