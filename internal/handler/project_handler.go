package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lxdao/fairsharing/internal/logic"
	"github.com/lxdao/fairsharing/internal/model"
	"github.com/lxdao/fairsharing/internal/outbox"
	"github.com/lxdao/fairsharing/internal/voting"
)

// ProjectCreator 创建项目流程
type ProjectCreator interface {
	Submit(ctx context.Context, req logic.CreateProjectRequest) (*model.ProjectModel, error)
	Pending(wallet string) (*outbox.Intent, error)
}

// ProjectReader 项目查询
type ProjectReader interface {
	GetProjectList(ctx context.Context, q logic.ProjectQuery) ([]model.ProjectModel, int64, error)
	GetProject(ctx context.Context, id int64) (*model.ProjectModel, error)
}

// StrategyPlanner 投票方案预览
type StrategyPlanner interface {
	Plan(cfg voting.VotingConfig, weights []int64) (voting.Plan, error)
}

type ProjectHandler struct {
	projects ProjectReader
	creator  ProjectCreator
	planner  StrategyPlanner
}

func NewProjectHandler(projects ProjectReader, creator ProjectCreator, planner StrategyPlanner) *ProjectHandler {
	return &ProjectHandler{
		projects: projects,
		creator:  creator,
		planner:  planner,
	}
}

// CreateProject 创建项目：链上注册后登记到链下
func (h *ProjectHandler) CreateProject(c *gin.Context) {
	var req logic.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	project, err := h.creator.Submit(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "项目创建成功", NewProjectResponse(project))
}

// GetProjects 获取项目列表
func (h *ProjectHandler) GetProjects(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	userId, _ := strconv.ParseInt(c.DefaultQuery("user_id", "0"), 10, 64)

	q := logic.ProjectQuery{UserId: userId, Page: page, PageSize: pageSize}
	projects, total, err := h.projects.GetProjectList(c.Request.Context(), q)
	if err != nil {
		HandleError(c, err)
		return
	}

	resp := GetProjectsResponse{
		Projects: make([]ProjectResponse, 0, len(projects)),
	}
	for i := range projects {
		resp.Projects = append(resp.Projects, NewProjectResponse(&projects[i]))
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	resp.Pagination = NewPagination(page, pageSize, total)

	SuccessResponse(c, http.StatusOK, "", resp)
}

// GetProject 获取单个项目详情
func (h *ProjectHandler) GetProject(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	project, err := h.projects.GetProject(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", NewProjectResponse(project))
}

// ResolveStrategy 预览投票策略和归一化权重，不提交任何交易
func (h *ProjectHandler) ResolveStrategy(c *gin.Context) {
	var req ResolveStrategyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := h.planner.Plan(req.Voting, req.Weights)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", NewResolveStrategyResponse(plan))
}

// GetPendingIntent 查询钱包遗留的待补偿创建记录
func (h *ProjectHandler) GetPendingIntent(c *gin.Context) {
	intent, err := h.creator.Pending(c.Param("wallet"))
	if err != nil {
		HandleError(c, err)
		return
	}
	if intent == nil {
		SuccessResponse(c, http.StatusOK, "没有待补偿的创建记录", nil)
		return
	}

	SuccessResponse(c, http.StatusOK, "", intent)
}
