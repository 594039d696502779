package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lxdao/fairsharing/internal/contribution"
	"github.com/lxdao/fairsharing/internal/logic"
	"github.com/lxdao/fairsharing/internal/model"
)

// ContributionService 贡献业务
type ContributionService interface {
	Create(ctx context.Context, projectId int64, req logic.CreateContributionRequest) (*model.ContributionModel, error)
	Filtered(ctx context.Context, projectId int64, opts contribution.FilterOptions, myVotes map[string]int, now time.Time) ([]logic.ContributionView, error)
	MarkReady(ctx context.Context, id int64, uId string) (*model.ContributionModel, error)
	MarkClaimed(ctx context.Context, id int64, now time.Time) (*model.ContributionModel, error)
}

// VoteService 投票证明业务
type VoteService interface {
	Record(ctx context.Context, contributionId int64, req logic.VoteRequest) (*model.VoteAttestationModel, error)
	MyVotes(ctx context.Context, projectId int64, wallet string) (map[string]int, error)
	VoteMap(ctx context.Context, projectId int64) (map[string]logic.VoteTally, error)
}

type ContributionHandler struct {
	contributions ContributionService
	votes         VoteService
	now           func() time.Time
}

func NewContributionHandler(contributions ContributionService, votes VoteService) *ContributionHandler {
	return &ContributionHandler{
		contributions: contributions,
		votes:         votes,
		now:           time.Now,
	}
}

// GetContributions 按时间范围、投票状态和贡献者筛选项目贡献
func (h *ContributionHandler) GetContributions(c *gin.Context) {
	projectId, ok := parseIdParam(c, "id")
	if !ok {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	opts, err := filterOptions(c)
	if err != nil {
		HandleError(c, err)
		return
	}
	loc, err := contribution.ParseLocation(c.Query("tz"))
	if err != nil {
		HandleError(c, err)
		return
	}

	myVotes, err := h.votes.MyVotes(c.Request.Context(), projectId, c.Query("wallet"))
	if err != nil {
		HandleError(c, err)
		return
	}

	views, err := h.contributions.Filtered(c.Request.Context(), projectId, opts, myVotes, h.now().In(loc))
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", ContributionsResponse{
		Contributions: views,
		Total:         len(views),
	})
}

// CreateContribution 提交贡献
func (h *ContributionHandler) CreateContribution(c *gin.Context) {
	projectId, ok := parseIdParam(c, "id")
	if !ok {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	var req logic.CreateContributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	record, err := h.contributions.Create(c.Request.Context(), projectId, req)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "贡献提交成功", record)
}

// MarkReady 写入链上证明，贡献进入可领取流程
func (h *ContributionHandler) MarkReady(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		ErrorResponse(c, http.StatusBadRequest, "无效的贡献ID")
		return
	}

	var req ReadyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	record, err := h.contributions.MarkReady(c.Request.Context(), id, req.UId)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", record)
}

// Claim 领取贡献
func (h *ContributionHandler) Claim(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		ErrorResponse(c, http.StatusBadRequest, "无效的贡献ID")
		return
	}

	record, err := h.contributions.MarkClaimed(c.Request.Context(), id, h.now())
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "领取成功", record)
}

// Vote 记录投票证明
func (h *ContributionHandler) Vote(c *gin.Context) {
	id, ok := parseIdParam(c, "id")
	if !ok {
		ErrorResponse(c, http.StatusBadRequest, "无效的贡献ID")
		return
	}

	var req logic.VoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	vote, err := h.votes.Record(c.Request.Context(), id, req)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", vote)
}

// GetVotes 项目内每条贡献的投票统计
func (h *ContributionHandler) GetVotes(c *gin.Context) {
	projectId, ok := parseIdParam(c, "id")
	if !ok {
		ErrorResponse(c, http.StatusBadRequest, "无效的项目ID")
		return
	}

	tallies, err := h.votes.VoteMap(c.Request.Context(), projectId)
	if err != nil {
		HandleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "", tallies)
}

func filterOptions(c *gin.Context) (contribution.FilterOptions, error) {
	opts := contribution.DefaultOptions()

	period, err := contribution.ParsePeriod(c.Query("period"))
	if err != nil {
		return opts, err
	}
	status, err := contribution.ParseVoteStatus(c.Query("voteStatus"))
	if err != nil {
		return opts, err
	}

	opts.Period = period
	opts.VoteStatus = status
	if contributor := c.Query("contributor"); contributor != "" {
		opts.Contributor = contributor
	}
	return opts, nil
}
