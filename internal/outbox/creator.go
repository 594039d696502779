// Package outbox 实现创建项目的两阶段提交：先链上注册，再链下登记。
//
// 链上成功而链下失败时，创建参数保存在本地存储中，由 Replay 在启动时和
// 定时任务中补偿登记。
package outbox

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/google/uuid"
	"github.com/lxdao/fairsharing/internal/chain"
	"github.com/lxdao/fairsharing/internal/errs"
	"github.com/lxdao/fairsharing/internal/logger"
	"github.com/lxdao/fairsharing/internal/logic"
	"github.com/lxdao/fairsharing/internal/model"
	"github.com/lxdao/fairsharing/internal/monitoring"
	"github.com/lxdao/fairsharing/internal/store"
)

// ErrSubmissionInFlight 同一钱包已有创建请求在处理中
var ErrSubmissionInFlight = errors.New("a project submission for this wallet is already in flight")

// DefaultWaitTimeout 等待 create 交易回执的最长时间
const DefaultWaitTimeout = 5 * time.Minute

// Registry 项目注册合约
type Registry interface {
	Create(ctx context.Context, p chain.CreateParams) (common.Hash, error)
	ProjectFromTx(ctx context.Context, txHash common.Hash) (common.Address, error)
}

// ProjectService 链下项目服务
type ProjectService interface {
	CreateProject(ctx context.Context, p logic.RegisterProject) (*model.ProjectModel, error)
	HasProject(ctx context.Context, wallet, contractAddress string) (bool, error)
}

// Store 本地持久化存储
type Store interface {
	Get(key string) ([]byte, error)
	Put(key string, value []byte) error
	Delete(key string) error
	List(prefix string) ([]store.Entry, error)
}

// Creator 创建项目流程
type Creator struct {
	registry Registry
	projects ProjectService
	store    Store
	resolver Planner
	chainId  int64

	// 所有注册交易由同一中继账户发出，需串行发送
	chainMu     sync.Mutex
	waitTimeout time.Duration

	mu       sync.Mutex
	inflight map[string]struct{}

	now func() time.Time
}

// NewCreator 创建 Creator
func NewCreator(registry Registry, projects ProjectService, st Store, resolver Planner, chainId int64) *Creator {
	return &Creator{
		registry:    registry,
		projects:    projects,
		store:       st,
		resolver:    resolver,
		chainId:     chainId,
		inflight:    make(map[string]struct{}),
		waitTimeout: DefaultWaitTimeout,
		now:         time.Now,
	}
}

// Submit 校验并提交创建请求。
// 链上失败返回 ExternalCallError，链下失败返回 ConsistencyError，两种情况都保留意图记录。
func (c *Creator) Submit(ctx context.Context, req logic.CreateProjectRequest) (*model.ProjectModel, error) {
	v, err := c.Validate(req)
	if err != nil {
		return nil, err
	}

	wallet := logic.NormalizeWallet(req.Wallet)
	if !c.acquire(wallet) {
		return nil, ErrSubmissionInFlight
	}
	defer c.release(wallet)

	// 先处理该钱包遗留的记录
	pending, err := c.load(wallet)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		logger.Info("Replaying pending intent %s for %s before new submission", pending.ID, wallet)
		if _, err := c.replayOne(ctx, pending); err != nil {
			return nil, err
		}
	}

	req.Wallet = wallet
	now := c.now()
	in := &Intent{
		ID:     uuid.NewString(),
		Wallet: wallet,
		Stage:  StagePending,
		Project: logic.RegisterProject{
			Request:         req,
			VotePeriodDays:  v.VotePeriodDays,
			StrategyAddress: v.Plan.Strategy.Address.Hex(),
			Threshold:       v.Plan.Strategy.Threshold.String(),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := c.save(in); err != nil {
		return nil, err
	}

	if err := c.registerOnChain(ctx, in, v); err != nil {
		return nil, err
	}

	return c.registerOffChain(ctx, in)
}

// registerOnChain 发送 create 交易并从回执读取新项目地址。
// 交易一旦发出即与请求生命周期无关，等待回执使用独立的超时。
func (c *Creator) registerOnChain(ctx context.Context, in *Intent, v *Validated) error {
	c.chainMu.Lock()
	defer c.chainMu.Unlock()

	chainCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.waitTimeout)
	defer cancel()

	txHash, err := c.registry.Create(chainCtx, chain.CreateParams{
		Admins:       v.Admins,
		Members:      v.Members,
		TokenName:    in.Project.Request.Name,
		TokenSymbol:  in.Project.Request.Symbol,
		VoteStrategy: v.Plan.Strategy.Address,
		Weights:      v.Plan.WeightUnits(),
		Threshold:    v.Plan.Strategy.ThresholdUnits(),
	})
	if txHash != (common.Hash{}) {
		in.Stage = StageMined
		if err != nil {
			in.Stage = StageSent
		}
		in.Project.TxHash = txHash.Hex()
		if err := c.save(in); err != nil {
			logger.Warn("Failed to update intent %s after tx %s: %v", in.ID, txHash.Hex(), err)
		}
	}
	if err != nil {
		logger.Error("Create project %s on chain failed: %v", in.ID, err)
		return errs.ExternalCall("create project on chain", err)
	}

	addr, err := c.registry.ProjectFromTx(chainCtx, txHash)
	if err != nil {
		return errs.ExternalCall("resolve created project", err)
	}

	in.Stage = StageResolved
	in.Project.ContractAddress = addr.Hex()
	if err := c.save(in); err != nil {
		logger.Warn("Failed to update intent %s with project %s: %v", in.ID, addr.Hex(), err)
	}

	logger.Info("Project %s registered on chain at %s (tx %s)", in.ID, addr.Hex(), txHash.Hex())
	return nil
}

// registerOffChain 链下登记项目，成功后删除意图。
// 登记结果的创建者必须是意图的钱包，否则保留意图。
func (c *Creator) registerOffChain(ctx context.Context, in *Intent) (*model.ProjectModel, error) {
	project, err := c.projects.CreateProject(ctx, in.Project)
	if err == nil && logic.NormalizeWallet(project.CreatorWallet) != in.Wallet {
		err = fmt.Errorf("project %s is registered to %s", in.Project.ContractAddress, project.CreatorWallet)
	}
	if err != nil {
		logger.Error("Register project %s off-chain failed, pending retry: %v", in.Project.ContractAddress, err)
		monitoring.ErrorWithTags(err, map[string]string{
			"intent":   in.ID,
			"wallet":   in.Wallet,
			"contract": in.Project.ContractAddress,
		})
		return nil, errs.Consistency("register project off-chain", err)
	}

	if err := c.remove(in.Wallet); err != nil {
		logger.Warn("Failed to delete intent %s: %v", in.ID, err)
	}
	return project, nil
}

// Pending 返回钱包遗留的意图，没有时返回 nil
func (c *Creator) Pending(wallet string) (*Intent, error) {
	return c.load(logic.NormalizeWallet(wallet))
}

func (c *Creator) acquire(wallet string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.inflight[wallet]; ok {
		return false
	}
	c.inflight[wallet] = struct{}{}
	return true
}

func (c *Creator) release(wallet string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.inflight, wallet)
}

func (c *Creator) load(wallet string) (*Intent, error) {
	data, err := c.store.Get(intentKey(wallet))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load intent: %w", err)
	}
	return decodeIntent(data)
}

func (c *Creator) save(in *Intent) error {
	in.UpdatedAt = c.now()
	data, err := encodeIntent(in)
	if err != nil {
		return fmt.Errorf("failed to encode intent: %w", err)
	}
	if err := c.store.Put(intentKey(in.Wallet), data); err != nil {
		return fmt.Errorf("failed to persist intent: %w", err)
	}
	return nil
}

func (c *Creator) remove(wallet string) error {
	return c.store.Delete(intentKey(wallet))
}
