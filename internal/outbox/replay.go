package outbox

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/lxdao/fairsharing/internal/chain"
	"github.com/lxdao/fairsharing/internal/errs"
	"github.com/lxdao/fairsharing/internal/logger"
)

// Outcome 单条意图的补偿结果
type Outcome int

const (
	OutcomeDiscarded   Outcome = iota // 无需登记，已删除
	OutcomeResubmitted                // 已重新登记并删除
)

// ReplayResult 一次补偿的统计
type ReplayResult struct {
	Resubmitted int `json:"resubmitted"`
	Discarded   int `json:"discarded"`
	Failed      int `json:"failed"`
	Skipped     int `json:"skipped"`
}

// Replay 处理所有遗留意图。每条意图最多重新登记一次，失败的保留到下次。
func (c *Creator) Replay(ctx context.Context) (ReplayResult, error) {
	var result ReplayResult

	entries, err := c.store.List(IntentKey + ":")
	if err != nil {
		return result, fmt.Errorf("failed to list intents: %w", err)
	}

	for _, entry := range entries {
		if ctx.Err() != nil {
			return result, ctx.Err()
		}

		in, err := decodeIntent(entry.Value)
		if err != nil {
			logger.Warn("Dropping unreadable intent %s: %v", entry.Key, err)
			if err := c.store.Delete(entry.Key); err != nil {
				logger.Warn("Failed to delete intent %s: %v", entry.Key, err)
			}
			result.Discarded++
			continue
		}

		if !c.acquire(in.Wallet) {
			result.Skipped++
			continue
		}
		outcome, err := c.replayOne(ctx, in)
		c.release(in.Wallet)

		if err != nil {
			logger.Error("Replay intent %s for %s failed: %v", in.ID, in.Wallet, err)
			result.Failed++
			continue
		}
		switch outcome {
		case OutcomeResubmitted:
			result.Resubmitted++
		default:
			result.Discarded++
		}
	}

	if len(entries) > 0 {
		logger.Info("Intent replay finished: resubmitted=%d discarded=%d failed=%d skipped=%d",
			result.Resubmitted, result.Discarded, result.Failed, result.Skipped)
	}
	return result, nil
}

// replayOne 处理单条意图，调用方需持有该钱包的 inflight 标记
func (c *Creator) replayOne(ctx context.Context, in *Intent) (Outcome, error) {
	addr := in.Project.ContractAddress
	if addr == "" {
		if in.Project.TxHash == "" {
			// 交易未发出，无需补偿
			logger.Warn("Discarding intent %s for %s: no transaction sent", in.ID, in.Wallet)
			return OutcomeDiscarded, c.remove(in.Wallet)
		}

		// 只读取该意图自身交易的回执，中继账户下的其他项目不可作为结果
		project, err := c.registry.ProjectFromTx(ctx, common.HexToHash(in.Project.TxHash))
		if errors.Is(err, chain.ErrTxReverted) {
			logger.Info("Discarding intent %s for %s: tx %s reverted", in.ID, in.Wallet, in.Project.TxHash)
			return OutcomeDiscarded, c.remove(in.Wallet)
		}
		if err != nil {
			return 0, errs.ExternalCall("resolve created project", err)
		}
		addr = project.Hex()
	}

	known, err := c.projects.HasProject(ctx, in.Wallet, addr)
	if err != nil {
		return 0, fmt.Errorf("failed to check project list: %w", err)
	}
	if known {
		logger.Info("Discarding intent %s for %s: project %s already registered", in.ID, in.Wallet, addr)
		return OutcomeDiscarded, c.remove(in.Wallet)
	}

	if !strings.EqualFold(in.Project.ContractAddress, addr) {
		in.Project.ContractAddress = addr
		in.Stage = StageResolved
		if err := c.save(in); err != nil {
			logger.Warn("Failed to update intent %s with project %s: %v", in.ID, addr, err)
		}
	}

	if _, err := c.registerOffChain(ctx, in); err != nil {
		return 0, err
	}
	logger.Info("Resubmitted project %s for %s", addr, in.Wallet)
	return OutcomeResubmitted, nil
}
