package monitor

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/lxdao/fairsharing/internal/chain"
	"github.com/lxdao/fairsharing/internal/logger"
	"github.com/lxdao/fairsharing/internal/model"
)

// EventProjectCreated 注册合约创建项目事件
const EventProjectCreated = chain.ProjectCreatedEvent

// EventStore 事件存储
type EventStore interface {
	RecordEvent(ctx context.Context, event *model.EventModel) error
	MarkProcessed(ctx context.Context, id int64) error
	GetLastProcessedBlock(ctx context.Context) (int64, error)
}

// ProjectConfirmer 标记链下项目已上链
type ProjectConfirmer interface {
	MarkChainConfirmed(ctx context.Context, contractAddress, txHash string) (bool, error)
}

// EventProcessor 事件处理器
type EventProcessor struct {
	events   EventStore
	projects ProjectConfirmer
}

// NewEventProcessor 创建事件处理器
func NewEventProcessor(events EventStore, projects ProjectConfirmer) *EventProcessor {
	return &EventProcessor{events: events, projects: projects}
}

// ProcessEvent 保存事件并执行对应处理，已处理的事件直接跳过
func (p *EventProcessor) ProcessEvent(ctx context.Context, event *model.EventModel, data map[string]interface{}) error {
	if err := p.events.RecordEvent(ctx, event); err != nil {
		return err
	}
	if event.Processed {
		logger.Debug("Event %s#%d already processed", event.TxHash, event.LogIndex)
		return nil
	}

	switch event.EventType {
	case EventProjectCreated:
		if err := p.handleProjectCreated(ctx, event, data); err != nil {
			return err
		}
	default:
		logger.Debug("No handler for event %s from %s", event.EventType, event.ContractName)
	}

	return p.events.MarkProcessed(ctx, event.Id)
}

// handleProjectCreated 标记项目已上链，链下尚未登记的项目由补偿任务处理
func (p *EventProcessor) handleProjectCreated(ctx context.Context, event *model.EventModel, data map[string]interface{}) error {
	project, ok := data["project"].(common.Address)
	if !ok {
		return fmt.Errorf("event %s#%d has no project address", event.TxHash, event.LogIndex)
	}

	found, err := p.projects.MarkChainConfirmed(ctx, project.Hex(), event.TxHash)
	if err != nil {
		return err
	}
	if !found {
		logger.Warn("Project %s created on chain but not registered off-chain yet", project.Hex())
		return nil
	}

	logger.Info("Project %s confirmed on chain at block %d", project.Hex(), event.BlockNum)
	return nil
}

// encodeEventData 事件数据转为JSON
func encodeEventData(data map[string]interface{}) (string, error) {
	out := make(map[string]interface{}, len(data))
	for k, v := range data {
		if addr, ok := v.(common.Address); ok {
			out[k] = addr.Hex()
			continue
		}
		out[k] = v
	}
	b, err := json.Marshal(out)
	if err != nil {
		return "", fmt.Errorf("failed to marshal event data to JSON: %w", err)
	}
	return string(b), nil
}
