package logic

import (
	"context"
	"errors"
	"fmt"

	"github.com/lxdao/fairsharing/internal/model"
	"gorm.io/gorm"
)

// EventLogic 链上事件业务逻辑
type EventLogic struct {
	db *gorm.DB
}

// NewEventLogic 创建事件业务逻辑
func NewEventLogic(db *gorm.DB) *EventLogic {
	return &EventLogic{db: db}
}

// RecordEvent 保存事件记录。同一交易同一日志已存在时读回已有记录，
// 调用方通过 event.Processed 判断是否需要继续处理。
func (e *EventLogic) RecordEvent(ctx context.Context, event *model.EventModel) error {
	if err := e.validateEvent(event); err != nil {
		return err
	}

	err := e.db.WithContext(ctx).
		Where("tx_hash = ? AND log_index = ?", event.TxHash, event.LogIndex).
		FirstOrCreate(event).Error
	if err != nil {
		return fmt.Errorf("创建事件记录失败: %w", err)
	}
	return nil
}

// MarkProcessed 标记事件已处理
func (e *EventLogic) MarkProcessed(ctx context.Context, id int64) error {
	if err := e.db.WithContext(ctx).Model(&model.EventModel{}).Where("id = ?", id).Update("processed", true).Error; err != nil {
		return fmt.Errorf("更新事件处理状态失败: %w", err)
	}
	return nil
}

// GetLastProcessedBlock 获取已记录事件的最大区块号
func (e *EventLogic) GetLastProcessedBlock(ctx context.Context) (int64, error) {
	var maxBlock int64
	err := e.db.WithContext(ctx).Model(&model.EventModel{}).
		Select("COALESCE(MAX(block_num), 0)").
		Scan(&maxBlock).Error
	if err != nil {
		return 0, fmt.Errorf("获取最后处理区块号失败: %w", err)
	}
	return maxBlock, nil
}

// validateEvent 验证事件数据
func (e *EventLogic) validateEvent(event *model.EventModel) error {
	if event.ContractAddress == "" {
		return errors.New("合约地址不能为空")
	}
	if event.ContractName == "" {
		return errors.New("合约名称不能为空")
	}
	if event.EventType == "" {
		return errors.New("事件类型不能为空")
	}
	if event.TxHash == "" {
		return errors.New("交易哈希不能为空")
	}
	if event.BlockNum == 0 {
		return errors.New("区块号不能为空")
	}

	return nil
}
