package monitor

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/lxdao/fairsharing/internal/chain"
	"github.com/lxdao/fairsharing/internal/logger"
	"github.com/lxdao/fairsharing/internal/model"
	"github.com/lxdao/fairsharing/internal/monitoring"
	"github.com/panjf2000/ants/v2"
)

const (
	defaultInterval  = 30 * time.Second
	defaultBatchSize = int64(500)
	maxBackoff       = 5 * time.Minute
)

// EventMonitor 注册合约事件监控器
type EventMonitor struct {
	contracts      map[string]*chain.Contract
	block          *chain.Block
	events         EventStore
	eventProcessor *EventProcessor
	confirmations  int64
	interval       time.Duration
	batchSize      int64

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	mu              sync.RWMutex // 保护以下字段
	startBlockNum   int64
	retryCount      int
	lastRetryTime   time.Time
	backoffDuration time.Duration
}

// NewEventMonitor 创建事件监控器
func NewEventMonitor(
	contracts map[string]*chain.Contract,
	reader chain.LogReader,
	events EventStore,
	projects ProjectConfirmer,
	confirmations uint64,
) *EventMonitor {
	ctx, cancel := context.WithCancel(context.Background())

	return &EventMonitor{
		contracts:      contracts,
		block:          chain.NewBlock(reader),
		events:         events,
		eventProcessor: NewEventProcessor(events, projects),
		confirmations:  int64(confirmations),
		interval:       defaultInterval,
		batchSize:      defaultBatchSize,
		ctx:            ctx,
		cancel:         cancel,
		done:           make(chan struct{}),
	}
}

// Start 启动监控
func (m *EventMonitor) Start() error {
	logger.Info("Starting registry event monitor")

	if len(m.contracts) == 0 {
		return fmt.Errorf("no contracts available for monitoring")
	}

	currentBlock, err := m.block.GetCurrentBlockNumber(m.ctx)
	if err != nil {
		return fmt.Errorf("failed to connect to blockchain: %w", err)
	}
	logger.Info("Connected to blockchain, current block: %d", currentBlock)

	startBlock, err := m.initialStartBlock(m.ctx)
	if err != nil {
		return err
	}
	m.updateStartBlockNum(startBlock)
	logger.Info("Starting monitor from block %d", startBlock)

	go m.loop()
	return nil
}

// Stop 停止监控并等待循环退出
func (m *EventMonitor) Stop() {
	logger.Info("Stopping registry event monitor")
	m.cancel()
	<-m.done
}

// loop 监控循环
func (m *EventMonitor) loop() {
	defer close(m.done)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.ctx.Done():
			logger.Info("Monitor stopped")
			return
		case <-ticker.C:
			if m.inBackoff() {
				continue
			}
			if err := m.poll(m.ctx); err != nil {
				m.handleError(err)
				continue
			}
			m.resetBackoff()
		}
	}
}

// poll 处理从起始区块到最新确认区块的日志
func (m *EventMonitor) poll(ctx context.Context) error {
	currentBlock, err := m.block.GetCurrentBlockNumber(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current block number: %w", err)
	}

	// 只处理已达到确认数的区块
	safeBlock := currentBlock - m.confirmations
	fromBlock := m.getStartBlockNum()
	if safeBlock < fromBlock {
		logger.Debug("No confirmed blocks to process (from %d, safe %d)", fromBlock, safeBlock)
		return nil
	}

	return m.processBlocksInBatches(ctx, fromBlock, safeBlock)
}

// processBlocksInBatches 分批处理区块
func (m *EventMonitor) processBlocksInBatches(ctx context.Context, fromBlock, toBlock int64) error {
	logger.Debug("Processing blocks from %d to %d", fromBlock, toBlock)

	for currentFrom := fromBlock; currentFrom <= toBlock; currentFrom += m.batchSize {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		currentTo := currentFrom + m.batchSize - 1
		if currentTo > toBlock {
			currentTo = toBlock
		}

		if err := m.processBatchBlocks(ctx, currentFrom, currentTo); err != nil {
			// 起始区块不前进，下次从失败的批次重试
			return fmt.Errorf("blocks %d-%d: %w", currentFrom, currentTo, err)
		}

		m.updateStartBlockNum(currentTo + 1)
	}

	return nil
}

// processBatchBlocks 批量处理区块
func (m *EventMonitor) processBatchBlocks(ctx context.Context, fromBlock, toBlock int64) error {
	contractAddresses, contractMap := m.getDeployedContracts(toBlock)
	if len(contractAddresses) == 0 {
		logger.Debug("No deployed contracts for blocks %d-%d", fromBlock, toBlock)
		return nil
	}

	logs, err := m.block.GetBatchBlockLogs(ctx, contractAddresses, fromBlock, toBlock)
	if err != nil {
		return fmt.Errorf("error getting logs: %w", err)
	}
	if len(logs) == 0 {
		return nil
	}

	logsByContract := groupLogsByContract(logs)
	logger.Debug("Found %d logs in %d contract groups for blocks %d-%d", len(logs), len(logsByContract), fromBlock, toBlock)

	// 临时协程池，大小等于分组数量
	pool, err := ants.NewPool(len(logsByContract))
	if err != nil {
		return fmt.Errorf("failed to create pool for %d groups: %w", len(logsByContract), err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	var failed int
	var failedMu sync.Mutex
	for address, contractLogs := range logsByContract {
		contract := contractMap[address]
		if contract == nil {
			logger.Warn("Unknown contract address: %s", address.Hex())
			continue
		}

		contractLogs := contractLogs
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			if n := m.processContractLogs(ctx, contract, contractLogs); n > 0 {
				failedMu.Lock()
				failed += n
				failedMu.Unlock()
			}
		})
		if err != nil {
			wg.Done()
			return fmt.Errorf("failed to submit task to pool: %w", err)
		}
	}
	wg.Wait()

	if failed > 0 {
		return fmt.Errorf("%d events failed to process", failed)
	}
	return nil
}

// processContractLogs 按顺序处理单个合约的日志，返回失败数量
func (m *EventMonitor) processContractLogs(ctx context.Context, contract *chain.Contract, logs []types.Log) int {
	failed := 0
	for _, log := range logs {
		eventData, err := contract.ParseEvent(log)
		if err != nil {
			logger.Error("Error parsing event for contract %s: %v", contract.GetName(), err)
			failed++
			continue
		}

		data, err := encodeEventData(eventData)
		if err != nil {
			logger.Error("%v", err)
			failed++
			continue
		}

		eventType, _ := eventData["eventName"].(string)
		event := &model.EventModel{
			ContractAddress: contract.GetAddress().Hex(),
			ContractName:    contract.GetName(),
			EventType:       eventType,
			BlockNum:        int64(log.BlockNumber),
			TxHash:          log.TxHash.Hex(),
			LogIndex:        int64(log.Index),
			Data:            data,
		}
		if project, ok := eventData["project"].(common.Address); ok {
			event.ProjectAddress = project.Hex()
		}

		if err := m.eventProcessor.ProcessEvent(ctx, event, eventData); err != nil {
			logger.Error("Error processing event for contract %s: %v", contract.GetName(), err)
			failed++
			continue
		}
	}
	return failed
}

// initialStartBlock 取配置中最小部署区块与已记录最大区块+1 中的较大者
func (m *EventMonitor) initialStartBlock(ctx context.Context) (int64, error) {
	minDeployBlock := int64(-1)
	for _, contract := range m.contracts {
		if minDeployBlock < 0 || contract.GetBlockNum() < minDeployBlock {
			minDeployBlock = contract.GetBlockNum()
		}
	}
	if minDeployBlock < 0 {
		minDeployBlock = 0
	}

	maxProcessedBlock, err := m.events.GetLastProcessedBlock(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load last processed block: %w", err)
	}

	start := minDeployBlock
	if maxProcessedBlock >= minDeployBlock && maxProcessedBlock > 0 {
		start = maxProcessedBlock + 1
	}
	logger.Info("Final start block: %d (config: %d, db: %d)", start, minDeployBlock, maxProcessedBlock)
	return start, nil
}

// getStartBlockNum 获取起始区块号
func (m *EventMonitor) getStartBlockNum() int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.startBlockNum
}

// updateStartBlockNum 更新起始区块号
func (m *EventMonitor) updateStartBlockNum(blockNum int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startBlockNum = blockNum
}

// handleError 记录错误并计算退避时间
func (m *EventMonitor) handleError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.retryCount++
	m.lastRetryTime = time.Now()

	if isAPIRateLimitError(err) || m.retryCount > 5 {
		m.backoffDuration = maxBackoff
		monitoring.Error(err)
	} else {
		m.backoffDuration = time.Duration(m.retryCount) * 10 * time.Second
	}

	logger.Error("Monitor encountered error (retry %d, backoff %s): %v", m.retryCount, m.backoffDuration, err)
}

// inBackoff 是否处于退避期
func (m *EventMonitor) inBackoff() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.retryCount > 0 && time.Since(m.lastRetryTime) < m.backoffDuration
}

// resetBackoff 成功后清除退避
func (m *EventMonitor) resetBackoff() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.retryCount = 0
	m.backoffDuration = 0
}

// GetStatus 获取监控状态
func (m *EventMonitor) GetStatus() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"start_block":    m.startBlockNum,
		"contract_count": len(m.contracts),
		"retry_count":    m.retryCount,
		"backoff":        m.backoffDuration.String(),
	}
}

// getDeployedContracts 获取 toBlock 时已部署的合约地址和映射
func (m *EventMonitor) getDeployedContracts(toBlock int64) ([]common.Address, map[common.Address]*chain.Contract) {
	var contractAddresses []common.Address
	contractMap := make(map[common.Address]*chain.Contract)

	for _, contract := range m.contracts {
		if toBlock < contract.GetBlockNum() {
			continue
		}
		address := contract.GetAddress()
		contractAddresses = append(contractAddresses, address)
		contractMap[address] = contract
	}

	return contractAddresses, contractMap
}

// isAPIRateLimitError 检查是否为API限制错误
func isAPIRateLimitError(err error) bool {
	return strings.Contains(err.Error(), "Too Many Requests")
}

// groupLogsByContract 按合约地址分组日志
func groupLogsByContract(logs []types.Log) map[common.Address][]types.Log {
	logsByContract := make(map[common.Address][]types.Log)
	for _, log := range logs {
		logsByContract[log.Address] = append(logsByContract[log.Address], log)
	}
	return logsByContract
}
