package chain

import (
	"fmt"
	"math/big"
	"os"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/lxdao/fairsharing/internal/config"
	"github.com/lxdao/fairsharing/internal/logger"
)

// Contract 合约工具类
type Contract struct {
	address  common.Address      // 合约地址
	abi      abi.ABI             // 合约ABI
	bound    *bind.BoundContract // 合约绑定，用于调用和发送交易
	name     string              // 合约名称
	blockNum int64               // 合约部署的区块号
	chainId  int64               // 链ID
}

// NewContract 创建合约实例
func NewContract(backend bind.ContractBackend, name string, contractCfg config.ContractConfig, chainCfg config.ChainConfig) (*Contract, error) {
	parsedABI, err := loadABI(name, contractCfg.ABIPath)
	if err != nil {
		return nil, err
	}

	if !common.IsHexAddress(contractCfg.Address) {
		return nil, fmt.Errorf("invalid contract address %q", contractCfg.Address)
	}
	contractAddr := common.HexToAddress(contractCfg.Address)

	return &Contract{
		address:  contractAddr,
		abi:      parsedABI,
		bound:    bind.NewBoundContract(contractAddr, parsedABI, backend, backend, backend),
		name:     name,
		blockNum: contractCfg.BlockNum,
		chainId:  chainCfg.ChainId,
	}, nil
}

// loadABI 从文件加载ABI，注册合约未配置路径时使用内置ABI
func loadABI(name, path string) (abi.ABI, error) {
	if path == "" {
		if name == config.RegistryContract {
			return parseABI([]byte(RegistryABI))
		}
		return abi.ABI{}, fmt.Errorf("no ABI path configured for contract %s", name)
	}

	abiData, err := os.ReadFile(path)
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to load ABI from %s: %w", path, err)
	}
	return parseABI(abiData)
}

// GetAddress 获取合约地址
func (c *Contract) GetAddress() common.Address {
	return c.address
}

// GetABI 获取合约ABI
func (c *Contract) GetABI() abi.ABI {
	return c.abi
}

// GetName 获取合约名称
func (c *Contract) GetName() string {
	return c.name
}

// GetBlockNum 获取合约部署区块号
func (c *Contract) GetBlockNum() int64 {
	return c.blockNum
}

// GetChainId 获取链ID
func (c *Contract) GetChainId() int64 {
	return c.chainId
}

// ParseEvent 解析事件日志
func (c *Contract) ParseEvent(log types.Log) (map[string]interface{}, error) {
	if len(log.Topics) == 0 {
		return nil, fmt.Errorf("log %s#%d has no topics", log.TxHash.Hex(), log.Index)
	}
	eventSignature := log.Topics[0]

	event, err := c.abi.EventByID(eventSignature)
	if err != nil {
		logger.Warn("Unknown event signature: %s in contract %s", eventSignature.Hex(), c.name)
		return map[string]interface{}{
			"eventName":   "Unknown",
			"signature":   eventSignature.Hex(),
			"contract":    c.name,
			"txHash":      log.TxHash.Hex(),
			"blockNumber": log.BlockNumber,
			"logIndex":    log.Index,
		}, nil
	}

	return c.parseEvent(log, event)
}

// parseEvent 解析事件
func (c *Contract) parseEvent(log types.Log, event *abi.Event) (map[string]interface{}, error) {
	result := make(map[string]interface{})
	result["eventName"] = event.Name
	result["contract"] = c.name
	result["txHash"] = log.TxHash.Hex()
	result["blockNumber"] = log.BlockNumber
	result["logIndex"] = log.Index

	// 索引参数
	topic := 1
	for _, input := range event.Inputs {
		if !input.Indexed {
			continue
		}
		if topic >= len(log.Topics) {
			break
		}
		result[input.Name] = parseTopicValue(log.Topics[topic], input.Type)
		topic++
	}

	// 非索引参数
	if len(log.Data) > 0 {
		if err := c.abi.UnpackIntoMap(result, event.Name, log.Data); err != nil {
			return nil, fmt.Errorf("failed to unpack %s data: %w", event.Name, err)
		}
	}

	return result, nil
}

// parseTopicValue 解析主题值
func parseTopicValue(topic common.Hash, t abi.Type) interface{} {
	switch t.T {
	case abi.UintTy, abi.IntTy:
		return new(big.Int).SetBytes(topic.Bytes())
	case abi.AddressTy:
		return common.BytesToAddress(topic.Bytes())
	case abi.BoolTy:
		return new(big.Int).SetBytes(topic.Bytes()).Sign() > 0
	case abi.BytesTy:
		return topic.Bytes()
	default:
		return topic.Hex()
	}
}
