package chain

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// RegistryABI 项目注册合约ABI（未配置 abi_path 时使用）
const RegistryABI = `[
	{
		"type": "function",
		"name": "create",
		"stateMutability": "nonpayable",
		"inputs": [
			{"name": "admins", "type": "address[]"},
			{"name": "members", "type": "address[]"},
			{"name": "tokenName", "type": "string"},
			{"name": "tokenSymbol", "type": "string"},
			{"name": "voteStrategy", "type": "address"},
			{"name": "weights", "type": "uint256[]"},
			{"name": "threshold", "type": "uint256"},
			{"name": "voteStrategyData", "type": "bytes"}
		],
		"outputs": [{"name": "", "type": "address"}]
	},
	{
		"type": "function",
		"name": "projectsCount",
		"stateMutability": "view",
		"inputs": [],
		"outputs": [{"name": "", "type": "uint256"}]
	},
	{
		"type": "function",
		"name": "getOwnerLatestProject",
		"stateMutability": "view",
		"inputs": [
			{"name": "owner", "type": "address"},
			{"name": "start", "type": "uint256"},
			{"name": "end", "type": "uint256"}
		],
		"outputs": [{"name": "", "type": "address"}]
	},
	{
		"type": "event",
		"name": "ProjectCreated",
		"anonymous": false,
		"inputs": [
			{"indexed": true, "name": "project", "type": "address"},
			{"indexed": true, "name": "owner", "type": "address"},
			{"indexed": false, "name": "tokenSymbol", "type": "string"}
		]
	}
]`

// parseABI 解析ABI，支持完整编译输出和纯ABI数组两种格式
func parseABI(data []byte) (abi.ABI, error) {
	var compiledOutput struct {
		ABI json.RawMessage `json:"abi"`
	}

	// 首先尝试解析为完整编译输出
	if err := json.Unmarshal(data, &compiledOutput); err == nil && compiledOutput.ABI != nil {
		parsed, err := abi.JSON(bytes.NewReader(compiledOutput.ABI))
		if err != nil {
			return abi.ABI{}, fmt.Errorf("failed to parse ABI from compiled output: %w", err)
		}
		return parsed, nil
	}

	parsed, err := abi.JSON(bytes.NewReader(data))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("failed to parse ABI: %w", err)
	}
	return parsed, nil
}
