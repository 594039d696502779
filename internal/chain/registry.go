package chain

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/lxdao/fairsharing/internal/logger"
)

// ProjectCreatedEvent 注册合约创建项目事件
const ProjectCreatedEvent = "ProjectCreated"

var (
	ErrTxNotMined     = errors.New("transaction not mined")
	ErrTxReverted     = errors.New("transaction reverted")
	ErrNoProjectEvent = errors.New("no ProjectCreated log in receipt")
)

// CreateParams 注册合约 create 参数
type CreateParams struct {
	Admins           []common.Address
	Members          []common.Address
	TokenName        string
	TokenSymbol      string
	VoteStrategy     common.Address
	Weights          []*big.Int // 18位精度，合计 1e18
	Threshold        *big.Int   // 18位精度
	VoteStrategyData []byte
}

// Registry 项目注册合约
type Registry struct {
	contract *Contract
	backend  bind.DeployBackend
	key      *ecdsa.PrivateKey
	chainId  *big.Int
}

// NewRegistry 创建注册合约客户端，key 为中继账户私钥
func NewRegistry(contract *Contract, backend bind.DeployBackend, key *ecdsa.PrivateKey) *Registry {
	return &Registry{
		contract: contract,
		backend:  backend,
		key:      key,
		chainId:  big.NewInt(contract.GetChainId()),
	}
}

// Address 合约地址
func (r *Registry) Address() common.Address {
	return r.contract.GetAddress()
}

// Sender 发送交易的账户地址
func (r *Registry) Sender() common.Address {
	return crypto.PubkeyToAddress(r.key.PublicKey)
}

// Create 发送 create 交易并等待回执，交易失败或回滚时返回错误
func (r *Registry) Create(ctx context.Context, p CreateParams) (common.Hash, error) {
	opts, err := bind.NewKeyedTransactorWithChainID(r.key, r.chainId)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to create transactor: %w", err)
	}
	opts.Context = ctx

	threshold := p.Threshold
	if threshold == nil {
		threshold = new(big.Int)
	}
	data := p.VoteStrategyData
	if data == nil {
		data = []byte{}
	}

	tx, err := r.contract.bound.Transact(opts, "create",
		p.Admins, p.Members, p.TokenName, p.TokenSymbol, p.VoteStrategy, p.Weights, threshold, data)
	if err != nil {
		return common.Hash{}, fmt.Errorf("failed to send create transaction: %w", err)
	}
	logger.Info("Registry create sent: tx=%s symbol=%s", tx.Hash().Hex(), p.TokenSymbol)

	receipt, err := bind.WaitMined(ctx, r.backend, tx)
	if err != nil {
		return tx.Hash(), fmt.Errorf("failed to wait for transaction %s: %w", tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return tx.Hash(), fmt.Errorf("transaction %s reverted in block %s", tx.Hash().Hex(), receipt.BlockNumber)
	}

	logger.Info("Registry create mined: tx=%s block=%s", tx.Hash().Hex(), receipt.BlockNumber)
	return tx.Hash(), nil
}

// ProjectFromTx 从 create 交易回执的 ProjectCreated 日志读取项目地址
func (r *Registry) ProjectFromTx(ctx context.Context, txHash common.Hash) (common.Address, error) {
	receipt, err := r.backend.TransactionReceipt(ctx, txHash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return common.Address{}, fmt.Errorf("%w: %s", ErrTxNotMined, txHash.Hex())
		}
		return common.Address{}, fmt.Errorf("failed to get receipt %s: %w", txHash.Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return common.Address{}, fmt.Errorf("%w: %s", ErrTxReverted, txHash.Hex())
	}

	for _, log := range receipt.Logs {
		if log == nil || log.Address != r.Address() {
			continue
		}
		data, err := r.contract.ParseEvent(*log)
		if err != nil {
			return common.Address{}, err
		}
		if data["eventName"] != ProjectCreatedEvent {
			continue
		}
		if project, ok := data["project"].(common.Address); ok {
			return project, nil
		}
	}
	return common.Address{}, fmt.Errorf("%w: %s", ErrNoProjectEvent, txHash.Hex())
}
