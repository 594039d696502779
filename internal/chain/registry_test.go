package chain

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeBackend struct {
	receipts map[common.Hash]*types.Receipt
	err      error
}

func (f *fakeBackend) TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error) {
	if f.err != nil {
		return nil, f.err
	}
	receipt, ok := f.receipts[txHash]
	if !ok {
		return nil, ethereum.NotFound
	}
	return receipt, nil
}

func (f *fakeBackend) CodeAt(ctx context.Context, account common.Address, blockNumber *big.Int) ([]byte, error) {
	return []byte{0x1}, nil
}

func projectCreatedLog(t *testing.T, c *Contract, project, owner common.Address) *types.Log {
	t.Helper()
	event := c.GetABI().Events[ProjectCreatedEvent]
	data, err := event.Inputs.NonIndexed().Pack("FST")
	require.NoError(t, err)
	return &types.Log{
		Address: c.GetAddress(),
		Topics:  []common.Hash{event.ID, common.BytesToHash(project.Bytes()), common.BytesToHash(owner.Bytes())},
		Data:    data,
	}
}

func TestProjectFromTxReadsOwnReceipt(t *testing.T) {
	c := newRegistryContract(t)
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	relayer := crypto.PubkeyToAddress(key.PublicKey)
	aliceTx := common.HexToHash("0xa1")
	bobTx := common.HexToHash("0xb0")
	aliceProject := common.HexToAddress("0x00000000000000000000000000000000000000a1")
	bobProject := common.HexToAddress("0x00000000000000000000000000000000000000b0")

	// 其他合约发出的同名日志不应被采用
	foreign := projectCreatedLog(t, c, common.HexToAddress("0xdead"), relayer)
	foreign.Address = common.HexToAddress("0x0000000000000000000000000000000000000001")

	backend := &fakeBackend{receipts: map[common.Hash]*types.Receipt{
		aliceTx: {
			Status: types.ReceiptStatusSuccessful,
			Logs:   []*types.Log{foreign, projectCreatedLog(t, c, aliceProject, relayer)},
		},
		bobTx: {
			Status: types.ReceiptStatusSuccessful,
			Logs:   []*types.Log{projectCreatedLog(t, c, bobProject, relayer)},
		},
	}}
	registry := NewRegistry(c, backend, key)

	// 同一中继账户先后创建的项目按各自交易区分
	got, err := registry.ProjectFromTx(context.Background(), aliceTx)
	require.NoError(t, err)
	assert.Equal(t, aliceProject, got)

	got, err = registry.ProjectFromTx(context.Background(), bobTx)
	require.NoError(t, err)
	assert.Equal(t, bobProject, got)
}

func TestProjectFromTxErrors(t *testing.T) {
	c := newRegistryContract(t)
	reverted := common.HexToHash("0x01")
	empty := common.HexToHash("0x02")
	backend := &fakeBackend{receipts: map[common.Hash]*types.Receipt{
		reverted: {Status: types.ReceiptStatusFailed},
		empty:    {Status: types.ReceiptStatusSuccessful},
	}}
	registry := NewRegistry(c, backend, nil)

	_, err := registry.ProjectFromTx(context.Background(), reverted)
	assert.ErrorIs(t, err, ErrTxReverted)

	_, err = registry.ProjectFromTx(context.Background(), empty)
	assert.ErrorIs(t, err, ErrNoProjectEvent)

	_, err = registry.ProjectFromTx(context.Background(), common.HexToHash("0x03"))
	assert.ErrorIs(t, err, ErrTxNotMined)

	backend.err = errors.New("connection refused")
	_, err = registry.ProjectFromTx(context.Background(), reverted)
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrTxReverted))
}
