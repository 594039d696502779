package chain

import (
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/lxdao/fairsharing/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var registryAddr = "0xA164E14558B4665ee512cF15dD12d1a7A8492830"

func newRegistryContract(t *testing.T) *Contract {
	t.Helper()
	c, err := NewContract(nil, config.RegistryContract,
		config.ContractConfig{Address: registryAddr, Enabled: true, BlockNum: 100},
		config.ChainConfig{ChainId: 420})
	require.NoError(t, err)
	return c
}

func TestRegistryABIPacksCreate(t *testing.T) {
	c := newRegistryContract(t)
	parsed := c.GetABI()

	data, err := parsed.Pack("create",
		[]common.Address{common.HexToAddress("0x01")},
		[]common.Address{common.HexToAddress("0x01"), common.HexToAddress("0x02")},
		"FairSharing Token", "FST",
		common.HexToAddress("0x13A5DfeB3E823378e379Bb59A46c5c9E19a3Fc37"),
		[]*big.Int{big.NewInt(5e17), big.NewInt(5e17)},
		big.NewInt(0),
		[]byte{},
	)
	require.NoError(t, err)
	assert.Equal(t, parsed.Methods["create"].ID, data[:4])

	_, err = parsed.Pack("getOwnerLatestProject", common.HexToAddress("0x01"), big.NewInt(0), big.NewInt(3))
	assert.NoError(t, err)
}

func TestNewContractLoadsCompiledOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "registry.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"contractName":"Registry","abi":`+RegistryABI+`}`), 0600))

	c, err := NewContract(nil, "registry_copy",
		config.ContractConfig{Address: registryAddr, ABIPath: path},
		config.ChainConfig{ChainId: 10})
	require.NoError(t, err)
	assert.Contains(t, c.GetABI().Methods, "projectsCount")
	assert.Equal(t, int64(10), c.GetChainId())
}

func TestNewContractErrors(t *testing.T) {
	_, err := NewContract(nil, "other", config.ContractConfig{Address: registryAddr}, config.ChainConfig{})
	assert.Error(t, err)

	_, err = NewContract(nil, config.RegistryContract, config.ContractConfig{Address: "nope"}, config.ChainConfig{})
	assert.Error(t, err)
}

func TestParseProjectCreatedEvent(t *testing.T) {
	c := newRegistryContract(t)
	event := c.GetABI().Events["ProjectCreated"]

	project := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	owner := common.HexToAddress("0x00000000000000000000000000000000000000bb")
	data, err := event.Inputs.NonIndexed().Pack("FST")
	require.NoError(t, err)

	log := types.Log{
		Address:     c.GetAddress(),
		Topics:      []common.Hash{event.ID, common.BytesToHash(project.Bytes()), common.BytesToHash(owner.Bytes())},
		Data:        data,
		BlockNumber: 120,
		TxHash:      common.HexToHash("0x1234"),
		Index:       2,
	}

	parsed, err := c.ParseEvent(log)
	require.NoError(t, err)
	assert.Equal(t, "ProjectCreated", parsed["eventName"])
	assert.Equal(t, project, parsed["project"])
	assert.Equal(t, owner, parsed["owner"])
	assert.Equal(t, "FST", parsed["tokenSymbol"])
	assert.Equal(t, uint64(120), parsed["blockNumber"])
}

func TestParseUnknownEvent(t *testing.T) {
	c := newRegistryContract(t)
	parsed, err := c.ParseEvent(types.Log{Topics: []common.Hash{common.HexToHash("0xdead")}})
	require.NoError(t, err)
	assert.Equal(t, "Unknown", parsed["eventName"])

	_, err = c.ParseEvent(types.Log{})
	assert.Error(t, err)
}
