package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/exdeploy/internal/domain"
	"github.com/trebuchet-org/exdeploy/internal/domain/config"
)

func TestListNetworks(t *testing.T) {
	resolver := &mockResolver{
		order: []string{"hardhat", "localhost", "sepolia", "broken"},
		networks: map[string]*config.Network{
			"hardhat":   {Name: "hardhat", ChainID: domain.HardhatChainID},
			"localhost": {Name: "localhost", ChainID: 31337, RPCURL: domain.LocalhostRPCURL},
			"sepolia":   {Name: "sepolia", ChainID: 11155111, RPCURL: "https://rpc.sepolia.org", ExplorerURL: "https://sepolia.etherscan.io"},
		},
	}
	repo := newMockRepository(recorded("sepolia", "Exchange", "0x01", ""))

	result, err := NewListNetworks(resolver, repo).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, result.Networks, 4)

	hardhat := result.Networks[0]
	assert.True(t, hardhat.Development)
	assert.Equal(t, domain.HardhatChainID, hardhat.ChainID)
	assert.False(t, hardhat.HasDeployments)

	sepolia := result.Networks[2]
	assert.False(t, sepolia.Development)
	assert.True(t, sepolia.HasDeployments)
	assert.Equal(t, "https://sepolia.etherscan.io", sepolia.ExplorerURL)
	assert.NoError(t, sepolia.Error)

	broken := result.Networks[3]
	assert.ErrorIs(t, broken.Error, domain.ErrUnknownNetwork)
	assert.Zero(t, broken.ChainID)
}
