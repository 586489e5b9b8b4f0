package blockchain

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/ethclient/simulated"
	"github.com/ethereum/go-ethereum/params"
	"github.com/trebuchet-org/exdeploy/internal/domain"
	"github.com/trebuchet-org/exdeploy/internal/domain/config"
	"github.com/trebuchet-org/exdeploy/internal/usecase"
)

// DevBalance is the ether pre-allocated to each funded account on the in-process chain
var DevBalance = new(big.Int).Mul(big.NewInt(10_000), big.NewInt(params.Ether))

// Dialer opens chain backends
type Dialer struct {
	log *slog.Logger
}

// NewDialer creates a new dialer
func NewDialer(log *slog.Logger) *Dialer {
	return &Dialer{log: log.With("component", "blockchain")}
}

// Dial connects to network. The hardhat network is an in-process chain that lives
// as long as the returned backend.
func (d *Dialer) Dial(ctx context.Context, network *config.Network, funded []common.Address) (usecase.ChainBackend, error) {
	if network.Name == domain.HardhatNetwork {
		return d.simulated(ctx, funded)
	}
	if network.RPCURL == "" {
		return nil, fmt.Errorf("no RPC URL configured for network %s", network.Name)
	}

	client, err := ethclient.DialContext(ctx, network.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}
	if network.ChainID != 0 && chainID.Uint64() != network.ChainID {
		client.Close()
		return nil, fmt.Errorf("%w: expected %d, got %d", domain.ErrChainIDMismatch, network.ChainID, chainID.Uint64())
	}

	d.log.Debug("connected", "network", network.Name, "chain_id", chainID)
	return &Backend{
		client:  client,
		chainID: chainID,
		close:   client.Close,
	}, nil
}

func (d *Dialer) simulated(ctx context.Context, funded []common.Address) (*Backend, error) {
	alloc := make(types.GenesisAlloc, len(funded))
	for _, addr := range funded {
		alloc[addr] = types.Account{Balance: new(big.Int).Set(DevBalance)}
	}

	sim := simulated.NewBackend(alloc)
	client := sim.Client()

	chainID, err := client.ChainID(ctx)
	if err != nil {
		_ = sim.Close()
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}

	d.log.Debug("started in-process chain", "chain_id", chainID, "funded", len(funded))
	return &Backend{
		client:  client,
		chainID: chainID,
		commit:  func() { sim.Commit() },
		close:   func() { _ = sim.Close() },
	}, nil
}

var _ usecase.ChainDialer = (*Dialer)(nil)
