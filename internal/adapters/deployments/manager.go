package deployments

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/trebuchet-org/exdeploy/internal/adapters/blockchain"
	"github.com/trebuchet-org/exdeploy/internal/domain"
	"github.com/trebuchet-org/exdeploy/internal/domain/config"
	"github.com/trebuchet-org/exdeploy/internal/domain/models"
	"github.com/trebuchet-org/exdeploy/internal/usecase"
)

// Provider opens deployment sessions against a network
type Provider struct {
	dialer    usecase.ChainDialer
	artifacts usecase.ArtifactLoader
	repo      usecase.DeploymentRepository
	accounts  usecase.AccountResolver
	log       *slog.Logger
}

// NewProvider creates a new deployments provider
func NewProvider(
	dialer usecase.ChainDialer,
	artifacts usecase.ArtifactLoader,
	repo usecase.DeploymentRepository,
	accounts usecase.AccountResolver,
	log *slog.Logger,
) *Provider {
	return &Provider{
		dialer:    dialer,
		artifacts: artifacts,
		repo:      repo,
		accounts:  accounts,
		log:       log.With("component", "deployments"),
	}
}

// Open dials network and returns a session that deploys through it
func (p *Provider) Open(ctx context.Context, network *config.Network, out io.Writer) (usecase.DeploymentSession, error) {
	backend, err := p.dialer.Dial(ctx, network, p.accounts.FundedAccounts())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", network.Name, err)
	}

	return &Manager{
		backend:   backend,
		artifacts: p.artifacts,
		repo:      p.repo,
		accounts:  p.accounts,
		network:   network.Name,
		out:       out,
		log:       p.log.With("network", network.Name),
	}, nil
}

// Manager is the deployments capability handed to deploy steps
type Manager struct {
	backend   usecase.ChainBackend
	artifacts usecase.ArtifactLoader
	repo      usecase.DeploymentRepository
	accounts  usecase.AccountResolver
	network   string
	out       io.Writer
	log       *slog.Logger

	mu       sync.Mutex
	recorded []*models.Deployment
}

// Deploy deploys name with the given constructor args, or reuses the recorded
// deployment when neither the bytecode nor the args changed and its code is still on chain.
func (m *Manager) Deploy(ctx context.Context, name string, opts domain.DeployOptions) (*models.Deployment, error) {
	artifact, err := m.artifacts.Load(ctx, name)
	if err != nil {
		return nil, err
	}

	encoded, err := artifact.ABI.Pack("", opts.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to encode constructor arguments for %s: %w", name, err)
	}

	previous, err := m.repo.Get(ctx, m.network, name)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("failed to load previous deployment of %s: %w", name, err)
	}

	if m.reusable(ctx, previous, artifact, encoded) {
		if opts.Log {
			fmt.Fprintf(m.out, "reusing %q at %s\n", name, previous.Address)
		}
		previous.Newly = false
		previous.RawArgs = opts.Args
		m.record(previous)
		return previous, nil
	}

	key, err := m.accounts.Signer(ctx, opts.From)
	if err != nil {
		return nil, err
	}

	tx, err := m.backend.DeployContract(ctx, key, artifact.ABI, artifact.Bytecode, opts.Args...)
	if err != nil {
		return nil, fmt.Errorf("failed to deploy %s: %w", name, err)
	}
	if opts.Log {
		fmt.Fprintf(m.out, "deploying %q (tx: %s)...: ", name, tx.Hash().Hex())
	}

	receipt, err := m.backend.WaitDeployed(ctx, tx)
	if err != nil {
		if opts.Log {
			fmt.Fprintln(m.out, "failed")
		}
		return nil, fmt.Errorf("failed to deploy %s: %w", name, err)
	}
	if opts.Log {
		fmt.Fprintf(m.out, "deployed at %s with %d gas\n", receipt.ContractAddress.Hex(), receipt.GasUsed)
	}

	deployment := &models.Deployment{
		ContractName:    name,
		Network:         m.network,
		ChainID:         m.backend.ChainID(),
		Address:         receipt.ContractAddress.Hex(),
		TransactionHash: receipt.TxHash.Hex(),
		Deployer:        opts.From.Hex(),
		Args:            models.FormatArgs(opts.Args),
		ConstructorArgs: hexutil.Encode(encoded),
		ABI:             artifact.RawABI,
		Bytecode:        hexutil.Encode(artifact.Bytecode),
		Artifact: models.ArtifactInfo{
			Path:            artifact.SourceName,
			CompilerVersion: artifact.CompilerVersion,
			ArtifactPath:    artifact.ArtifactPath,
		},
		Receipt: &models.ReceiptInfo{
			BlockNumber: receipt.BlockNumber,
			GasUsed:     receipt.GasUsed,
			Status:      receipt.Status,
		},
		NumDeployments: 1,
		Verification: models.VerificationInfo{
			Status: models.VerificationStatusUnverified,
		},
		Newly:   true,
		RawArgs: opts.Args,
	}
	if len(artifact.DeployedBytecode) > 0 {
		deployment.DeployedBytecode = hexutil.Encode(artifact.DeployedBytecode)
	}
	if previous != nil {
		deployment.NumDeployments = previous.NumDeployments + 1
	}

	if err := m.repo.Save(ctx, deployment); err != nil {
		return nil, fmt.Errorf("failed to save deployment of %s: %w", name, err)
	}
	m.record(deployment)

	m.log.Debug("deployed", "contract", name, "address", deployment.Address, "block", receipt.BlockNumber)
	return deployment, nil
}

// reusable reports whether previous still describes what would be deployed now
func (m *Manager) reusable(ctx context.Context, previous *models.Deployment, artifact *models.Artifact, encoded []byte) bool {
	if !previous.HasAddress() {
		return false
	}
	if previous.ChainID != m.backend.ChainID() ||
		previous.Bytecode != hexutil.Encode(artifact.Bytecode) ||
		previous.ConstructorArgs != hexutil.Encode(encoded) {
		return false
	}

	code, err := m.backend.CodeAt(ctx, common.HexToAddress(previous.Address))
	if err != nil {
		m.log.Warn("could not read code of previous deployment", "contract", previous.ContractName, "error", err)
		return false
	}
	if len(code) == 0 {
		m.log.Debug("previous deployment has no code on chain", "contract", previous.ContractName, "address", previous.Address)
		return false
	}
	// without immutable references the constructor may have rewritten any slot
	if len(artifact.DeployedBytecode) > 0 && artifact.ImmutablesKnown {
		onChain := blockchain.MaskRanges(code, artifact.ImmutableRanges)
		expected := blockchain.MaskRanges(artifact.DeployedBytecode, artifact.ImmutableRanges)
		if !blockchain.CodeMatches(onChain, expected) {
			m.log.Debug("on-chain code differs from artifact", "contract", previous.ContractName, "address", previous.Address)
			return false
		}
	}
	return true
}

func (m *Manager) record(deployment *models.Deployment) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, existing := range m.recorded {
		if existing.ID() == deployment.ID() {
			m.recorded[i] = deployment
			return
		}
	}
	m.recorded = append(m.recorded, deployment)
}

// Log writes a line to the run output
func (m *Manager) Log(format string, args ...any) {
	fmt.Fprintf(m.out, format+"\n", args...)
}

// Recorded returns the deployments made or reused in this session, in order
func (m *Manager) Recorded() []*models.Deployment {
	m.mu.Lock()
	defer m.mu.Unlock()

	return append([]*models.Deployment(nil), m.recorded...)
}

// Close releases the chain connection
func (m *Manager) Close() {
	m.backend.Close()
}

var (
	_ usecase.DeploymentsProvider = (*Provider)(nil)
	_ usecase.DeploymentSession   = (*Manager)(nil)
)
