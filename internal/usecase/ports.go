package usecase

import (
	"context"
	"crypto/ecdsa"
	"io"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/trebuchet-org/exdeploy/internal/domain"
	"github.com/trebuchet-org/exdeploy/internal/domain/config"
	"github.com/trebuchet-org/exdeploy/internal/domain/models"
)

// DeploymentRepository handles persistence of deployment records
type DeploymentRepository interface {
	Get(ctx context.Context, network, contractName string) (*models.Deployment, error)
	GetByAddress(ctx context.Context, network, address string) (*models.Deployment, error)
	Save(ctx context.Context, deployment *models.Deployment) error
	// List returns the records of network, or of every network when network is empty
	List(ctx context.Context, network string) ([]*models.Deployment, error)
	// Networks lists the networks holding at least one record
	Networks(ctx context.Context) ([]string, error)
}

// ArtifactLoader provides access to compiled contracts
type ArtifactLoader interface {
	Load(ctx context.Context, contractName string) (*models.Artifact, error)
}

// AccountResolver maps named account roles to addresses and signing keys
type AccountResolver interface {
	NamedAccounts(ctx context.Context, network string) (domain.NamedAccounts, error)
	Signer(ctx context.Context, address common.Address) (*ecdsa.PrivateKey, error)
	// FundedAccounts lists the addresses to pre-fund on an ephemeral chain
	FundedAccounts() []common.Address
}

// ContractVerifier handles contract verification
type ContractVerifier interface {
	Verify(ctx context.Context, deployment *models.Deployment, network *config.Network) error
}

// NetworkResolver handles network configuration resolution
type NetworkResolver interface {
	Networks() []string
	Resolve(networkName string) (*config.Network, error)
}

// ChainReceipt is the mined outcome of a contract creation
type ChainReceipt struct {
	ContractAddress common.Address
	TxHash          common.Hash
	BlockNumber     uint64
	GasUsed         uint64
	Status          uint64
}

// ChainBackend is a connection to one chain
type ChainBackend interface {
	ChainID() uint64
	DeployContract(ctx context.Context, key *ecdsa.PrivateKey, parsed abi.ABI, bytecode []byte, args ...any) (*types.Transaction, error)
	WaitDeployed(ctx context.Context, tx *types.Transaction) (*ChainReceipt, error)
	CodeAt(ctx context.Context, address common.Address) ([]byte, error)
	Close()
}

// ChainDialer connects to a resolved network.
// funded accounts are pre-allocated ether when the chain is created in-process.
type ChainDialer interface {
	Dial(ctx context.Context, network *config.Network, funded []common.Address) (ChainBackend, error)
}

// DeploymentsProvider opens the deployments capability bound to a network
type DeploymentsProvider interface {
	Open(ctx context.Context, network *config.Network, out io.Writer) (DeploymentSession, error)
}

// DeploymentSession is the deployments capability for one run
type DeploymentSession interface {
	domain.Deployments
	// Recorded returns the deployments made or reused during this session
	Recorded() []*models.Deployment
	Close()
}

// Confirmer asks the user a yes/no question
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// DeploymentSelector lets the user pick among matching deployments
type DeploymentSelector interface {
	SelectDeployment(ctx context.Context, deployments []*models.Deployment, prompt string) (*models.Deployment, error)
}

// Progress tracking interfaces

// Progress stages reported by the use cases
const (
	StageConnecting  = "connecting"
	StageRunningStep = "step"
	StageVerifying   = "verifying"
	StageCompleted   = "completed"
)

// ProgressEvent represents a progress update
type ProgressEvent struct {
	Stage   string
	Current int
	Total   int
	Message string
	Spinner bool
}

// ProgressSink receives progress events
type ProgressSink interface {
	OnProgress(ctx context.Context, event ProgressEvent)
	Info(message string)
	Error(message string)
}

// NopProgress is a no-op implementation of ProgressSink
type NopProgress struct{}

func (NopProgress) OnProgress(context.Context, ProgressEvent) {}
func (NopProgress) Info(string)                               {}
func (NopProgress) Error(string)                              {}
