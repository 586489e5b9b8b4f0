package adapters

import (
	"os"

	"github.com/google/wire"
	"github.com/trebuchet-org/exdeploy/internal/adapters/accounts"
	"github.com/trebuchet-org/exdeploy/internal/adapters/artifacts"
	"github.com/trebuchet-org/exdeploy/internal/adapters/blockchain"
	"github.com/trebuchet-org/exdeploy/internal/adapters/deployments"
	"github.com/trebuchet-org/exdeploy/internal/adapters/interactive"
	"github.com/trebuchet-org/exdeploy/internal/adapters/progress"
	repository "github.com/trebuchet-org/exdeploy/internal/adapters/repository/deployments"
	"github.com/trebuchet-org/exdeploy/internal/adapters/verification"
	"github.com/trebuchet-org/exdeploy/internal/config"
	domainconfig "github.com/trebuchet-org/exdeploy/internal/domain/config"
	"github.com/trebuchet-org/exdeploy/internal/usecase"
)

// ProvideProgressSink reports progress on stderr, with a spinner unless non-interactive
func ProvideProgressSink(cfg *domainconfig.RuntimeConfig) *progress.SpinnerSink {
	return progress.NewSpinnerSink(os.Stderr, !cfg.NonInteractive)
}

// RepositorySet provides deployment record storage
var RepositorySet = wire.NewSet(
	repository.NewFileRepository,
	repository.NewMemoryRepository,
	repository.NewStore,
	wire.Bind(new(usecase.DeploymentRepository), new(*repository.Store)),
)

// ChainSet provides chain access and deploy sessions
var ChainSet = wire.NewSet(
	blockchain.NewDialer,
	wire.Bind(new(usecase.ChainDialer), new(*blockchain.Dialer)),

	artifacts.NewLoader,
	wire.Bind(new(usecase.ArtifactLoader), new(*artifacts.Loader)),

	accounts.NewResolver,
	wire.Bind(new(usecase.AccountResolver), new(*accounts.Resolver)),

	deployments.NewProvider,
	wire.Bind(new(usecase.DeploymentsProvider), new(*deployments.Provider)),
)

// VerificationSet provides source verification
var VerificationSet = wire.NewSet(
	verification.NewForgeVerifier,
	wire.Bind(new(usecase.ContractVerifier), new(*verification.ForgeVerifier)),
)

// InteractiveSet provides interactive implementations
var InteractiveSet = wire.NewSet(
	interactive.NewSelectorAdapter,
	wire.Bind(new(usecase.Confirmer), new(*interactive.SelectorAdapter)),
	wire.Bind(new(usecase.DeploymentSelector), new(*interactive.SelectorAdapter)),

	ProvideProgressSink,
	wire.Bind(new(usecase.ProgressSink), new(*progress.SpinnerSink)),
)

// ConfigSet provides configuration-based implementations
var ConfigSet = wire.NewSet(
	config.ProvideNetworkResolver,
	wire.Bind(new(usecase.NetworkResolver), new(*config.NetworkResolver)),
)

// AllAdapters includes all adapter sets
var AllAdapters = wire.NewSet(
	RepositorySet,
	ChainSet,
	VerificationSet,
	InteractiveSet,
	ConfigSet,
)
