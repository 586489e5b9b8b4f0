package app

import (
	"github.com/trebuchet-org/exdeploy/internal/domain/config"
	"github.com/trebuchet-org/exdeploy/internal/usecase"
)

// App is the main application container that holds all use cases
type App struct {
	// Configuration
	Config *config.RuntimeConfig

	// Shared dependencies
	Progress usecase.ProgressSink

	// Use cases
	RunDeployments   *usecase.RunDeployments
	VerifyDeployment *usecase.VerifyDeployment
	ListDeployments  *usecase.ListDeployments
	ShowDeployment   *usecase.ShowDeployment
	ListNetworks     *usecase.ListNetworks
}

// NewApp creates a new application instance with all use cases
func NewApp(
	cfg *config.RuntimeConfig,
	progress usecase.ProgressSink,
	runDeployments *usecase.RunDeployments,
	verifyDeployment *usecase.VerifyDeployment,
	listDeployments *usecase.ListDeployments,
	showDeployment *usecase.ShowDeployment,
	listNetworks *usecase.ListNetworks,
) (*App, error) {
	return &App{
		Config:           cfg,
		Progress:         progress,
		RunDeployments:   runDeployments,
		VerifyDeployment: verifyDeployment,
		ListDeployments:  listDeployments,
		ShowDeployment:   showDeployment,
		ListNetworks:     listNetworks,
	}, nil
}
