//go:build wireinject
// +build wireinject

package app

import (
	"github.com/google/wire"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/exdeploy/internal/adapters"
	"github.com/trebuchet-org/exdeploy/internal/config"
	"github.com/trebuchet-org/exdeploy/internal/deploy"
	"github.com/trebuchet-org/exdeploy/internal/logging"
	"github.com/trebuchet-org/exdeploy/internal/usecase"
)

// InitApp creates a fully wired App instance
func InitApp(v *viper.Viper) (*App, error) {
	wire.Build(
		// Configuration
		config.Provider,
		logging.LoggingSet,

		// Adapters
		adapters.AllAdapters,

		// Deploy steps
		deploy.Steps,

		// Use cases
		usecase.NewRunDeployments,
		usecase.NewVerifyDeployment,
		usecase.NewListDeployments,
		usecase.NewShowDeployment,
		usecase.NewListNetworks,

		// App
		NewApp,
	)
	return nil, nil
}
