package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/exdeploy/internal/domain"
	"github.com/trebuchet-org/exdeploy/internal/domain/config"
	"github.com/trebuchet-org/exdeploy/internal/domain/models"
)

// ShowDeploymentParams contains parameters for showing a deployment
type ShowDeploymentParams struct {
	// Contract name or address; empty selects interactively
	Identifier string
}

// ShowDeployment is the use case for showing deployment details
type ShowDeployment struct {
	config   *config.RuntimeConfig
	repo     DeploymentRepository
	selector DeploymentSelector
}

// NewShowDeployment creates a new ShowDeployment use case
func NewShowDeployment(cfg *config.RuntimeConfig, repo DeploymentRepository, selector DeploymentSelector) *ShowDeployment {
	return &ShowDeployment{
		config:   cfg,
		repo:     repo,
		selector: selector,
	}
}

// Run looks the deployment up on the active network
func (uc *ShowDeployment) Run(ctx context.Context, params ShowDeploymentParams) (*models.Deployment, error) {
	if uc.config.Network == nil {
		return nil, fmt.Errorf("no network configured")
	}
	network := uc.config.Network.Name

	switch {
	case params.Identifier == "":
		deployments, err := uc.repo.List(ctx, network)
		if err != nil {
			return nil, fmt.Errorf("failed to list deployments: %w", err)
		}
		if len(deployments) == 0 {
			return nil, fmt.Errorf("no deployments on %s: %w", network, domain.ErrNotFound)
		}
		return uc.selector.SelectDeployment(ctx, deployments, "Select deployment")

	case strings.HasPrefix(params.Identifier, "0x"):
		if !common.IsHexAddress(params.Identifier) {
			return nil, fmt.Errorf("%w: %s", domain.ErrInvalidAddress, params.Identifier)
		}
		return uc.repo.GetByAddress(ctx, network, params.Identifier)

	default:
		deployment, err := uc.repo.Get(ctx, network, params.Identifier)
		if err != nil {
			return nil, fmt.Errorf("no deployment of %s on %s: %w", params.Identifier, network, err)
		}
		return deployment, nil
	}
}
