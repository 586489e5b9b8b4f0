package usecase

import (
	"context"

	"github.com/samber/lo"
	"github.com/trebuchet-org/exdeploy/internal/domain/config"
	"github.com/trebuchet-org/exdeploy/internal/domain/models"
)

// ListDeploymentsParams contains parameters for listing deployments
type ListDeploymentsParams struct {
	AllNetworks  bool   // ignore the active network
	ContractName string // optional filter
}

// DeploymentListResult contains the listed deployments and a summary
type DeploymentListResult struct {
	Deployments []*models.Deployment
	Summary     DeploymentSummary
}

// DeploymentSummary counts deployments per network and verification status
type DeploymentSummary struct {
	Total     int
	ByNetwork map[string]int
	ByStatus  map[models.VerificationStatus]int
}

// ListDeployments is the use case for listing deployments
type ListDeployments struct {
	config *config.RuntimeConfig
	repo   DeploymentRepository
}

// NewListDeployments creates a new ListDeployments use case
func NewListDeployments(cfg *config.RuntimeConfig, repo DeploymentRepository) *ListDeployments {
	return &ListDeployments{
		config: cfg,
		repo:   repo,
	}
}

// Run executes the list deployments use case
func (uc *ListDeployments) Run(ctx context.Context, params ListDeploymentsParams) (*DeploymentListResult, error) {
	network := ""
	if !params.AllNetworks && uc.config.Network != nil {
		network = uc.config.Network.Name
	}

	deployments, err := uc.repo.List(ctx, network)
	if err != nil {
		return nil, err
	}

	if params.ContractName != "" {
		deployments = lo.Filter(deployments, func(d *models.Deployment, _ int) bool {
			return d.ContractName == params.ContractName
		})
	}

	return &DeploymentListResult{
		Deployments: deployments,
		Summary:     calculateSummary(deployments),
	}, nil
}

func calculateSummary(deployments []*models.Deployment) DeploymentSummary {
	summary := DeploymentSummary{
		Total:     len(deployments),
		ByNetwork: lo.CountValuesBy(deployments, func(d *models.Deployment) string { return d.Network }),
		ByStatus: lo.CountValuesBy(deployments, func(d *models.Deployment) models.VerificationStatus {
			if d.Verification.Status == "" {
				return models.VerificationStatusUnverified
			}
			return d.Verification.Status
		}),
	}
	return summary
}
