package usecase

import (
	"context"

	"github.com/samber/lo"
	"github.com/trebuchet-org/exdeploy/internal/domain"
)

// ListNetworksResult contains the result of listing networks
type ListNetworksResult struct {
	Networks []NetworkStatus
}

// NetworkStatus represents the status of a network
type NetworkStatus struct {
	Name           string
	ChainID        uint64
	RPCURL         string
	ExplorerURL    string
	Development    bool
	HasDeployments bool
	Error          error
}

// ListNetworks is a use case for listing available networks
type ListNetworks struct {
	resolver NetworkResolver
	repo     DeploymentRepository
}

// NewListNetworks creates a new ListNetworks use case
func NewListNetworks(resolver NetworkResolver, repo DeploymentRepository) *ListNetworks {
	return &ListNetworks{
		resolver: resolver,
		repo:     repo,
	}
}

// Run resolves every configured network. Resolution errors are reported per network.
func (uc *ListNetworks) Run(ctx context.Context) (*ListNetworksResult, error) {
	deployed, err := uc.repo.Networks(ctx)
	if err != nil {
		return nil, err
	}

	names := uc.resolver.Networks()
	networks := make([]NetworkStatus, 0, len(names))
	for _, name := range names {
		status := NetworkStatus{
			Name:           name,
			Development:    domain.IsDevelopmentNetwork(name),
			HasDeployments: lo.Contains(deployed, name),
		}

		info, err := uc.resolver.Resolve(name)
		if err != nil {
			status.Error = err
		} else {
			status.ChainID = info.ChainID
			status.RPCURL = info.RPCURL
			status.ExplorerURL = info.ExplorerURL
		}

		networks = append(networks, status)
	}

	return &ListNetworksResult{Networks: networks}, nil
}
