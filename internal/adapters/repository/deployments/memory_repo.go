package deployments

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/trebuchet-org/exdeploy/internal/domain"
	"github.com/trebuchet-org/exdeploy/internal/domain/models"
	"github.com/trebuchet-org/exdeploy/internal/usecase"
)

// MemoryRepository keeps deployments for the lifetime of the process.
// It backs the in-process chain, whose state disappears on exit.
type MemoryRepository struct {
	mu          sync.RWMutex
	deployments map[string]*models.Deployment
}

// NewMemoryRepository creates an empty repository
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{deployments: make(map[string]*models.Deployment)}
}

func (m *MemoryRepository) Get(ctx context.Context, network, contractName string) (*models.Deployment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	dep, ok := m.deployments[network+"/"+contractName]
	if !ok {
		return nil, fmt.Errorf("%s: %w", contractName, domain.ErrNotFound)
	}
	clone := *dep
	return &clone, nil
}

func (m *MemoryRepository) GetByAddress(ctx context.Context, network, address string) (*models.Deployment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, dep := range m.deployments {
		if dep.Network == network && strings.EqualFold(dep.Address, address) {
			clone := *dep
			return &clone, nil
		}
	}
	return nil, fmt.Errorf("deployment at address %s not found on %s: %w", address, network, domain.ErrNotFound)
}

func (m *MemoryRepository) Save(ctx context.Context, deployment *models.Deployment) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	if deployment.CreatedAt.IsZero() {
		deployment.CreatedAt = now
	}
	deployment.UpdatedAt = now

	clone := *deployment
	m.deployments[deployment.ID()] = &clone
	return nil
}

func (m *MemoryRepository) List(ctx context.Context, network string) ([]*models.Deployment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*models.Deployment, 0, len(m.deployments))
	for _, dep := range m.deployments {
		if network == "" || dep.Network == network {
			clone := *dep
			result = append(result, &clone)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID() < result[j].ID()
	})
	return result, nil
}

func (m *MemoryRepository) Networks(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := make(map[string]struct{})
	var names []string
	for _, dep := range m.deployments {
		if _, ok := seen[dep.Network]; !ok {
			seen[dep.Network] = struct{}{}
			names = append(names, dep.Network)
		}
	}
	sort.Strings(names)
	return names, nil
}

var _ usecase.DeploymentRepository = (*MemoryRepository)(nil)
