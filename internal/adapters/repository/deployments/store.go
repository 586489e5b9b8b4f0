package deployments

import (
	"context"
	"sort"

	"github.com/samber/lo"
	"github.com/trebuchet-org/exdeploy/internal/domain"
	"github.com/trebuchet-org/exdeploy/internal/domain/models"
	"github.com/trebuchet-org/exdeploy/internal/usecase"
)

// Store routes the in-process hardhat network to memory and every other network to disk
type Store struct {
	file   *FileRepository
	memory *MemoryRepository
}

// NewStore combines a file and a memory repository
func NewStore(file *FileRepository, memory *MemoryRepository) *Store {
	return &Store{file: file, memory: memory}
}

func (s *Store) repo(network string) usecase.DeploymentRepository {
	if network == domain.HardhatNetwork {
		return s.memory
	}
	return s.file
}

func (s *Store) Get(ctx context.Context, network, contractName string) (*models.Deployment, error) {
	return s.repo(network).Get(ctx, network, contractName)
}

func (s *Store) GetByAddress(ctx context.Context, network, address string) (*models.Deployment, error) {
	return s.repo(network).GetByAddress(ctx, network, address)
}

func (s *Store) Save(ctx context.Context, deployment *models.Deployment) error {
	return s.repo(deployment.Network).Save(ctx, deployment)
}

func (s *Store) List(ctx context.Context, network string) ([]*models.Deployment, error) {
	if network != "" {
		return s.repo(network).List(ctx, network)
	}

	onDisk, err := s.file.List(ctx, "")
	if err != nil {
		return nil, err
	}
	inMemory, err := s.memory.List(ctx, "")
	if err != nil {
		return nil, err
	}

	all := append(onDisk, inMemory...)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].ID() < all[j].ID()
	})
	return all, nil
}

func (s *Store) Networks(ctx context.Context) ([]string, error) {
	onDisk, err := s.file.Networks(ctx)
	if err != nil {
		return nil, err
	}
	inMemory, err := s.memory.Networks(ctx)
	if err != nil {
		return nil, err
	}

	names := lo.Uniq(append(onDisk, inMemory...))
	sort.Strings(names)
	return names, nil
}

var _ usecase.DeploymentRepository = (*Store)(nil)
