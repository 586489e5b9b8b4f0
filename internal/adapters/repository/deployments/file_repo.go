package deployments

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/trebuchet-org/exdeploy/internal/domain"
	"github.com/trebuchet-org/exdeploy/internal/domain/config"
	"github.com/trebuchet-org/exdeploy/internal/domain/models"
	"github.com/trebuchet-org/exdeploy/internal/usecase"
)

const (
	DeploymentsDir = "deployments"
	ChainIDFile    = ".chainId"
)

// FileRepository stores deployments as deployments/<network>/<ContractName>.json
type FileRepository struct {
	rootDir string
	mu      sync.RWMutex
}

// NewFileRepository creates a repository rooted at the project directory
func NewFileRepository(cfg *config.RuntimeConfig) *FileRepository {
	return &FileRepository{rootDir: filepath.Join(cfg.ProjectRoot, DeploymentsDir)}
}

// Get retrieves the deployment of contractName on network
func (m *FileRepository) Get(ctx context.Context, network, contractName string) (*models.Deployment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.readFile(filepath.Join(m.rootDir, network, contractName+".json"))
}

// GetByAddress retrieves a deployment by network and address
func (m *FileRepository) GetByAddress(ctx context.Context, network, address string) (*models.Deployment, error) {
	deployments, err := m.List(ctx, network)
	if err != nil {
		return nil, err
	}

	for _, dep := range deployments {
		if strings.EqualFold(dep.Address, address) {
			return dep, nil
		}
	}
	return nil, fmt.Errorf("deployment at address %s not found on %s: %w", address, network, domain.ErrNotFound)
}

// Save writes the deployment file and records the network's chain id
func (m *FileRepository) Save(ctx context.Context, deployment *models.Deployment) error {
	if deployment.Network == "" || deployment.ContractName == "" {
		return fmt.Errorf("deployment needs a network and contract name")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	dir := filepath.Join(m.rootDir, deployment.Network)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	chainIDPath := filepath.Join(dir, ChainIDFile)
	if _, err := os.Stat(chainIDPath); os.IsNotExist(err) {
		if err := os.WriteFile(chainIDPath, []byte(strconv.FormatUint(deployment.ChainID, 10)), 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", chainIDPath, err)
		}
	}

	now := time.Now()
	if deployment.CreatedAt.IsZero() {
		deployment.CreatedAt = now
	}
	deployment.UpdatedAt = now

	return writeJSON(filepath.Join(dir, deployment.ContractName+".json"), deployment)
}

// List returns deployments of network sorted by contract name, or of every network when network is empty
func (m *FileRepository) List(ctx context.Context, network string) ([]*models.Deployment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	networks := []string{network}
	if network == "" {
		var err error
		if networks, err = m.networks(); err != nil {
			return nil, err
		}
	}

	var result []*models.Deployment
	for _, name := range networks {
		entries, err := os.ReadDir(filepath.Join(m.rootDir, name))
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read deployments of %s: %w", name, err)
		}

		for _, entry := range entries {
			if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
				continue
			}
			dep, err := m.readFile(filepath.Join(m.rootDir, name, entry.Name()))
			if err != nil {
				return nil, err
			}
			result = append(result, dep)
		}
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].ID() < result[j].ID()
	})
	return result, nil
}

// Networks lists the network directories under deployments/
func (m *FileRepository) Networks(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.networks()
}

// networks lists directories carrying a .chainId file; others (e.g. solcInputs) are not networks
func (m *FileRepository) networks() ([]string, error) {
	entries, err := os.ReadDir(m.rootDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", m.rootDir, err)
	}

	var names []string
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		if _, err := os.Stat(filepath.Join(m.rootDir, entry.Name(), ChainIDFile)); err == nil {
			names = append(names, entry.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

func (m *FileRepository) readFile(path string) (*models.Deployment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", strings.TrimSuffix(filepath.Base(path), ".json"), domain.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to read deployment: %w", err)
	}

	var dep models.Deployment
	if err := json.Unmarshal(data, &dep); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &dep, nil
}

// writeJSON writes v to a temp file first, then renames it into place
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0644); err != nil {
		return err
	}

	return os.Rename(tmpPath, path)
}

var _ usecase.DeploymentRepository = (*FileRepository)(nil)
