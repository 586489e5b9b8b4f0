package config

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sahilm/fuzzy"
	"github.com/samber/lo"
	"github.com/trebuchet-org/exdeploy/internal/domain"
	"github.com/trebuchet-org/exdeploy/internal/domain/config"
)

// NetworkResolver resolves network names to configurations with caching
type NetworkResolver struct {
	projectRoot    string
	foundryConfig  *config.FoundryConfig
	exdeployConfig *config.ExdeployConfig
	cache          *NetworkCache
	httpClient     *http.Client
	mu             sync.RWMutex
}

// NetworkCache caches chain ID lookups
type NetworkCache struct {
	Networks  map[string]uint64 `json:"networks"` // name -> chainID
	RPCs      map[string]uint64 `json:"rpcs"`     // rpcURL -> chainID
	UpdatedAt time.Time         `json:"updatedAt"`
}

// NewNetworkResolver creates a new network resolver
func NewNetworkResolver(projectRoot string, foundryConfig *config.FoundryConfig, exdeployConfig *config.ExdeployConfig) *NetworkResolver {
	if foundryConfig == nil {
		foundryConfig = &config.FoundryConfig{}
	}
	if exdeployConfig == nil {
		exdeployConfig = &config.ExdeployConfig{}
	}
	r := &NetworkResolver{
		projectRoot:    projectRoot,
		foundryConfig:  foundryConfig,
		exdeployConfig: exdeployConfig,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	r.loadCache()

	return r
}

// Networks returns every resolvable network name, sorted
func (r *NetworkResolver) Networks() []string {
	names := []string{domain.HardhatNetwork, domain.LocalhostNetwork}
	names = append(names, lo.Keys(r.foundryConfig.RpcEndpoints)...)
	names = append(names, lo.Keys(r.exdeployConfig.Networks)...)
	names = lo.Uniq(names)
	sort.Strings(names)
	return names
}

// Resolve resolves a network name to its configuration
func (r *NetworkResolver) Resolve(networkName string) (*config.Network, error) {
	if networkName == domain.HardhatNetwork {
		return &config.Network{
			Name:    domain.HardhatNetwork,
			ChainID: domain.HardhatChainID,
		}, nil
	}

	override := r.exdeployConfig.Networks[networkName]

	rpcURL := override.URL
	if rpcURL == "" {
		rpcURL = r.foundryConfig.RpcEndpoints[networkName]
	}
	if rpcURL == "" && networkName == domain.LocalhostNetwork {
		rpcURL = domain.LocalhostRPCURL
	}
	if rpcURL == "" {
		return nil, domain.UnknownNetworkError{
			Name:        networkName,
			Suggestions: r.Suggest(networkName),
		}
	}

	chainID := override.ChainID
	if chainID == 0 {
		r.mu.RLock()
		cached, ok := r.cache.Networks[networkName]
		r.mu.RUnlock()

		if ok {
			chainID = cached
		} else {
			fetched, err := r.fetchChainID(rpcURL)
			if err != nil {
				return nil, fmt.Errorf("failed to fetch chain ID for network %s: %w", networkName, err)
			}
			chainID = fetched
			r.updateCache(networkName, rpcURL, chainID)
		}
	}

	explorer := override.Explorer
	if explorer == "" {
		explorer = r.getExplorerURL(networkName, chainID)
	}

	return &config.Network{
		Name:        networkName,
		ChainID:     chainID,
		RPCURL:      rpcURL,
		ExplorerURL: explorer,
	}, nil
}

// Suggest returns up to three configured networks resembling name
func (r *NetworkResolver) Suggest(name string) []string {
	matches := fuzzy.Find(name, r.Networks())
	suggestions := make([]string, 0, 3)
	for _, m := range matches {
		if len(suggestions) == 3 {
			break
		}
		suggestions = append(suggestions, m.Str)
	}
	return suggestions
}

// fetchChainID fetches the chain ID from an RPC endpoint
func (r *NetworkResolver) fetchChainID(rpcURL string) (uint64, error) {
	r.mu.RLock()
	if chainID, exists := r.cache.RPCs[rpcURL]; exists {
		r.mu.RUnlock()
		return chainID, nil
	}
	r.mu.RUnlock()

	requestBody := `{"jsonrpc":"2.0","method":"eth_chainId","params":[],"id":1}`

	resp, err := r.httpClient.Post(rpcURL, "application/json", strings.NewReader(requestBody))
	if err != nil {
		return 0, fmt.Errorf("failed to make RPC request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, fmt.Errorf("failed to read response: %w", err)
	}

	var rpcResponse struct {
		Result string `json:"result"`
		Error  *struct {
			Code    int    `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(body, &rpcResponse); err != nil {
		return 0, fmt.Errorf("failed to parse JSON response: %w", err)
	}

	if rpcResponse.Error != nil {
		return 0, fmt.Errorf("RPC error: %s", rpcResponse.Error.Message)
	}

	if rpcResponse.Result == "" {
		return 0, fmt.Errorf("empty chain ID response")
	}

	chainIDStr := strings.TrimPrefix(rpcResponse.Result, "0x")
	chainID, err := strconv.ParseUint(chainIDStr, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("failed to parse chain ID: %w", err)
	}

	return chainID, nil
}

// getExplorerURL returns the explorer URL for a network
func (r *NetworkResolver) getExplorerURL(networkName string, chainID uint64) string {
	if etherscan, exists := r.foundryConfig.Etherscan[networkName]; exists && etherscan.URL != "" {
		return etherscan.URL
	}

	switch chainID {
	case 1:
		return "https://etherscan.io"
	case 5:
		return "https://goerli.etherscan.io"
	case 11155111:
		return "https://sepolia.etherscan.io"
	case 10:
		return "https://optimistic.etherscan.io"
	case 137:
		return "https://polygonscan.com"
	case 80001:
		return "https://mumbai.polygonscan.com"
	case 8453:
		return "https://basescan.org"
	case 42161:
		return "https://arbiscan.io"
	case 56:
		return "https://bscscan.com"
	default:
		return ""
	}
}

func newNetworkCache() *NetworkCache {
	return &NetworkCache{
		Networks:  make(map[string]uint64),
		RPCs:      make(map[string]uint64),
		UpdatedAt: time.Now(),
	}
}

func (r *NetworkResolver) cachePath() string {
	return filepath.Join(r.projectRoot, "cache", "chainIds.json")
}

// loadCache loads the chain ID cache from disk
func (r *NetworkResolver) loadCache() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache = newNetworkCache()

	data, err := os.ReadFile(r.cachePath())
	if err != nil {
		return
	}

	if err := json.Unmarshal(data, r.cache); err != nil {
		r.cache = newNetworkCache()
	}
	if r.cache.Networks == nil || r.cache.RPCs == nil {
		r.cache = newNetworkCache()
	}
}

// updateCache records a resolved chain ID. Local nodes are not cached since they get restarted with other chain ids.
func (r *NetworkResolver) updateCache(networkName, rpcURL string, chainID uint64) {
	if networkName == domain.LocalhostNetwork {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache.Networks[networkName] = chainID
	r.cache.RPCs[rpcURL] = chainID
	r.cache.UpdatedAt = time.Now()

	// cache is only a speedup
	_ = r.saveCache()
}

// saveCache saves the cache to disk
func (r *NetworkResolver) saveCache() error {
	if err := os.MkdirAll(filepath.Dir(r.cachePath()), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(r.cache, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(r.cachePath(), data, 0644)
}
