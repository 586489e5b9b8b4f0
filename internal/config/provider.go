package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/trebuchet-org/exdeploy/internal/domain"
	"github.com/trebuchet-org/exdeploy/internal/domain/config"
)

// EtherscanAPIKeyEnv gates verification on public networks.
// Only the environment counts, foundry.toml [etherscan] keys never open the gate.
const EtherscanAPIKeyEnv = "ETHERSCAN_API_KEY"

// projectMarkers identify the root of a contracts project
var projectMarkers = []string{
	"foundry.toml",
	"hardhat.config.js",
	"hardhat.config.ts",
	ConfigFileName,
}

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	// .env must be loaded before anything reads the environment
	loadEnvFiles(projectRoot)

	cfg := &config.RuntimeConfig{
		ProjectRoot:     projectRoot,
		Debug:           v.GetBool("debug"),
		NonInteractive:  v.GetBool("non_interactive"),
		Timeout:         v.GetDuration("timeout"),
		EtherscanAPIKey: os.Getenv(EtherscanAPIKeyEnv),
	}

	foundryConfig, err := loadFoundryConfig(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load foundry config: %w", err)
	}
	cfg.FoundryConfig = foundryConfig

	exdeployConfig, err := loadExdeployConfig(projectRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", ConfigFileName, err)
	}
	cfg.ExdeployConfig = exdeployConfig

	networkName := v.GetString("network")
	if networkName == "" {
		networkName = domain.HardhatNetwork
	}
	network, err := NewNetworkResolver(projectRoot, foundryConfig, exdeployConfig).Resolve(networkName)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve network %s: %w", networkName, err)
	}
	cfg.Network = network

	return cfg, nil
}

// FindProjectRoot walks up from current directory to find a project marker file
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		for _, marker := range projectMarkers {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", fmt.Errorf("not in a contracts project (none of %s found)", strings.Join(projectMarkers, ", "))
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string) *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix("EXDEPLOY")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	v.SetDefault("network", domain.HardhatNetwork)
	v.SetDefault("timeout", "10m")
	v.SetDefault("debug", false)
	v.SetDefault("non_interactive", false)
	v.SetDefault("project_root", projectRoot)

	return v
}

// ProvideNetworkResolver creates a NetworkResolver for Wire dependency injection
func ProvideNetworkResolver(cfg *config.RuntimeConfig) *NetworkResolver {
	return NewNetworkResolver(cfg.ProjectRoot, cfg.FoundryConfig, cfg.ExdeployConfig)
}
