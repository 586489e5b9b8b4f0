package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/trebuchet-org/exdeploy/internal/domain/config"
)

// ConfigFileName is the project level configuration file
const ConfigFileName = "exdeploy.toml"

// loadExdeployConfig loads exdeploy.toml, expanding ${VAR} references in account and network fields.
// A missing file yields an empty config.
func loadExdeployConfig(projectRoot string) (*config.ExdeployConfig, error) {
	cfg := &config.ExdeployConfig{}

	path := filepath.Join(projectRoot, ConfigFileName)
	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", ConfigFileName, err)
		}
	}

	if cfg.Accounts == nil {
		cfg.Accounts = make(map[string]config.AccountConfig)
	}
	if cfg.NamedAccounts == nil {
		cfg.NamedAccounts = make(map[string]map[string]string)
	}
	if cfg.Networks == nil {
		cfg.Networks = make(map[string]config.NetworkConfig)
	}
	if len(cfg.Verify.Verifiers) == 0 {
		cfg.Verify.Verifiers = config.DefaultVerifiers
	}

	for name, acct := range cfg.Accounts {
		acct.PrivateKey = os.ExpandEnv(acct.PrivateKey)
		acct.Address = os.ExpandEnv(acct.Address)
		if acct.Type == "" {
			if acct.PrivateKey != "" {
				acct.Type = config.AccountTypePrivateKey
			} else {
				acct.Type = config.AccountTypeAddress
			}
		}
		cfg.Accounts[name] = acct
	}

	for name, n := range cfg.Networks {
		n.URL = os.ExpandEnv(n.URL)
		n.Explorer = os.ExpandEnv(n.Explorer)
		cfg.Networks[name] = n
	}

	return cfg, nil
}
