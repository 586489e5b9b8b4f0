package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot string

	// Context settings
	Network *Network

	// Execution settings
	Debug          bool
	NonInteractive bool
	Timeout        time.Duration

	// Explorer API key, read once at startup
	EtherscanAPIKey string

	// Resolved configurations
	FoundryConfig  *FoundryConfig
	ExdeployConfig *ExdeployConfig
}

// Network represents network configuration
type Network struct {
	ChainID     uint64 `json:"chainId"`
	Name        string `json:"name"`
	RPCURL      string `json:"rpcUrl,omitempty"`
	ExplorerURL string `json:"explorerUrl,omitempty"`
}
