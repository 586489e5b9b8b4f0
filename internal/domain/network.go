package domain

import (
	"github.com/samber/lo"
)

const (
	// HardhatNetwork is the in-process ephemeral chain
	HardhatNetwork = "hardhat"
	// LocalhostNetwork is a dev node listening on the local machine
	LocalhostNetwork = "localhost"

	// HardhatChainID is the chain id of the in-process simulated chain
	HardhatChainID uint64 = 1337
	// LocalhostRPCURL is where a local dev node is expected when none is configured
	LocalhostRPCURL = "http://127.0.0.1:8545"
)

// DevelopmentChains are networks on which contracts are never verified
var DevelopmentChains = []string{HardhatNetwork, LocalhostNetwork}

// IsDevelopmentNetwork reports whether name denotes a local/test network
func IsDevelopmentNetwork(name string) bool {
	return lo.Contains(DevelopmentChains, name)
}

// VerificationGate decides whether a run submits source verification.
type VerificationGate struct {
	Network     string
	APIKeyIsSet bool
}

// NewVerificationGate builds the gate from the active network and the explorer API key.
func NewVerificationGate(network, apiKey string) VerificationGate {
	return VerificationGate{
		Network:     network,
		APIKeyIsSet: apiKey != "",
	}
}

// Open is true only off development networks with an API key configured.
func (g VerificationGate) Open() bool {
	return !IsDevelopmentNetwork(g.Network) && g.APIKeyIsSet
}

// Reason explains a closed gate, empty when open.
func (g VerificationGate) Reason() string {
	switch {
	case IsDevelopmentNetwork(g.Network):
		return "development network"
	case !g.APIKeyIsSet:
		return "ETHERSCAN_API_KEY not set"
	default:
		return ""
	}
}
