package models

import (
	"encoding/json"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// VerificationStatus represents the verification status
type VerificationStatus string

const (
	VerificationStatusUnverified VerificationStatus = "UNVERIFIED"
	VerificationStatusVerified   VerificationStatus = "VERIFIED"
	VerificationStatusFailed     VerificationStatus = "FAILED"
	VerificationStatusPartial    VerificationStatus = "PARTIAL"
	VerificationStatusSkipped    VerificationStatus = "SKIPPED"
)

// Deployment represents a contract deployment record.
// The JSON layout follows hardhat-deploy's deployments/<network>/<Name>.json files.
type Deployment struct {
	ContractName     string          `json:"contractName"`
	Network          string          `json:"network"`
	ChainID          uint64          `json:"chainId"`
	Address          string          `json:"address"`
	TransactionHash  string          `json:"transactionHash"`
	Deployer         string          `json:"deployer"`
	Args             []string        `json:"args"`
	ConstructorArgs  string          `json:"constructorArgs,omitempty"` // ABI encoded, 0x prefixed
	ABI              json.RawMessage `json:"abi"`
	Bytecode         string          `json:"bytecode"`
	DeployedBytecode string          `json:"deployedBytecode,omitempty"`
	Artifact         ArtifactInfo    `json:"artifact"`
	Receipt          *ReceiptInfo    `json:"receipt,omitempty"`
	NumDeployments   int             `json:"numDeployments"`

	Verification VerificationInfo `json:"verification"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Runtime fields (not persisted)
	Newly   bool  `json:"-"` // false when an existing deployment was reused
	RawArgs []any `json:"-"`
}

// ArtifactInfo contains contract artifact information
type ArtifactInfo struct {
	Path            string `json:"path"`            // e.g., "src/Exchange.sol"
	CompilerVersion string `json:"compilerVersion"` // e.g., "0.8.19+commit.7dd6d404"
	ArtifactPath    string `json:"artifactPath"`    // e.g., "out/Exchange.sol/Exchange.json"
}

// ReceiptInfo is the subset of the transaction receipt kept with a deployment
type ReceiptInfo struct {
	BlockNumber uint64 `json:"blockNumber"`
	GasUsed     uint64 `json:"gasUsed"`
	Status      uint64 `json:"status"`
}

// VerifierStatus represents the status of a verifier
type VerifierStatus struct {
	Status string `json:"status"` // verified/failed
	URL    string `json:"url,omitempty"`
	Reason string `json:"reason,omitempty"`
}

// VerificationInfo contains verification details
type VerificationInfo struct {
	Status       VerificationStatus        `json:"status"`
	EtherscanURL string                    `json:"etherscanUrl,omitempty"`
	VerifiedAt   *time.Time                `json:"verifiedAt,omitempty"`
	Reason       string                    `json:"reason,omitempty"`
	Verifiers    map[string]VerifierStatus `json:"verifiers,omitempty"`
}

// HasAddress reports whether the record carries a usable contract address
func (d *Deployment) HasAddress() bool {
	if d == nil || !common.IsHexAddress(d.Address) {
		return false
	}
	return common.HexToAddress(d.Address) != (common.Address{})
}

// ID returns the network scoped identifier, e.g. "sepolia/Exchange"
func (d *Deployment) ID() string {
	return fmt.Sprintf("%s/%s", d.Network, d.ContractName)
}

// IsVerified reports whether every verifier succeeded
func (d *Deployment) IsVerified() bool {
	return d.Verification.Status == VerificationStatusVerified
}

// FormatArgs renders constructor argument values the way they are stored on disk
func FormatArgs(args []any) []string {
	out := make([]string, len(args))
	for i, arg := range args {
		switch v := arg.(type) {
		case common.Address:
			out[i] = v.Hex()
		case *big.Int:
			out[i] = v.String()
		case []byte:
			out[i] = common.Bytes2Hex(v)
		default:
			out[i] = fmt.Sprintf("%v", v)
		}
	}
	return out
}
