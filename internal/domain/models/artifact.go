package models

import (
	"encoding/json"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// Artifact is a compiled contract ready for deployment
type Artifact struct {
	ContractName     string
	SourceName       string // source path relative to the project root
	ArtifactPath     string
	CompilerVersion  string
	RawABI           json.RawMessage
	ABI              abi.ABI
	Bytecode         []byte
	DeployedBytecode []byte

	// ImmutableRanges are the runtime code slots written by the constructor.
	// ImmutablesKnown is false when the artifact format does not list them (Hardhat).
	ImmutableRanges []CodeRange
	ImmutablesKnown bool
}

// CodeRange is a byte range within runtime bytecode
type CodeRange struct {
	Start  int `json:"start"`
	Length int `json:"length"`
}

// FullyQualifiedName returns "<source>:<contract>" as expected by forge
func (a *Artifact) FullyQualifiedName() string {
	if a.SourceName == "" {
		return a.ContractName
	}
	return a.SourceName + ":" + a.ContractName
}
