package blockchain

import (
	"bytes"

	"github.com/trebuchet-org/exdeploy/internal/domain/models"
)

// CBOR metadata marker (Solidity >=0.6.0) - "ipfs" in CBOR
var metadataMarker = []byte{0xa2, 0x64, 0x69, 0x70, 0x66, 0x73}

// StripMetadata removes the CBOR metadata appended to bytecode
func StripMetadata(code []byte) []byte {
	idx := bytes.LastIndex(code, metadataMarker)
	if idx == -1 {
		return code
	}
	return code[:idx]
}

// CodeMatches reports whether on-chain code is the artifact's runtime code,
// ignoring differences in the metadata trailer
func CodeMatches(onChain, artifact []byte) bool {
	if len(onChain) == 0 || len(artifact) == 0 {
		return false
	}
	if bytes.Equal(onChain, artifact) {
		return true
	}
	return bytes.Equal(StripMetadata(onChain), StripMetadata(artifact))
}

// MaskRanges returns a copy of code with ranges zeroed, clipped to the code length
func MaskRanges(code []byte, ranges []models.CodeRange) []byte {
	masked := bytes.Clone(code)
	for _, r := range ranges {
		if r.Start < 0 || r.Start >= len(masked) {
			continue
		}
		end := min(r.Start+r.Length, len(masked))
		clear(masked[r.Start:end])
	}
	return masked
}
