package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrNotFound is returned when a requested resource doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrInvalidAddress is returned when an Ethereum address is invalid
	ErrInvalidAddress = errors.New("invalid address")

	// ErrMissingAddress is returned when a deploy call succeeded but produced no usable address
	ErrMissingAddress = errors.New("deployment returned no address")

	// ErrArtifactNotFound is returned when no compiled artifact exists for a contract
	ErrArtifactNotFound = errors.New("artifact not found")

	// ErrUnknownNamedAccount is returned when a named account role is not configured
	ErrUnknownNamedAccount = errors.New("unknown named account")

	// ErrNoSigner is returned when an account has no private key to sign with
	ErrNoSigner = errors.New("account has no signer")

	// ErrChainIDMismatch is returned when the RPC reports a different chain than configured
	ErrChainIDMismatch = errors.New("chain ID mismatch")

	// ErrVerificationDisabled is returned when verification is requested but the gate is closed
	ErrVerificationDisabled = errors.New("verification disabled")

	// ErrVerificationFailed is returned when contract verification fails
	ErrVerificationFailed = errors.New("verification failed")

	// ErrAborted is returned when the user declines to broadcast
	ErrAborted = errors.New("aborted by user")

	// ErrUnknownNetwork is matched by UnknownNetworkError
	ErrUnknownNetwork = errors.New("unknown network")
)

// UnknownNetworkError is returned when a network name cannot be resolved.
// Suggestions holds close matches among the configured networks.
type UnknownNetworkError struct {
	Name        string
	Suggestions []string
}

func (e UnknownNetworkError) Error() string {
	msg := fmt.Sprintf("network '%s' is not configured", e.Name)
	if len(e.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(e.Suggestions, ", "))
	}
	return msg
}

func (e UnknownNetworkError) Is(target error) bool {
	return target == ErrUnknownNetwork
}
