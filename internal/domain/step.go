package domain

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/trebuchet-org/exdeploy/internal/domain/models"
)

// DeployerRole is the named account that pays for deployments
const DeployerRole = "deployer"

// DeployOptions mirrors the options object handed to deploy(name, options)
type DeployOptions struct {
	From common.Address
	Log  bool
	Args []any
}

// Deployments is the capability a step uses to publish contracts
type Deployments interface {
	Deploy(ctx context.Context, name string, opts DeployOptions) (*models.Deployment, error)
	Log(format string, args ...any)
}

// NamedAccounts maps a role (e.g. "deployer") to its address
type NamedAccounts map[string]common.Address

// Get returns the address for role or ErrUnknownNamedAccount
func (n NamedAccounts) Get(role string) (common.Address, error) {
	addr, ok := n[role]
	if !ok {
		return common.Address{}, fmt.Errorf("%w: %s", ErrUnknownNamedAccount, role)
	}
	return addr, nil
}

// NamedAccountsFunc resolves the named accounts of the active network
type NamedAccountsFunc func(ctx context.Context) (NamedAccounts, error)

// VerifyFunc submits source verification for a deployed contract
type VerifyFunc func(ctx context.Context, address string, args []any) error

// StepEnv is everything the runner hands to a deploy step
type StepEnv struct {
	Deployments      Deployments
	GetNamedAccounts NamedAccountsFunc
	Network          string
	ChainID          uint64
	Gate             VerificationGate
	Verify           VerifyFunc
}
