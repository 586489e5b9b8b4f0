package deploy

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/exdeploy/internal/constants"
	"github.com/trebuchet-org/exdeploy/internal/domain"
	"github.com/trebuchet-org/exdeploy/internal/domain/models"
)

var (
	testDeployer = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	testExchange = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
)

type deployCall struct {
	name string
	opts domain.DeployOptions
}

type verifyCall struct {
	address string
	args    []any
}

// mockDeployments records every call made by a step
type mockDeployments struct {
	deployFunc func(ctx context.Context, name string, opts domain.DeployOptions) (*models.Deployment, error)
	deploys    []deployCall
	logs       []string
}

func (m *mockDeployments) Deploy(ctx context.Context, name string, opts domain.DeployOptions) (*models.Deployment, error) {
	m.deploys = append(m.deploys, deployCall{name: name, opts: opts})
	if m.deployFunc != nil {
		return m.deployFunc(ctx, name, opts)
	}
	return &models.Deployment{ContractName: name, Address: testExchange.Hex(), Newly: true}, nil
}

func (m *mockDeployments) Log(format string, args ...any) {
	m.logs = append(m.logs, fmt.Sprintf(format, args...))
}

type harness struct {
	deployments *mockDeployments
	verifies    []verifyCall
	env         *domain.StepEnv
}

func newHarness(network, apiKey string) *harness {
	h := &harness{deployments: &mockDeployments{}}
	h.env = &domain.StepEnv{
		Deployments: h.deployments,
		GetNamedAccounts: func(ctx context.Context) (domain.NamedAccounts, error) {
			return domain.NamedAccounts{domain.DeployerRole: testDeployer}, nil
		},
		Network: network,
		Gate:    domain.NewVerificationGate(network, apiKey),
		Verify: func(ctx context.Context, address string, args []any) error {
			h.verifies = append(h.verifies, verifyCall{address: address, args: args})
			return nil
		},
	}
	return h
}

func TestDeployExchange_VerificationGate(t *testing.T) {
	tests := []struct {
		name       string
		network    string
		apiKey     string
		wantVerify bool
	}{
		{name: "hardhat with key", network: "hardhat", apiKey: "KEY", wantVerify: false},
		{name: "hardhat without key", network: "hardhat", apiKey: "", wantVerify: false},
		{name: "localhost with key", network: "localhost", apiKey: "KEY", wantVerify: false},
		{name: "localhost without key", network: "localhost", apiKey: "", wantVerify: false},
		{name: "mainnet with key", network: "mainnet", apiKey: "KEY", wantVerify: true},
		{name: "mainnet without key", network: "mainnet", apiKey: "", wantVerify: false},
		{name: "sepolia with key", network: "sepolia", apiKey: "KEY", wantVerify: true},
		{name: "sepolia without key", network: "sepolia", apiKey: "", wantVerify: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(tt.network, tt.apiKey)

			err := DeployExchange(context.Background(), h.env)
			require.NoError(t, err)

			require.Len(t, h.deployments.deploys, 1)
			if tt.wantVerify {
				require.Len(t, h.verifies, 1)
			} else {
				assert.Empty(t, h.verifies)
			}
		})
	}
}

func TestDeployExchange_MainnetScenario(t *testing.T) {
	h := newHarness("mainnet", "KEY")

	require.NoError(t, DeployExchange(context.Background(), h.env))

	require.Len(t, h.deployments.deploys, 1)
	call := h.deployments.deploys[0]
	assert.Equal(t, "Exchange", call.name)
	assert.Equal(t, testDeployer, call.opts.From)
	assert.True(t, call.opts.Log)
	assert.Equal(t, []any{constants.CryptoDevToken()}, call.opts.Args)

	require.Len(t, h.verifies, 1)
	assert.Equal(t, testExchange.Hex(), h.verifies[0].address)
	assert.Equal(t, []any{constants.CryptoDevToken()}, h.verifies[0].args)
}

func TestDeployExchange_SingleTokenArgument(t *testing.T) {
	for _, network := range []string{"hardhat", "localhost", "sepolia", "mainnet"} {
		t.Run(network, func(t *testing.T) {
			h := newHarness(network, "")
			require.NoError(t, DeployExchange(context.Background(), h.env))

			args := h.deployments.deploys[0].opts.Args
			require.Len(t, args, 1)
			assert.Equal(t, common.HexToAddress(constants.CryptoDevTokenContractAddress), args[0])
		})
	}
}

func TestDeployExchange_LogsSeparatorAfterDeploy(t *testing.T) {
	h := newHarness("hardhat", "")
	require.NoError(t, DeployExchange(context.Background(), h.env))
	assert.Equal(t, []string{Separator}, h.deployments.logs)
}

func TestDeployExchange_DeployErrorPropagates(t *testing.T) {
	boom := errors.New("insufficient funds for gas * price + value")
	h := newHarness("mainnet", "KEY")
	h.deployments.deployFunc = func(context.Context, string, domain.DeployOptions) (*models.Deployment, error) {
		return nil, boom
	}

	err := DeployExchange(context.Background(), h.env)

	assert.ErrorIs(t, err, boom)
	assert.Empty(t, h.verifies)
	assert.Empty(t, h.deployments.logs)
}

func TestDeployExchange_MissingAddress(t *testing.T) {
	tests := []struct {
		name   string
		result *models.Deployment
	}{
		{name: "nil record", result: nil},
		{name: "empty address", result: &models.Deployment{ContractName: "Exchange"}},
		{name: "zero address", result: &models.Deployment{ContractName: "Exchange", Address: common.Address{}.Hex()}},
		{name: "malformed address", result: &models.Deployment{ContractName: "Exchange", Address: "0x1234"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness("mainnet", "KEY")
			h.deployments.deployFunc = func(context.Context, string, domain.DeployOptions) (*models.Deployment, error) {
				return tt.result, nil
			}

			err := DeployExchange(context.Background(), h.env)

			assert.ErrorIs(t, err, domain.ErrMissingAddress)
			assert.Equal(t, []string{Separator}, h.deployments.logs)
			assert.Empty(t, h.verifies)
		})
	}
}

func TestDeployExchange_UnknownDeployer(t *testing.T) {
	h := newHarness("hardhat", "")
	h.env.GetNamedAccounts = func(context.Context) (domain.NamedAccounts, error) {
		return domain.NamedAccounts{"admin": testDeployer}, nil
	}

	err := DeployExchange(context.Background(), h.env)

	assert.ErrorIs(t, err, domain.ErrUnknownNamedAccount)
	assert.Empty(t, h.deployments.deploys)
}

func TestDeployExchange_VerifyErrorPropagates(t *testing.T) {
	h := newHarness("sepolia", "KEY")
	h.env.Verify = func(ctx context.Context, address string, args []any) error {
		return context.Canceled
	}

	err := DeployExchange(context.Background(), h.env)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSelect(t *testing.T) {
	steps := Steps()

	assert.Len(t, Select(steps, nil), len(steps))
	assert.Len(t, Select(steps, []string{"Exchange"}), 1)
	assert.Len(t, Select(steps, []string{"all"}), 1)
	assert.Empty(t, Select(steps, []string{"token"}))
}
