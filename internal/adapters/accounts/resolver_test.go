package accounts

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/exdeploy/internal/domain"
	"github.com/trebuchet-org/exdeploy/internal/domain/config"
)

var (
	dev0 = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	dev1 = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	dev2 = common.HexToAddress("0x3C44CdDdB6a900fa2b585dd299e03d12FA4293BC")

	treasury = common.HexToAddress("0x1111111111111111111111111111111111111111")
)

func newTestResolver(t *testing.T, cfg *config.ExdeployConfig) *Resolver {
	t.Helper()
	r, err := NewResolver(&config.RuntimeConfig{ExdeployConfig: cfg})
	require.NoError(t, err)
	return r
}

func testConfig() *config.ExdeployConfig {
	return &config.ExdeployConfig{
		Accounts: map[string]config.AccountConfig{
			"main": {
				Type:       config.AccountTypePrivateKey,
				PrivateKey: "0x" + DevAccountKeys[1],
			},
			"treasury": {
				Type:    config.AccountTypeAddress,
				Address: treasury.Hex(),
			},
		},
		NamedAccounts: map[string]map[string]string{
			"default": {"deployer": "main"},
			"sepolia": {"deployer": "treasury", "admin": dev2.Hex()},
		},
	}
}

func TestResolver_NamedAccounts(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *config.ExdeployConfig
		network string
		want    domain.NamedAccounts
	}{
		{
			name:    "dev fallback on hardhat",
			cfg:     nil,
			network: "hardhat",
			want:    domain.NamedAccounts{"deployer": dev0},
		},
		{
			name:    "dev fallback on localhost",
			cfg:     &config.ExdeployConfig{},
			network: "localhost",
			want:    domain.NamedAccounts{"deployer": dev0},
		},
		{
			name:    "no fallback on live networks",
			cfg:     nil,
			network: "mainnet",
			want:    domain.NamedAccounts{},
		},
		{
			name:    "default section",
			cfg:     testConfig(),
			network: "mainnet",
			want:    domain.NamedAccounts{"deployer": dev1},
		},
		{
			name:    "default section beats dev fallback",
			cfg:     testConfig(),
			network: "hardhat",
			want:    domain.NamedAccounts{"deployer": dev1},
		},
		{
			name:    "network section overrides default",
			cfg:     testConfig(),
			network: "sepolia",
			want:    domain.NamedAccounts{"deployer": treasury, "admin": dev2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestResolver(t, tt.cfg)
			got, err := r.NamedAccounts(context.Background(), tt.network)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolver_NamedAccounts_UnknownReference(t *testing.T) {
	r := newTestResolver(t, &config.ExdeployConfig{
		NamedAccounts: map[string]map[string]string{
			"default": {"deployer": "ghost"},
		},
	})

	_, err := r.NamedAccounts(context.Background(), "mainnet")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "named account deployer")
	assert.Contains(t, err.Error(), "account 'ghost' not found")
}

func TestResolver_Signer(t *testing.T) {
	r := newTestResolver(t, testConfig())

	key, err := r.Signer(context.Background(), dev1)
	require.NoError(t, err)
	assert.Equal(t, dev1, crypto.PubkeyToAddress(key.PublicKey))

	key, err = r.Signer(context.Background(), dev0)
	require.NoError(t, err)
	assert.Equal(t, dev0, crypto.PubkeyToAddress(key.PublicKey))

	_, err = r.Signer(context.Background(), treasury)
	assert.ErrorIs(t, err, domain.ErrNoSigner)
}

func TestResolver_FundedAccounts(t *testing.T) {
	r := newTestResolver(t, testConfig())
	assert.Equal(t, []common.Address{dev0, dev1, dev2}, r.FundedAccounts())

	other, err := crypto.GenerateKey()
	require.NoError(t, err)
	cfg := testConfig()
	cfg.Accounts["ops"] = config.AccountConfig{
		Type:       config.AccountTypePrivateKey,
		PrivateKey: common.Bytes2Hex(crypto.FromECDSA(other)),
	}

	r = newTestResolver(t, cfg)
	assert.Equal(t, []common.Address{dev0, dev1, dev2, crypto.PubkeyToAddress(other.PublicKey)}, r.FundedAccounts())
}

func TestNewResolver_InvalidAccounts(t *testing.T) {
	tests := []struct {
		name    string
		account config.AccountConfig
		wantErr string
	}{
		{
			name:    "empty private key",
			account: config.AccountConfig{Type: config.AccountTypePrivateKey},
			wantErr: "private key not configured",
		},
		{
			name:    "malformed private key",
			account: config.AccountConfig{Type: config.AccountTypePrivateKey, PrivateKey: "0xnotakey"},
			wantErr: "invalid private key",
		},
		{
			name: "address does not match key",
			account: config.AccountConfig{
				Type:       config.AccountTypePrivateKey,
				PrivateKey: DevAccountKeys[0],
				Address:    treasury.Hex(),
			},
			wantErr: "does not match private key",
		},
		{
			name:    "invalid address",
			account: config.AccountConfig{Type: config.AccountTypeAddress, Address: "0x1234"},
			wantErr: "invalid address",
		},
		{
			name:    "unsupported type",
			account: config.AccountConfig{Type: "ledger"},
			wantErr: "unsupported account type: ledger",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewResolver(&config.RuntimeConfig{
				ExdeployConfig: &config.ExdeployConfig{
					Accounts: map[string]config.AccountConfig{"bad": tt.account},
				},
			})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
