package accounts

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"sort"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/samber/lo"
	"github.com/trebuchet-org/exdeploy/internal/domain"
	"github.com/trebuchet-org/exdeploy/internal/domain/config"
	"github.com/trebuchet-org/exdeploy/internal/usecase"
)

// DefaultNamedAccountsKey holds roles shared by every network in [named_accounts.default]
const DefaultNamedAccountsKey = "default"

// DevAccountKeys are the well-known keys of the standard test mnemonic.
// They are funded on the in-process chain and by local dev nodes.
var DevAccountKeys = []string{
	"ac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80",
	"59c6995e998f97a5a0044966f0945389dc9e86dae88c7a8412f4603b6b78690d",
	"5de4111afa1a4b94908f83103eb1f1706367c2e68ca870fc3fb9a804cdab365a",
}

// account is a parsed [accounts.*] entry
type account struct {
	name    string
	address common.Address
	key     *ecdsa.PrivateKey
}

// Resolver resolves named accounts and signing keys from exdeploy.toml
type Resolver struct {
	named    map[string]map[string]string
	accounts map[string]*account
	dev      []*account
}

// NewResolver parses the configured accounts. Invalid keys or mismatched addresses are rejected up front.
func NewResolver(cfg *config.RuntimeConfig) (*Resolver, error) {
	r := &Resolver{
		named:    make(map[string]map[string]string),
		accounts: make(map[string]*account),
	}

	if cfg.ExdeployConfig != nil {
		r.named = cfg.ExdeployConfig.NamedAccounts
		for name, acct := range cfg.ExdeployConfig.Accounts {
			parsed, err := parseAccount(name, acct)
			if err != nil {
				return nil, err
			}
			r.accounts[name] = parsed
		}
	}

	for i, hexKey := range DevAccountKeys {
		parsed, err := parseAccount(fmt.Sprintf("dev%d", i), config.AccountConfig{
			Type:       config.AccountTypePrivateKey,
			PrivateKey: hexKey,
		})
		if err != nil {
			return nil, err
		}
		r.dev = append(r.dev, parsed)
	}

	return r, nil
}

func parseAccount(name string, cfg config.AccountConfig) (*account, error) {
	acct := &account{name: name}

	switch cfg.Type {
	case config.AccountTypePrivateKey:
		if cfg.PrivateKey == "" {
			return nil, fmt.Errorf("account %s: private key not configured", name)
		}
		key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
		if err != nil {
			return nil, fmt.Errorf("account %s: invalid private key: %w", name, err)
		}
		acct.key = key
		acct.address = crypto.PubkeyToAddress(key.PublicKey)

		if cfg.Address != "" && !strings.EqualFold(cfg.Address, acct.address.Hex()) {
			return nil, fmt.Errorf("account %s: address %s does not match private key (%s)", name, cfg.Address, acct.address.Hex())
		}

	case config.AccountTypeAddress:
		if !common.IsHexAddress(cfg.Address) {
			return nil, fmt.Errorf("account %s: %w: %q", name, domain.ErrInvalidAddress, cfg.Address)
		}
		acct.address = common.HexToAddress(cfg.Address)

	default:
		return nil, fmt.Errorf("account %s: unsupported account type: %s", name, cfg.Type)
	}

	return acct, nil
}

// NamedAccounts merges [named_accounts.default] with the network's own section.
// On development networks the deployer falls back to the first dev account.
func (r *Resolver) NamedAccounts(ctx context.Context, network string) (domain.NamedAccounts, error) {
	roles := lo.Assign(r.named[DefaultNamedAccountsKey], r.named[network])

	result := make(domain.NamedAccounts, len(roles))
	for role, ref := range roles {
		addr, err := r.lookup(ref)
		if err != nil {
			return nil, fmt.Errorf("named account %s: %w", role, err)
		}
		result[role] = addr
	}

	if _, ok := result[domain.DeployerRole]; !ok && domain.IsDevelopmentNetwork(network) {
		result[domain.DeployerRole] = r.dev[0].address
	}

	return result, nil
}

// lookup resolves a named account reference: an [accounts.*] name or a literal address
func (r *Resolver) lookup(ref string) (common.Address, error) {
	if acct, ok := r.accounts[ref]; ok {
		return acct.address, nil
	}
	if common.IsHexAddress(ref) {
		return common.HexToAddress(ref), nil
	}
	return common.Address{}, fmt.Errorf("account '%s' not found in [accounts]", ref)
}

// Signer returns the private key controlling address
func (r *Resolver) Signer(ctx context.Context, address common.Address) (*ecdsa.PrivateKey, error) {
	for _, acct := range r.sorted() {
		if acct.key != nil && acct.address == address {
			return acct.key, nil
		}
	}
	for _, acct := range r.dev {
		if acct.address == address {
			return acct.key, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrNoSigner, address.Hex())
}

// FundedAccounts lists the dev accounts followed by every configured key account
func (r *Resolver) FundedAccounts() []common.Address {
	funded := lo.Map(r.dev, func(a *account, _ int) common.Address { return a.address })
	for _, acct := range r.sorted() {
		if acct.key != nil {
			funded = append(funded, acct.address)
		}
	}
	return lo.Uniq(funded)
}

func (r *Resolver) sorted() []*account {
	names := lo.Keys(r.accounts)
	sort.Strings(names)
	return lo.Map(names, func(name string, _ int) *account { return r.accounts[name] })
}

var _ usecase.AccountResolver = (*Resolver)(nil)
