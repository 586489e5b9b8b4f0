package config

// AccountType distinguishes how an account signs
type AccountType string

const (
	AccountTypePrivateKey AccountType = "private_key"
	AccountTypeAddress    AccountType = "address"
)

// AccountConfig represents a named signing entity in [accounts.*] sections.
type AccountConfig struct {
	Type       AccountType `toml:"type"`
	Address    string      `toml:"address,omitempty"`
	PrivateKey string      `toml:"private_key,omitempty"` //nolint:gosec // holds env var reference, not a literal secret
}

// NetworkConfig is a [networks.<name>] override
type NetworkConfig struct {
	URL      string `toml:"url,omitempty"`
	ChainID  uint64 `toml:"chain_id,omitempty"`
	Explorer string `toml:"explorer,omitempty"`
}

// VerifyConfig is the [verify] section
type VerifyConfig struct {
	Verifiers []string `toml:"verifiers,omitempty"`
}

// ExdeployConfig represents exdeploy.toml.
//
//	[accounts.main]
//	type = "private_key"
//	private_key = "${PRIVATE_KEY}"
//
//	[named_accounts.default]
//	deployer = "main"
type ExdeployConfig struct {
	Accounts      map[string]AccountConfig     `toml:"accounts"`
	NamedAccounts map[string]map[string]string `toml:"named_accounts"` // network|"default" -> role -> account
	Networks      map[string]NetworkConfig     `toml:"networks"`
	Verify        VerifyConfig                 `toml:"verify"`
}

// DefaultVerifiers is used when [verify] is absent
var DefaultVerifiers = []string{"etherscan"}
