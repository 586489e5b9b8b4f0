package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trebuchet-org/exdeploy/internal/domain"
)

const exchangeArtifact = `{
  "abi": [{"inputs":[{"internalType":"address","name":"_CryptoDevtoken","type":"address"}],"stateMutability":"nonpayable","type":"constructor"}],
  "bytecode": {"object": "0x600a600c600039600a6000f3602a60005260206000f3", "linkReferences": {}},
  "deployedBytecode": {"object": "0x602a60005260206000f3"},
  "metadata": {
    "compiler": {"version": "0.8.19+commit.7dd6d404"},
    "settings": {"compilationTarget": {"src/Exchange.sol": "Exchange"}}
  }
}`

const sepoliaRecord = `{
  "contractName": "Exchange",
  "network": "sepolia",
  "chainId": 11155111,
  "address": "0x5FbDB2315678afecb367f032d93F642f64180aa3",
  "transactionHash": "0xabc",
  "args": ["0x0000000000000000000000000000000000000001"],
  "abi": [],
  "bytecode": "0x600a600c600039600a6000f3602a60005260206000f3",
  "artifact": {"path": "src/Exchange.sol"},
  "numDeployments": 1,
  "verification": {"status": "VERIFIED"}
}`

func init() {
	color.NoColor = true
}

func writeProjectFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

// newProject creates a contracts project in a temp dir and makes it the working directory
func newProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeProjectFile(t, root, "foundry.toml", "[rpc_endpoints]\nsepolia = \"http://127.0.0.1:1\"\n")
	writeProjectFile(t, root, "exdeploy.toml", "[networks.sepolia]\nchain_id = 11155111\n")
	writeProjectFile(t, root, "out/Exchange.sol/Exchange.json", exchangeArtifact)
	t.Setenv("EXDEPLOY_NETWORK", "")
	t.Setenv("ETHERSCAN_API_KEY", "")
	chdir(t, root)
	return root
}

// chdir changes the working directory for the duration of the test,
// like testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "exdeploy version dev\n", out)
}

func TestRootCmd_Commands(t *testing.T) {
	root := NewRootCmd()
	for _, name := range []string{"deploy", "verify", "list", "show", "networks", "version"} {
		cmd, _, err := root.Find([]string{name})
		require.NoError(t, err)
		assert.Equal(t, name, cmd.Name())
	}

	network := root.PersistentFlags().Lookup("network")
	require.NotNil(t, network)
	assert.Equal(t, "n", network.Shorthand)
	assert.Equal(t, domain.HardhatNetwork, network.DefValue)
}

func TestBindGlobalFlags(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("NO_COLOR", "")

	tests := []struct {
		name           string
		args           []string
		wantNetwork    string
		wantDebug      bool
		wantNonInterac bool
	}{
		{name: "defaults", args: nil, wantNetwork: domain.HardhatNetwork},
		{name: "network short flag", args: []string{"-n", "sepolia"}, wantNetwork: "sepolia"},
		{name: "debug", args: []string{"--debug"}, wantNetwork: domain.HardhatNetwork, wantDebug: true},
		{name: "non-interactive", args: []string{"--non-interactive"}, wantNetwork: domain.HardhatNetwork, wantNonInterac: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := &cobra.Command{Use: "test"}
			cmd.Flags().Bool("debug", false, "")
			cmd.Flags().Bool("non-interactive", false, "")
			cmd.Flags().StringP("network", "n", domain.HardhatNetwork, "")
			require.NoError(t, cmd.ParseFlags(tt.args))

			v := viper.New()
			v.SetDefault("network", domain.HardhatNetwork)
			bindGlobalFlags(v, cmd)

			assert.Equal(t, tt.wantNetwork, v.GetString("network"))
			assert.Equal(t, tt.wantDebug, v.GetBool("debug"))
			assert.Equal(t, tt.wantNonInterac, v.GetBool("non_interactive"))
		})
	}
}

func TestBindGlobalFlags_NoColorKeepsPrompts(t *testing.T) {
	t.Setenv("CI", "")
	t.Setenv("NO_COLOR", "1")

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().Bool("non-interactive", false, "")
	v := viper.New()
	bindGlobalFlags(v, cmd)

	assert.False(t, v.GetBool("non_interactive"))
}

func TestBindGlobalFlags_CI(t *testing.T) {
	t.Setenv("CI", "true")

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().Bool("non-interactive", false, "")
	v := viper.New()
	bindGlobalFlags(v, cmd)

	assert.True(t, v.GetBool("non_interactive"))
}

func TestUnknownNetworkSuggestsClosestMatch(t *testing.T) {
	newProject(t)

	_, err := execute(t, "list", "-n", "sepola")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownNetwork)
	assert.Equal(t, "network 'sepola' is not configured (did you mean sepolia?)", err.Error())
}

func TestDeployCmd_Hardhat(t *testing.T) {
	newProject(t)

	out, err := execute(t, "deploy", "--non-interactive")
	require.NoError(t, err)

	assert.Contains(t, out, `deploying "Exchange"`)
	assert.Contains(t, out, "deployed at 0x5FbDB2315678afecb367f032d93F642f64180aa3")
	assert.Contains(t, out, "----------------------")
	assert.Contains(t, out, "Deployment summary for hardhat (chain 1337)")
	assert.Contains(t, out, "Verification skipped: development network")
}

func TestDeployCmd_NonInteractivePublicNetworkNeedsYes(t *testing.T) {
	newProject(t)

	out, err := execute(t, "deploy", "-n", "sepolia", "--non-interactive")
	require.NoError(t, err)

	assert.Contains(t, out, "Deployment cancelled")
	assert.NotContains(t, out, "deploying")
}

func TestDeployCmd_NoMatchingTags(t *testing.T) {
	newProject(t)

	out, err := execute(t, "deploy", "--non-interactive", "--tags", "Token")
	assert.EqualError(t, err, "no deploy steps match tags [Token]")
	assert.NotContains(t, out, "deploying")
}

func TestListCmd(t *testing.T) {
	root := newProject(t)
	writeProjectFile(t, root, "deployments/sepolia/.chainId", "11155111")
	writeProjectFile(t, root, "deployments/sepolia/Exchange.json", sepoliaRecord)

	t.Run("json", func(t *testing.T) {
		out, err := execute(t, "list", "-n", "sepolia", "--format", "json")
		require.NoError(t, err)

		var views []map[string]any
		require.NoError(t, json.Unmarshal([]byte(out), &views))
		require.Len(t, views, 1)
		assert.Equal(t, "sepolia/Exchange", views[0]["id"])
		assert.Equal(t, "VERIFIED", views[0]["verification"])
	})

	t.Run("table", func(t *testing.T) {
		out, err := execute(t, "list", "--all")
		require.NoError(t, err)
		assert.Contains(t, out, "sepolia (chain 11155111)")
		assert.Contains(t, out, "Total deployments: 1 (1 verified)")
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := execute(t, "list", "--format", "xml")
		assert.EqualError(t, err, "invalid format: xml (valid: table, json, yaml)")
	})
}

func TestShowCmd(t *testing.T) {
	root := newProject(t)
	writeProjectFile(t, root, "deployments/sepolia/.chainId", "11155111")
	writeProjectFile(t, root, "deployments/sepolia/Exchange.json", sepoliaRecord)

	out, err := execute(t, "show", "Exchange", "-n", "sepolia")
	require.NoError(t, err)
	assert.Contains(t, out, "Deployment: sepolia/Exchange")
	assert.Contains(t, out, "Status: Verified")

	out, err = execute(t, "show", "0x5fbdb2315678afecb367f032d93f642f64180aa3", "-n", "sepolia", "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"transactionHash": "0xabc"`)

	_, err = execute(t, "show", "Token", "-n", "sepolia")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestVerifyCmd_DevelopmentNetwork(t *testing.T) {
	newProject(t)
	t.Setenv("ETHERSCAN_API_KEY", "KEY")

	_, err := execute(t, "verify", "Exchange")
	assert.ErrorIs(t, err, domain.ErrVerificationDisabled)
}

func TestNetworksCmd(t *testing.T) {
	newProject(t)

	out, err := execute(t, "networks")
	require.NoError(t, err)
	assert.Contains(t, out, "hardhat (active) - Chain ID: 1337 [dev]")
	assert.Contains(t, out, "sepolia - Chain ID: 11155111")
}
