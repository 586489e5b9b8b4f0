package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/exdeploy/internal/cli/render"
)

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "networks",
		Short: "List available networks",
		Long: `List hardhat, localhost, every network in the [rpc_endpoints] section of
foundry.toml and every [networks.<name>] entry of exdeploy.toml, with their chain IDs.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListNetworks.Run(cmd.Context())
			if err != nil {
				return err
			}

			return render.NewNetworksRenderer(cmd.OutOrStdout(), app.Config.Network.Name).RenderNetworksList(result)
		},
	}

	return cmd
}
