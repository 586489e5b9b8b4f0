package cli

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/exdeploy/internal/cli/render"
	"github.com/trebuchet-org/exdeploy/internal/usecase"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	var (
		all          bool
		contractName string
		format       string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List recorded deployments",
		Long: `List the deployments recorded for the selected network, or for every
network with --all.`,
		Example: `  # List deployments on sepolia
  exdeploy list -n sepolia

  # Every network, as yaml
  exdeploy list --all --format yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !lo.Contains(render.Formats, format) {
				return fmt.Errorf("invalid format: %s (valid: %s)", format, strings.Join(render.Formats, ", "))
			}

			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListDeployments.Run(cmd.Context(), usecase.ListDeploymentsParams{
				AllNetworks:  all,
				ContractName: contractName,
			})
			if err != nil {
				return err
			}

			return render.NewDeploymentsRenderer(cmd.OutOrStdout()).RenderDeploymentList(result, format)
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "List deployments on every network")
	cmd.Flags().StringVar(&contractName, "contract", "", "Filter by contract name")
	cmd.Flags().StringVar(&format, "format", render.FormatTable, "Output format (table, json, yaml)")

	return cmd
}
