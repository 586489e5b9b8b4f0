package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/exdeploy/internal/cli/render"
	"github.com/trebuchet-org/exdeploy/internal/usecase"
)

// NewShowCmd creates the show command
func NewShowCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "show [contract|address]",
		Short: "Show detailed deployment information",
		Long: `Show the recorded deployment of a contract on the selected network.

You can specify deployments using:
- Contract name: "Exchange"
- Contract address: "0x5FbDB2315678afecb367f032d93F642f64180aa3"

Without an argument a deployment is picked interactively.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.ShowDeploymentParams{}
			if len(args) > 0 {
				params.Identifier = args[0]
			}

			deployment, err := app.ShowDeployment.Run(cmd.Context(), params)
			if err != nil {
				return err
			}

			renderer := render.NewDeploymentRenderer(cmd.OutOrStdout())
			if jsonOutput {
				return renderer.RenderJSON(deployment)
			}
			return renderer.RenderDeployment(deployment)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Print the stored record as JSON")

	return cmd
}
