package cli

import (
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/exdeploy/internal/cli/render"
	"github.com/trebuchet-org/exdeploy/internal/usecase"
)

// NewVerifyCmd creates the verify command
func NewVerifyCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "verify [contract]",
		Short: "Verify a recorded deployment on the block explorer",
		Long: `Submit source verification for a deployment recorded on the selected network.
Development networks are never verified, and ETHERSCAN_API_KEY must be set.
Without a contract name a deployment is picked interactively.`,
		Example: `  exdeploy verify Exchange -n sepolia
  exdeploy verify Exchange -n sepolia --force  # Re-verify even if already verified`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			params := usecase.VerifyDeploymentParams{Force: force}
			if len(args) > 0 {
				params.ContractName = args[0]
			}

			result, err := app.VerifyDeployment.Run(cmd.Context(), params)
			if result != nil {
				if renderErr := render.NewVerifyRenderer(cmd.OutOrStdout()).RenderVerifyResult(result); renderErr != nil {
					return renderErr
				}
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Re-verify even if already verified")

	return cmd
}
