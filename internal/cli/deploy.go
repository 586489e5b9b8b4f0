package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/trebuchet-org/exdeploy/internal/cli/render"
	"github.com/trebuchet-org/exdeploy/internal/domain"
	"github.com/trebuchet-org/exdeploy/internal/usecase"
)

// NewDeployCmd creates the deploy command
func NewDeployCmd() *cobra.Command {
	var (
		tags []string
		yes  bool
	)

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Run the deploy steps against the selected network",
		Long: `Run every deploy step, or only those carrying one of --tags, against the
selected network. Contracts whose bytecode and constructor arguments are
unchanged are reused. Outside hardhat and localhost the source is verified
when ETHERSCAN_API_KEY is set.`,
		Example: `  # Deploy to the in-process hardhat chain
  exdeploy deploy

  # Deploy the Exchange to sepolia without confirmation
  exdeploy deploy -n sepolia --tags Exchange --yes`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.RunDeployments.Run(cmd.Context(), usecase.RunDeploymentsParams{
				Tags:        tags,
				SkipConfirm: yes,
				Out:         cmd.OutOrStdout(),
			})
			if errors.Is(err, domain.ErrAborted) {
				fmt.Fprintln(cmd.OutOrStdout(), render.FormatWarning("Deployment cancelled"))
				return nil
			}
			if err != nil {
				return err
			}

			return render.NewRunRenderer(cmd.OutOrStdout()).RenderRunResult(result)
		},
	}

	cmd.Flags().StringSliceVar(&tags, "tags", nil, "Only run steps with one of these tags (comma separated)")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip the confirmation prompt on public networks")

	return cmd
}
