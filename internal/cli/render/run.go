package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/trebuchet-org/exdeploy/internal/usecase"
)

// RunRenderer summarizes a deploy run
type RunRenderer struct {
	out io.Writer
}

// NewRunRenderer creates a new run renderer
func NewRunRenderer(out io.Writer) *RunRenderer {
	return &RunRenderer{out: out}
}

// RenderRunResult prints what was deployed, reused and verified
func (r *RunRenderer) RenderRunResult(result *usecase.RunDeploymentsResult) error {
	fmt.Fprintln(r.out)
	color.New(color.FgCyan, color.Bold).Fprintf(r.out, "Deployment summary for %s (chain %d)\n",
		result.Network.Name, result.Network.ChainID)
	fmt.Fprintf(r.out, "  Steps: %s\n", strings.Join(result.Steps, ", "))

	for _, d := range result.Deployments {
		action := "deployed"
		if !d.Newly {
			action = "reused"
		}
		fmt.Fprintf(r.out, "  %s %s at %s (%s)\n",
			contractStyle.Sprint(d.ContractName), action, addressStyle.Sprint(d.Address),
			statusStyle(d.Verification.Status).Sprint(statusTitle(d.Verification.Status)))
	}

	if !result.Gate.Open() {
		fmt.Fprintf(r.out, "  Verification skipped: %s\n", result.Gate.Reason())
	}
	return nil
}
