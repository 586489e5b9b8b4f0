package render

import (
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/trebuchet-org/exdeploy/internal/domain/models"
	"github.com/trebuchet-org/exdeploy/internal/usecase"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// VerifyRenderer handles rendering of verification results
type VerifyRenderer struct {
	out io.Writer
}

// NewVerifyRenderer creates a new verify renderer
func NewVerifyRenderer(out io.Writer) *VerifyRenderer {
	return &VerifyRenderer{out: out}
}

// RenderVerifyResult renders the result of verifying a specific deployment
func (r *VerifyRenderer) RenderVerifyResult(result *usecase.VerifyDeploymentResult) error {
	deployment := result.Deployment

	if result.Skipped {
		color.New(color.FgYellow).Fprintf(r.out, "Contract %s is already verified. Use --force to re-verify.\n", deployment.ID())
		return nil
	}

	if deployment.IsVerified() {
		color.New(color.FgGreen).Fprintln(r.out, "✓ Verification completed successfully!")
	} else {
		color.New(color.FgRed).Fprintf(r.out, "✗ Verification of %s: %s\n", deployment.ID(), statusTitle(deployment.Verification.Status))
	}
	r.showVerificationStatus(deployment)
	return nil
}

// showVerificationStatus displays the per-verifier outcome
func (r *VerifyRenderer) showVerificationStatus(deployment *models.Deployment) {
	if len(deployment.Verification.Verifiers) == 0 {
		return
	}

	names := make([]string, 0, len(deployment.Verification.Verifiers))
	for name := range deployment.Verification.Verifiers {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(r.out, "\nVerification Status:")
	for _, verifier := range names {
		status := deployment.Verification.Verifiers[verifier]
		title := cases.Title(language.English).String(verifier)
		switch status.Status {
		case "verified":
			color.New(color.FgGreen).Fprintf(r.out, "  %s: ✓ Verified", title)
			if status.URL != "" {
				fmt.Fprintf(r.out, " - %s", status.URL)
			}
			fmt.Fprintln(r.out)
		case "failed":
			color.New(color.FgRed).Fprintf(r.out, "  %s: ✗ Failed", title)
			if status.Reason != "" {
				fmt.Fprintf(r.out, " - %s", status.Reason)
			}
			fmt.Fprintln(r.out)
		}
	}
}
