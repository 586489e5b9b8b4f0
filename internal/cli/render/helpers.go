package render

import (
	"strings"

	"github.com/fatih/color"
	"github.com/trebuchet-org/exdeploy/internal/domain/models"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	verifiedStyle    = color.New(color.FgGreen)
	notVerifiedStyle = color.New(color.FgRed)
	pendingStyle     = color.New(color.FgYellow)
	addressStyle     = color.New(color.FgWhite)
	timestampStyle   = color.New(color.Faint)
	contractStyle    = color.New(color.FgGreen, color.Bold)
	networkHeader    = color.New(color.BgCyan, color.FgBlack)
	networkBold      = color.New(color.BgCyan, color.FgBlack, color.Bold)
)

// FormatWarning formats a warning message with the warning icon
func FormatWarning(message string) string {
	return color.New(color.FgYellow).Sprintf("⚠️  %s", message)
}

// statusTitle turns "UNVERIFIED" into "Unverified"
func statusTitle(status models.VerificationStatus) string {
	if status == "" {
		status = models.VerificationStatusUnverified
	}
	return cases.Title(language.English).String(strings.ToLower(string(status)))
}

func statusStyle(status models.VerificationStatus) *color.Color {
	switch status {
	case models.VerificationStatusVerified:
		return verifiedStyle
	case models.VerificationStatusPartial:
		return pendingStyle
	default:
		return notVerifiedStyle
	}
}

// verifierIcon renders the per-verifier marker used in lists
func verifierIcon(status string) string {
	switch status {
	case "verified":
		return verifiedStyle.Sprint("✓")
	case "failed":
		return notVerifiedStyle.Sprint("✗")
	default:
		return "?"
	}
}
