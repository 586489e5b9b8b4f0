package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/trebuchet-org/exdeploy/internal/domain/models"
)

// DeploymentRenderer renders detailed information about a single deployment
type DeploymentRenderer struct {
	out io.Writer
}

// NewDeploymentRenderer creates a new deployment renderer
func NewDeploymentRenderer(out io.Writer) *DeploymentRenderer {
	return &DeploymentRenderer{out: out}
}

// RenderJSON writes the stored record as indented JSON
func (r *DeploymentRenderer) RenderJSON(deployment *models.Deployment) error {
	data, err := json.MarshalIndent(deployment, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, string(data))
	return nil
}

// RenderDeployment renders detailed deployment information
func (r *DeploymentRenderer) RenderDeployment(deployment *models.Deployment) error {
	color.New(color.FgCyan, color.Bold).Fprintf(r.out, "Deployment: %s\n", deployment.ID())
	fmt.Fprintln(r.out, strings.Repeat("=", 80))

	fmt.Fprintln(r.out, "\nBasic Information:")
	fmt.Fprintf(r.out, "  Contract: %s\n", color.New(color.FgYellow).Sprint(deployment.ContractName))
	fmt.Fprintf(r.out, "  Address: %s\n", deployment.Address)
	fmt.Fprintf(r.out, "  Network: %s (chain %d)\n", deployment.Network, deployment.ChainID)
	if deployment.Deployer != "" {
		fmt.Fprintf(r.out, "  Deployer: %s\n", deployment.Deployer)
	}
	if deployment.NumDeployments > 1 {
		fmt.Fprintf(r.out, "  Deployments: %d\n", deployment.NumDeployments)
	}

	if len(deployment.Args) > 0 {
		fmt.Fprintln(r.out, "\nConstructor Arguments:")
		for i, arg := range deployment.Args {
			fmt.Fprintf(r.out, "  [%d] %s\n", i, arg)
		}
	}

	fmt.Fprintln(r.out, "\nArtifact Information:")
	fmt.Fprintf(r.out, "  Path: %s\n", deployment.Artifact.Path)
	if deployment.Artifact.CompilerVersion != "" {
		fmt.Fprintf(r.out, "  Compiler: %s\n", deployment.Artifact.CompilerVersion)
	}
	if deployment.Artifact.ArtifactPath != "" {
		fmt.Fprintf(r.out, "  Artifact: %s\n", deployment.Artifact.ArtifactPath)
	}

	fmt.Fprintln(r.out, "\nVerification Status:")
	status := deployment.Verification.Status
	fmt.Fprintf(r.out, "  Status: %s\n", statusStyle(status).Sprint(statusTitle(status)))
	if deployment.Verification.Reason != "" {
		fmt.Fprintf(r.out, "  Reason: %s\n", deployment.Verification.Reason)
	}
	if deployment.Verification.EtherscanURL != "" {
		fmt.Fprintf(r.out, "  Etherscan: %s\n", deployment.Verification.EtherscanURL)
	}
	if deployment.Verification.VerifiedAt != nil {
		fmt.Fprintf(r.out, "  Verified At: %s\n", deployment.Verification.VerifiedAt.Format("2006-01-02 15:04:05"))
	}
	if len(deployment.Verification.Verifiers) > 0 {
		names := make([]string, 0, len(deployment.Verification.Verifiers))
		for name := range deployment.Verification.Verifiers {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			v := deployment.Verification.Verifiers[name]
			line := fmt.Sprintf("  %s %s", verifierIcon(v.Status), name)
			if v.URL != "" {
				line += ": " + v.URL
			} else if v.Reason != "" {
				line += ": " + v.Reason
			}
			fmt.Fprintln(r.out, line)
		}
	}

	if deployment.TransactionHash != "" {
		fmt.Fprintln(r.out, "\nTransaction Information:")
		fmt.Fprintf(r.out, "  Hash: %s\n", deployment.TransactionHash)
		if deployment.Receipt != nil {
			fmt.Fprintf(r.out, "  Block: %d\n", deployment.Receipt.BlockNumber)
			fmt.Fprintf(r.out, "  Gas Used: %d\n", deployment.Receipt.GasUsed)
		}
	}

	if !deployment.CreatedAt.IsZero() {
		fmt.Fprintln(r.out, "\nTimestamps:")
		fmt.Fprintf(r.out, "  Created: %s\n", deployment.CreatedAt.Format("2006-01-02 15:04:05"))
		if !deployment.UpdatedAt.IsZero() {
			fmt.Fprintf(r.out, "  Updated: %s\n", deployment.UpdatedAt.Format("2006-01-02 15:04:05"))
		}
	}

	return nil
}
