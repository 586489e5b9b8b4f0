package render

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/samber/lo"
	"github.com/trebuchet-org/exdeploy/internal/domain/models"
	"github.com/trebuchet-org/exdeploy/internal/usecase"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by `list --format`
const (
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// Formats lists the supported list output formats
var Formats = []string{FormatTable, FormatJSON, FormatYAML}

// DeploymentView is the serialized shape of a deployment in json/yaml listings
type DeploymentView struct {
	ID           string     `json:"id" yaml:"id"`
	Network      string     `json:"network" yaml:"network"`
	ChainID      uint64     `json:"chainId" yaml:"chainId"`
	Contract     string     `json:"contract" yaml:"contract"`
	Address      string     `json:"address" yaml:"address"`
	Transaction  string     `json:"transactionHash,omitempty" yaml:"transactionHash,omitempty"`
	Deployer     string     `json:"deployer,omitempty" yaml:"deployer,omitempty"`
	Args         []string   `json:"args" yaml:"args"`
	Verification string     `json:"verification" yaml:"verification"`
	ExplorerURL  string     `json:"explorerUrl,omitempty" yaml:"explorerUrl,omitempty"`
	CreatedAt    *time.Time `json:"createdAt,omitempty" yaml:"createdAt,omitempty"`
}

// NewDeploymentView flattens a deployment for serialization
func NewDeploymentView(d *models.Deployment) DeploymentView {
	status := d.Verification.Status
	if status == "" {
		status = models.VerificationStatusUnverified
	}
	view := DeploymentView{
		ID:           d.ID(),
		Network:      d.Network,
		ChainID:      d.ChainID,
		Contract:     d.ContractName,
		Address:      d.Address,
		Transaction:  d.TransactionHash,
		Deployer:     d.Deployer,
		Args:         d.Args,
		Verification: string(status),
		ExplorerURL:  d.Verification.EtherscanURL,
	}
	if view.Args == nil {
		view.Args = []string{}
	}
	if !d.CreatedAt.IsZero() {
		created := d.CreatedAt.UTC()
		view.CreatedAt = &created
	}
	return view
}

// DeploymentsRenderer renders deployment lists
type DeploymentsRenderer struct {
	out io.Writer
}

// NewDeploymentsRenderer creates a new deployments renderer
func NewDeploymentsRenderer(out io.Writer) *DeploymentsRenderer {
	return &DeploymentsRenderer{out: out}
}

// RenderDeploymentList renders deployments in the requested format
func (r *DeploymentsRenderer) RenderDeploymentList(result *usecase.DeploymentListResult, format string) error {
	switch format {
	case "", FormatTable:
		r.renderTable(result)
		return nil
	case FormatJSON:
		views := lo.Map(result.Deployments, func(d *models.Deployment, _ int) DeploymentView { return NewDeploymentView(d) })
		data, err := json.MarshalIndent(views, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(r.out, string(data))
		return nil
	case FormatYAML:
		views := lo.Map(result.Deployments, func(d *models.Deployment, _ int) DeploymentView { return NewDeploymentView(d) })
		enc := yaml.NewEncoder(r.out)
		enc.SetIndent(2)
		if err := enc.Encode(views); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("invalid format: %s (valid: %s)", format, strings.Join(Formats, ", "))
	}
}

func (r *DeploymentsRenderer) renderTable(result *usecase.DeploymentListResult) {
	if len(result.Deployments) == 0 {
		fmt.Fprintln(r.out, "No deployments found")
		return
	}

	byNetwork := lo.GroupBy(result.Deployments, func(d *models.Deployment) string { return d.Network })
	networks := lo.Keys(byNetwork)
	sort.Strings(networks)

	for i, network := range networks {
		deployments := byNetwork[network]

		treePrefix := "├─"
		continuationPrefix := "│ "
		if i == len(networks)-1 {
			treePrefix = "└─"
			continuationPrefix = "  "
		}

		chainLabel := ""
		if deployments[0].ChainID != 0 {
			chainLabel = fmt.Sprintf(" (chain %d)", deployments[0].ChainID)
		}
		fmt.Fprintf(r.out, "%s%s%s\n",
			treePrefix,
			networkHeader.Sprintf(" ⛓ %-10s", "network:"),
			networkBold.Sprintf(" %-30s", network+chainLabel))
		fmt.Fprintln(r.out, continuationPrefix)
		fmt.Fprintln(r.out, r.buildTable(deployments, continuationPrefix))
		fmt.Fprintln(r.out)
	}

	fmt.Fprintf(r.out, "Total deployments: %d", result.Summary.Total)
	if verified := result.Summary.ByStatus[models.VerificationStatusVerified]; verified > 0 {
		fmt.Fprintf(r.out, " (%d verified)", verified)
	}
	fmt.Fprintln(r.out)
}

func (r *DeploymentsRenderer) buildTable(deployments []*models.Deployment, prefix string) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.SeparateRows = false
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateHeader = false
	t.Style().Options.SeparateColumns = false
	t.Style().Box = table.BoxStyle{
		PaddingRight: "   ",
	}
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignLeft},
		{Number: 2, Align: text.AlignLeft},
		{Number: 3, Align: text.AlignLeft},
		{Number: 4, Align: text.AlignLeft},
	})

	for _, d := range deployments {
		created := ""
		if !d.CreatedAt.IsZero() {
			created = timestampStyle.Sprint(d.CreatedAt.Format("2006-01-02 15:04:05"))
		}
		t.AppendRow(table.Row{
			prefix + contractStyle.Sprint(d.ContractName),
			addressStyle.Sprint(d.Address),
			verifierStatuses(d),
			created,
		})
	}
	return t.Render()
}

// verifierStatuses renders "🅔 ✓ 🅢 ?" style markers for each known verifier
func verifierStatuses(d *models.Deployment) string {
	names := []string{"etherscan", "sourcify"}
	parts := make([]string, 0, len(names))
	for _, name := range names {
		status := "?"
		if v, ok := d.Verification.Verifiers[name]; ok {
			status = verifierIcon(v.Status)
		}
		marker := "🅔"
		if name == "sourcify" {
			marker = "🅢"
		}
		parts = append(parts, fmt.Sprintf("%s %s", marker, status))
	}
	return strings.Join(parts, " ")
}
