package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/trebuchet-org/exdeploy/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out    io.Writer
	active string
}

// NewNetworksRenderer creates a new networks renderer. active is marked in the output.
func NewNetworksRenderer(out io.Writer, active string) *NetworksRenderer {
	return &NetworksRenderer{
		out:    out,
		active: active,
	}
}

// RenderNetworksList renders the list of networks
func (r *NetworksRenderer) RenderNetworksList(result *usecase.ListNetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured in foundry.toml [rpc_endpoints]")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	for _, network := range result.Networks {
		name := network.Name
		if name == r.active {
			name = color.New(color.Bold).Sprint(name) + " (active)"
		}

		if network.Error != nil {
			fmt.Fprintf(r.out, "  ❌ %s - Error: %v\n", name, network.Error)
			continue
		}

		line := fmt.Sprintf("  ✅ %s - Chain ID: %d", name, network.ChainID)
		if network.Development {
			line += color.New(color.Faint).Sprint(" [dev]")
		}
		if network.HasDeployments {
			line += color.New(color.FgCyan).Sprint(" [deployments]")
		}
		fmt.Fprintln(r.out, line)
	}

	return nil
}
