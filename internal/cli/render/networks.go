package render

import (
	"fmt"
	"io"

	"github.com/trebuchet-org/salvo/internal/usecase"
)

// NetworksRenderer renders network lists
type NetworksRenderer struct {
	out   io.Writer
	color bool
}

// NewNetworksRenderer creates a new networks renderer
func NewNetworksRenderer(out io.Writer, color bool) *NetworksRenderer {
	return &NetworksRenderer{
		out:   out,
		color: color,
	}
}

// RenderNetworksList renders the configured networks, marking the current one
func (r *NetworksRenderer) RenderNetworksList(result *usecase.ListNetworksResult) error {
	if len(result.Networks) == 0 {
		fmt.Fprintln(r.out, "No networks configured in salvo.toml [networks]")
		return nil
	}

	fmt.Fprintln(r.out, "🌐 Available Networks:")
	fmt.Fprintln(r.out)

	for _, network := range result.Networks {
		marker := " "
		if network.Name == result.Current {
			marker = "*"
		}
		if network.Error != nil {
			fmt.Fprintf(r.out, "%s ❌ %s - Error: %v\n", marker, network.Name, network.Error)
			continue
		}

		fmt.Fprintf(r.out, "%s ✅ %s - %s, Chain ID: %d",
			marker, paint(r.color, nameStyle, network.Name), network.Kind, network.ChainID)
		if network.RPCURL != "" {
			fmt.Fprintf(r.out, " %s", paint(r.color, faintStyle, network.RPCURL))
		}
		if network.Confirm {
			fmt.Fprintf(r.out, " %s", paint(r.color, skippedStyle, "(confirm)"))
		}
		fmt.Fprintln(r.out)
	}

	return nil
}
