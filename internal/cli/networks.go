package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/salvo/internal/cli/render"
)

// NewNetworksCmd creates the networks command
func NewNetworksCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "networks",
		Short: "List configured networks",
		Long: `List the built-in networks and every network configured in the [networks]
section of salvo.toml. The current network is marked with '*'.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ListNetworks.Run(cmd.Context())
			if err != nil {
				return err
			}

			renderer := render.NewNetworksRenderer(cmd.OutOrStdout(), !color.NoColor)
			return renderer.RenderNetworksList(result)
		},
	}

	return cmd
}
