package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/salvo/internal/cli/render"
)

// NewStatusCmd creates the status command
func NewStatusCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show ledger entries for a network",
		Long: `Show the current ledger entry of every artifact on the selected network,
flagging entries whose manifest spec has changed or was removed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			network := app.Config.NetworkName
			if all {
				network = ""
			}

			result, err := app.ShowStatus.Run(cmd.Context(), network)
			if err != nil {
				return err
			}

			renderer := render.NewStatusRenderer(cmd.OutOrStdout(), !color.NoColor)
			return renderer.RenderStatus(result)
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Show entries for every network")

	return cmd
}
