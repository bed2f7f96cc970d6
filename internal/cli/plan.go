package cli

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/salvo/internal/cli/render"
	"github.com/trebuchet-org/salvo/internal/domain"
)

// NewPlanCmd creates the plan command
func NewPlanCmd() *cobra.Command {
	var tags []string

	cmd := &cobra.Command{
		Use:   "plan [artifact...]",
		Short: "Show what run would deploy without deploying",
		Long: `Resolve the same plan as 'salvo run' and show, for every step, whether the
network already has its current spec deployed.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}

			result, err := app.ShowPlan.Run(cmd.Context(), domain.PlanFilter{Names: args, Tags: tags}, app.Config.NetworkName)
			if err != nil {
				return err
			}

			renderer := render.NewPlanRenderer(cmd.OutOrStdout(), !color.NoColor)
			return renderer.RenderPlan(result)
		},
	}

	cmd.Flags().StringSliceVarP(&tags, "tags", "t", nil, "Include artifacts carrying any of these tags")

	return cmd
}
