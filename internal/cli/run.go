package cli

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/salvo/internal/cli/render"
	"github.com/trebuchet-org/salvo/internal/domain"
	"github.com/trebuchet-org/salvo/internal/usecase"
)

// NewRunCmd creates the run command
func NewRunCmd() *cobra.Command {
	var (
		tags []string
		yes  bool
	)

	cmd := &cobra.Command{
		Use:   "run [artifact...]",
		Short: "Deploy artifacts and their dependencies to a network",
		Long: `Deploy the named artifacts, every artifact carrying one of the given tags,
and everything they depend on. With no names or tags every artifact in the
manifest is deployed.

Artifacts whose current spec is already deployed on the network are reused
from the ledger. The command exits non-zero unless every requested artifact
ends up deployed.

Examples:
  # Deploy everything to the built-in simulated network
  salvo run

  # Deploy one artifact and its dependencies to sepolia
  salvo run Vault --network sepolia

  # Deploy everything tagged core, retrying failures once
  salvo run -t core --max-retries 1

  # Rehearse against the simulator without touching the ledger
  salvo run --network mainnet --dry-run`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := getApp(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			cfg := app.Config

			network := cfg.Network
			if network == nil {
				return fmt.Errorf("network '%s' is not configured (run 'salvo networks' to list networks)", cfg.NetworkName)
			}

			if network.Confirm && !yes && !cfg.DryRun {
				ok, err := app.Confirmer.Confirm(ctx, fmt.Sprintf("Deploy to %s (chain %d)", network.Name, network.ChainID))
				if err != nil {
					return err
				}
				if !ok {
					return errors.New("deployment cancelled")
				}
			}

			client, err := app.ClientFactory.ClientFor(ctx, network)
			if err != nil {
				return err
			}

			report, err := app.RunDeployment.Run(ctx, usecase.RunParams{
				Filter:  domain.PlanFilter{Names: args, Tags: tags},
				Network: network.Name,
				Client:  client,
				Options: usecase.RunOptions{
					StopOnFirstFailure: cfg.Run.StopOnFirstFailure,
					MaxRetries:         cfg.Run.MaxRetries,
					CallTimeout:        cfg.Run.CallTimeout,
					Parallelism:        cfg.Run.Parallelism,
				},
			})
			if report != nil {
				renderer := render.NewRunRenderer(cmd.OutOrStdout(), !color.NoColor)
				if rerr := renderer.RenderReport(report); rerr != nil {
					return rerr
				}
			}
			if err != nil {
				return err
			}
			if !report.Success() {
				return domain.ErrIncompleteRun
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&tags, "tags", "t", nil, "Deploy artifacts carrying any of these tags")
	cmd.Flags().Bool("stop-on-failure", false, "Stop at the first failed artifact")
	cmd.Flags().Int("max-retries", 0, "Extra passes over artifacts that did not deploy")
	cmd.Flags().Duration("call-timeout", 0, "Timeout for a single deploy call (default 2m)")
	cmd.Flags().Int("parallel", 0, "Deploy up to this many independent artifacts at once (default 1)")
	cmd.Flags().Bool("dry-run", false, "Deploy against the simulator with an in-memory ledger")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Skip confirmation on guarded networks")

	return cmd
}
