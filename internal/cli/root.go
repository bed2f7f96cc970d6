package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/trebuchet-org/salvo/internal/adapters/progress"
	"github.com/trebuchet-org/salvo/internal/app"
	"github.com/trebuchet-org/salvo/internal/cli/render"
	"github.com/trebuchet-org/salvo/internal/config"
)

// contextKey is the type for context keys
type contextKey string

const (
	// appKey is the context key for the app instance
	appKey contextKey = "app"
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd, _ := newRootCmd()
	return rootCmd
}

// Execute runs the CLI and releases everything the app opened
func Execute(ctx context.Context) error {
	rootCmd, closeApp := newRootCmd()
	defer closeApp()
	return rootCmd.ExecuteContext(ctx)
}

// newRootCmd builds the command tree. The returned func closes the app
// initialized by whichever command ran, if any.
func newRootCmd() (*cobra.Command, func()) {
	cleanup := func() {}

	rootCmd := &cobra.Command{
		Use:   "salvo",
		Short: "Multi-target deployment orchestrator",
		Long: `Salvo deploys a declared set of artifacts to a target network in dependency
order, records every outcome in a durable ledger, and skips artifacts whose
current spec is already deployed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Skip for help/version commands
			if cmd.Name() == "version" || cmd.Name() == "help" || cmd.Name() == "completion" {
				return nil
			}

			projectRoot, _ := cmd.Flags().GetString("project-root")
			if projectRoot == "" {
				var err error
				projectRoot, err = config.FindProjectRoot()
				if err != nil {
					return err
				}
			}

			v := config.SetupViper(projectRoot, cmd)
			v.Set("project_root", projectRoot)

			useColor := !color.NoColor
			interactive := useColor && !v.GetBool("non-interactive")
			sink := progress.NewRunProgress(render.NewRunRenderer(cmd.OutOrStdout(), useColor), interactive)

			appInstance, closeApp, err := app.InitApp(v, sink)
			if err != nil {
				return fmt.Errorf("failed to initialize app: %w", err)
			}
			cleanup = closeApp

			ctx := context.WithValue(cmd.Context(), appKey, appInstance)

			// Add timeout if configured
			if appInstance.Config.Timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, appInstance.Config.Timeout)
				prev := cleanup
				cleanup = func() {
					cancel()
					prev()
				}
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug output")
	rootCmd.PersistentFlags().Bool("non-interactive", false, "Disable interactive prompts")
	rootCmd.PersistentFlags().StringP("network", "n", "", "Network to use (e.g., local, sepolia)")
	rootCmd.PersistentFlags().String("project-root", "", "Project directory (defaults to the nearest directory containing salvo.toml or salvo.yaml)")
	rootCmd.PersistentFlags().String("manifest", "", "Artifact manifest path (defaults to salvo.yaml)")
	rootCmd.PersistentFlags().String("ledger", "", "Ledger backend: file, sqlite or postgres")
	rootCmd.PersistentFlags().String("ledger-dsn", "", "Postgres connection string for the postgres ledger backend")
	rootCmd.PersistentFlags().Duration("timeout", 0, "Overall command timeout (default 10m)")

	// Add command groups
	rootCmd.AddGroup(&cobra.Group{
		ID:    "main",
		Title: "Main Commands",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "management",
		Title: "Management Commands",
	})

	runCmd := NewRunCmd()
	runCmd.GroupID = "main"
	rootCmd.AddCommand(runCmd)

	planCmd := NewPlanCmd()
	planCmd.GroupID = "main"
	rootCmd.AddCommand(planCmd)

	statusCmd := NewStatusCmd()
	statusCmd.GroupID = "main"
	rootCmd.AddCommand(statusCmd)

	networksCmd := NewNetworksCmd()
	networksCmd.GroupID = "management"
	rootCmd.AddCommand(networksCmd)

	// Version command
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd, func() { cleanup() }
}

// getApp retrieves the app instance from the command context
func getApp(cmd *cobra.Command) (*app.App, error) {
	appInstance := cmd.Context().Value(appKey)
	if appInstance == nil {
		return nil, fmt.Errorf("app not initialized")
	}

	app, ok := appInstance.(*app.App)
	if !ok {
		return nil, fmt.Errorf("invalid app instance")
	}

	return app, nil
}
