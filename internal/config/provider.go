package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/trebuchet-org/salvo/internal/domain/config"
)

const (
	defaultCallTimeout = 2 * time.Minute
	defaultTimeout     = 10 * time.Minute
)

// Provider creates RuntimeConfig for Wire dependency injection
func Provider(v *viper.Viper) (*config.RuntimeConfig, error) {
	// Get project root from viper
	projectRoot := v.GetString("project_root")
	if projectRoot == "" {
		var err error
		projectRoot, err = FindProjectRoot()
		if err != nil {
			return nil, fmt.Errorf("failed to find project root: %w", err)
		}
	}

	loadEnvFiles(projectRoot)

	project, source, err := loadProjectFile(projectRoot)
	if err != nil {
		return nil, err
	}

	networks, err := buildNetworks(project)
	if err != nil {
		return nil, fmt.Errorf("invalid network configuration: %w", err)
	}

	cfg := &config.RuntimeConfig{
		ProjectRoot:    projectRoot,
		DataDir:        filepath.Join(projectRoot, DataDirName),
		ManifestPath:   filepath.Join(projectRoot, ManifestFileName),
		ArtifactsDir:   filepath.Join(projectRoot, "out"),
		NetworkName:    v.GetString("network"),
		Networks:       networks,
		Debug:          v.GetBool("debug"),
		NonInteractive: v.GetBool("non-interactive"),
		Timeout:        v.GetDuration("timeout"),
		DryRun:         v.GetBool("dry-run"),
		ConfigSource:   source,
		Run: config.RunDefaults{
			MaxRetries:  0,
			CallTimeout: defaultCallTimeout,
			Parallelism: 1,
		},
		Ledger: config.LedgerConfig{
			Backend: config.LedgerBackendFile,
		},
	}

	if project != nil {
		if err := applyProjectFile(cfg, project); err != nil {
			return nil, err
		}
	}
	if err := applyOverrides(cfg, v); err != nil {
		return nil, err
	}

	if err := resolveLedgerPath(cfg); err != nil {
		return nil, err
	}

	cfg.Network = networks[cfg.NetworkName]

	return cfg, nil
}

// applyProjectFile copies salvo.toml settings over the built-in defaults
func applyProjectFile(cfg *config.RuntimeConfig, project *config.ProjectFile) error {
	if project.Manifest != "" {
		cfg.ManifestPath = resolvePath(cfg.ProjectRoot, project.Manifest)
	}
	if project.ArtifactsDir != "" {
		cfg.ArtifactsDir = resolvePath(cfg.ProjectRoot, project.ArtifactsDir)
	}

	run := project.Run
	if run.StopOnFirstFailure != nil {
		cfg.Run.StopOnFirstFailure = *run.StopOnFirstFailure
	}
	if run.MaxRetries != nil {
		cfg.Run.MaxRetries = *run.MaxRetries
	}
	if run.Parallel != nil {
		cfg.Run.Parallelism = *run.Parallel
	}
	if run.CallTimeout != "" {
		d, err := time.ParseDuration(run.CallTimeout)
		if err != nil {
			return fmt.Errorf("invalid [run] call_timeout %q: %w", run.CallTimeout, err)
		}
		cfg.Run.CallTimeout = d
	}

	if project.Ledger.Backend != "" {
		cfg.Ledger.Backend = config.LedgerBackend(strings.ToLower(project.Ledger.Backend))
	}
	cfg.Ledger.Path = project.Ledger.Path
	cfg.Ledger.DSN = project.Ledger.DSN

	return nil
}

// applyOverrides applies flags, SALVO_* environment variables and
// .salvo/config.local.json on top of salvo.toml
func applyOverrides(cfg *config.RuntimeConfig, v *viper.Viper) error {
	if v.IsSet("manifest") {
		cfg.ManifestPath = resolvePath(cfg.ProjectRoot, v.GetString("manifest"))
	}
	if v.IsSet("stop-on-failure") {
		cfg.Run.StopOnFirstFailure = v.GetBool("stop-on-failure")
	}
	if v.IsSet("max-retries") {
		cfg.Run.MaxRetries = v.GetInt("max-retries")
	}
	if v.IsSet("parallel") {
		cfg.Run.Parallelism = v.GetInt("parallel")
	}
	if v.IsSet("call-timeout") {
		cfg.Run.CallTimeout = v.GetDuration("call-timeout")
	}
	if v.IsSet("ledger") {
		cfg.Ledger.Backend = config.LedgerBackend(strings.ToLower(v.GetString("ledger")))
	}
	if v.IsSet("ledger-dsn") {
		cfg.Ledger.DSN = v.GetString("ledger-dsn")
	}

	if cfg.Run.MaxRetries < 0 {
		return fmt.Errorf("max retries must not be negative, got %d", cfg.Run.MaxRetries)
	}
	if cfg.Run.Parallelism < 1 {
		cfg.Run.Parallelism = 1
	}
	if cfg.Run.CallTimeout <= 0 {
		return fmt.Errorf("call timeout must be positive, got %s", cfg.Run.CallTimeout)
	}

	// Dry runs never touch the durable ledger
	if cfg.DryRun {
		cfg.Ledger.Backend = config.LedgerBackendMemory
	}
	return nil
}

func resolveLedgerPath(cfg *config.RuntimeConfig) error {
	switch cfg.Ledger.Backend {
	case config.LedgerBackendFile:
		if cfg.Ledger.Path == "" {
			cfg.Ledger.Path = filepath.Join(cfg.DataDir, "ledger.jsonl")
		}
	case config.LedgerBackendSQLite:
		if cfg.Ledger.Path == "" {
			cfg.Ledger.Path = filepath.Join(cfg.DataDir, "ledger.db")
		}
	case config.LedgerBackendPostgres:
		if cfg.Ledger.DSN == "" {
			return fmt.Errorf("ledger backend postgres requires a dsn ([ledger] dsn or SALVO_LEDGER_DSN)")
		}
		return nil
	case config.LedgerBackendMemory:
		return nil
	default:
		return fmt.Errorf("unknown ledger backend '%s' (valid: file, sqlite, postgres)", cfg.Ledger.Backend)
	}
	cfg.Ledger.Path = resolvePath(cfg.ProjectRoot, cfg.Ledger.Path)
	return nil
}

func resolvePath(root, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

// FindProjectRoot walks up from current directory to find salvo.toml or salvo.yaml
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		for _, marker := range []string{ProjectFileName, ManifestFileName} {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root without finding a project file
			return "", fmt.Errorf("not in a salvo project (%s or %s not found)", ProjectFileName, ManifestFileName)
		}
		dir = parent
	}
}

// SetupViper creates and configures a viper instance
func SetupViper(projectRoot string, cmd *cobra.Command) *viper.Viper {
	v := viper.New()

	// Set up config file
	v.SetConfigName("config.local")
	v.SetConfigType("json")
	v.AddConfigPath(filepath.Join(projectRoot, DataDirName))

	// Set up environment variables
	v.SetEnvPrefix("SALVO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_", ".", "_"))

	// Set defaults. Run options are deliberately left unset so IsSet only
	// reports explicit flags, env vars and config.local.json values.
	v.SetDefault("network", "local")
	v.SetDefault("timeout", defaultTimeout)
	v.SetDefault("debug", false)
	v.SetDefault("non-interactive", false)
	v.SetDefault("project_root", projectRoot)

	// Try to read config file (ignore error if not found)
	_ = v.ReadInConfig()

	if cmd != nil {
		cmd.Flags().VisitAll(func(f *pflag.Flag) {
			if err := v.BindPFlag(f.Name, f); err != nil {
				panic(err)
			}
		})
	}

	return v
}
