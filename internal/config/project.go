package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/trebuchet-org/salvo/internal/domain/config"
)

const (
	ProjectFileName  = "salvo.toml"
	ManifestFileName = "salvo.yaml"
	DataDirName      = ".salvo"
)

// loadEnvFiles loads .env files so ${VAR} references can be expanded.
// Variables already present in the environment win.
func loadEnvFiles(projectRoot string) {
	envFiles := []string{
		filepath.Join(projectRoot, ".env"),
		filepath.Join(projectRoot, ".env.local"),
	}

	for _, envFile := range envFiles {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				// Log warning but don't fail
				fmt.Fprintf(os.Stderr, "Warning: Failed to load %s: %v\n", envFile, err)
			}
		}
	}
}

// loadProjectFile loads and parses salvo.toml if it exists.
// Returns (nil, "", nil) when the file does not exist.
func loadProjectFile(projectRoot string) (*config.ProjectFile, string, error) {
	path := filepath.Join(projectRoot, ProjectFileName)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, "", nil
	}

	var cfg config.ProjectFile
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return nil, "", fmt.Errorf("failed to parse %s: %w", ProjectFileName, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, "", fmt.Errorf("unknown keys in %s: %v", ProjectFileName, undecoded)
	}

	// Expand environment variables in string fields that commonly hold secrets
	cfg.Ledger.DSN = os.ExpandEnv(cfg.Ledger.DSN)
	cfg.Ledger.Path = os.ExpandEnv(cfg.Ledger.Path)
	for name, network := range cfg.Networks {
		network.RPCURL = os.ExpandEnv(network.RPCURL)
		cfg.Networks[name] = network
	}

	return &cfg, path, nil
}
