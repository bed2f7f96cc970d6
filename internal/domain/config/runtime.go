package config

import (
	"time"
)

// RuntimeConfig represents the complete runtime configuration
// This is injected into use cases and contains all resolved settings
type RuntimeConfig struct {
	// Core settings
	ProjectRoot  string
	DataDir      string
	ManifestPath string
	ArtifactsDir string

	// Context settings
	NetworkName string
	Network     *Network // nil if the name is not configured
	Networks    map[string]*Network

	// Execution settings
	Debug          bool
	NonInteractive bool
	Timeout        time.Duration
	DryRun         bool
	Run            RunDefaults

	Ledger LedgerConfig

	// Config source tracking
	ConfigSource string // path of salvo.toml, empty when defaults are used
}

// RunDefaults are the orchestrator options used when no flag overrides them
type RunDefaults struct {
	StopOnFirstFailure bool
	MaxRetries         int
	CallTimeout        time.Duration
	Parallelism        int
}

// LedgerBackend selects the ledger storage implementation
type LedgerBackend string

const (
	LedgerBackendFile     LedgerBackend = "file"
	LedgerBackendSQLite   LedgerBackend = "sqlite"
	LedgerBackendPostgres LedgerBackend = "postgres"
	LedgerBackendMemory   LedgerBackend = "memory"
)

// LedgerConfig configures ledger storage
type LedgerConfig struct {
	Backend LedgerBackend
	// Path is used by the file and sqlite backends
	Path string
	// DSN is used by the postgres backend
	DSN string
}

// NetworkKind selects the client used to deploy to a network
type NetworkKind string

const (
	NetworkKindEVM       NetworkKind = "evm"
	NetworkKindSimulated NetworkKind = "simulated"
)

// Network represents network configuration
type Network struct {
	Name    string      `json:"name"`
	Kind    NetworkKind `json:"kind"`
	ChainID uint64      `json:"chainId"`
	RPCURL  string      `json:"rpcUrl,omitempty"`
	// DeployerKeyEnv names the environment variable holding the deployer's private key
	DeployerKeyEnv string `json:"deployerKeyEnv,omitempty"`
	// Confirm requires interactive confirmation before deploying
	Confirm bool `json:"confirm"`
	// FailArtifacts makes a simulated network fail deploys of these artifacts
	FailArtifacts []string `json:"failArtifacts,omitempty"`
}
