package config

// ProjectFile is the raw salvo.toml structure
//
//	manifest = "salvo.yaml"
//	artifacts_dir = "out"
//
//	[run]
//	stop_on_first_failure = false
//	max_retries = 1
//	call_timeout = "2m"
//	parallel = 4
//
//	[ledger]
//	backend = "file"
//
//	[networks.sepolia]
//	rpc_url = "${SEPOLIA_RPC_URL}"
//	chain_id = 11155111
//	deployer_key_env = "DEPLOYER_PRIVATE_KEY"
//	confirm = true
type ProjectFile struct {
	Manifest     string                    `toml:"manifest"`
	ArtifactsDir string                    `toml:"artifacts_dir"`
	Run          RunSection                `toml:"run"`
	Ledger       LedgerSection             `toml:"ledger"`
	Networks     map[string]NetworkSection `toml:"networks"`
}

// RunSection holds orchestrator defaults
type RunSection struct {
	StopOnFirstFailure *bool  `toml:"stop_on_first_failure"`
	MaxRetries         *int   `toml:"max_retries"`
	CallTimeout        string `toml:"call_timeout"`
	Parallel           *int   `toml:"parallel"`
}

// LedgerSection configures ledger storage
type LedgerSection struct {
	Backend string `toml:"backend"`
	Path    string `toml:"path"`
	DSN     string `toml:"dsn"`
}

// NetworkSection is one [networks.<name>] table
type NetworkSection struct {
	Kind           string   `toml:"kind"`
	RPCURL         string   `toml:"rpc_url"`
	ChainID        uint64   `toml:"chain_id"`
	DeployerKeyEnv string   `toml:"deployer_key_env"`
	Confirm        bool     `toml:"confirm"`
	FailArtifacts  []string `toml:"fail_artifacts"`
}
