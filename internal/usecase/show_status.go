package usecase

import (
	"context"

	"github.com/trebuchet-org/salvo/internal/domain"
)

// ArtifactStatus is one ledger entry compared against the manifest
type ArtifactStatus struct {
	Entry *domain.LedgerEntry
	// Stale is set when the manifest spec no longer matches the recorded hash
	Stale bool
	// Orphaned is set when the artifact is no longer in the manifest
	Orphaned bool
}

// ShowStatusResult contains the ledger view of a network
type ShowStatusResult struct {
	Network   string
	Artifacts []ArtifactStatus
}

// ShowStatus lists current ledger entries
type ShowStatus struct {
	manifest ManifestLoader
	ledger   *Ledger
}

// NewShowStatus creates a new ShowStatus use case
func NewShowStatus(manifest ManifestLoader, ledger *Ledger) *ShowStatus {
	return &ShowStatus{
		manifest: manifest,
		ledger:   ledger,
	}
}

// Run lists entries for network, or for every network when network is empty
func (uc *ShowStatus) Run(ctx context.Context, network string) (*ShowStatusResult, error) {
	registry, err := uc.manifest.Load(ctx)
	if err != nil {
		return nil, err
	}

	result := &ShowStatusResult{Network: network}
	for _, entry := range uc.ledger.Entries(ctx, network) {
		status := ArtifactStatus{Entry: entry}
		spec, err := registry.Get(entry.Artifact)
		if err != nil {
			status.Orphaned = true
		} else {
			status.Stale = spec.SpecHash != entry.SpecHash
		}
		result.Artifacts = append(result.Artifacts, status)
	}
	return result, nil
}
