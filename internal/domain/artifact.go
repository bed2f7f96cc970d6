package domain

import (
	"encoding/json"
	"fmt"
	"slices"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ArtifactSpec is the declarative description of one deployable artifact.
// Specs are immutable once built with NewArtifactSpec.
type ArtifactSpec struct {
	Name string `json:"name" yaml:"name"`
	// Contract is the compiled contract the client deploys; defaults to Name.
	// It is not part of the spec hash.
	Contract  string      `json:"contract,omitempty" yaml:"contract,omitempty"`
	Args      []any       `json:"args" yaml:"args"`
	DependsOn []string    `json:"dependsOn,omitempty" yaml:"deps,omitempty"`
	Tags      []string    `json:"tags,omitempty" yaml:"tags,omitempty"`
	SpecHash  common.Hash `json:"specHash" yaml:"-"`
}

// NewArtifactSpec validates the inputs and computes the spec hash.
// Dependencies and tags are deduplicated and sorted so they behave as sets.
func NewArtifactSpec(name, contract string, args []any, dependsOn, tags []string) (*ArtifactSpec, error) {
	if name == "" {
		return nil, InvalidSpecError{Reason: "name is required"}
	}
	if contract == "" {
		contract = name
	}
	deps := normalizeSet(dependsOn)
	if slices.Contains(deps, name) {
		return nil, InvalidSpecError{Name: name, Reason: "artifact cannot depend on itself"}
	}
	if args == nil {
		args = []any{}
	}

	hash, err := ComputeSpecHash(name, args, deps)
	if err != nil {
		return nil, InvalidSpecError{Name: name, Reason: err.Error()}
	}

	return &ArtifactSpec{
		Name:      name,
		Contract:  contract,
		Args:      slices.Clone(args),
		DependsOn: deps,
		Tags:      normalizeSet(tags),
		SpecHash:  hash,
	}, nil
}

// HasTag reports whether the spec carries tag
func (s *ArtifactSpec) HasTag(tag string) bool {
	_, found := slices.BinarySearch(s.Tags, tag)
	return found
}

// canonicalSpec is the hashed form of a spec. Field order is fixed and
// encoding/json sorts map keys, so equal specs encode to equal bytes.
type canonicalSpec struct {
	Name      string   `json:"name"`
	Args      []any    `json:"args"`
	DependsOn []string `json:"dependsOn"`
}

// ComputeSpecHash returns the Keccak-256 digest of (name, args, dependsOn)
func ComputeSpecHash(name string, args []any, dependsOn []string) (common.Hash, error) {
	if args == nil {
		args = []any{}
	}
	deps := normalizeSet(dependsOn)
	if deps == nil {
		deps = []string{}
	}

	data, err := json.Marshal(canonicalSpec{Name: name, Args: args, DependsOn: deps})
	if err != nil {
		return common.Hash{}, fmt.Errorf("args are not encodable: %w", err)
	}
	return crypto.Keccak256Hash(data), nil
}

func normalizeSet(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	out := slices.Clone(values)
	slices.Sort(out)
	return slices.Compact(out)
}
