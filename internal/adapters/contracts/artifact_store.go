package contracts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/trebuchet-org/salvo/internal/domain/config"
)

// Artifact is a compiled contract ready to deploy
type Artifact struct {
	Name     string
	Path     string
	ABI      abi.ABI
	Bytecode []byte
}

// foundryArtifact is the subset of a Foundry output file we read
type foundryArtifact struct {
	ABI      json.RawMessage `json:"abi"`
	Bytecode struct {
		Object string `json:"object"`
	} `json:"bytecode"`
}

// ArtifactStore reads compiled contracts from a Foundry out/ directory
type ArtifactStore struct {
	outDir string

	mu    sync.Mutex
	cache map[string]*Artifact
}

// NewArtifactStore creates a store over cfg.ArtifactsDir
func NewArtifactStore(cfg *config.RuntimeConfig) *ArtifactStore {
	return &ArtifactStore{
		outDir: cfg.ArtifactsDir,
		cache:  make(map[string]*Artifact),
	}
}

// Load returns the artifact for a contract name. It looks for
// out/<Name>.sol/<Name>.json first and falls back to any <Name>.json.
func (s *ArtifactStore) Load(name string) (*Artifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if art, ok := s.cache[name]; ok {
		return art, nil
	}

	path, err := s.find(name)
	if err != nil {
		return nil, err
	}

	art, err := readArtifact(name, path)
	if err != nil {
		return nil, err
	}
	s.cache[name] = art
	return art, nil
}

func (s *ArtifactStore) find(name string) (string, error) {
	direct := filepath.Join(s.outDir, name+".sol", name+".json")
	if _, err := os.Stat(direct); err == nil {
		return direct, nil
	}

	var matches []string
	err := filepath.WalkDir(s.outDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && d.Name() == name+".json" {
			matches = append(matches, path)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to scan artifacts in %s: %w", s.outDir, err)
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no compiled artifact for contract %s in %s (run forge build?)", name, s.outDir)
	case 1:
		return matches[0], nil
	default:
		sort.Strings(matches)
		return "", fmt.Errorf("multiple artifacts for contract %s: %s", name, strings.Join(matches, ", "))
	}
}

func readArtifact(name, path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read artifact %s: %w", path, err)
	}

	var raw foundryArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse artifact %s: %w", path, err)
	}

	parsed, err := abi.JSON(bytes.NewReader(raw.ABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI for %s: %w", name, err)
	}

	object := raw.Bytecode.Object
	if object == "" || object == "0x" {
		return nil, fmt.Errorf("contract %s has no creation bytecode (abstract or interface?)", name)
	}
	if strings.Contains(object, "__$") {
		return nil, fmt.Errorf("contract %s needs library linking, which is not supported", name)
	}

	return &Artifact{
		Name:     name,
		Path:     path,
		ABI:      parsed,
		Bytecode: common.FromHex(object),
	}, nil
}
