package manifest

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/trebuchet-org/salvo/internal/domain"
	"github.com/trebuchet-org/salvo/internal/domain/config"
)

// File is the on-disk manifest layout
type File struct {
	Artifacts []Entry `yaml:"artifacts"`
}

// Entry describes one artifact in the manifest
type Entry struct {
	Name     string   `yaml:"name"`
	Contract string   `yaml:"contract,omitempty"`
	Args     []any    `yaml:"args,omitempty"`
	Tags     []string `yaml:"tags,omitempty"`
	Deps     []string `yaml:"deps,omitempty"`
}

// Loader reads the artifact manifest into a registry
type Loader struct {
	path string
	log  *slog.Logger
}

// NewLoader creates a loader for the manifest configured in cfg
func NewLoader(cfg *config.RuntimeConfig, log *slog.Logger) *Loader {
	return &Loader{
		path: cfg.ManifestPath,
		log:  log.With("component", "ManifestLoader"),
	}
}

// Load parses the manifest and registers every entry in file order
func (l *Loader) Load(ctx context.Context) (*domain.Registry, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: manifest %s does not exist", domain.ErrConfiguration, l.path)
		}
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}

	registry, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", l.path, err)
	}

	l.log.Debug("manifest loaded", "path", l.path, "artifacts", registry.Len())
	return registry, nil
}

// Parse decodes manifest YAML. Unknown fields are rejected.
func Parse(data []byte) (*domain.Registry, error) {
	var file File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&file); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", domain.ErrConfiguration, err)
	}

	registry := domain.NewRegistry()
	for i, entry := range file.Artifacts {
		args, err := normalizeArgs(entry.Args)
		if err != nil {
			return nil, fmt.Errorf("%w: artifact #%d (%s): %v", domain.ErrConfiguration, i+1, entry.Name, err)
		}

		spec, err := domain.NewArtifactSpec(entry.Name, entry.Contract, args, entry.Deps, entry.Tags)
		if err != nil {
			return nil, err
		}
		if err := registry.Register(spec); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// normalizeArgs turns YAML maps with non-string keys into JSON-encodable values
func normalizeArgs(args []any) ([]any, error) {
	out := make([]any, len(args))
	for i, arg := range args {
		v, err := normalizeValue(arg)
		if err != nil {
			return nil, fmt.Errorf("arg %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func normalizeValue(v any) (any, error) {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			n, err := normalizeValue(item)
			if err != nil {
				return nil, err
			}
			out[k] = n
		}
		return out, nil
	case map[any]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			key, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("map key %v is not a string", k)
			}
			n, err := normalizeValue(item)
			if err != nil {
				return nil, err
			}
			out[key] = n
		}
		return out, nil
	case []any:
		return normalizeArgs(val)
	default:
		return v, nil
	}
}
