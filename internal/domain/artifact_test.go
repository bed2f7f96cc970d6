package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewArtifactSpec(t *testing.T) {
	t.Run("defaults contract to name", func(t *testing.T) {
		spec, err := NewArtifactSpec("MyToken", "", nil, nil, []string{"ERC20"})
		require.NoError(t, err)

		assert.Equal(t, "MyToken", spec.Contract)
		assert.Equal(t, []any{}, spec.Args)
		assert.True(t, spec.HasTag("ERC20"))
		assert.False(t, spec.HasTag("erc20"))
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewArtifactSpec("", "", nil, nil, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrConfiguration))
	})

	t.Run("rejects self dependency", func(t *testing.T) {
		_, err := NewArtifactSpec("Vault", "", nil, []string{"Token", "Vault"}, nil)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrConfiguration))
		assert.Contains(t, err.Error(), "cannot depend on itself")
	})

	t.Run("deduplicates deps and tags", func(t *testing.T) {
		spec, err := NewArtifactSpec("Vault", "", nil, []string{"Token", "Oracle", "Token"}, []string{"core", "core"})
		require.NoError(t, err)

		assert.Equal(t, []string{"Oracle", "Token"}, spec.DependsOn)
		assert.Equal(t, []string{"core"}, spec.Tags)
	})
}

func TestComputeSpecHash(t *testing.T) {
	base, err := ComputeSpecHash("Token", []any{"Salvo", "SLV", 18}, []string{"Registry"})
	require.NoError(t, err)

	tests := []struct {
		name  string
		spec  func() (string, []any, []string)
		equal bool
	}{
		{
			name: "identical input",
			spec: func() (string, []any, []string) {
				return "Token", []any{"Salvo", "SLV", 18}, []string{"Registry"}
			},
			equal: true,
		},
		{
			name: "changed args",
			spec: func() (string, []any, []string) {
				return "Token", []any{"Salvo", "SLV", 6}, []string{"Registry"}
			},
		},
		{
			name: "reordered args",
			spec: func() (string, []any, []string) {
				return "Token", []any{"SLV", "Salvo", 18}, []string{"Registry"}
			},
		},
		{
			name: "changed name",
			spec: func() (string, []any, []string) {
				return "Token2", []any{"Salvo", "SLV", 18}, []string{"Registry"}
			},
		},
		{
			name: "changed deps",
			spec: func() (string, []any, []string) {
				return "Token", []any{"Salvo", "SLV", 18}, nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, args, deps := tt.spec()
			hash, err := ComputeSpecHash(name, args, deps)
			require.NoError(t, err)
			if tt.equal {
				assert.Equal(t, base, hash)
			} else {
				assert.NotEqual(t, base, hash)
			}
		})
	}

	t.Run("dependency order does not matter", func(t *testing.T) {
		a, err := ComputeSpecHash("Vault", nil, []string{"A", "B"})
		require.NoError(t, err)
		b, err := ComputeSpecHash("Vault", nil, []string{"B", "A"})
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("map keys are canonical", func(t *testing.T) {
		a, err := ComputeSpecHash("Cfg", []any{map[string]any{"x": 1, "y": 2}}, nil)
		require.NoError(t, err)
		b, err := ComputeSpecHash("Cfg", []any{map[string]any{"y": 2, "x": 1}}, nil)
		require.NoError(t, err)
		assert.Equal(t, a, b)
	})

	t.Run("unencodable args", func(t *testing.T) {
		_, err := ComputeSpecHash("Bad", []any{func() {}}, nil)
		assert.Error(t, err)
	})
}
