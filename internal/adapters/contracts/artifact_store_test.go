package contracts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trebuchet-org/salvo/internal/domain/config"
)

const tokenArtifact = `{
  "abi": [
    {"type": "constructor", "inputs": [
      {"name": "name", "type": "string"},
      {"name": "supply", "type": "uint256"}
    ], "stateMutability": "nonpayable"}
  ],
  "bytecode": {"object": "0x6080604052"}
}`

func writeArtifact(t *testing.T, dir, rel, content string) {
	t.Helper()
	path := filepath.Join(dir, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestArtifactStore(t *testing.T) {
	dir := t.TempDir()
	writeArtifact(t, dir, "MyToken.sol/MyToken.json", tokenArtifact)
	writeArtifact(t, dir, "tokens/Vault.sol/Vault.json", tokenArtifact)
	writeArtifact(t, dir, "IVault.sol/IVault.json", `{"abi": [], "bytecode": {"object": "0x"}}`)
	writeArtifact(t, dir, "Linked.sol/Linked.json", `{"abi": [], "bytecode": {"object": "0x60__$abc$__"}}`)

	store := NewArtifactStore(&config.RuntimeConfig{ArtifactsDir: dir})

	t.Run("direct path", func(t *testing.T) {
		art, err := store.Load("MyToken")
		require.NoError(t, err)
		assert.Equal(t, []byte{0x60, 0x80, 0x60, 0x40, 0x52}, art.Bytecode)
		require.Len(t, art.ABI.Constructor.Inputs, 2)
		assert.Equal(t, "supply", art.ABI.Constructor.Inputs[1].Name)

		again, err := store.Load("MyToken")
		require.NoError(t, err)
		assert.Same(t, art, again)
	})

	t.Run("nested path", func(t *testing.T) {
		art, err := store.Load("Vault")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(dir, "tokens", "Vault.sol", "Vault.json"), art.Path)
	})

	t.Run("errors", func(t *testing.T) {
		_, err := store.Load("Missing")
		assert.ErrorContains(t, err, "no compiled artifact")

		_, err = store.Load("IVault")
		assert.ErrorContains(t, err, "no creation bytecode")

		_, err = store.Load("Linked")
		assert.ErrorContains(t, err, "library linking")
	})
}
