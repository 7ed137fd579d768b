package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	require.NoError(t, err)

	assert.Equal(t, Default(), cfg)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_PartialFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noema.toml")
	content := `
data_dir = "/tmp/noema-test"

[ai]
embedding_model = "text-embedding-3-small"

[search]
max_suggestions = 3
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/tmp/noema-test", cfg.DataDir)
	assert.Equal(t, "text-embedding-3-small", cfg.AI.EmbeddingModel)
	assert.Equal(t, 3, cfg.Search.MaxSuggestions)

	// Untouched keys keep their defaults
	def := Default()
	assert.Equal(t, def.AI.ExtractorModel, cfg.AI.ExtractorModel)
	assert.Equal(t, def.Search.SemanticWeight, cfg.Search.SemanticWeight)
}

func TestLoad_InvalidWeightsRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noema.toml")
	content := `
[search]
semantic_weight = 0.9
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noema.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = [valid"), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "noema.toml")

	cfg := Default()
	cfg.DataDir = "/var/lib/noema"
	cfg.Search.MaxSuggestions = 7
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestConfigConversions(t *testing.T) {
	cfg := Default()

	sc := cfg.SearchConfig()
	require.NoError(t, sc.Validate())
	assert.Equal(t, 30*24*time.Hour, sc.RecencyHalfLife)
	assert.Equal(t, 5*time.Second, sc.RetrievalTimeout)

	ac := cfg.AIConfig()
	require.NoError(t, ac.Validate())
	assert.Equal(t, "embeddinggemma", ac.EmbeddingModel)

	rc := cfg.ReindexConfig()
	assert.Equal(t, 100, rc.BatchSize)
	assert.Equal(t, time.Second, rc.RetryDelay)
}

func TestResolveDataDir(t *testing.T) {
	cfg := Default()
	cfg.DataDir = "/explicit"
	dir, err := cfg.ResolveDataDir()
	require.NoError(t, err)
	assert.Equal(t, "/explicit", dir)

	cfg.DataDir = ""
	dir, err = cfg.ResolveDataDir()
	require.NoError(t, err)
	assert.Contains(t, dir, ".noema")
}
