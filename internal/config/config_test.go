package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	assert.ErrorIs(t, cfg.Validate(), ErrMissingToken)

	cfg.Token = "tok"
	assert.ErrorIs(t, cfg.Validate(), ErrMissingRepo)

	cfg.Repo = "family/dishes"
	assert.NoError(t, cfg.Validate())
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dishdiary.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
token: file-token
repo: family/dishes
listen: ":9999"
request_timeout: 5s
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file-token", cfg.Token)
	assert.Equal(t, "family/dishes", cfg.Repo)
	assert.Equal(t, ":9999", cfg.Listen)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	// Untouched fields keep defaults.
	assert.Equal(t, "main", cfg.UploadBranch)
}

func TestLoadMissingFileIsOptional(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Listen, cfg.Listen)
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dishdiary.yaml")
	require.NoError(t, os.WriteFile(path, []byte("token: file-token\nrepo: file/repo\n"), 0o644))

	t.Setenv(EnvToken, "env-token")
	t.Setenv(EnvRepo, "env/repo")
	t.Setenv(EnvRPS, "2.5")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-token", cfg.Token)
	assert.Equal(t, "env/repo", cfg.Repo)
	assert.Equal(t, 2.5, cfg.RequestsPerSecond)
}

func TestLegacyEnvFallback(t *testing.T) {
	t.Setenv(EnvToken, "")
	t.Setenv(EnvRepo, "")
	t.Setenv("GITHUB_TOKEN", "legacy-token")
	t.Setenv("GITHUB_REPO", "legacy/repo")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "legacy-token", cfg.Token)
	assert.Equal(t, "legacy/repo", cfg.Repo)
}
