package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jploot/picomaven/pkg/checksum"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "picomaven.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, []string{DefaultRepository}, cfg.Repositories)
	assert.Equal(t, DefaultHTTPTimeout, cfg.Settings.HTTPTimeout)
	assert.Equal(t, DefaultWorkers, cfg.Settings.Workers)
	assert.Equal(t, "info", cfg.Settings.LogLevel)
	assert.NotEmpty(t, cfg.Settings.DownloadDir)
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
repositories:
  - https://repo.example.org/maven2
  - https://mirror.example.org/maven2
artifacts:
  - coordinate: org.example:lib:1.0
    transitive: true
  - coordinate: org.example:tool:2.0:cli
    checksums:
      - algo: sha256
        value: ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad
settings:
  download_dir: /tmp/artifacts
  http_timeout: 10s
  workers: 8
  log_level: debug
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Len(t, cfg.Repositories, 2)
	assert.Equal(t, "/tmp/artifacts", cfg.Settings.DownloadDir)
	assert.Equal(t, 10*time.Second, cfg.Settings.HTTPTimeout)
	assert.Equal(t, 8, cfg.Settings.Workers)
	assert.Equal(t, "debug", cfg.Settings.LogLevel)

	urls, err := cfg.RepositoryURLs()
	require.NoError(t, err)
	require.Len(t, urls, 2)
	assert.Equal(t, "https://repo.example.org/maven2", urls[0].String())

	roots, err := cfg.RootDependencies()
	require.NoError(t, err)
	require.Len(t, roots, 2)
	assert.True(t, roots[0].Transitive)
	assert.Empty(t, roots[0].Checksums)
	assert.Equal(t, "cli", roots[1].Coordinate.Classifier)
	require.Len(t, roots[1].Checksums, 1)
	assert.Equal(t, checksum.SHA256, roots[1].Checksums[0].Algo)
}

func TestLoadConfigDefaultsApplied(t *testing.T) {
	path := writeConfig(t, `
artifacts:
  - coordinate: org.example:lib:1.0
`)
	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, []string{DefaultRepository}, cfg.Repositories)
	assert.Equal(t, DefaultWorkers, cfg.Settings.Workers)
	assert.Equal(t, DefaultHTTPTimeout, cfg.Settings.HTTPTimeout)
}

func TestLoadConfigErrors(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		_, err := LoadConfig("")
		require.Error(t, err)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("bad yaml", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "repositories: ["))
		require.Error(t, err)
	})

	t.Run("bad coordinate", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "artifacts:\n  - coordinate: not-a-coordinate\n"))
		require.Error(t, err)
	})

	t.Run("bad repository URL", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, "repositories:\n  - notaurl\n"))
		require.Error(t, err)
	})

	t.Run("bad checksum algo", func(t *testing.T) {
		_, err := LoadConfig(writeConfig(t, `
artifacts:
  - coordinate: a:b:1
    checksums:
      - algo: crc32
        value: "00"
`))
		require.Error(t, err)
	})
}
