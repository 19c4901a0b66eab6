package harness

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaultsWithoutManifest(t *testing.T) {
	dir := t.TempDir()
	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	require.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigWalksUp(t *testing.T) {
	root := t.TempDir()
	manifest := `[runner]
command = ["node", "run-tests.js"]
extension = ".spec.js"

[staging]
root = "/tmp/custom-staging"

[cache]
exec = true
`
	require.NoError(t, os.WriteFile(filepath.Join(root, "morph.toml"), []byte(manifest), 0o644))
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, err := LoadConfig(nested)
	require.NoError(t, err)
	require.Equal(t, []string{"node", "run-tests.js"}, cfg.Runner.Command)
	require.Equal(t, ".spec.js", cfg.Runner.Extension)
	require.Equal(t, "/tmp/custom-staging", cfg.Staging.Root)
	require.True(t, cfg.Cache.Exec)
}

func TestLoadConfigPartialManifestKeepsDefaults(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "morph.toml"),
		[]byte("[runner]\ncommand = [\"node\"]\n"), 0o644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	require.Equal(t, []string{"node"}, cfg.Runner.Command)
	require.Equal(t, DefaultConfig().Runner.Extension, cfg.Runner.Extension)
	require.Equal(t, DefaultConfig().Staging.Root, cfg.Staging.Root)
	require.False(t, cfg.Cache.Exec)
}

func TestLoadConfigRejectsEmptyRunnerCommand(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "morph.toml"),
		[]byte("[runner]\ncommand = []\n"), 0o644))

	_, err := LoadConfig(dir)
	require.ErrorContains(t, err, "runner.command")
}

func TestLoadConfigRejectsMalformedManifest(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "morph.toml"),
		[]byte("[runner\n"), 0o644))

	_, err := LoadConfig(dir)
	require.Error(t, err)
}

func TestFindMorphTomlAbsent(t *testing.T) {
	_, ok, err := FindMorphToml(t.TempDir())
	require.NoError(t, err)
	require.False(t, ok)
}
