package xconf_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omeyang/xdiag/pkg/config/xconf"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestNewDetectsFormat(t *testing.T) {
	yamlPath := writeFile(t, "settings.yaml", "general:\n  loggingLevel: DEBUG\n")
	cfg, err := xconf.New(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, xconf.FormatYAML, cfg.Format())
	assert.Equal(t, "DEBUG", cfg.Client().String("general.loggingLevel"))
	assert.Equal(t, yamlPath, cfg.Path())

	jsonPath := writeFile(t, "settings.json", `{"general":{"loggingLevel":"IO"}}`)
	cfg, err = xconf.New(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, xconf.FormatJSON, cfg.Format())
	assert.Equal(t, "IO", cfg.Client().String("general.loggingLevel"))
}

func TestNewErrors(t *testing.T) {
	_, err := xconf.New("")
	assert.ErrorIs(t, err, xconf.ErrEmptyPath)

	_, err = xconf.New(filepath.Join(t.TempDir(), "settings.ini"))
	assert.ErrorIs(t, err, xconf.ErrUnsupportedFormat)

	_, err = xconf.New(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, xconf.ErrLoadFailed)

	_, err = xconf.New(writeFile(t, "bad.json", "{"))
	assert.ErrorIs(t, err, xconf.ErrParseFailed)
}

func TestOpenMissingThenSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.yaml")
	cfg, err := xconf.Open(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Client().Keys())

	require.NoError(t, cfg.Set("general.loggingLevel", "INFO"))
	require.NoError(t, cfg.Save())

	reloaded, err := xconf.New(path)
	require.NoError(t, err)
	assert.Equal(t, "INFO", reloaded.Client().String("general.loggingLevel"))

	info, err := os.Stat(path)
	require.NoError(t, err)
	if os.PathSeparator == '/' {
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	}
}

func TestSaveKeepsOtherKeys(t *testing.T) {
	path := writeFile(t, "settings.json", `{"general":{"loggingLevel":"bogus"},"speech":{"rate":50}}`)
	cfg, err := xconf.New(path)
	require.NoError(t, err)

	require.NoError(t, cfg.Set("general.loggingLevel", "INFO"))
	require.NoError(t, cfg.Save())

	reloaded, err := xconf.New(path)
	require.NoError(t, err)
	assert.Equal(t, "INFO", reloaded.Client().String("general.loggingLevel"))
	assert.Equal(t, 50, reloaded.Client().Int("speech.rate"))
}

func TestReload(t *testing.T) {
	path := writeFile(t, "settings.yaml", "general:\n  loggingLevel: DEBUG\n")
	cfg, err := xconf.New(path)
	require.NoError(t, err)
	old := cfg.Client()

	require.NoError(t, os.WriteFile(path, []byte("general:\n  loggingLevel: IO\n"), 0o600))
	require.NoError(t, cfg.Reload())
	assert.Equal(t, "IO", cfg.Client().String("general.loggingLevel"))
	// 旧快照保持不变
	assert.Equal(t, "DEBUG", old.String("general.loggingLevel"))

	require.NoError(t, os.WriteFile(path, []byte("general: [\n"), 0o600))
	assert.ErrorIs(t, cfg.Reload(), xconf.ErrParseFailed)
	assert.Equal(t, "IO", cfg.Client().String("general.loggingLevel"))
}

func TestFromBytes(t *testing.T) {
	cfg, err := xconf.NewFromBytes([]byte("a:\n  b: 1\n"), xconf.FormatYAML)
	require.NoError(t, err)
	assert.Equal(t, 1, cfg.Client().Int("a.b"))
	assert.Empty(t, cfg.Path())
	assert.ErrorIs(t, cfg.Save(), xconf.ErrNotPersistent)
	assert.ErrorIs(t, cfg.Reload(), xconf.ErrNotPersistent)

	var target struct {
		B int `koanf:"b"`
	}
	require.NoError(t, cfg.Unmarshal("a", &target))
	assert.Equal(t, 1, target.B)

	_, err = xconf.NewFromBytes(nil, "toml")
	assert.ErrorIs(t, err, xconf.ErrUnsupportedFormat)
}

func TestWithDelim(t *testing.T) {
	cfg, err := xconf.NewFromBytes([]byte(`{"a":{"b":"c"}}`), xconf.FormatJSON, xconf.WithDelim("/"), xconf.WithTag(""))
	require.NoError(t, err)
	assert.Equal(t, "c", cfg.Client().String("a/b"))
}
