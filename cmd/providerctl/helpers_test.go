package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 10))
	assert.Equal(t, "hell…", truncate("hello world", 5))
	assert.Equal(t, "hello world", truncate("hello\nworld", 20))
	assert.Empty(t, truncate("", 5))

	// Wide runes count as two cells.
	assert.Equal(t, "日本…", truncate("日本語のモデル", 5))
}

func TestFmtDuration(t *testing.T) {
	tests := []struct {
		input    time.Duration
		expected string
	}{
		{250 * time.Millisecond, "250ms"},
		{2 * time.Second, "2.0s"},
		{1500 * time.Millisecond, "1.5s"},
		{65 * time.Second, "1m 5s"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, fmtDuration(tt.input), "fmtDuration(%v)", tt.input)
	}
}

func TestLoadDotEnv(t *testing.T) {
	assert.NoError(t, loadDotEnv(filepath.Join(t.TempDir(), "missing.env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PROVIDERCTL_DOTENV_TEST=from-file\n"), 0o600))
	t.Setenv("PROVIDERCTL_DOTENV_TEST", "")
	require.NoError(t, os.Unsetenv("PROVIDERCTL_DOTENV_TEST"))

	require.NoError(t, loadDotEnv(path))
	assert.Equal(t, "from-file", os.Getenv("PROVIDERCTL_DOTENV_TEST"))
}

func TestResolveConfigPath(t *testing.T) {
	assert.Equal(t, "custom.yaml", resolveConfigPath("custom.yaml"))

	t.Chdir(t.TempDir())
	assert.Equal(t, "providerctl.yaml", resolveConfigPath(""))

	require.NoError(t, os.MkdirAll(".providerctl", 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(".providerctl", "config.yaml"), []byte("endpoint: http://h\n"), 0o600))
	assert.Equal(t, filepath.Join(".providerctl", "config.yaml"), resolveConfigPath(""))
}

func TestDispatch_UnknownCommand(t *testing.T) {
	err := dispatch("frobnicate", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown command "frobnicate"`)
}
