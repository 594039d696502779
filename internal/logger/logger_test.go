package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fileConfig struct {
	file string
}

func (f fileConfig) GetLevel() string  { return "warn" }
func (f fileConfig) GetOutput() string { return "file" }
func (f fileConfig) GetFile() string   { return f.file }

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, DEBUG, ParseLogLevel("DEBUG"))
	assert.Equal(t, WARN, ParseLogLevel("warning"))
	assert.Equal(t, ERROR, ParseLogLevel("error"))
	assert.Equal(t, INFO, ParseLogLevel("bogus"))
}

func TestInitFileOutput(t *testing.T) {
	prev := defaultLogger
	defer func() { defaultLogger = prev }()

	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, Init(fileConfig{file: path}))

	Info("dropped below level")
	Warn("outbox replay failed for %s", "0xabc")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "outbox replay failed for 0xabc")
	assert.NotContains(t, string(data), "dropped below level")
}

func TestNewWithLumberjackConfigRequiresFile(t *testing.T) {
	_, err := NewWithLumberjackConfig(INFO, LumberjackConfig{})
	assert.Error(t, err)
}
