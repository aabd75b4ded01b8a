package logging_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/katalvlaran/kruskalctl/logging"
)

func TestNew_JSONToStdout(t *testing.T) {
	var buf bytes.Buffer
	level, logger, err := logging.New(logging.Options{Level: "debug", Format: logging.FormatJSON, Stdout: &buf})
	require.NoError(t, err)
	assert.Equal(t, zapcore.DebugLevel, level.Level())

	logger.Debug("hello", zap.Int("n", 3))
	require.NoError(t, logger.Sync())

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "debug", entry["level"])
	assert.EqualValues(t, 3, entry["n"])
	assert.Contains(t, entry, "caller")
}

func TestNew_AtomicLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	level, logger, err := logging.New(logging.Options{Stdout: &buf})
	require.NoError(t, err)
	assert.Equal(t, zapcore.InfoLevel, level.Level())

	logger.Debug("dropped")
	assert.Zero(t, buf.Len())

	level.SetLevel(zapcore.DebugLevel)
	logger.Debug("kept")
	assert.Contains(t, buf.String(), "kept")
	assert.Contains(t, buf.String(), "DEBUG")
}

func TestNew_FileTee(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kruskalctl.log")
	var buf bytes.Buffer
	_, logger, err := logging.New(logging.Options{File: path, Stdout: &buf})
	require.NoError(t, err)

	logger.Warn("to both")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"to both"`)
	assert.Contains(t, buf.String(), "to both")
}

func TestNew_BadOptions(t *testing.T) {
	_, _, err := logging.New(logging.Options{Level: "loud"})
	assert.Error(t, err)

	_, _, err = logging.New(logging.Options{Format: "xml"})
	assert.ErrorIs(t, err, logging.ErrUnknownFormat)
}

func TestRotatingFile_Defaults(t *testing.T) {
	l := logging.RotatingFile(logging.Options{File: "x.log", MaxSizeMB: 5})
	assert.Equal(t, 5, l.MaxSize)
	assert.Equal(t, logging.DefaultMaxAgeDays, l.MaxAge)
	assert.Equal(t, logging.DefaultMaxBackups, l.MaxBackups)
}
