package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/statimport/pkg/errors"
)

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
	assert.Contains(t, err.Error(), "invalid log level")

	_, err = New(Config{Encoding: "xml"})
	assert.True(t, errors.IsType(err, errors.ErrorTypeConfig))
}

func TestNewWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(Config{Level: "warn", Output: &buf})
	require.NoError(t, err)

	l.Info("dropped")
	l.Warn("kept")
	require.NoError(t, l.Sync())

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), buf.String())
	assert.Equal(t, "kept", entry["message"])
	assert.Equal(t, "warn", entry["level"])
	assert.Contains(t, entry, "timestamp")
}

func TestInitReplacesGlobalLogger(t *testing.T) {
	require.NoError(t, Init(Config{Level: "debug", Encoding: "console"}))
	first := Get()
	require.NotNil(t, first)

	require.NoError(t, Init(DefaultConfig()))
	assert.NotSame(t, first, Get())
}

func TestWithContextAddsFields(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Config{Output: &buf}))
	t.Cleanup(func() { _ = Init(DefaultConfig()) })

	ctx := context.WithValue(context.Background(), ImportIDKey, "imp-1")
	ctx = context.WithValue(ctx, FileKey, "stats.csv")
	ctx = context.WithValue(ctx, CommandKey, "import")

	WithContext(ctx).Info("hello")
	require.NoError(t, Sync())

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry), buf.String())
	assert.Equal(t, "imp-1", entry["import_id"])
	assert.Equal(t, "stats.csv", entry["file"])
	assert.Equal(t, "import", entry["command"])
}
