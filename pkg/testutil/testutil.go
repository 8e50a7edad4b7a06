// Package testutil provides testing utilities for statimport
package testutil

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/ajitpratap0/statimport/pkg/compression"
)

// TestLogger creates a logger that writes to the test output
func TestLogger(tb testing.TB) *zap.Logger {
	return zaptest.NewLogger(tb)
}

// TestContext creates a context with a 30-second timeout, cancelled when the
// test completes. The returned cancel function may be called earlier.
func TestContext(tb testing.TB) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	tb.Cleanup(cancel)
	return ctx, cancel
}

// WriteFile writes content to name inside a per-test temporary directory
// and returns the full path.
func WriteFile(tb testing.TB, name string, content []byte) string {
	tb.Helper()

	path := filepath.Join(tb.TempDir(), name)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		tb.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

// Compress encodes data with alg at the default level
func Compress(tb testing.TB, alg compression.Algorithm, data string) []byte {
	tb.Helper()

	var buf bytes.Buffer
	w, err := compression.NewWriter(&buf, alg, compression.Default)
	if err != nil {
		tb.Fatalf("create %s writer: %v", alg, err)
	}
	if _, err := io.WriteString(w, data); err != nil {
		tb.Fatalf("compress with %s: %v", alg, err)
	}
	if err := w.Close(); err != nil {
		tb.Fatalf("close %s writer: %v", alg, err)
	}
	return buf.Bytes()
}
