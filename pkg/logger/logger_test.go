package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_FileOutputJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")

	l, err := New(Options{Level: "info", Format: "json", Output: path})
	require.NoError(t, err)

	l.Debug("hidden")
	l.Info("order committed", zap.Uint("order_id", 7))
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"order committed"`)
	assert.Contains(t, string(data), `"order_id":7`)
	assert.NotContains(t, string(data), "hidden")
}

func TestNew_InvalidOptions(t *testing.T) {
	_, err := New(Options{Level: "verbose"})
	assert.Error(t, err)

	_, err = New(Options{Format: "xml"})
	assert.Error(t, err)
}

func TestSetup_ReplacesGlobals(t *testing.T) {
	l, restore, err := Setup(Options{Level: "warn", Output: "stderr"})
	require.NoError(t, err)
	defer restore()

	assert.Same(t, l, zap.L())
}
