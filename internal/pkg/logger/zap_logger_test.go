package logger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsolatedLoggerWritesJSONLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "realtime.log")
	l := NewIsolatedLogger(path)

	l.Debug("HUB", "dropped below file level", nil)
	l.Info("HUB", "client registered", map[string]interface{}{"user_id": "u1"})
	l.Error("HUB", "broadcast failed", map[string]interface{}{"error": errors.New("boom")})
	_ = l.Sync()

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(raw)

	assert.Contains(t, out, `"message":"client registered"`)
	assert.Contains(t, out, `"module":"HUB"`)
	assert.Contains(t, out, `"level":"ERROR"`)
	assert.NotContains(t, out, "dropped below file level")
}

func TestNopLogger(t *testing.T) {
	var l ILogger = NewNopLogger()
	assert.NotPanics(t, func() {
		l.Info("TEST", "nothing", nil)
		l.Error("TEST", "nothing", map[string]interface{}{"error": "not an error value"})
	})
}
