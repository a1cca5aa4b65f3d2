package app

import (
	"bytes"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/specialistvlad/manigraph/internal/hcltask"
	"github.com/specialistvlad/manigraph/internal/registry"
	"github.com/stretchr/testify/require"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// setupAppTest writes task into a temporary .hcl file and returns an app
// reading it, with debug logs captured.
func setupAppTest(t *testing.T, task string, modules ...registry.Module) (*App, *SafeBuffer) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "task.hcl")
	require.NoError(t, os.WriteFile(path, []byte(task), 0o644))
	cfg, err := NewConfig(Config{TaskPath: path, LogLevel: "debug"})
	require.NoError(t, err)

	logBuffer := &SafeBuffer{}
	testApp := NewApp(logBuffer, cfg, hcltask.NewLoader(), modules...)

	t.Cleanup(func() {
		if os.Getenv("MANIGRAPH_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logBuffer.String())
		}
	})
	return testApp, logBuffer
}
