package app

import (
	"bytes"
	"os"
	"sync"
	"testing"

	"github.com/vk/yxflow/internal/hcl_adapter"
)

// SafeBuffer is a thread-safe buffer for capturing output in tests.
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

// SetupAppTest creates a new app instance for system testing. It returns
// the app, its result output and its log output.
func SetupAppTest(t *testing.T, cfg Config, opts ...Option) (*App, *SafeBuffer, *SafeBuffer) {
	t.Helper()

	cfg.LogLevel = "debug"
	appConfig, err := NewConfig(cfg)
	if err != nil {
		t.Fatalf("invalid test configuration: %v", err)
	}

	out, logs := &SafeBuffer{}, &SafeBuffer{}
	testApp := NewApp(out, logs, appConfig, hcl_adapter.NewLoader(), opts...)

	t.Cleanup(func() {
		if os.Getenv("YXFLOW_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), logs.String())
		}
	})

	return testApp, out, logs
}
