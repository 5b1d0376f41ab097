package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"queuepanel/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The socket lives under a short temp path so it stays within the platform's
// socket path limit.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Bridge.SocketPath = SocketPath(t)
	cfgVal.Logging.Level = "debug"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithWebsocketURL switches the test config to the websocket transport.
func WithWebsocketURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Bridge.Transport = config.TransportWebsocket
		b.cfg.Bridge.URL = url
	}
}

// WithLogFormat overrides the log format on the test config.
func WithLogFormat(format string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Logging.Format = format
	}
}

// WithPriority overrides the priority assigned to dropped files.
func WithPriority(priority int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Ingest.DefaultPriority = priority
	}
}

// SocketPath returns a fresh socket path in a short temp directory that is
// removed when the test ends.
func SocketPath(t testing.TB) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "qp")
	if err != nil {
		t.Fatalf("mkdir socket dir: %v", err)
	}
	t.Cleanup(func() { _ = os.RemoveAll(dir) })
	return filepath.Join(dir, "ctl.sock")
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.LogDir)
}
