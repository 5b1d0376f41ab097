package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"queuepanel/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("QUEUEPANEL_SOCKET", "")
	t.Setenv("QUEUEPANEL_URL", "")
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantLogDir := filepath.Join(tempHome, ".local", "share", "queuepanel", "logs")
	if cfg.Paths.LogDir != wantLogDir {
		t.Fatalf("unexpected log dir: got %q want %q", cfg.Paths.LogDir, wantLogDir)
	}
	wantSocket := filepath.Join(tempHome, ".local", "share", "queuepanel", "controller.sock")
	if cfg.Bridge.SocketPath != wantSocket {
		t.Fatalf("unexpected socket path: got %q want %q", cfg.Bridge.SocketPath, wantSocket)
	}
	if cfg.Bridge.Transport != config.TransportSocket {
		t.Fatalf("expected socket transport by default, got %q", cfg.Bridge.Transport)
	}
	if cfg.Ingest.DefaultPriority != 2 {
		t.Fatalf("expected default priority 2, got %d", cfg.Ingest.DefaultPriority)
	}
	if cfg.Processing.MaxConcurrency != 1 || !cfg.Processing.ContinueOnError || cfg.Processing.ChatWaitTimeMS != 60000 {
		t.Fatalf("unexpected processing defaults: %+v", cfg.Processing)
	}
	if cfg.Panel.RecentLimit != 10 {
		t.Fatalf("expected recent limit 10, got %d", cfg.Panel.RecentLimit)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.LogDir, filepath.Dir(cfg.Bridge.SocketPath)} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "queuepanel.toml")

	type payload struct {
		Bridge struct {
			Transport string `toml:"transport"`
			URL       string `toml:"url"`
		} `toml:"bridge"`
		Ingest struct {
			DefaultPriority int `toml:"default_priority"`
		} `toml:"ingest"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Bridge.Transport = " WS "
	custom.Bridge.URL = "ws://controller.local:9000/panel"
	custom.Ingest.DefaultPriority = 3
	custom.Logging.Format = "JSON"

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected custom config to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Bridge.Transport != config.TransportWebsocket {
		t.Fatalf("expected websocket transport, got %q", cfg.Bridge.Transport)
	}
	if cfg.Bridge.URL != "ws://controller.local:9000/panel" {
		t.Fatalf("unexpected url: %q", cfg.Bridge.URL)
	}
	if cfg.Ingest.DefaultPriority != 3 {
		t.Fatalf("expected priority 3, got %d", cfg.Ingest.DefaultPriority)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("expected normalized json format, got %q", cfg.Logging.Format)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "priority out of range",
			content: "[ingest]\ndefault_priority = 7\n",
			want:    "ingest.default_priority",
		},
		{
			name:    "unknown transport",
			content: "[bridge]\ntransport = \"carrier-pigeon\"\n",
			want:    "bridge.transport",
		},
		{
			name:    "websocket with http scheme",
			content: "[bridge]\ntransport = \"websocket\"\nurl = \"http://localhost\"\n",
			want:    "bridge.url",
		},
		{
			name:    "unknown log format",
			content: "[logging]\nformat = \"xml\"\n",
			want:    "logging.format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			if err := os.WriteFile(path, []byte(tt.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			_, _, _, err := config.Load(path)
			if err == nil {
				t.Fatalf("expected error containing %q", tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
}

func TestSocketEnvOverride(t *testing.T) {
	override := filepath.Join(t.TempDir(), "ctl.sock")
	t.Setenv("QUEUEPANEL_SOCKET", override)

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Bridge.SocketPath != override {
		t.Fatalf("expected socket override %q, got %q", override, cfg.Bridge.SocketPath)
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load sample: %v", err)
	}
	if !exists {
		t.Fatal("expected sample file to exist")
	}
	if cfg.Panel.DragDebounceMS != 100 {
		t.Fatalf("unexpected debounce: %d", cfg.Panel.DragDebounceMS)
	}
}
