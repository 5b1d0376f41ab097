package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	LogDir string `toml:"log_dir"`
}

// Bridge contains configuration for the controller message channel.
type Bridge struct {
	Transport           string `toml:"transport"`
	SocketPath          string `toml:"socket_path"`
	URL                 string `toml:"url"`
	WriteTimeoutSeconds int    `toml:"write_timeout_seconds"`
	BufferSize          int    `toml:"buffer_size"`
}

// Ingest contains configuration for drag-and-drop ingestion.
type Ingest struct {
	DefaultPriority int `toml:"default_priority"`
}

// Processing contains the options sent with start and repeat commands.
type Processing struct {
	MaxConcurrency  int  `toml:"max_concurrency"`
	ContinueOnError bool `toml:"continue_on_error"`
	ChatWaitTimeMS  int  `toml:"chat_wait_time_ms"`
}

// Panel contains view timing and list sizes.
type Panel struct {
	RecentLimit    int `toml:"recent_limit"`
	DragDebounceMS int `toml:"drag_debounce_ms"`
	NoticeSeconds  int `toml:"notice_seconds"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for the queue panel.
//
// Configuration sections by subsystem:
//   - Paths: log and runtime directory
//   - Bridge: transport used to reach the controller
//   - Ingest: defaults applied to dropped files
//   - Processing: options forwarded with start/repeat commands
//   - Panel: list sizes and transient UI timings
//   - Logging: log format and level
type Config struct {
	Paths      Paths      `toml:"paths"`
	Bridge     Bridge     `toml:"bridge"`
	Ingest     Ingest     `toml:"ingest"`
	Processing Processing `toml:"processing"`
	Panel      Panel      `toml:"panel"`
	Logging    Logging    `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("queuepanel.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the log directory and the parent of the socket
// path so the panel can write its log and lock files.
func (c *Config) EnsureDirectories() error {
	dirs := []string{c.Paths.LogDir}
	if c.Bridge.Transport == TransportSocket && c.Bridge.SocketPath != "" {
		dirs = append(dirs, filepath.Dir(c.Bridge.SocketPath))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// LogPath returns the panel log file location.
func (c *Config) LogPath() string {
	return filepath.Join(c.Paths.LogDir, "queuepanel.log")
}

// LockPath returns the single-instance lock file location.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.LogDir, "queuepanel.lock")
}

// WriteTimeout returns the bridge write deadline.
func (c *Config) WriteTimeout() time.Duration {
	return time.Duration(c.Bridge.WriteTimeoutSeconds) * time.Second
}

// DragDebounce returns the delay before a drag indicator is removed.
func (c *Config) DragDebounce() time.Duration {
	return time.Duration(c.Panel.DragDebounceMS) * time.Millisecond
}

// NoticeDuration returns how long transient notices stay visible.
func (c *Config) NoticeDuration() time.Duration {
	return time.Duration(c.Panel.NoticeSeconds) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
