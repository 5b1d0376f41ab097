package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeBridge(); err != nil {
		return err
	}
	c.normalizePanel()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeBridge() error {
	if value, ok := os.LookupEnv("QUEUEPANEL_SOCKET"); ok && strings.TrimSpace(value) != "" {
		c.Bridge.SocketPath = value
	}
	if value, ok := os.LookupEnv("QUEUEPANEL_URL"); ok && strings.TrimSpace(value) != "" {
		c.Bridge.URL = value
	}

	c.Bridge.Transport = strings.ToLower(strings.TrimSpace(c.Bridge.Transport))
	if c.Bridge.Transport == "" {
		c.Bridge.Transport = defaultTransport
	}
	if c.Bridge.Transport == "ws" {
		c.Bridge.Transport = TransportWebsocket
	}

	var err error
	if strings.TrimSpace(c.Bridge.SocketPath) == "" {
		c.Bridge.SocketPath = defaultSocketPath
	}
	if c.Bridge.SocketPath, err = expandPath(strings.TrimSpace(c.Bridge.SocketPath)); err != nil {
		return fmt.Errorf("bridge.socket_path: %w", err)
	}
	c.Bridge.URL = strings.TrimSpace(c.Bridge.URL)
	if c.Bridge.URL == "" {
		c.Bridge.URL = defaultBridgeURL
	}
	if c.Bridge.WriteTimeoutSeconds <= 0 {
		c.Bridge.WriteTimeoutSeconds = defaultWriteTimeoutSeconds
	}
	if c.Bridge.BufferSize <= 0 {
		c.Bridge.BufferSize = defaultBufferSize
	}
	return nil
}

func (c *Config) normalizePanel() {
	if c.Panel.RecentLimit <= 0 {
		c.Panel.RecentLimit = defaultRecentLimit
	}
	if c.Panel.DragDebounceMS <= 0 {
		c.Panel.DragDebounceMS = defaultDragDebounceMS
	}
	if c.Panel.NoticeSeconds <= 0 {
		c.Panel.NoticeSeconds = defaultNoticeSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
