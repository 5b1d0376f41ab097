package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateBridge(); err != nil {
		return err
	}
	if err := c.validateIngest(); err != nil {
		return err
	}
	if err := c.validateProcessing(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateBridge() error {
	switch c.Bridge.Transport {
	case TransportSocket:
		if c.Bridge.SocketPath == "" {
			return errors.New("bridge.socket_path must be set when bridge.transport is socket")
		}
	case TransportWebsocket:
		parsed, err := url.Parse(c.Bridge.URL)
		if err != nil {
			return fmt.Errorf("bridge.url: %w", err)
		}
		if parsed.Scheme != "ws" && parsed.Scheme != "wss" {
			return fmt.Errorf("bridge.url must use ws or wss scheme, got %q", parsed.Scheme)
		}
	default:
		return fmt.Errorf("bridge.transport: unsupported value %q (use socket or websocket)", c.Bridge.Transport)
	}
	return nil
}

func (c *Config) validateIngest() error {
	if c.Ingest.DefaultPriority < 1 || c.Ingest.DefaultPriority > 4 {
		return errors.New("ingest.default_priority must be between 1 and 4")
	}
	return nil
}

func (c *Config) validateProcessing() error {
	if c.Processing.MaxConcurrency < 1 {
		return errors.New("processing.max_concurrency must be at least 1")
	}
	if c.Processing.ChatWaitTimeMS < 0 {
		return errors.New("processing.chat_wait_time_ms must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
