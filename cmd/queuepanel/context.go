package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"queuepanel/internal/bridge"
	"queuepanel/internal/config"
	"queuepanel/internal/logging"
	"queuepanel/internal/panel"
	"queuepanel/internal/protocol"
)

type commandContext struct {
	socketFlag *string
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(socketFlag, configFlag *string) *commandContext {
	return &commandContext{
		socketFlag: socketFlag,
		configFlag: configFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if socket := c.socketOverride(); socket != "" {
			expanded, err := config.ExpandPath(socket)
			if err != nil {
				c.configErr = fmt.Errorf("resolve socket path: %w", err)
				return
			}
			cfg.Bridge.Transport = config.TransportSocket
			cfg.Bridge.SocketPath = expanded
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) socketOverride() string {
	if c.socketFlag == nil {
		return ""
	}
	return strings.TrimSpace(*c.socketFlag)
}

// logger builds the process logger. Interactive sessions keep the terminal
// for the panel and log to the file only.
func (c *commandContext) logger(console bool) (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := logging.NewFromConfig(cfg, console)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return logger, nil
}

func (c *commandContext) dial(ctx context.Context, logger *slog.Logger) (bridge.Bridge, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	b, err := bridge.Dial(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to controller: %w", err)
	}
	return b, nil
}

func panelOptions(cfg *config.Config) panel.Options {
	return panel.Options{
		Priority: cfg.Ingest.DefaultPriority,
		Processing: protocol.ProcessingOptions{
			MaxConcurrency:  cfg.Processing.MaxConcurrency,
			ContinueOnError: cfg.Processing.ContinueOnError,
			ChatWaitTime:    cfg.Processing.ChatWaitTimeMS,
		},
		RecentLimit:    cfg.Panel.RecentLimit,
		DragDebounce:   cfg.DragDebounce(),
		NoticeDuration: cfg.NoticeDuration(),
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
