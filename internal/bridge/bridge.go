package bridge

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"queuepanel/internal/config"
	"queuepanel/internal/protocol"
)

var (
	// ErrClosed is returned by Send after the bridge has shut down.
	ErrClosed = errors.New("bridge closed")
	// ErrBufferFull is returned when outbound commands back up faster than the
	// transport drains them.
	ErrBufferFull = errors.New("bridge send buffer full")
)

// Bridge is the asynchronous channel between the panel and the controller.
//
// Send is fire-and-forget: it queues the envelope and returns without waiting
// for delivery or a reply. The controller answers, if at all, with a later
// push delivered on Events. The Events channel closes when the bridge stops;
// Err then reports why.
type Bridge interface {
	Send(env protocol.Envelope) error
	Events() <-chan protocol.Event
	Err() error
	Close() error
}

// Options tune a dialled bridge.
type Options struct {
	WriteTimeout time.Duration
	BufferSize   int
	PingInterval time.Duration
}

func (o Options) withDefaults() Options {
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 5 * time.Second
	}
	if o.BufferSize <= 0 {
		o.BufferSize = 64
	}
	return o
}

// OptionsFromConfig derives bridge options from application config.
func OptionsFromConfig(cfg *config.Config) Options {
	if cfg == nil {
		return Options{}.withDefaults()
	}
	return Options{
		WriteTimeout: cfg.WriteTimeout(),
		BufferSize:   cfg.Bridge.BufferSize,
		PingInterval: 15 * time.Second,
	}.withDefaults()
}

// Dial connects using the transport selected in cfg and starts the bridge.
// The bridge stops when ctx is cancelled or Close is called.
func Dial(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Bridge, error) {
	if cfg == nil {
		return nil, errors.New("dial bridge: config is required")
	}
	opts := OptionsFromConfig(cfg)
	switch cfg.Bridge.Transport {
	case config.TransportSocket:
		return DialSocket(ctx, cfg.Bridge.SocketPath, opts, logger)
	case config.TransportWebsocket:
		return DialWebsocket(ctx, cfg.Bridge.URL, opts, logger)
	default:
		return nil, fmt.Errorf("dial bridge: unsupported transport %q", cfg.Bridge.Transport)
	}
}
