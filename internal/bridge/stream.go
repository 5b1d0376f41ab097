package bridge

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"queuepanel/internal/logging"
	"queuepanel/internal/protocol"
)

// frameConn moves whole JSON documents over a transport.
type frameConn interface {
	ReadFrame(ctx context.Context) ([]byte, error)
	WriteFrame(ctx context.Context, frame []byte) error
	Close() error
}

// pinger is implemented by transports with a keepalive.
type pinger interface {
	Ping(ctx context.Context) error
}

// streamBridge runs one read loop and one write loop over a frameConn and
// hands messages to the panel through channels.
type streamBridge struct {
	conn   frameConn
	opts   Options
	logger *slog.Logger

	msgRx   chan protocol.Event // decoded pushes from the controller
	msgTx   chan []byte         // encoded commands waiting for the writer
	closing chan struct{}       // closed once shutdown begins

	closeOnce sync.Once
	wg        sync.WaitGroup
	pending   atomic.Int64 // queued or in-flight commands

	mu    sync.Mutex
	cause error
}

func newStreamBridge(conn frameConn, opts Options, logger *slog.Logger) *streamBridge {
	opts = opts.withDefaults()
	return &streamBridge{
		conn:    conn,
		opts:    opts,
		logger:  logger,
		msgRx:   make(chan protocol.Event, opts.BufferSize),
		msgTx:   make(chan []byte, opts.BufferSize),
		closing: make(chan struct{}),
	}
}

func (b *streamBridge) start(ctx context.Context) {
	b.wg.Add(3)
	go b.readLoop(ctx)
	go b.writeLoop(ctx)
	go func() {
		defer b.wg.Done()
		select {
		case <-ctx.Done():
			b.shutdown(ctx.Err())
		case <-b.closing:
		}
	}()
}

func (b *streamBridge) Send(env protocol.Envelope) error {
	frame, err := protocol.Encode(env)
	if err != nil {
		return err
	}
	select {
	case <-b.closing:
		return ErrClosed
	default:
	}
	b.pending.Add(1)
	select {
	case b.msgTx <- frame:
		return nil
	case <-b.closing:
		b.pending.Add(-1)
		return ErrClosed
	default:
		b.pending.Add(-1)
		return ErrBufferFull
	}
}

func (b *streamBridge) Events() <-chan protocol.Event {
	return b.msgRx
}

func (b *streamBridge) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.cause
}

// Close waits up to the write timeout for queued commands to reach the
// transport, then shuts the bridge down.
func (b *streamBridge) Close() error {
	b.drain(b.opts.WriteTimeout)
	b.shutdown(nil)
	b.wg.Wait()
	return nil
}

func (b *streamBridge) drain(timeout time.Duration) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	tick := time.NewTicker(5 * time.Millisecond)
	defer tick.Stop()
	for b.pending.Load() > 0 {
		select {
		case <-b.closing:
			return
		case <-deadline.C:
			b.logger.Debug("bridge closed with unsent commands", logging.Int("pending", int(b.pending.Load())))
			return
		case <-tick.C:
		}
	}
}

func (b *streamBridge) shutdown(cause error) {
	b.closeOnce.Do(func() {
		b.mu.Lock()
		b.cause = cause
		b.mu.Unlock()
		close(b.closing)
		if err := b.conn.Close(); err != nil && !isExpectedClose(err) {
			b.logger.Debug("close transport", logging.Error(err))
		}
	})
}

func (b *streamBridge) readLoop(ctx context.Context) {
	defer func() {
		b.logger.Debug("bridge reader shutdown")
		close(b.msgRx)
		b.wg.Done()
	}()

	for {
		frame, err := b.conn.ReadFrame(ctx)
		if err != nil {
			if isExpectedClose(err) {
				b.shutdown(nil)
			} else {
				logging.WarnWithContext(b.logger, "bridge receive failed", "bridge_recv_failed",
					logging.Error(err),
					logging.String(logging.FieldErrorHint, "verify the controller is running"),
					logging.String(logging.FieldImpact, "queue updates stop until the panel reconnects"),
				)
				b.shutdown(err)
			}
			return
		}

		event, err := protocol.DecodeEvent(frame)
		if err != nil && !errors.Is(err, protocol.ErrUnknownType) {
			logging.WarnWithContext(b.logger, "bridge dropped malformed frame", "bridge_bad_frame",
				logging.Error(err),
				logging.Int("bytes", len(frame)),
				logging.String(logging.FieldImpact, "one controller message ignored"),
			)
			continue
		}

		select {
		case b.msgRx <- event:
		case <-b.closing:
			return
		}
	}
}

func (b *streamBridge) writeLoop(ctx context.Context) {
	var pingC <-chan time.Time
	p, canPing := b.conn.(pinger)
	if canPing && b.opts.PingInterval > 0 {
		ticker := time.NewTicker(b.opts.PingInterval)
		defer ticker.Stop()
		pingC = ticker.C
	}
	defer func() {
		b.logger.Debug("bridge writer shutdown")
		b.wg.Done()
	}()

	for {
		select {
		case <-b.closing:
			return

		case frame := <-b.msgTx:
			writeCtx, cancel := context.WithTimeout(ctx, b.opts.WriteTimeout)
			err := b.conn.WriteFrame(writeCtx, frame)
			cancel()
			b.pending.Add(-1)
			if err != nil {
				if !isExpectedClose(err) {
					logging.ErrorWithContext(b.logger, "bridge send failed", "bridge_send_failed",
						logging.Error(err),
						logging.String(logging.FieldErrorHint, "verify the controller is running"),
					)
				}
				b.shutdown(err)
				return
			}

		case <-pingC:
			pingCtx, cancel := context.WithTimeout(ctx, b.opts.WriteTimeout)
			err := p.Ping(pingCtx)
			cancel()
			if err != nil {
				b.logger.Debug("bridge ping failed", logging.Error(err))
				b.shutdown(err)
				return
			}
		}
	}
}

func isExpectedClose(err error) bool {
	return errors.Is(err, io.EOF) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, net.ErrClosed) ||
		isNormalWebsocketClose(err)
}
