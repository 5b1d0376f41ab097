package bridge

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"queuepanel/internal/logging"
)

const socketDialTimeout = 2 * time.Second

// DialSocket connects to a controller listening on a Unix domain socket.
// Frames are newline-delimited JSON envelopes in both directions.
func DialSocket(ctx context.Context, path string, opts Options, logger *slog.Logger) (Bridge, error) {
	if err := checkSocketAccess(path); err != nil {
		return nil, err
	}
	dialer := net.Dialer{Timeout: socketDialTimeout}
	conn, err := dialer.DialContext(ctx, "unix", path)
	if err != nil {
		return nil, wrapDialError(err, path)
	}
	logger = logging.NewComponentLogger(logger, "bridge").With(logging.String("transport", "socket"))
	b := newStreamBridge(newSocketConn(conn), opts, logger)
	b.start(ctx)
	logger.Debug("bridge connected", logging.String("socket", path))
	return b, nil
}

// checkSocketAccess reports missing or unwritable sockets before dialling so
// the error names the actual problem.
func checkSocketAccess(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return wrapDialError(err, path)
	}
	if info.Mode()&os.ModeSocket == 0 {
		return fmt.Errorf("connect to controller: %s is not a socket", path)
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK); err != nil {
		return fmt.Errorf("connect to controller: socket %s: insufficient permissions: %w", path, err)
	}
	return nil
}

func wrapDialError(err error, socket string) error {
	switch {
	case errors.Is(err, syscall.ENOENT) || os.IsNotExist(err):
		return fmt.Errorf("connect to controller: socket %s not found; start the controller first", socket)
	case errors.Is(err, syscall.ECONNREFUSED):
		return fmt.Errorf("connect to controller: socket %s refused the connection; verify the controller is running", socket)
	default:
		return fmt.Errorf("connect to controller: %w", err)
	}
}

type socketConn struct {
	conn   net.Conn
	reader *bufio.Reader
}

func newSocketConn(conn net.Conn) *socketConn {
	return &socketConn{conn: conn, reader: bufio.NewReaderSize(conn, 64*1024)}
}

func (c *socketConn) ReadFrame(context.Context) ([]byte, error) {
	for {
		line, err := c.reader.ReadBytes('\n')
		line = bytes.TrimSpace(line)
		if len(line) > 0 {
			return line, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func (c *socketConn) WriteFrame(ctx context.Context, frame []byte) error {
	if deadline, ok := ctx.Deadline(); ok {
		if err := c.conn.SetWriteDeadline(deadline); err != nil {
			return err
		}
	}
	buf := make([]byte, 0, len(frame)+1)
	buf = append(buf, frame...)
	buf = append(buf, '\n')
	_, err := c.conn.Write(buf)
	return err
}

func (c *socketConn) Close() error {
	return c.conn.Close()
}
