package testsupport

import (
	"bufio"
	"net"
	"strings"
	"sync"
	"testing"
	"time"
)

// SocketController plays the queue controller on a Unix socket. It accepts a
// single panel connection and records every line the panel sends.
type SocketController struct {
	t        testing.TB
	listener net.Listener
	lines    chan string

	mu    sync.Mutex
	conn  net.Conn
	ready chan struct{}
}

// NewSocketController listens on path and serves until the test ends.
func NewSocketController(t testing.TB, path string) *SocketController {
	t.Helper()

	ln, err := net.Listen("unix", path)
	if err != nil {
		t.Fatalf("listen %s: %v", path, err)
	}
	c := &SocketController{
		t:        t,
		listener: ln,
		lines:    make(chan string, 64),
		ready:    make(chan struct{}),
	}
	t.Cleanup(c.close)
	go c.serve()
	return c
}

func (c *SocketController) serve() {
	conn, err := c.listener.Accept()
	if err != nil {
		return
	}
	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	close(c.ready)

	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		select {
		case c.lines <- line:
		default:
		}
	}
}

// Next returns the next line received from the panel.
func (c *SocketController) Next(timeout time.Duration) (string, bool) {
	select {
	case line := <-c.lines:
		return line, true
	case <-time.After(timeout):
		return "", false
	}
}

// Push writes one raw frame to the connected panel.
func (c *SocketController) Push(frame string) {
	c.t.Helper()
	select {
	case <-c.ready:
	case <-time.After(2 * time.Second):
		c.t.Fatalf("panel never connected")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, err := c.conn.Write([]byte(frame + "\n")); err != nil {
		c.t.Fatalf("push frame: %v", err)
	}
}

func (c *SocketController) close() {
	_ = c.listener.Close()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn != nil {
		_ = c.conn.Close()
	}
}
