package bridge

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"queuepanel/internal/logging"
)

const (
	wsDialTimeout = 10 * time.Second
	wsReadLimit   = 4 << 20
)

// DialWebsocket connects to a controller that accepts JSON text frames over a
// websocket at url.
func DialWebsocket(ctx context.Context, url string, opts Options, logger *slog.Logger) (Bridge, error) {
	dialCtx, cancel := context.WithTimeout(ctx, wsDialTimeout)
	defer cancel()

	conn, resp, err := websocket.Dial(dialCtx, url, &websocket.DialOptions{
		HTTPHeader: http.Header{"User-Agent": []string{"queuepanel"}},
	})
	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("connect to controller: %s: %w", url, err)
	}
	conn.SetReadLimit(wsReadLimit)

	logger = logging.NewComponentLogger(logger, "bridge").With(logging.String("transport", "websocket"))
	b := newStreamBridge(&wsConn{conn: conn}, opts, logger)
	b.start(ctx)
	logger.Debug("bridge connected", logging.String("url", url))
	return b, nil
}

type wsConn struct {
	conn *websocket.Conn
}

func (c *wsConn) ReadFrame(ctx context.Context) ([]byte, error) {
	_, data, err := c.conn.Read(ctx)
	return data, err
}

func (c *wsConn) WriteFrame(ctx context.Context, frame []byte) error {
	return c.conn.Write(ctx, websocket.MessageText, frame)
}

func (c *wsConn) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

func (c *wsConn) Close() error {
	return c.conn.Close(websocket.StatusNormalClosure, "panel shutdown")
}

func isNormalWebsocketClose(err error) bool {
	switch websocket.CloseStatus(err) {
	case websocket.StatusNormalClosure, websocket.StatusGoingAway:
		return true
	default:
		return false
	}
}
