package preflight

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"queuepanel/internal/bridge"
	"queuepanel/internal/config"
	"queuepanel/internal/logging"
)

const controllerTimeout = 5 * time.Second

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSocket verifies that path names a Unix socket the panel may connect to.
func CheckSocket(path string) Result {
	const name = "Controller socket"

	path = strings.TrimSpace(path)
	if path == "" {
		return Result{Name: name, Detail: "missing socket path"}
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if info.Mode()&os.ModeSocket == 0 {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: not a socket)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: path}
}

// CheckEndpointURL verifies that raw is a ws:// or wss:// URL with a host.
func CheckEndpointURL(raw string) Result {
	const name = "Controller URL"

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Result{Name: name, Detail: "missing url"}
	}
	u, err := url.Parse(raw)
	if err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("invalid url (%v)", err)}
	}
	if u.Scheme != "ws" && u.Scheme != "wss" {
		return Result{Name: name, Detail: fmt.Sprintf("unsupported scheme %q", u.Scheme)}
	}
	if u.Host == "" {
		return Result{Name: name, Detail: "missing host"}
	}
	return Result{Name: name, Passed: true, Detail: raw}
}

// CheckController opens and immediately closes a connection to the
// controller using the configured transport. It uses a five-second timeout
// and a single attempt.
func CheckController(ctx context.Context, cfg *config.Config, logger *slog.Logger) Result {
	const name = "Controller"

	if logger == nil {
		logger = logging.NewNop()
	}
	checkCtx, cancel := context.WithTimeout(ctx, controllerTimeout)
	defer cancel()

	b, err := bridge.Dial(checkCtx, cfg, logger)
	if err != nil {
		return Result{Name: name, Detail: summarizeDialError(err)}
	}
	if err := b.Close(); err != nil {
		logger.Debug("close probe connection", logging.Error(err))
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("reachable via %s", cfg.Bridge.Transport)}
}

func summarizeDialError(err error) string {
	msg := strings.TrimPrefix(err.Error(), "connect to controller: ")
	if msg == "" {
		return "unreachable"
	}
	return msg
}
