package preflight

import (
	"context"
	"log/slog"

	"queuepanel/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail"`
}

// RunAll executes every preflight check for the given config.
func RunAll(ctx context.Context, cfg *config.Config, logger *slog.Logger) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
	}

	switch cfg.Bridge.Transport {
	case config.TransportSocket:
		results = append(results, CheckSocket(cfg.Bridge.SocketPath))
	case config.TransportWebsocket:
		results = append(results, CheckEndpointURL(cfg.Bridge.URL))
	}

	results = append(results, CheckController(ctx, cfg, logger))
	return results
}

// Failed counts the results that did not pass.
func Failed(results []Result) int {
	n := 0
	for _, r := range results {
		if !r.Passed {
			n++
		}
	}
	return n
}
