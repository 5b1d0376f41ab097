package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"queuepanel/internal/bridge"
	"queuepanel/internal/logging"
	"queuepanel/internal/panel"
	"queuepanel/internal/tui"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var headless bool
	var jsonOutput bool
	var width int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Attach the panel to the controller",
		Long: `Attach the panel to the controller and keep it in sync.

On a terminal the panel runs interactively; paste file paths or file URIs to
add them to the queue. With --headless (or when stdin is not a terminal) host
events are read as JSON lines from stdin and each frame is written to stdout.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			interactive := !headless && isTerminal(cmd.InOrStdin()) && isTerminal(cmd.OutOrStdout())

			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(!interactive)
			if err != nil {
				return err
			}

			lock, err := bridge.AcquireInstanceLock(cfg.LockPath())
			if err != nil {
				return err
			}
			defer func() {
				if err := lock.Release(); err != nil {
					logger.Warn("release instance lock", logging.Error(err))
				}
			}()

			b, err := ctx.dial(signalCtx, logger)
			if err != nil {
				return err
			}
			defer b.Close()

			p := panel.New(b, panelOptions(cfg), logger)
			logger.Info("panel attached",
				logging.String(logging.FieldEventType, "panel_attached"),
				logging.String("transport", cfg.Bridge.Transport),
				logging.Bool("interactive", interactive),
			)

			if interactive {
				return tui.Run(signalCtx, p)
			}
			return runHeadless(signalCtx, p, cmd.InOrStdin(), cmd.OutOrStdout(), headlessOptions{width: width, json: jsonOutput}, logger)
		},
	}

	cmd.Flags().BoolVar(&headless, "headless", false, "Read host events from stdin instead of starting the terminal UI")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Write frames as JSON lines in headless mode")
	cmd.Flags().IntVar(&width, "width", 100, "Render width for headless text frames")
	return cmd
}

type headlessOptions struct {
	width int
	json  bool
}

// runHeadless drives the panel from JSON-line host events until stdin ends,
// the controller disconnects, or ctx is cancelled.
func runHeadless(ctx context.Context, p *panel.Panel, in io.Reader, out io.Writer, opts headlessOptions, logger *slog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	host := make(chan panel.HostEvent, 16)
	go readHostEvents(ctx, in, host, logger)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		return p.Run(gctx, host)
	})
	g.Go(func() error {
		for {
			select {
			case frame := <-p.Frames():
				if err := writeFrame(out, frame, opts); err != nil {
					return err
				}
			case <-gctx.Done():
				select {
				case frame := <-p.Frames():
					return writeFrame(out, frame, opts)
				default:
					return nil
				}
			}
		}
	})
	return g.Wait()
}

func readHostEvents(ctx context.Context, in io.Reader, host chan<- panel.HostEvent, logger *slog.Logger) {
	defer close(host)
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 4<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var ev panel.HostEvent
		if err := json.Unmarshal([]byte(line), &ev); err != nil {
			logging.WarnWithContext(logger, "skipped unreadable host event", "host_event_invalid",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, `send one JSON object per line, e.g. {"role":"start","kind":"click"}`),
			)
			continue
		}
		select {
		case host <- ev:
		case <-ctx.Done():
			return
		}
	}
	if err := scanner.Err(); err != nil {
		logger.Warn("host event stream failed", logging.Error(err))
	}
}

func writeFrame(out io.Writer, frame panel.Frame, opts headlessOptions) error {
	if opts.json {
		data, err := json.Marshal(frame)
		if err != nil {
			return fmt.Errorf("encode frame: %w", err)
		}
		_, err = fmt.Fprintln(out, string(data))
		return err
	}
	_, err := fmt.Fprintln(out, frame.Render(opts.width))
	return err
}

func isTerminal(v any) bool {
	file, ok := v.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
