package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"queuepanel/internal/dropingest"
	"queuepanel/internal/logging"
	"queuepanel/internal/protocol"
)

type ingestOutput struct {
	CorrelationID string             `json:"correlationId"`
	Level         string             `json:"level"`
	Message       string             `json:"message"`
	Added         []string           `json:"added"`
	Skipped       int                `json:"skipped"`
	Reasons       []string           `json:"reasons,omitempty"`
	Command       *protocol.Envelope `json:"command,omitempty"`
	Sent          bool               `json:"sent"`
}

func newIngestCommand(ctx *commandContext) *cobra.Command {
	var send bool
	var jsonOutput bool
	var priority int

	cmd := &cobra.Command{
		Use:   "ingest <payload.json|->",
		Short: "Run a recorded drop payload through the ingestion pipeline",
		Long: `Parse and validate a drop payload the way the panel does when files are
dropped onto it. The payload is a JSON document of the form

  {"representations":[{"format":"text/uri-list","data":"file:///tmp/a.txt"}],"files":0}

With --send the resulting command is forwarded to the controller.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.logger(false)
			if err != nil {
				return err
			}

			payload, err := readPayload(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			if priority <= 0 {
				priority = cfg.Ingest.DefaultPriority
			}

			controller := dropingest.NewController(dropingest.NewParser(logger), priority, logger)
			result, ingestErr := controller.Ingest(cmd.Context(), payload)

			out := ingestOutput{
				CorrelationID: result.CorrelationID,
				Level:         string(result.Feedback.Level),
				Message:       result.Feedback.Message,
				Added:         result.Added,
				Skipped:       result.Skipped,
				Command:       result.Command,
			}
			if out.Added == nil {
				out.Added = []string{}
			}
			for _, reason := range result.Reasons {
				out.Reasons = append(out.Reasons, reason.Label())
			}

			if send && ingestErr == nil {
				if err := sendIngestResult(cmd, ctx, result, logger); err != nil {
					return err
				}
				out.Sent = true
			}

			if jsonOutput {
				if err := writeJSON(cmd, out); err != nil {
					return err
				}
			} else {
				printIngest(cmd.OutOrStdout(), out)
			}

			if ingestErr != nil {
				var typed *dropingest.IngestError
				if errors.As(ingestErr, &typed) {
					return fmt.Errorf("drop rejected (%s): %s", typed.Kind, result.Feedback.Message)
				}
				return ingestErr
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&send, "send", false, "Forward the resulting command to the controller")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output the result as JSON")
	cmd.Flags().IntVar(&priority, "priority", 0, "Priority for added files (defaults to ingest.default_priority)")
	return cmd
}

func readPayload(stdin io.Reader, source string) (*dropingest.StaticPayload, error) {
	var (
		data []byte
		err  error
	)
	if source == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("read payload: %w", err)
	}
	var payload dropingest.StaticPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse payload: %w", err)
	}
	return &payload, nil
}

func sendIngestResult(cmd *cobra.Command, ctx *commandContext, result dropingest.Result, logger *slog.Logger) error {
	b, err := ctx.dial(cmd.Context(), logger)
	if err != nil {
		return err
	}
	defer b.Close()

	if err := b.Send(*result.Command); err != nil {
		return fmt.Errorf("send %s: %w", result.Command.Type, err)
	}
	if result.Skipped > 0 {
		if err := b.Send(protocol.Info(result.Feedback.Message, time.Now())); err != nil {
			logger.Debug("report not delivered", logging.Error(err))
		}
	}
	return nil
}

func printIngest(w io.Writer, out ingestOutput) {
	fmt.Fprintln(w, out.Message)
	if len(out.Added) > 0 {
		rows := make([][]string, 0, len(out.Added))
		for i, path := range out.Added {
			rows = append(rows, []string{fmt.Sprintf("%d", i+1), path})
		}
		fmt.Fprintln(w, renderTable([]string{"#", "Path"}, rows, []columnAlignment{alignRight, alignLeft}))
	}
	if len(out.Reasons) > 0 {
		fmt.Fprintf(w, "Skipped: %s\n", strings.Join(out.Reasons, ", "))
	}
	if out.Command != nil {
		fmt.Fprintf(w, "Command: %s (sent: %s)\n", out.Command.Type, yesNo(out.Sent))
	}
}
