package dropingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/google/uuid"

	"queuepanel/internal/logging"
	"queuepanel/internal/protocol"
)

// Level distinguishes feedback severities.
type Level string

const (
	LevelInfo  Level = "info"
	LevelError Level = "error"
)

// Feedback is the user-facing outcome of one drop.
type Feedback struct {
	Level   Level
	Message string
}

// Result is the outcome of Ingest. Feedback is always populated; Command is
// nil when the drop produced nothing to send.
type Result struct {
	CorrelationID string
	Command       *protocol.Envelope
	Feedback      Feedback
	Added         []string
	Skipped       int
	Reasons       []Reason
}

// Controller runs parsing and validation for one drop and builds the command
// to forward.
type Controller struct {
	parser   *Parser
	priority int
	logger   *slog.Logger
	newID    func() string
}

// NewController creates a controller that enqueues files at priority. A
// non-positive priority falls back to Normal.
func NewController(parser *Parser, priority int, logger *slog.Logger) *Controller {
	if parser == nil {
		parser = NewParser(logger)
	}
	if priority <= 0 {
		priority = protocol.PriorityNormal
	}
	return &Controller{
		parser:   parser,
		priority: priority,
		logger:   logging.NewComponentLogger(logger, "drop-ingest"),
		newID:    uuid.NewString,
	}
}

// Ingest processes one drop. Failures are returned as *IngestError together
// with a Result whose Feedback describes the problem.
func (c *Controller) Ingest(ctx context.Context, payload Payload) (Result, error) {
	result := Result{CorrelationID: c.newID()}
	logger := logging.WithCorrelation(c.logger, result.CorrelationID)

	if err := ctx.Err(); err != nil {
		result.Feedback = Feedback{Level: LevelError, Message: "Drop cancelled"}
		return result, fmt.Errorf("ingest: %w", err)
	}

	var formats []string
	if payload != nil {
		formats = payload.Formats()
	}
	logger.Debug("drop received",
		logging.Strings(logging.FieldFormats, formats),
		logging.Int(logging.FieldFileCount, fileCount(payload)),
	)

	candidates, err := c.parser.Parse(payload)
	if err != nil {
		ingestErr := &IngestError{Kind: KindPayloadRejected, Formats: formats, Err: err}
		if !errors.Is(err, ErrPayloadRejected) {
			ingestErr.Kind = KindNoCandidates
		}
		result.Feedback = Feedback{Level: LevelError, Message: failureMessage(ingestErr)}
		logging.WarnWithContext(logger, "drop rejected", "drop_rejected",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "drag files from the workspace explorer or paste their paths"),
			logging.String(logging.FieldImpact, "no files were added"),
		)
		return result, ingestErr
	}
	if len(candidates) == 0 {
		ingestErr := &IngestError{Kind: KindNoCandidates, Formats: formats}
		result.Feedback = Feedback{Level: LevelError, Message: failureMessage(ingestErr)}
		logging.WarnWithContext(logger, "drop contained no file paths", "drop_empty",
			logging.Strings(logging.FieldFormats, formats),
			logging.String(logging.FieldImpact, "no files were added"),
		)
		return result, ingestErr
	}

	validations := Validate(candidates)
	seen := mapset.NewThreadUnsafeSet[string]()
	reasonSeen := mapset.NewThreadUnsafeSet[Reason]()
	for _, v := range validations {
		if !v.Valid {
			if reasonSeen.Add(v.Reason) {
				result.Reasons = append(result.Reasons, v.Reason)
			}
			continue
		}
		if seen.Add(v.Path) {
			result.Added = append(result.Added, v.Path)
		}
	}
	result.Skipped = len(candidates) - len(result.Added)

	if len(result.Added) == 0 {
		ingestErr := &IngestError{Kind: KindValidationFailure, Formats: formats, Reasons: result.Reasons}
		result.Feedback = Feedback{Level: LevelError, Message: failureMessage(ingestErr)}
		logging.WarnWithContext(logger, "drop candidates all rejected", "drop_invalid",
			logging.Int("candidates", len(candidates)),
			logging.String(logging.FieldImpact, "no files were added"),
		)
		return result, ingestErr
	}

	var cmd protocol.Envelope
	if len(result.Added) == 1 {
		cmd = protocol.AddFile(result.Added[0], c.priority)
	} else {
		cmd = protocol.AddMultipleFiles(result.Added, c.priority)
	}
	result.Command = &cmd
	result.Feedback = Feedback{Level: LevelInfo, Message: successMessage(len(result.Added), result.Skipped)}

	logger.Info("drop accepted",
		logging.String(logging.FieldEventType, "drop_accepted"),
		logging.String("command", cmd.Type),
		logging.Int(logging.FieldFileCount, len(result.Added)),
		logging.Int("skipped", result.Skipped),
	)
	return result, nil
}

func successMessage(added, skipped int) string {
	msg := fmt.Sprintf("Adding %d %s to queue", added, plural(added, "file", "files"))
	if skipped > 0 {
		msg += fmt.Sprintf(" (%d skipped)", skipped)
	}
	return msg
}

func failureMessage(err *IngestError) string {
	switch err.Kind {
	case KindPayloadRejected:
		return "External files can't be added by drag and drop. Drag them from the workspace explorer or use Add Files."
	case KindNoCandidates:
		return fmt.Sprintf("No file paths found in drop (available formats: %s)", joinOrNone(err.Formats))
	default:
		labels := make([]string, 0, len(err.Reasons))
		for _, r := range err.Reasons {
			labels = append(labels, r.Label())
		}
		return fmt.Sprintf("No valid files in drop: %s", joinOrNone(labels))
	}
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func fileCount(p Payload) int {
	if p == nil {
		return 0
	}
	return p.FileCount()
}
