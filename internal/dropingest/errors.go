package dropingest

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrPayloadRejected marks drops carrying external binary file entries.
	ErrPayloadRejected = errors.New("unsupported external drop")
	// ErrNoCandidates marks drops where no strategy found anything.
	ErrNoCandidates = errors.New("no file paths found")
	// ErrValidationFailure marks drops where every candidate was rejected.
	ErrValidationFailure = errors.New("no valid file paths")
)

// Kind classifies ingestion failures.
type Kind string

const (
	KindPayloadRejected   Kind = "payload_rejected"
	KindNoCandidates      Kind = "no_candidates"
	KindValidationFailure Kind = "validation_failure"
)

// IngestError describes why a drop produced no command.
type IngestError struct {
	Kind    Kind
	Formats []string
	Reasons []Reason
	Err     error
}

func (e *IngestError) Error() string {
	if e == nil {
		return "<nil>"
	}
	base := e.sentinel().Error()
	switch e.Kind {
	case KindNoCandidates:
		base = fmt.Sprintf("%s (formats: %s)", base, joinOrNone(e.Formats))
	case KindValidationFailure:
		labels := make([]string, 0, len(e.Reasons))
		for _, r := range e.Reasons {
			labels = append(labels, r.Label())
		}
		base = fmt.Sprintf("%s (%s)", base, joinOrNone(labels))
	}
	if e.Err != nil && !errors.Is(e.Err, e.sentinel()) {
		return base + ": " + e.Err.Error()
	}
	return base
}

// Unwrap exposes both the kind sentinel and any underlying cause.
func (e *IngestError) Unwrap() []error {
	if e == nil {
		return nil
	}
	errs := []error{e.sentinel()}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func (e *IngestError) sentinel() error {
	switch e.Kind {
	case KindPayloadRejected:
		return ErrPayloadRejected
	case KindNoCandidates:
		return ErrNoCandidates
	default:
		return ErrValidationFailure
	}
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "none"
	}
	return strings.Join(values, ", ")
}
