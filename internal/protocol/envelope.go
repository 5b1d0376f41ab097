package protocol

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
)

// Envelope is the typed message exchanged with the controller.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// rawEnvelope defers decoding of the data member until the type is known.
type rawEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

var (
	// ErrMalformed is returned when a frame is not a valid envelope.
	ErrMalformed = errors.New("malformed envelope")
	// ErrUnknownType is returned for envelopes whose type the panel does not handle.
	ErrUnknownType = errors.New("unknown envelope type")
)

// Encode marshals an envelope into a single JSON document.
func Encode(env Envelope) ([]byte, error) {
	if strings.TrimSpace(env.Type) == "" {
		return nil, fmt.Errorf("encode envelope: %w: missing type", ErrMalformed)
	}
	if env.Data == nil {
		env.Data = struct{}{}
	}
	data, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", env.Type, err)
	}
	return data, nil
}

// DecodeEnvelope parses a frame into its type and raw data. It is used by
// controller-side tooling and tests that need to inspect outbound commands.
func DecodeEnvelope(frame []byte) (string, json.RawMessage, error) {
	var raw rawEnvelope
	if err := json.Unmarshal(frame, &raw); err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if strings.TrimSpace(raw.Type) == "" {
		return "", nil, fmt.Errorf("%w: missing type", ErrMalformed)
	}
	return raw.Type, raw.Data, nil
}
