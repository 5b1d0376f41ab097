package protocol

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Inbound event types pushed by the controller.
const (
	TypeUpdateQueue = "updateQueue"
)

// QueueUpdate is the full snapshot carried by an updateQueue push.
type QueueUpdate struct {
	State      QueueState      `json:"state"`
	Items      []QueueItem     `json:"items"`
	Statistics QueueStatistics `json:"statistics"`
	CanRepeat  bool            `json:"canRepeat"`
}

// MessageData is the payload of inbound info and error pushes.
type MessageData struct {
	Message string `json:"message"`
}

// Event is one decoded inbound push. Exactly one of Update or Message is
// meaningful depending on Type.
type Event struct {
	Type    string
	Update  *QueueUpdate
	Message string
}

// DecodeEvent parses an inbound frame. Unrecognised types return the event
// with its Type set alongside an error wrapping ErrUnknownType so callers can
// log and continue.
func DecodeEvent(frame []byte) (Event, error) {
	typ, data, err := DecodeEnvelope(frame)
	if err != nil {
		return Event{}, err
	}
	event := Event{Type: typ}
	switch typ {
	case TypeUpdateQueue:
		var update QueueUpdate
		if err := json.Unmarshal(orEmpty(data), &update); err != nil {
			return event, fmt.Errorf("%w: %s: %v", ErrMalformed, typ, err)
		}
		if update.Items == nil {
			update.Items = []QueueItem{}
		}
		event.Update = &update
	case TypeInfo, TypeError:
		var msg MessageData
		if err := json.Unmarshal(orEmpty(data), &msg); err != nil {
			return event, fmt.Errorf("%w: %s: %v", ErrMalformed, typ, err)
		}
		event.Message = msg.Message
	default:
		return event, fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}
	return event, nil
}

// EncodeEvent is the controller-side inverse of DecodeEvent.
func EncodeEvent(event Event) ([]byte, error) {
	switch event.Type {
	case TypeUpdateQueue:
		update := QueueUpdate{}
		if event.Update != nil {
			update = *event.Update
		}
		return Encode(Envelope{Type: event.Type, Data: update})
	default:
		return Encode(Envelope{Type: event.Type, Data: MessageData{Message: event.Message}})
	}
}

func orEmpty(data json.RawMessage) []byte {
	if len(data) == 0 || string(data) == "null" {
		return []byte("{}")
	}
	return data
}
