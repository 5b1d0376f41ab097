package panel

import (
	"context"
	"sort"

	"queuepanel/internal/dropingest"
	"queuepanel/internal/protocol"
)

// Role names the panel element an event originates from.
type Role string

const (
	RoleAddFiles Role = "add-files"
	RoleClear    Role = "clear"
	RoleStart    Role = "start"
	RolePause    Role = "pause"
	RoleStop     Role = "stop"
	RoleRepeat   Role = "repeat"
	RoleDropZone Role = "drop-zone"
	RoleItem     Role = "item"
)

// Kind names the gesture.
type Kind string

const (
	KindClick     Kind = "click"
	KindDragEnter Kind = "drag-enter"
	KindDragOver  Kind = "drag-over"
	KindDragLeave Kind = "drag-leave"
	KindDrop      Kind = "drop"
	KindPaste     Kind = "paste"
	KindToggle    Kind = "toggle"
	KindRemove    Kind = "remove"
)

// HostEvent is one user gesture reported by the host surface.
type HostEvent struct {
	Role    Role                      `json:"role"`
	Kind    Kind                      `json:"kind"`
	ItemID  string                    `json:"itemId,omitempty"`
	Payload *dropingest.StaticPayload `json:"payload,omitempty"`
}

type eventKey struct {
	role Role
	kind Kind
}

type handler func(p *Panel, ctx context.Context, ev HostEvent)

// newEventTable maps every supported (role, kind) pair to its handler.
func newEventTable() map[eventKey]handler {
	return map[eventKey]handler{
		{RoleAddFiles, KindClick}: func(p *Panel, _ context.Context, _ HostEvent) {
			p.dispatch(protocol.ShowFilePicker())
		},
		{RoleClear, KindClick}: func(p *Panel, _ context.Context, _ HostEvent) {
			if p.guard("clear", p.controls().Clear) {
				p.dispatch(protocol.ClearQueue())
			}
		},
		{RoleStart, KindClick}: func(p *Panel, _ context.Context, _ HostEvent) {
			if p.guard("start", p.controls().Start) {
				p.dispatch(protocol.StartProcessing(p.opts.Processing))
			}
		},
		{RoleRepeat, KindClick}: func(p *Panel, _ context.Context, _ HostEvent) {
			if p.guard("repeat", p.controls().Repeat) {
				p.dispatch(protocol.RepeatLastRun(p.opts.Processing))
			}
		},
		{RolePause, KindClick}: func(p *Panel, _ context.Context, _ HostEvent) {
			if p.guard("pause", p.controls().Pause) {
				p.dispatch(protocol.PauseProcessing())
			}
		},
		{RoleStop, KindClick}: func(p *Panel, _ context.Context, _ HostEvent) {
			if p.guard("stop", p.controls().Stop) {
				p.dispatch(protocol.StopProcessing())
			}
		},
		{RoleDropZone, KindDragEnter}: (*Panel).handleDragEnter,
		{RoleDropZone, KindDragOver}:  (*Panel).handleDragEnter,
		{RoleDropZone, KindDragLeave}: (*Panel).handleDragLeave,
		{RoleDropZone, KindDrop}:      (*Panel).handleDrop,
		{RoleDropZone, KindPaste}:     (*Panel).handleDrop,
		{RoleItem, KindToggle}: func(p *Panel, _ context.Context, ev HostEvent) {
			p.renderer.ToggleExpanded(ev.ItemID)
		},
		{RoleItem, KindRemove}: func(p *Panel, _ context.Context, ev HostEvent) {
			if _, ok := p.renderer.State().Item(ev.ItemID); !ok {
				p.notify("Item is no longer in the queue", NoticeError)
				return
			}
			p.dispatch(protocol.RemoveFile(ev.ItemID))
		},
	}
}

// SupportedEvents lists the (role, kind) pairs the panel reacts to, sorted.
func SupportedEvents() [][2]string {
	table := newEventTable()
	out := make([][2]string, 0, len(table))
	for key := range table {
		out = append(out, [2]string{string(key.role), string(key.kind)})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][0] != out[j][0] {
			return out[i][0] < out[j][0]
		}
		return out[i][1] < out[j][1]
	})
	return out
}
