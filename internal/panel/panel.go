package panel

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"queuepanel/internal/bridge"
	"queuepanel/internal/dropingest"
	"queuepanel/internal/logging"
	"queuepanel/internal/protocol"
)

var (
	// ErrDispatch wraps failures to hand a command to the bridge.
	ErrDispatch = errors.New("command dispatch failed")
	// ErrDisconnected is returned by Run when the controller goes away.
	ErrDisconnected = errors.New("controller disconnected")
)

// Options configure a Panel.
type Options struct {
	Priority       int
	Processing     protocol.ProcessingOptions
	RecentLimit    int
	DragDebounce   time.Duration
	NoticeDuration time.Duration
	// Now overrides the clock for relative timestamps and notice expiry.
	Now func() time.Time
}

// Frame is everything a host needs to draw the panel once.
type Frame struct {
	View     View    `json:"view"`
	Dragging bool    `json:"dragging"`
	Notice   *Notice `json:"notice,omitempty"`
}

// Render lays the frame out for a terminal of width columns.
func (f Frame) Render(width int) string {
	var b strings.Builder
	if f.Dragging {
		b.WriteString(infoStyle.Render(">> Release to add files to the queue <<"))
		b.WriteString("\n")
	}
	b.WriteString(f.View.Render(width))
	if f.Notice != nil {
		b.WriteString("\n")
		b.WriteString(renderNotice(*f.Notice))
		b.WriteString("\n")
	}
	return b.String()
}

type timerKind int

const (
	timerDragExpire timerKind = iota
	timerNoticeExpire
)

type timerFired struct {
	kind  timerKind
	token uint64
}

// Panel is the event loop that owns all view state. Host gestures, controller
// pushes and timer expiries are handled one at a time by Run.
type Panel struct {
	bridge   bridge.Bridge
	ingest   *dropingest.Controller
	renderer *Renderer
	notices  *noticeBoard
	drag     Debouncer
	table    map[eventKey]handler
	opts     Options
	logger   *slog.Logger

	timers chan timerFired
	frames chan Frame
	done   chan struct{}

	afterFunc func(time.Duration, func())
}

// New wires a panel to a bridge.
func New(b bridge.Bridge, opts Options, logger *slog.Logger) *Panel {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Priority <= 0 {
		opts.Priority = protocol.PriorityNormal
	}
	if opts.Processing == (protocol.ProcessingOptions{}) {
		opts.Processing = protocol.DefaultProcessingOptions()
	}
	if opts.DragDebounce <= 0 {
		opts.DragDebounce = 100 * time.Millisecond
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Panel{
		bridge:   b,
		ingest:   dropingest.NewController(dropingest.NewParser(logger), opts.Priority, logger),
		renderer: NewRenderer(opts.RecentLimit, opts.Now, logger),
		notices:  newNoticeBoard(opts.NoticeDuration),
		table:    newEventTable(),
		opts:     opts,
		logger:   logging.NewComponentLogger(logger, "panel"),
		timers:   make(chan timerFired, 16),
		frames:   make(chan Frame, 1),
		done:     make(chan struct{}),
		afterFunc: func(d time.Duration, f func()) {
			time.AfterFunc(d, f)
		},
	}
}

// Frames delivers the latest frame after each handled event. Slow consumers
// only ever see the most recent frame.
func (p *Panel) Frames() <-chan Frame {
	return p.frames
}

// Frame builds the current frame.
func (p *Panel) Frame() Frame {
	f := Frame{View: p.renderer.View(), Dragging: p.drag.Active()}
	if n, ok := p.notices.visible(p.opts.Now()); ok {
		f.Notice = &n
	}
	return f
}

// Run processes events until ctx is cancelled, the host channel closes, or
// the bridge shuts down. A bridge shutdown returns ErrDisconnected.
func (p *Panel) Run(ctx context.Context, host <-chan HostEvent) error {
	defer close(p.done)
	p.publish()

	inbound := p.bridge.Events()
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-host:
			if !ok {
				return nil
			}
			p.handleHost(ctx, ev)

		case event, ok := <-inbound:
			if !ok {
				if err := p.bridge.Err(); err != nil {
					return fmt.Errorf("%w: %w", ErrDisconnected, err)
				}
				return ErrDisconnected
			}
			p.handleInbound(event)

		case t := <-p.timers:
			p.handleTimer(t)
		}
		p.publish()
	}
}

func (p *Panel) publish() {
	frame := p.Frame()
	select {
	case <-p.frames:
	default:
	}
	select {
	case p.frames <- frame:
	default:
	}
}

func (p *Panel) handleHost(ctx context.Context, ev HostEvent) {
	h, ok := p.table[eventKey{role: ev.Role, kind: ev.Kind}]
	if !ok {
		p.logger.Debug("ignored host event",
			logging.String("role", string(ev.Role)),
			logging.String("kind", string(ev.Kind)),
		)
		return
	}
	h(p, ctx, ev)
}

func (p *Panel) handleInbound(event protocol.Event) {
	switch event.Type {
	case protocol.TypeUpdateQueue:
		if event.Update == nil {
			return
		}
		u := event.Update
		p.renderer.ApplySnapshot(u.State, u.Items, u.Statistics, u.CanRepeat)
	case protocol.TypeInfo:
		p.notify(event.Message, NoticeInfo)
	case protocol.TypeError:
		p.notify(event.Message, NoticeError)
	default:
		logging.WarnWithContext(p.logger, "ignored unknown controller message", "unknown_message",
			logging.String("type", event.Type),
			logging.String(logging.FieldErrorHint, "controller and panel versions may differ"),
			logging.String(logging.FieldImpact, "message ignored"),
		)
	}
}

func (p *Panel) handleTimer(t timerFired) {
	switch t.kind {
	case timerDragExpire:
		p.drag.Expire(t.token)
	case timerNoticeExpire:
		p.notices.expire(t.token)
	}
}

func (p *Panel) handleDragEnter(_ context.Context, _ HostEvent) {
	p.drag.Enter()
}

func (p *Panel) handleDragLeave(_ context.Context, _ HostEvent) {
	token := p.drag.Leave()
	p.schedule(p.opts.DragDebounce, timerFired{kind: timerDragExpire, token: token})
}

func (p *Panel) handleDrop(ctx context.Context, ev HostEvent) {
	p.drag.Reset()

	var payload dropingest.Payload = dropingest.NewPayload(0)
	if ev.Payload != nil {
		payload = ev.Payload
	}
	result, err := p.ingest.Ingest(ctx, payload)
	if err != nil {
		p.notify(result.Feedback.Message, NoticeError)
		p.report(protocol.Error(result.Feedback.Message, p.opts.Now()))
		return
	}
	if !p.dispatch(*result.Command) {
		return
	}
	p.notify(result.Feedback.Message, NoticeInfo)
	if result.Skipped > 0 {
		p.report(protocol.Info(result.Feedback.Message, p.opts.Now()))
	}
}

func (p *Panel) controls() Controls {
	return p.renderer.State().Controls()
}

// guard reports whether a control may fire. Disabled controls are ignored the
// way a disabled button swallows clicks.
func (p *Panel) guard(name string, enabled bool) bool {
	if !enabled {
		p.logger.Debug("control disabled", logging.String("control", name))
	}
	return enabled
}

// dispatch sends env and surfaces failures as a notice. It never blocks.
func (p *Panel) dispatch(env protocol.Envelope) bool {
	if err := p.bridge.Send(env); err != nil {
		err = fmt.Errorf("%w: %s: %w", ErrDispatch, env.Type, err)
		logging.ErrorWithContext(p.logger, "command dispatch failed", "dispatch_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the controller connection"),
		)
		p.notify("Could not reach the queue controller", NoticeError)
		p.report(protocol.Error(err.Error(), p.opts.Now()))
		return false
	}
	p.logger.Debug("command sent", logging.String("type", env.Type))
	return true
}

// report forwards a diagnostic to the controller log. Failures are dropped.
func (p *Panel) report(env protocol.Envelope) {
	if err := p.bridge.Send(env); err != nil {
		p.logger.Debug("report not delivered", logging.String("type", env.Type), logging.Error(err))
	}
}

func (p *Panel) notify(message string, level NoticeLevel) {
	if strings.TrimSpace(message) == "" {
		return
	}
	n := p.notices.show(message, level, p.opts.Now())
	p.schedule(p.notices.duration, timerFired{kind: timerNoticeExpire, token: n.ID})
}

func (p *Panel) schedule(d time.Duration, t timerFired) {
	p.afterFunc(d, func() {
		select {
		case p.timers <- t:
		case <-p.done:
		}
	})
}
