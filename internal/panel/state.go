package panel

import (
	"cmp"
	"slices"

	"queuepanel/internal/protocol"
)

// State is the last snapshot pushed by the controller. It is replaced as a
// whole on every push and never edited field by field.
type State struct {
	Queue      protocol.QueueState
	Items      []protocol.QueueItem
	Statistics protocol.QueueStatistics
	CanRepeat  bool
}

// newState copies the pushed values so later mutation by the caller cannot
// leak into the cached snapshot.
func newState(queue protocol.QueueState, items []protocol.QueueItem, stats protocol.QueueStatistics, canRepeat bool) State {
	cp := make([]protocol.QueueItem, len(items))
	copy(cp, items)
	return State{Queue: queue, Items: cp, Statistics: stats, CanRepeat: canRepeat}
}

// Pending counts items waiting to run.
func (s State) Pending() int {
	n := 0
	for _, item := range s.Items {
		if item.Status == protocol.StatusPending {
			n++
		}
	}
	return n
}

// ActiveItems returns pending and processing items in controller order.
func (s State) ActiveItems() []protocol.QueueItem {
	var out []protocol.QueueItem
	for _, item := range s.Items {
		if item.Status.Active() {
			out = append(out, item)
		}
	}
	return out
}

// RecentItems returns up to limit terminal items, most recently finished
// first. Ties keep controller order.
func (s State) RecentItems(limit int) []protocol.QueueItem {
	var out []protocol.QueueItem
	for _, item := range s.Items {
		if item.Status.Terminal() {
			out = append(out, item)
		}
	}
	slices.SortStableFunc(out, func(a, b protocol.QueueItem) int {
		return cmp.Compare(b.FinishedAt().UnixNano(), a.FinishedAt().UnixNano())
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// Item looks up an item by id.
func (s State) Item(id string) (protocol.QueueItem, bool) {
	for _, item := range s.Items {
		if item.ID == id {
			return item, true
		}
	}
	return protocol.QueueItem{}, false
}

// Controls reports which queue actions are currently available.
type Controls struct {
	Start  bool `json:"start"`
	Pause  bool `json:"pause"`
	Stop   bool `json:"stop"`
	Repeat bool `json:"repeat"`
	Clear  bool `json:"clear"`
}

// Controls derives button availability from the snapshot. Start doubles as
// resume while the queue is paused.
func (s State) Controls() Controls {
	processing := s.Queue.IsProcessing
	paused := s.Queue.IsPaused
	return Controls{
		Start:  (!processing && s.Pending() > 0) || paused,
		Pause:  processing && !paused,
		Stop:   processing,
		Repeat: s.CanRepeat && !processing,
		Clear:  s.clearable(),
	}
}

// clearable reports whether clearing would remove anything. Items that are
// processing are never cleared.
func (s State) clearable() bool {
	for _, item := range s.Items {
		if item.Status != protocol.StatusProcessing {
			return true
		}
	}
	return false
}
