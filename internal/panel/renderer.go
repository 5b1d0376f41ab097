package panel

import (
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"queuepanel/internal/logging"
	"queuepanel/internal/protocol"
)

// DefaultRecentLimit is the number of finished items shown when no limit is
// configured.
const DefaultRecentLimit = 10

// ItemRow is one rendered queue item.
type ItemRow struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Path     string   `json:"path"`
	Priority string   `json:"priority"`
	Status   string   `json:"status"`
	When     string   `json:"when,omitempty"`
	Expanded bool     `json:"expanded,omitempty"`
	Details  []string `json:"details,omitempty"`
}

// StatLine is one label/value pair of the statistics block.
type StatLine struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// View is the fully derived presentation of a snapshot. It holds no
// references into the snapshot it came from.
type View struct {
	Header        string     `json:"header"`
	ETA           string     `json:"eta,omitempty"`
	Controls      Controls   `json:"controls"`
	Progress      float64    `json:"progress"`
	ProgressLabel string     `json:"progressLabel"`
	Statistics    []StatLine `json:"statistics"`
	Active        []ItemRow  `json:"active"`
	Recent        []ItemRow  `json:"recent"`
	Errors        []string   `json:"errors,omitempty"`
}

// Renderer caches the current snapshot and derives views from it.
type Renderer struct {
	recentLimit int
	now         func() time.Time
	logger      *slog.Logger
	title       cases.Caser

	state    State
	expanded mapset.Set[string]
}

// NewRenderer returns a renderer. now supplies the reference time for
// relative timestamps; nil uses time.Now.
func NewRenderer(recentLimit int, now func() time.Time, logger *slog.Logger) *Renderer {
	if recentLimit <= 0 {
		recentLimit = DefaultRecentLimit
	}
	if now == nil {
		now = time.Now
	}
	return &Renderer{
		recentLimit: recentLimit,
		now:         now,
		logger:      logging.NewComponentLogger(logger, "renderer"),
		title:       cases.Title(language.Und),
		expanded:    mapset.NewThreadUnsafeSet[string](),
	}
}

// ApplySnapshot replaces the cached snapshot and returns the redrawn view.
// Inconsistent snapshots are clamped before they are stored.
func (r *Renderer) ApplySnapshot(queue protocol.QueueState, items []protocol.QueueItem, stats protocol.QueueStatistics, canRepeat bool) View {
	normalized, fixes := queue.Normalize()
	if len(fixes) > 0 {
		logging.WarnWithContext(r.logger, "controller sent inconsistent queue state", "snapshot_clamped",
			logging.Strings("fixes", fixes),
			logging.String(logging.FieldErrorHint, "controller counters disagree; values were clamped for display"),
			logging.String(logging.FieldImpact, "progress may lag until the next push"),
		)
	}
	r.state = newState(normalized, items, stats, canRepeat)

	present := mapset.NewThreadUnsafeSet[string]()
	for _, item := range r.state.Items {
		present.Add(item.ID)
	}
	r.expanded = r.expanded.Intersect(present)
	return r.View()
}

// State returns the cached snapshot.
func (r *Renderer) State() State {
	return r.state
}

// ToggleExpanded flips the detail view of one item. Unknown ids are ignored.
func (r *Renderer) ToggleExpanded(id string) (View, bool) {
	if _, ok := r.state.Item(id); !ok {
		return r.View(), false
	}
	if !r.expanded.Add(id) {
		r.expanded.Remove(id)
	}
	return r.View(), true
}

// View derives the presentation of the cached snapshot.
func (r *Renderer) View() View {
	now := r.now()
	s := r.state
	v := View{
		Header:     r.header(s.Queue),
		Controls:   s.Controls(),
		Progress:   s.Queue.Progress(),
		Statistics: r.statistics(s.Statistics),
		Errors:     slices.Clone(s.Queue.Errors),
	}
	v.ProgressLabel = fmt.Sprintf("%d / %d processed", s.Queue.ProcessedCount, s.Queue.TotalCount)
	if s.Queue.FailedCount > 0 {
		v.ProgressLabel += fmt.Sprintf(", %d failed", s.Queue.FailedCount)
	}
	if eta := s.Queue.EstimatedCompletion; eta != nil && s.Queue.IsProcessing {
		v.ETA = "done " + humanize.RelTime(*eta, now, "ago", "from now")
	}
	for _, item := range s.ActiveItems() {
		v.Active = append(v.Active, r.row(item, item.AddedAt, now))
	}
	for _, item := range s.RecentItems(r.recentLimit) {
		v.Recent = append(v.Recent, r.row(item, item.FinishedAt(), now))
	}
	return v
}

func (r *Renderer) header(q protocol.QueueState) string {
	switch {
	case q.IsPaused:
		return "Paused"
	case q.IsProcessing:
		return "Processing"
	default:
		return "Idle"
	}
}

func (r *Renderer) statistics(stats protocol.QueueStatistics) []StatLine {
	avg := "-"
	if stats.AverageProcessingTime > 0 {
		avg = stats.AverageDuration().Round(100 * time.Millisecond).String()
	}
	return []StatLine{
		{Label: "Processed", Value: humanize.Comma(int64(stats.TotalProcessed))},
		{Label: "Average time", Value: avg},
		{Label: "Success rate", Value: fmt.Sprintf("%.0f%%", clampUnit(stats.SuccessRate)*100)},
		{Label: "Throughput", Value: humanize.FtoaWithDigits(stats.Throughput, 1) + "/min"},
	}
}

func (r *Renderer) row(item protocol.QueueItem, when time.Time, now time.Time) ItemRow {
	name := item.FileName
	if name == "" {
		name = item.FilePath
	}
	row := ItemRow{
		ID:       item.ID,
		Name:     name,
		Path:     item.FilePath,
		Priority: protocol.PriorityLabel(item.Priority),
		Status:   r.title.String(string(item.Status)),
		Expanded: r.expanded.Contains(item.ID),
	}
	if !when.IsZero() {
		row.When = humanize.RelTime(when, now, "ago", "from now")
	}
	if row.Expanded {
		row.Details = itemDetails(item)
	}
	return row
}

func itemDetails(item protocol.QueueItem) []string {
	details := []string{"path: " + item.FilePath}
	if item.Error != "" {
		details = append(details, "error: "+item.Error)
	}
	if item.EstimatedDuration != nil && *item.EstimatedDuration > 0 {
		d := time.Duration(*item.EstimatedDuration) * time.Millisecond
		details = append(details, "estimate: "+d.String())
	}
	if len(item.Metadata) > 0 {
		keys := make([]string, 0, len(item.Metadata))
		for k := range item.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			details = append(details, fmt.Sprintf("%s: %v", k, item.Metadata[k]))
		}
	}
	return details
}

func clampUnit(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
