package protocol

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of a queue item as reported by the controller.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
	StatusCancelled  Status = "cancelled"
)

// Terminal reports whether the status is final.
func (s Status) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return true
	default:
		return false
	}
}

// Active reports whether the item still occupies a slot in the active list.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusProcessing
}

// Priority levels used by the controller. Higher values run first.
const (
	PriorityLow      = 1
	PriorityNormal   = 2
	PriorityHigh     = 3
	PriorityCritical = 4
)

// PriorityLabel maps a numeric priority onto its display label. Values above
// the defined range clamp to Critical and values below clamp to Low.
func PriorityLabel(priority int) string {
	switch {
	case priority >= PriorityCritical:
		return "Critical"
	case priority >= PriorityHigh:
		return "High"
	case priority >= PriorityNormal:
		return "Normal"
	default:
		return "Low"
	}
}

// QueueItem is one file tracked by the controller.
type QueueItem struct {
	ID                string         `json:"id"`
	FilePath          string         `json:"filePath"`
	FileName          string         `json:"fileName"`
	Priority          int            `json:"priority"`
	Status            Status         `json:"status"`
	AddedAt           time.Time      `json:"addedAt"`
	ProcessedAt       *time.Time     `json:"processedAt,omitempty"`
	CompletedAt       *time.Time     `json:"completedAt,omitempty"`
	Error             string         `json:"error,omitempty"`
	Metadata          map[string]any `json:"metadata,omitempty"`
	EstimatedDuration *int64         `json:"estimatedDuration,omitempty"`
}

// FinishedAt returns the most specific completion timestamp available.
func (i QueueItem) FinishedAt() time.Time {
	if i.CompletedAt != nil {
		return *i.CompletedAt
	}
	if i.ProcessedAt != nil {
		return *i.ProcessedAt
	}
	return i.AddedAt
}

// QueueState is the controller's summary of the processing run.
type QueueState struct {
	IsProcessing        bool       `json:"isProcessing"`
	IsPaused            bool       `json:"isPaused"`
	ProcessedCount      int        `json:"processedCount"`
	TotalCount          int        `json:"totalCount"`
	FailedCount         int        `json:"failedCount"`
	EstimatedCompletion *time.Time `json:"estimatedCompletion,omitempty"`
	Errors              []string   `json:"errors"`
}

// Normalize clamps a received snapshot so that a paused queue is always
// processing and processed counts never exceed the total. The returned slice
// describes each correction applied; it is empty for consistent snapshots.
func (s QueueState) Normalize() (QueueState, []string) {
	var fixes []string
	if s.IsPaused && !s.IsProcessing {
		s.IsPaused = false
		fixes = append(fixes, "paused without processing; cleared paused flag")
	}
	if s.TotalCount < 0 {
		fixes = append(fixes, fmt.Sprintf("negative total count %d; set to 0", s.TotalCount))
		s.TotalCount = 0
	}
	if s.ProcessedCount < 0 {
		fixes = append(fixes, fmt.Sprintf("negative processed count %d; set to 0", s.ProcessedCount))
		s.ProcessedCount = 0
	}
	if s.ProcessedCount > s.TotalCount {
		fixes = append(fixes, fmt.Sprintf("processed count %d exceeds total %d; clamped", s.ProcessedCount, s.TotalCount))
		s.ProcessedCount = s.TotalCount
	}
	if s.FailedCount < 0 {
		s.FailedCount = 0
	}
	return s, fixes
}

// Progress returns the completed fraction in [0,1].
func (s QueueState) Progress() float64 {
	if s.TotalCount <= 0 {
		return 0
	}
	p := float64(s.ProcessedCount) / float64(s.TotalCount)
	if p > 1 {
		return 1
	}
	return p
}

// QueueStatistics are aggregate figures across runs.
type QueueStatistics struct {
	TotalProcessed int `json:"totalProcessed"`
	// AverageProcessingTime is measured in milliseconds.
	AverageProcessingTime float64 `json:"averageProcessingTime"`
	SuccessRate           float64 `json:"successRate"`
	// Throughput is items per minute.
	Throughput float64 `json:"throughput"`
}

// AverageDuration converts AverageProcessingTime to a duration.
func (s QueueStatistics) AverageDuration() time.Duration {
	return time.Duration(s.AverageProcessingTime * float64(time.Millisecond))
}
