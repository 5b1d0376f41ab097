package protocol

import "time"

// Outbound command types.
const (
	TypeShowFilePicker   = "showFilePicker"
	TypeClearQueue       = "clearQueue"
	TypeStartProcessing  = "startProcessing"
	TypeRepeatLastRun    = "repeatLastRun"
	TypePauseProcessing  = "pauseProcessing"
	TypeStopProcessing   = "stopProcessing"
	TypeAddFile          = "addFile"
	TypeAddMultipleFiles = "addMultipleFiles"
	TypeRemoveFile       = "removeFile"
	TypeInfo             = "info"
	TypeError            = "error"
)

// Severity levels attached to info and error reports.
const (
	SeverityInfo    = "info"
	SeverityWarning = "warning"
	SeverityError   = "error"
)

// ProcessingOptions accompany start and repeat commands.
type ProcessingOptions struct {
	MaxConcurrency  int  `json:"maxConcurrency"`
	ContinueOnError bool `json:"continueOnError"`
	// ChatWaitTime is expressed in milliseconds.
	ChatWaitTime int `json:"chatWaitTime"`
}

// DefaultProcessingOptions returns the options sent when nothing is configured.
func DefaultProcessingOptions() ProcessingOptions {
	return ProcessingOptions{MaxConcurrency: 1, ContinueOnError: true, ChatWaitTime: 60000}
}

type ClearQueueData struct {
	IncludeProcessing bool `json:"includeProcessing"`
}

type ProcessingData struct {
	Options ProcessingOptions `json:"options"`
}

type AddFileData struct {
	FilePath string `json:"filePath"`
	Priority int    `json:"priority"`
}

type AddMultipleFilesData struct {
	FilePaths []string `json:"filePaths"`
	Priority  int      `json:"priority"`
}

type RemoveFileData struct {
	ItemID string `json:"itemId"`
}

// ReportData carries info and error reports sent to the controller log.
type ReportData struct {
	Message   string    `json:"message"`
	Severity  string    `json:"severity"`
	Timestamp time.Time `json:"timestamp"`
}

func ShowFilePicker() Envelope {
	return Envelope{Type: TypeShowFilePicker, Data: struct{}{}}
}

// ClearQueue never clears items that are currently processing.
func ClearQueue() Envelope {
	return Envelope{Type: TypeClearQueue, Data: ClearQueueData{IncludeProcessing: false}}
}

func StartProcessing(opts ProcessingOptions) Envelope {
	return Envelope{Type: TypeStartProcessing, Data: ProcessingData{Options: opts}}
}

func RepeatLastRun(opts ProcessingOptions) Envelope {
	return Envelope{Type: TypeRepeatLastRun, Data: ProcessingData{Options: opts}}
}

func PauseProcessing() Envelope {
	return Envelope{Type: TypePauseProcessing, Data: struct{}{}}
}

func StopProcessing() Envelope {
	return Envelope{Type: TypeStopProcessing, Data: struct{}{}}
}

func AddFile(path string, priority int) Envelope {
	return Envelope{Type: TypeAddFile, Data: AddFileData{FilePath: path, Priority: priority}}
}

func AddMultipleFiles(paths []string, priority int) Envelope {
	cp := make([]string, len(paths))
	copy(cp, paths)
	return Envelope{Type: TypeAddMultipleFiles, Data: AddMultipleFilesData{FilePaths: cp, Priority: priority}}
}

func RemoveFile(itemID string) Envelope {
	return Envelope{Type: TypeRemoveFile, Data: RemoveFileData{ItemID: itemID}}
}

// Info builds an informational report stamped with at.
func Info(message string, at time.Time) Envelope {
	return Envelope{Type: TypeInfo, Data: ReportData{Message: message, Severity: SeverityInfo, Timestamp: at.UTC()}}
}

// Error builds an error report stamped with at.
func Error(message string, at time.Time) Envelope {
	return Envelope{Type: TypeError, Data: ReportData{Message: message, Severity: SeverityError, Timestamp: at.UTC()}}
}
