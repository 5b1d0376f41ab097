package dropingest_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"queuepanel/internal/dropingest"
	"queuepanel/internal/logging"
	"queuepanel/internal/protocol"
)

func newController() *dropingest.Controller {
	logger := logging.NewNop()
	return dropingest.NewController(dropingest.NewParser(logger), protocol.PriorityNormal, logger)
}

func TestIngestTwoURIsBuildsBatchCommand(t *testing.T) {
	payload := dropingest.NewPayload(0, dropingest.FormatURIList, "file:///home/u/f1.txt\nfile:///home/u/f2.txt")

	result, err := newController().Ingest(context.Background(), payload)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if result.Command == nil {
		t.Fatal("expected command")
	}
	if result.Command.Type != protocol.TypeAddMultipleFiles {
		t.Fatalf("unexpected command type %q", result.Command.Type)
	}
	data, ok := result.Command.Data.(protocol.AddMultipleFilesData)
	if !ok {
		t.Fatalf("unexpected data type %T", result.Command.Data)
	}
	if strings.Join(data.FilePaths, ",") != "/home/u/f1.txt,/home/u/f2.txt" {
		t.Fatalf("unexpected paths %v", data.FilePaths)
	}
	if data.Priority != 2 {
		t.Fatalf("expected priority 2, got %d", data.Priority)
	}
	if result.Feedback.Level != dropingest.LevelInfo || result.Feedback.Message != "Adding 2 files to queue" {
		t.Fatalf("unexpected feedback %+v", result.Feedback)
	}
	if result.CorrelationID == "" {
		t.Fatal("expected correlation id")
	}

	frame, err := protocol.Encode(*result.Command)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := `{"type":"addMultipleFiles","data":{"filePaths":["/home/u/f1.txt","/home/u/f2.txt"],"priority":2}}`
	if string(frame) != want {
		t.Fatalf("unexpected wire frame %s", frame)
	}
}

func TestIngestPartialSuccessReportsSkipped(t *testing.T) {
	payload := dropingest.NewPayload(0, dropingest.FormatTreeExplorer, `["/home/u/keep.txt", {"path": 12}]`)

	result, err := newController().Ingest(context.Background(), payload)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if result.Command == nil || result.Command.Type != protocol.TypeAddFile {
		t.Fatalf("expected addFile command, got %+v", result.Command)
	}
	data := result.Command.Data.(protocol.AddFileData)
	if data.FilePath != "/home/u/keep.txt" || data.Priority != protocol.PriorityNormal {
		t.Fatalf("unexpected data %+v", data)
	}
	if result.Skipped != 1 || len(result.Added) != 1 {
		t.Fatalf("expected 1 added and 1 skipped, got added=%v skipped=%d", result.Added, result.Skipped)
	}
	if result.Feedback.Message != "Adding 1 file to queue (1 skipped)" {
		t.Fatalf("unexpected feedback %q", result.Feedback.Message)
	}
}

func TestIngestDeduplicatesByValidatedPath(t *testing.T) {
	payload := dropingest.NewPayload(0, dropingest.FormatURIList, "file:///d/a.txt\nfile:///d/a.txt%20\n")
	result, err := newController().Ingest(context.Background(), payload)
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if result.Command.Type != protocol.TypeAddFile {
		t.Fatalf("duplicates should collapse to one file, got %s", result.Command.Type)
	}
	if result.Skipped != 1 {
		t.Fatalf("expected duplicate to count as skipped, got %d", result.Skipped)
	}
}

func TestIngestExternalFilesRejected(t *testing.T) {
	payload := dropingest.NewPayload(3, dropingest.FormatURIList, "file:///home/u/a.txt")
	result, err := newController().Ingest(context.Background(), payload)
	if !errors.Is(err, dropingest.ErrPayloadRejected) {
		t.Fatalf("expected ErrPayloadRejected, got %v", err)
	}
	var ingestErr *dropingest.IngestError
	if !errors.As(err, &ingestErr) || ingestErr.Kind != dropingest.KindPayloadRejected {
		t.Fatalf("expected payload rejected kind, got %v", err)
	}
	if result.Command != nil {
		t.Fatal("rejected drop must not produce a command")
	}
	if result.Feedback.Level != dropingest.LevelError || result.Feedback.Message == "" {
		t.Fatalf("expected error feedback, got %+v", result.Feedback)
	}
}

func TestIngestNoCandidatesListsFormats(t *testing.T) {
	payload := dropingest.NewPayload(0, "text/html", "<p>nothing</p>", "text/x-moz-url", "https://example.com")
	result, err := newController().Ingest(context.Background(), payload)
	if !errors.Is(err, dropingest.ErrNoCandidates) {
		t.Fatalf("expected ErrNoCandidates, got %v", err)
	}
	msg := result.Feedback.Message
	if !strings.Contains(msg, "text/html") || !strings.Contains(msg, "text/x-moz-url") {
		t.Fatalf("feedback should list available formats, got %q", msg)
	}
	if !strings.Contains(err.Error(), "text/html") {
		t.Fatalf("error should list formats, got %v", err)
	}
}

func TestIngestAllInvalidListsDistinctReasons(t *testing.T) {
	payload := dropingest.NewPayload(0, dropingest.FormatTreeExplorer, `["foo", "bar", {"path": true}, "   "]`)
	result, err := newController().Ingest(context.Background(), payload)
	if !errors.Is(err, dropingest.ErrValidationFailure) {
		t.Fatalf("expected ErrValidationFailure, got %v", err)
	}
	var ingestErr *dropingest.IngestError
	if !errors.As(err, &ingestErr) {
		t.Fatalf("expected IngestError, got %T", err)
	}
	want := []dropingest.Reason{dropingest.ReasonNotFileLike, dropingest.ReasonInvalidFormat, dropingest.ReasonEmpty}
	if len(ingestErr.Reasons) != len(want) {
		t.Fatalf("unexpected reasons %v", ingestErr.Reasons)
	}
	for i := range want {
		if ingestErr.Reasons[i] != want[i] {
			t.Fatalf("reason %d = %q, want %q", i, ingestErr.Reasons[i], want[i])
		}
	}
	for _, label := range []string{"not a file path", "invalid format", "empty path"} {
		if !strings.Contains(result.Feedback.Message, label) {
			t.Fatalf("feedback %q missing %q", result.Feedback.Message, label)
		}
	}
	if result.Command != nil {
		t.Fatal("expected no command")
	}
}

func TestIngestHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result, err := newController().Ingest(ctx, dropingest.NewPayload(0, dropingest.FormatURIList, "file:///a.txt"))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.Feedback.Message == "" {
		t.Fatal("feedback should be set on cancellation")
	}
}

func TestIngestUsesConfiguredPriority(t *testing.T) {
	c := dropingest.NewController(nil, protocol.PriorityHigh, logging.NewNop())
	result, err := c.Ingest(context.Background(), dropingest.NewPayload(0, dropingest.FormatPlainText, "/p/a.txt"))
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}
	if got := result.Command.Data.(protocol.AddFileData).Priority; got != protocol.PriorityHigh {
		t.Fatalf("expected priority %d, got %d", protocol.PriorityHigh, got)
	}
}
