package main

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"queuepanel/internal/bridge"
	"queuepanel/internal/dropingest"
	"queuepanel/internal/panel"
	"queuepanel/internal/protocol"
	"queuepanel/internal/testsupport"
)

func TestEventsCommandListsDropZone(t *testing.T) {
	out, _, err := runCLI(t, []string{"events"}, "", nil)
	if err != nil {
		t.Fatalf("events: %v", err)
	}
	requireContains(t, out, "drop-zone")
	requireContains(t, out, "drag-leave")

	out, _, err = runCLI(t, []string{"events", "--json"}, "", nil)
	if err != nil {
		t.Fatalf("events --json: %v", err)
	}
	var decoded []map[string]string
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(decoded) != len(panel.SupportedEvents()) {
		t.Fatalf("unexpected event count %d", len(decoded))
	}
}

func TestIngestCommandReportsAddedFiles(t *testing.T) {
	env := setupCLITestEnv(t)
	payloadPath := filepath.Join(env.baseDir, "drop.json")
	testsupport.WriteJSON(t, payloadPath, dropingest.NewPayload(0,
		dropingest.FormatURIList, "file:///home/u/a.txt\nfile:///home/u/notes",
		dropingest.FormatTreeExplorer, `[{"uri":{"fsPath":"/home/u/b.md"}}]`,
	))

	out, _, err := runCLI(t, []string{"ingest", payloadPath}, env.configPath, nil)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	requireContains(t, out, "Adding 2 files to queue (1 skipped)")
	requireContains(t, out, "/home/u/b.md")
	requireContains(t, out, "not a file path")
	requireContains(t, out, "Command: addMultipleFiles (sent: no)")

	out, _, err = runCLI(t, []string{"ingest", "--json", "--priority", "4", payloadPath}, env.configPath, nil)
	if err != nil {
		t.Fatalf("ingest --json: %v", err)
	}
	var decoded struct {
		Added   []string `json:"added"`
		Skipped int      `json:"skipped"`
		Command struct {
			Type string                        `json:"type"`
			Data protocol.AddMultipleFilesData `json:"data"`
		} `json:"command"`
	}
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(decoded.Added) != 2 || decoded.Skipped != 1 {
		t.Fatalf("unexpected result %+v", decoded)
	}
	if decoded.Command.Type != protocol.TypeAddMultipleFiles || decoded.Command.Data.Priority != 4 {
		t.Fatalf("unexpected command %+v", decoded.Command)
	}
}

func TestIngestCommandRejectsExternalDrop(t *testing.T) {
	env := setupCLITestEnv(t)
	payload := `{"representations":[{"format":"text/uri-list","data":"file:///tmp/a.txt"}],"files":1}`

	out, _, err := runCLI(t, []string{"ingest", "-"}, env.configPath, strings.NewReader(payload))
	if err == nil {
		t.Fatal("expected rejection")
	}
	if !strings.Contains(err.Error(), string(dropingest.KindPayloadRejected)) {
		t.Fatalf("unexpected error %v", err)
	}
	requireContains(t, out, "External files can't be added")
}

func TestIngestCommandSendsToController(t *testing.T) {
	env := setupCLITestEnv(t)
	controller := testsupport.NewSocketController(t, env.cfg.Bridge.SocketPath)
	payload := `{"representations":[{"format":"text/plain","data":"/srv/in/report.csv"}]}`

	out, _, err := runCLI(t, []string{"ingest", "--send", "-"}, env.configPath, strings.NewReader(payload))
	if err != nil {
		t.Fatalf("ingest --send: %v", err)
	}
	requireContains(t, out, "sent: yes")

	line, ok := controller.Next(2 * time.Second)
	if !ok {
		t.Fatal("controller received nothing")
	}
	want := `{"type":"addFile","data":{"filePath":"/srv/in/report.csv","priority":2}}`
	if line != want {
		t.Fatalf("controller got %s, want %s", line, want)
	}
}

func TestIngestSendWithoutControllerFails(t *testing.T) {
	env := setupCLITestEnv(t)
	payload := `{"representations":[{"format":"text/plain","data":"/srv/in/report.csv"}]}`
	_, _, err := runCLI(t, []string{"ingest", "--send", "-"}, env.configPath, strings.NewReader(payload))
	if err == nil || !strings.Contains(err.Error(), "connect to controller") {
		t.Fatalf("expected connect error, got %v", err)
	}
}

func TestRenderCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	snapshot := `{"type":"updateQueue","data":{
		"state":{"isProcessing":true,"isPaused":false,"processedCount":1,"totalCount":2,"failedCount":0,"errors":[]},
		"items":[{"id":"a","filePath":"/q/a.txt","fileName":"a.txt","priority":3,"status":"processing","addedAt":"2026-03-01T11:00:00Z"}],
		"statistics":{"totalProcessed":42,"averageProcessingTime":1500,"successRate":1,"throughput":3},
		"canRepeat":false}}`

	out, _, err := runCLI(t, []string{"render", "-"}, env.configPath, strings.NewReader(snapshot))
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	requireContains(t, out, "Queue: Processing")
	requireContains(t, out, "a.txt")
	requireContains(t, out, "1 / 2 processed")

	out, _, err = runCLI(t, []string{"render", "--json", "-"}, env.configPath, strings.NewReader(snapshot))
	if err != nil {
		t.Fatalf("render --json: %v", err)
	}
	var view panel.View
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if view.Header != "Processing" || len(view.Active) != 1 || view.Active[0].Priority != "High" {
		t.Fatalf("unexpected view %+v", view)
	}
	if !view.Controls.Pause || view.Controls.Start {
		t.Fatalf("unexpected controls %+v", view.Controls)
	}
}

func TestRenderCommandRejectsOtherMessages(t *testing.T) {
	env := setupCLITestEnv(t)
	_, _, err := runCLI(t, []string{"render", "-"}, env.configPath, strings.NewReader(`{"type":"info","data":{"message":"hi"}}`))
	if err == nil {
		t.Fatal("expected an error for non-snapshot messages")
	}
}

func TestRunHeadlessForwardsHostEvents(t *testing.T) {
	env := setupCLITestEnv(t)
	controller := testsupport.NewSocketController(t, env.cfg.Bridge.SocketPath)

	stdin := strings.Join([]string{
		`{"role":"add-files","kind":"click"}`,
		`not json`,
		`{"role":"drop-zone","kind":"drop","payload":{"representations":[{"format":"text/uri-list","data":"file:///tmp/x.log"}]}}`,
	}, "\n")

	out, _, err := runCLI(t, []string{"run", "--headless"}, env.configPath, strings.NewReader(stdin))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	requireContains(t, out, "Queue: Idle")

	var got []string
	for len(got) < 2 {
		line, ok := controller.Next(2 * time.Second)
		if !ok {
			t.Fatalf("controller received only %v", got)
		}
		got = append(got, line)
	}
	if got[0] != `{"type":"showFilePicker","data":{}}` {
		t.Fatalf("unexpected first command %s", got[0])
	}
	if got[1] != `{"type":"addFile","data":{"filePath":"/tmp/x.log","priority":2}}` {
		t.Fatalf("unexpected second command %s", got[1])
	}
}

func TestRunRefusesSecondInstance(t *testing.T) {
	env := setupCLITestEnv(t)
	lock, err := bridge.AcquireInstanceLock(env.cfg.LockPath())
	if err != nil {
		t.Fatalf("lock: %v", err)
	}
	defer lock.Release()

	_, _, err = runCLI(t, []string{"run", "--headless"}, env.configPath, nil)
	if !errors.Is(err, bridge.ErrPanelRunning) {
		t.Fatalf("expected ErrPanelRunning, got %v", err)
	}
}

func TestCheckCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"check"}, env.configPath, nil)
	if err == nil || !strings.Contains(err.Error(), "checks failed") {
		t.Fatalf("expected failure without a controller, got %v", err)
	}
	requireContains(t, out, "FAIL")

	testsupport.NewSocketController(t, env.cfg.Bridge.SocketPath)
	out, _, err = runCLI(t, []string{"check", "--json"}, env.configPath, nil)
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	var results []struct {
		Name   string `json:"name"`
		Passed bool   `json:"passed"`
	}
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("unexpected results %+v", results)
	}
}
