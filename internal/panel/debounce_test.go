package panel_test

import (
	"testing"

	"queuepanel/internal/panel"
)

func TestDebouncerTokens(t *testing.T) {
	var d panel.Debouncer
	if d.Expire(0) || d.Active() {
		t.Fatal("zero debouncer should be inactive")
	}

	d.Enter()
	first := d.Leave()
	second := d.Leave()
	if first == second {
		t.Fatal("each leave must produce a fresh token")
	}
	if d.Expire(first) {
		t.Fatal("superseded token should not expire the indicator")
	}
	if !d.Active() {
		t.Fatal("indicator hidden by stale token")
	}
	if !d.Expire(second) || d.Active() {
		t.Fatal("latest token should hide the indicator")
	}
	if d.Expire(second) {
		t.Fatal("a token fires at most once")
	}
}

func TestDebouncerEnterCancelsPendingLeave(t *testing.T) {
	var d panel.Debouncer
	d.Enter()
	token := d.Leave()
	d.Enter()
	if d.Expire(token) || !d.Active() {
		t.Fatal("enter should cancel the pending removal")
	}
	d.Reset()
	if d.Active() {
		t.Fatal("reset should hide the indicator")
	}
}
