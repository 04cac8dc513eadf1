package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// redirect points the default logger at a buffer so the helpers' output can
// be asserted. The deferred cleanup restores the silenced test logger.
func redirect(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	mu.Lock()
	log = zerolog.New(&buf)
	initDone = true
	mu.Unlock()
	t.Cleanup(func() { SetTestMode(true) })
	return &buf
}

func TestHelpersWriteThroughDefaultLogger(t *testing.T) {
	buf := redirect(t)

	Info("page created", "slug", "iowa")
	Warn("retrying request", "attempt", 2)
	Error("request failed", errors.New("connection reset"))
	Debug("checkpoint saved", "operation", "generate-all")

	out := buf.String()
	for _, want := range []string{
		`"slug":"iowa"`, "page created",
		`"attempt":2`, "retrying request",
		"connection reset", "request failed",
		`"operation":"generate-all"`, "checkpoint saved",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected log output to contain %q, got:\n%s", want, out)
		}
	}
}

func TestErrorAllowsNilErr(t *testing.T) {
	buf := redirect(t)

	Error("cleanup skipped", nil, "reason", "nothing to do")
	if !strings.Contains(buf.String(), "cleanup skipped") {
		t.Errorf("Expected message logged with nil error, got:\n%s", buf.String())
	}
}

func TestFieldsPairsArgs(t *testing.T) {
	m := fields([]any{"state", "Iowa", "count", 10})
	if m["state"] != "Iowa" || m["count"] != 10 {
		t.Errorf("Unexpected field map: %v", m)
	}

	if got := fields(nil); got != nil {
		t.Errorf("Expected nil map for no args, got %v", got)
	}

	// A trailing key without a value is dropped, not paired with garbage.
	m = fields([]any{"state", "Iowa", "dangling"})
	if _, ok := m["dangling"]; ok || len(m) != 1 {
		t.Errorf("Expected dangling key to be dropped, got %v", m)
	}

	// Non-string keys are skipped.
	m = fields([]any{42, "value", "ok", true})
	if len(m) != 1 || m["ok"] != true {
		t.Errorf("Expected non-string key to be skipped, got %v", m)
	}
}
