package eventlog

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestLogger_EmitsEventWithToolAndCoord(t *testing.T) {
	var buf bytes.Buffer
	l := New(slog.New(slog.NewJSONHandler(&buf, nil)))
	l.SetActiveTool("Flood Add Tool")
	l.Log("flood_add", 2, 1, slog.Float64("tolerance", 0.05))
	l.Close()

	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatal("no event emitted")
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(line), &rec); err != nil {
		t.Fatalf("event is not valid JSON: %v", err)
	}
	if rec["msg"] != "flood_add" {
		t.Fatalf("msg = %v", rec["msg"])
	}
	if rec["active_tool"] != "flood_add_tool" {
		t.Fatalf("active_tool = %v", rec["active_tool"])
	}
	if rec["patch"] != "(2,1)" {
		t.Fatalf("patch = %v", rec["patch"])
	}
	if rec["tolerance"] != 0.05 {
		t.Fatalf("tolerance = %v", rec["tolerance"])
	}
	if rec["session"] == "" {
		t.Fatal("session id missing")
	}
}

func TestLogger_NeverBlocksWhenFull(t *testing.T) {
	// nil slog sink: the drain goroutine discards, but we stuff the queue
	// faster than it drains to exercise the drop path.
	l := New(nil)
	done := make(chan struct{})
	go func() {
		for i := 0; i < queueSize*10; i++ {
			l.Log("spam", 0, 0)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Log blocked the caller")
	}
	l.Close()
}

func TestLogger_LogAfterCloseIsNoOp(t *testing.T) {
	var buf bytes.Buffer
	l := New(slog.New(slog.NewJSONHandler(&buf, nil)))
	l.Log("before_close", 0, 0)
	l.Close()

	// A drag fill finishing after shutdown must not crash the process.
	l.Log("after_close", 0, 0)
	l.Close()

	if strings.Contains(buf.String(), "after_close") {
		t.Error("event logged after Close")
	}
	if !strings.Contains(buf.String(), "before_close") {
		t.Error("event queued before Close was not flushed")
	}
}

func TestLogger_NilReceiverSafe(t *testing.T) {
	var l *Logger
	l.SetActiveTool("x")
	l.Log("noop", 0, 0)
	l.Close()
}
