package ringtone

import (
	"testing"
	"time"
)

func TestStopIsIdempotent(t *testing.T) {
	h, err := NewPlayer("sleep", []string{"60"}).Start()
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	h.Stop()
	h.Stop() // second stop must be a no-op
}

func TestStopAfterProcessExited(t *testing.T) {
	h, err := NewPlayer("true", nil).Start()
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Let the process finish on its own first.
	time.Sleep(100 * time.Millisecond)

	h.Stop()
	h.Stop()
}

func TestNilHandleStop(t *testing.T) {
	var h *Handle
	h.Stop()
}

func TestStartMissingCommand(t *testing.T) {
	if _, err := NewPlayer("/nonexistent/player", nil).Start(); err == nil {
		t.Fatal("expected an error for a missing player binary")
	}
}
