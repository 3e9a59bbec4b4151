package meeting

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestJoinNotConfigured(t *testing.T) {
	j := NewCommandJoiner("", nil)
	if err := j.Join(context.Background()); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestJoinEndsOnCancel(t *testing.T) {
	j := NewCommandJoiner("sleep", []string{"60"})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- j.Join(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("operator-ended meeting should not error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Join did not return after cancel")
	}
}

func TestJoinRunsToCompletion(t *testing.T) {
	j := NewCommandJoiner("true", nil)
	if err := j.Join(context.Background()); err != nil {
		t.Fatalf("Join: %v", err)
	}
}

func TestJoinCommandFailure(t *testing.T) {
	j := NewCommandJoiner("false", nil)
	if err := j.Join(context.Background()); err == nil {
		t.Fatal("expected an error from a failing command")
	}
}
