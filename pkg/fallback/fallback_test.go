package fallback

import (
	"context"
	"errors"
	"testing"
)

func okAttempt(name, val string, calls *[]string) Attempt[string] {
	return Attempt[string]{Name: name, Run: func(context.Context) (string, error) {
		*calls = append(*calls, name)
		return val, nil
	}}
}

func failAttempt(name string, calls *[]string) Attempt[string] {
	return Attempt[string]{Name: name, Run: func(context.Context) (string, error) {
		*calls = append(*calls, name)
		return "", errors.New(name + " failed")
	}}
}

func TestTryInOrder_FirstSucceeds(t *testing.T) {
	var calls []string
	v, idx, err := TryInOrder(context.Background(),
		okAttempt("direct", "a", &calls),
		okAttempt("cors", "b", &calls),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "a" || idx != 0 {
		t.Errorf("got (%q, %d), want (a, 0)", v, idx)
	}
	if len(calls) != 1 {
		t.Errorf("later attempts should not run, calls=%v", calls)
	}
}

func TestTryInOrder_FallsThrough(t *testing.T) {
	var calls []string
	v, idx, err := TryInOrder(context.Background(),
		failAttempt("direct", &calls),
		failAttempt("cors", &calls),
		okAttempt("proxy", "c", &calls),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "c" || idx != 2 {
		t.Errorf("got (%q, %d), want (c, 2)", v, idx)
	}
	if len(calls) != 3 {
		t.Errorf("calls=%v, want 3 attempts", calls)
	}
}

func TestTryInOrder_Exhausted(t *testing.T) {
	var calls []string
	_, idx, err := TryInOrder(context.Background(),
		failAttempt("direct", &calls),
		failAttempt("cors", &calls),
		failAttempt("proxy", &calls),
	)
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
	if idx != -1 {
		t.Errorf("idx %d, want -1", idx)
	}
	if len(calls) != 3 {
		t.Errorf("calls=%v, want 3 attempts", calls)
	}
}

func TestTryInOrder_NoAttempts(t *testing.T) {
	_, _, err := TryInOrder[string](context.Background())
	if !errors.Is(err, ErrExhausted) {
		t.Fatalf("expected ErrExhausted, got %v", err)
	}
}

func TestTryInOrder_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls []string
	_, _, err := TryInOrder(ctx, okAttempt("direct", "a", &calls))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(calls) != 0 {
		t.Errorf("no attempt should run on a canceled context, calls=%v", calls)
	}
}
