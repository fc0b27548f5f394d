package wheel

import (
	"testing"
	"time"

	"prize_wheel/internal/model"
)

func TestSpin_CompletesWithResolvedIndex(t *testing.T) {
	tw := newTestWheel(t, Options{})
	tw.SetSegments(segments("a", "b", "c", "d"))

	if !tw.Spin(model.SpinRequest{RequestedSegmentIndex: 2}) {
		t.Fatal("spin was rejected")
	}
	if !tw.IsSpinning() {
		t.Fatal("wheel should be spinning")
	}
	tw.finish(t)

	outcomes := tw.completed()
	if len(outcomes) != 1 {
		t.Fatalf("completion fired %d times, want 1", len(outcomes))
	}
	o := outcomes[0]
	if o.ResolvedSegmentIndex != 2 || o.RequestedSegmentIndex != 2 || o.Mismatch {
		t.Errorf("outcome %+v", o)
	}
	if tw.Rotation() != o.FinalRotation {
		t.Errorf("rotation %v not pinned to final %v", tw.Rotation(), o.FinalRotation)
	}
	if tw.IsSpinning() {
		t.Error("wheel still spinning after completion")
	}
	if len(tw.diag.Events()) != 0 {
		t.Errorf("unexpected diagnostics: %+v", tw.diag.Events())
	}
}

func TestSpin_IntermediateFramesMoveForward(t *testing.T) {
	tw := newTestWheel(t, Options{})
	tw.SetSegments(segments("a", "b", "c"))
	tw.Spin(model.SpinRequest{RequestedSegmentIndex: 1})

	prev := tw.Rotation()
	now := testStart
	for tw.sched.Pending() > 0 {
		now = now.Add(100 * time.Millisecond)
		tw.sched.Step(now)
		cur := tw.Rotation()
		if cur < prev {
			t.Fatalf("rotation went backwards: %v -> %v", prev, cur)
		}
		prev = cur
	}
}

func TestSpin_RotationMonotonicAcrossSpins(t *testing.T) {
	tw := newTestWheel(t, Options{})
	tw.SetSegments(segments("a", "b", "c", "d", "e"))

	tw.Spin(model.SpinRequest{RequestedSegmentIndex: 4})
	tw.finish(t)
	tw.Spin(model.SpinRequest{RequestedSegmentIndex: 0})
	tw.finish(t)

	outcomes := tw.completed()
	if len(outcomes) != 2 {
		t.Fatalf("got %d outcomes, want 2", len(outcomes))
	}
	if outcomes[1].FinalRotation <= outcomes[0].FinalRotation {
		t.Errorf("final rotation decreased: %v -> %v", outcomes[0].FinalRotation, outcomes[1].FinalRotation)
	}
	if outcomes[1].ResolvedSegmentIndex != 0 {
		t.Errorf("second spin resolved %d, want 0", outcomes[1].ResolvedSegmentIndex)
	}
}

func TestSpin_IgnoredWhileSpinning(t *testing.T) {
	tw := newTestWheel(t, Options{})
	tw.SetSegments(segments("a", "b", "c", "d"))

	tw.Spin(model.SpinRequest{RequestedSegmentIndex: 1})
	tw.sched.Step(testStart.Add(500 * time.Millisecond))

	tw.Wheel.mu.Lock()
	before := tw.spin.anim
	tw.Wheel.mu.Unlock()

	if tw.Spin(model.SpinRequest{RequestedSegmentIndex: 3}) {
		t.Fatal("second spin must be ignored")
	}
	if tw.sched.Pending() != 1 {
		t.Errorf("pending frames %d, second request must not schedule frames", tw.sched.Pending())
	}

	tw.Wheel.mu.Lock()
	after := tw.spin.anim
	tw.Wheel.mu.Unlock()
	if after != before {
		t.Errorf("animation changed: %+v -> %+v", before, after)
	}

	tw.finish(t)
	outcomes := tw.completed()
	if len(outcomes) != 1 {
		t.Fatalf("completion fired %d times, want 1", len(outcomes))
	}
	if outcomes[0].FinalRotation != before.To || outcomes[0].ResolvedSegmentIndex != 1 {
		t.Errorf("outcome %+v, want original spin to index 1", outcomes[0])
	}
}

func TestSpin_ClampsRequestedIndex(t *testing.T) {
	tests := []struct {
		requested int
		want      int
	}{
		{99, 3},
		{-5, 0},
	}
	for _, tt := range tests {
		tw := newTestWheel(t, Options{})
		tw.SetSegments(segments("a", "b", "c", "d"))
		tw.Spin(model.SpinRequest{RequestedSegmentIndex: tt.requested})
		tw.finish(t)

		o := tw.completed()[0]
		if o.RequestedSegmentIndex != tt.want || o.ResolvedSegmentIndex != tt.want {
			t.Errorf("requested %d: outcome %+v, want %d", tt.requested, o, tt.want)
		}
	}
}

func TestSpin_NoSegments(t *testing.T) {
	tw := newTestWheel(t, Options{})
	if tw.Spin(model.SpinRequest{}) {
		t.Error("spin without segments must be ignored")
	}
	if tw.sched.Pending() != 0 {
		t.Error("no frames expected")
	}
}

func TestSpin_JitterKeepsRequestedSegment(t *testing.T) {
	for _, j := range []float64{-0.5, -0.1, 0.1, 0.5} {
		tw := newTestWheel(t, Options{})
		tw.SetSegments(segments("a", "b", "c", "d", "e", "f", "g", "h"))
		tw.Spin(model.SpinRequest{RequestedSegmentIndex: 5, JitterSeed: j})
		tw.finish(t)

		if o := tw.completed()[0]; o.ResolvedSegmentIndex != 5 {
			t.Errorf("jitter %v: resolved %d, want 5", j, o.ResolvedSegmentIndex)
		}
	}
}

func TestSpin_MismatchReportedAndResolvedWins(t *testing.T) {
	tw := newTestWheel(t, Options{})
	tw.SetSegments(segments("a", "b", "c", "d"))
	tw.Spin(model.SpinRequest{RequestedSegmentIndex: 2})

	// сдвигаем цель на один сектор, имитируя ошибку геометрии
	tw.Wheel.mu.Lock()
	tw.spin.anim.To += SegmentWidth(4)
	tw.Wheel.mu.Unlock()

	tw.finish(t)

	o := tw.completed()[0]
	if !o.Mismatch {
		t.Fatal("mismatch must be flagged")
	}
	if o.RequestedSegmentIndex != 2 || o.ResolvedSegmentIndex != 1 {
		t.Errorf("outcome %+v, want requested 2 resolved 1", o)
	}

	events := tw.diag.Events()
	if len(events) != 1 || events[0].Name != EventLandingMismatch {
		t.Fatalf("diagnostics %+v, want one %s", events, EventLandingMismatch)
	}
	if events[0].Fields["resolved"] != 1 {
		t.Errorf("diagnostic fields %+v", events[0].Fields)
	}
}

func TestSpin_RotationSurvivesSegmentReplacement(t *testing.T) {
	tw := newTestWheel(t, Options{})
	tw.SetSegments(segments("a", "b", "c"))
	tw.Spin(model.SpinRequest{RequestedSegmentIndex: 1})
	tw.finish(t)

	rot := tw.Rotation()
	tw.SetSegments(segments("x", "y", "z", "w"))
	if tw.Rotation() != rot {
		t.Errorf("rotation reset on segment change: %v -> %v", rot, tw.Rotation())
	}
}

func TestSpin_ReplacingSegmentsMidSpinDoesNotPanic(t *testing.T) {
	tw := newTestWheel(t, Options{})
	tw.SetSegments(segments("a", "b", "c", "d"))
	tw.Spin(model.SpinRequest{RequestedSegmentIndex: 3})
	tw.sched.Step(testStart.Add(time.Second))

	tw.SetSegments(nil)
	tw.finish(t)

	o := tw.completed()[0]
	if o.ResolvedSegmentIndex != -1 {
		t.Errorf("resolved %d with no segments, want -1", o.ResolvedSegmentIndex)
	}
}

func TestSpin_CompletionCallbackMayStartNextSpin(t *testing.T) {
	var chained bool
	var w *testWheel
	w = newTestWheel(t, Options{OnSpinComplete: func(model.SpinOutcome) {
		if !chained {
			chained = w.Spin(model.SpinRequest{RequestedSegmentIndex: 0})
		}
	}})
	w.SetSegments(segments("a", "b"))
	w.Spin(model.SpinRequest{RequestedSegmentIndex: 1})
	w.finish(t)

	if !chained {
		t.Fatal("spin from completion callback was rejected")
	}
	if got := len(w.completed()); got != 2 {
		t.Errorf("completions %d, want 2", got)
	}
}

func TestResetRotation(t *testing.T) {
	tw := newTestWheel(t, Options{})
	tw.SetSegments(segments("a", "b"))

	tw.Spin(model.SpinRequest{})
	if tw.ResetRotation(0) {
		t.Error("reset must be ignored while spinning")
	}
	tw.finish(t)

	if !tw.ResetRotation(1.5) {
		t.Fatal("reset rejected")
	}
	if tw.Rotation() != 1.5 {
		t.Errorf("rotation %v, want 1.5", tw.Rotation())
	}
}

func TestState(t *testing.T) {
	tw := newTestWheel(t, Options{Editable: true})
	tw.SetSegments(segments("a", "b", "c"))
	tw.SetDesign(model.WheelDesign{}, true)

	s := tw.State()
	if s.SegmentCount != 3 || s.Generation != 1 || !s.Editable || !s.Premium || s.Spinning {
		t.Errorf("state %+v", s)
	}
}

func TestNew_Defaults(t *testing.T) {
	w := New(Options{})
	defer w.Close()

	if w.opts.SpinDuration != DefaultSpinDuration || w.opts.FullSpins != DefaultFullSpins {
		t.Errorf("defaults not applied: %+v", w.opts)
	}
	if w.opts.Preset != DefaultPresets[model.SizeMedium] {
		t.Errorf("preset %+v, want medium", w.opts.Preset)
	}
}
