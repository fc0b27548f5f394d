package diagnostic

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestZerologSink_WritesEvent(t *testing.T) {
	var buf bytes.Buffer
	sink := NewZerologSink(zerolog.New(&buf))

	sink.LogDiagnostic("wheel.landing_mismatch", map[string]any{"requested": 2, "resolved": 3})

	out := buf.String()
	for _, want := range []string{`"event":"wheel.landing_mismatch"`, `"requested":2`, `"resolved":3`, `"level":"warn"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q does not contain %q", out, want)
		}
	}
}

func TestRecorder_CopiesEvents(t *testing.T) {
	var r Recorder
	r.LogDiagnostic("a", nil)
	events := r.Events()
	events[0].Name = "changed"

	if got := r.Events()[0].Name; got != "a" {
		t.Errorf("recorder state mutated through copy: %q", got)
	}
}

func TestWithFields_Merges(t *testing.T) {
	var r Recorder
	sink := WithFields(&r, map[string]any{"wheel_id": "w1", "index": -1})

	sink.LogDiagnostic("wheel.image_unavailable", map[string]any{"index": 3})

	events := r.Events()
	if len(events) != 1 {
		t.Fatalf("events %d", len(events))
	}
	if events[0].Fields["wheel_id"] != "w1" || events[0].Fields["index"] != 3 {
		t.Errorf("fields %+v", events[0].Fields)
	}
}
