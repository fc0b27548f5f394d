package wheel

import (
	"context"
	"image"
	"image/color"
	"sync"
	"testing"
	"time"

	"prize_wheel/internal/diagnostic"
	"prize_wheel/internal/model"
)

var testStart = time.Unix(1_700_000_000, 0)

type fakeLoader struct {
	mu     sync.Mutex
	calls  []model.ImageRef
	images map[model.ImageRef]image.Image
	err    error
	gate   chan struct{}
}

func (f *fakeLoader) Load(ctx context.Context, ref model.ImageRef) (image.Image, error) {
	f.mu.Lock()
	f.calls = append(f.calls, ref)
	gate := f.gate
	img := f.images[ref]
	err := f.err
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return img, nil
}

func (f *fakeLoader) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type testWheel struct {
	*Wheel
	sched    *ManualScheduler
	diag     *diagnostic.Recorder
	outMu    sync.Mutex
	outcomes []model.SpinOutcome
}

func (tw *testWheel) completed() []model.SpinOutcome {
	tw.outMu.Lock()
	defer tw.outMu.Unlock()
	out := make([]model.SpinOutcome, len(tw.outcomes))
	copy(out, tw.outcomes)
	return out
}

// finish прогоняет кадры до конца анимации
func (tw *testWheel) finish(t *testing.T) {
	t.Helper()
	tw.sched.RunUntilIdle(testStart, DefaultFrameInterval, 10_000)
	if tw.sched.Pending() != 0 {
		t.Fatal("animation did not settle")
	}
}

func newTestWheel(t *testing.T, opts Options) *testWheel {
	t.Helper()
	tw := &testWheel{
		sched: &ManualScheduler{},
		diag:  &diagnostic.Recorder{},
	}
	opts.Scheduler = tw.sched
	opts.Diagnostics = tw.diag
	opts.Clock = func() time.Time { return testStart }
	userCb := opts.OnSpinComplete
	opts.OnSpinComplete = func(o model.SpinOutcome) {
		tw.outMu.Lock()
		tw.outcomes = append(tw.outcomes, o)
		tw.outMu.Unlock()
		if userCb != nil {
			userCb(o)
		}
	}
	tw.Wheel = New(opts)
	t.Cleanup(tw.Close)
	return tw
}

func waitImages(t *testing.T, w *Wheel) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := w.WaitImages(ctx); err != nil {
		t.Fatalf("images did not settle: %v", err)
	}
}

func segments(labels ...string) []model.Segment {
	out := make([]model.Segment, len(labels))
	for i, l := range labels {
		out[i] = model.Segment{Label: l, FillColor: colorRef(defaultSegmentColors[i%len(defaultSegmentColors)])}
	}
	return out
}

func solidImage(c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func near(a, b color.Color, tol int) bool {
	ar, ag, ab, aa := a.RGBA()
	br, bg, bb, ba := b.RGBA()
	d := func(x, y uint32) bool {
		diff := int(x>>8) - int(y>>8)
		return diff <= tol && diff >= -tol
	}
	return d(ar, br) && d(ag, bg) && d(ab, bb) && d(aa, ba)
}

func colorRef(c model.Color) *model.Color {
	return &c
}
