package stats_repo

import (
	"sync"
	"testing"
	"time"
)

func TestRecord(t *testing.T) {
	r := NewStatsRepository(3)
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	for i, idx := range []int{0, 1, 1, 2, 1} {
		r.Record("w1", idx, idx == 2, at.Add(time.Duration(i)*time.Second))
	}

	s := r.Stats("w1")
	if s.TotalSpins != 5 || s.Mismatches != 1 {
		t.Errorf("totals %+v", s)
	}
	if s.SegmentHits[1] != 3 || s.SegmentHits[0] != 1 || s.SegmentHits[2] != 1 {
		t.Errorf("hits %v", s.SegmentHits)
	}
	want := []int{1, 2, 1}
	if len(s.RecentResults) != len(want) {
		t.Fatalf("window %v, want %v", s.RecentResults, want)
	}
	for i := range want {
		if s.RecentResults[i] != want[i] {
			t.Errorf("window %v, want %v", s.RecentResults, want)
			break
		}
	}
	if !s.LastSpinAt.Equal(at.Add(4 * time.Second)) {
		t.Errorf("last spin %v", s.LastSpinAt)
	}
}

func TestStats_IsACopy(t *testing.T) {
	r := NewStatsRepository(10)
	r.Record("w1", 0, false, time.Now())

	s := r.Stats("w1")
	s.SegmentHits[0] = 100
	s.RecentResults[0] = 9

	again := r.Stats("w1")
	if again.SegmentHits[0] != 1 || again.RecentResults[0] != 0 {
		t.Errorf("stats leaked internal state: %+v", again)
	}
}

func TestResetAndUnknown(t *testing.T) {
	r := NewStatsRepository(0)
	r.Record("w1", 0, false, time.Now())
	r.Reset("w1")

	s := r.Stats("w1")
	if s.TotalSpins != 0 || len(s.SegmentHits) != 0 || s.RecentResults == nil {
		t.Errorf("reset stats %+v", s)
	}
}

func TestRecord_Concurrent(t *testing.T) {
	r := NewStatsRepository(5)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			r.Record("w1", i%4, false, time.Now())
			_ = r.Stats("w1")
		}(i)
	}
	wg.Wait()

	if s := r.Stats("w1"); s.TotalSpins != 50 || len(s.RecentResults) != 5 {
		t.Errorf("stats %+v", s)
	}
}
