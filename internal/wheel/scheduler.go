package wheel

import (
	"sync"
	"time"
)

// FrameScheduler планирует один вызов fn на следующем кадре
type FrameScheduler interface {
	RequestFrame(fn func(now time.Time))
}

// TickerScheduler кадры по таймеру с фиксированным интервалом
type TickerScheduler struct {
	interval time.Duration
	now      func() time.Time
}

func NewTickerScheduler(interval time.Duration, now func() time.Time) *TickerScheduler {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	if now == nil {
		now = time.Now
	}
	return &TickerScheduler{interval: interval, now: now}
}

func (s *TickerScheduler) RequestFrame(fn func(now time.Time)) {
	time.AfterFunc(s.interval, func() {
		fn(s.now())
	})
}

// ManualScheduler копит кадры, пока их явно не прогонят через Step.
// Нужен там, где время задается вручную
type ManualScheduler struct {
	mu      sync.Mutex
	pending []func(time.Time)
}

func (s *ManualScheduler) RequestFrame(fn func(now time.Time)) {
	s.mu.Lock()
	s.pending = append(s.pending, fn)
	s.mu.Unlock()
}

// Pending количество запланированных кадров
func (s *ManualScheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pending)
}

// Step прогоняет кадры, запланированные до вызова. Возвращает их количество
func (s *ManualScheduler) Step(now time.Time) int {
	s.mu.Lock()
	batch := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, fn := range batch {
		fn(now)
	}
	return len(batch)
}

// RunUntilIdle шагает время на step, пока кадры не закончатся или не наберется maxFrames.
// Возвращает время последнего кадра
func (s *ManualScheduler) RunUntilIdle(start time.Time, step time.Duration, maxFrames int) time.Time {
	now := start
	for i := 0; i < maxFrames && s.Pending() > 0; i++ {
		now = now.Add(step)
		s.Step(now)
	}
	return now
}
