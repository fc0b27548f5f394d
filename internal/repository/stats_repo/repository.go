package stats_repo

import (
	"sync"
	"time"

	"prize_wheel/internal/model"
	repoModel "prize_wheel/internal/repository/stats_repo/model"
)

const defaultWindowSize = 50

// Реализация репозитория для хранения статистики колес
type StatsRepo struct {
	mtx        sync.RWMutex
	windowSize int
	wheels     map[string]*repoModel.WheelState
}

// NewStatsRepository Конструктор, windowSize - сколько последних результатов держать в окне
func NewStatsRepository(windowSize int) *StatsRepo {
	if windowSize <= 0 {
		windowSize = defaultWindowSize
	}
	return &StatsRepo{
		windowSize: windowSize,
		wheels:     make(map[string]*repoModel.WheelState),
	}
}

// Record Обновление статистики колеса после спина
func (r *StatsRepo) Record(wheelID string, resolvedIndex int, mismatch bool, at time.Time) {
	r.mtx.Lock()
	defer r.mtx.Unlock()

	state, ok := r.wheels[wheelID]
	if !ok {
		state = &repoModel.WheelState{
			SegmentHits: make(map[int]int),
			SpinWindow:  make([]repoModel.SpinResult, 0, r.windowSize),
			WindowSize:  r.windowSize,
		}
		r.wheels[wheelID] = state
	}

	state.TotalSpins++
	if mismatch {
		state.Mismatches++
	}
	state.SegmentHits[resolvedIndex]++
	state.LastSpinAt = at

	// Добавляем спин в окно
	state.SpinWindow = append(state.SpinWindow, repoModel.SpinResult{
		Index:    resolvedIndex,
		Mismatch: mismatch,
		At:       at,
	})

	// Поддерживаем размер окна
	if len(state.SpinWindow) > state.WindowSize {
		state.SpinWindow = state.SpinWindow[1:]
	}
}

// Stats Копия статистики колеса, нулевая если спинов не было
func (r *StatsRepo) Stats(wheelID string) model.WheelStats {
	r.mtx.RLock()
	defer r.mtx.RUnlock()

	out := model.WheelStats{
		SegmentHits:   make(map[int]int),
		RecentResults: make([]int, 0),
	}
	state, ok := r.wheels[wheelID]
	if !ok {
		return out
	}

	out.TotalSpins = state.TotalSpins
	out.Mismatches = state.Mismatches
	out.LastSpinAt = state.LastSpinAt
	for k, v := range state.SegmentHits {
		out.SegmentHits[k] = v
	}
	for _, s := range state.SpinWindow {
		out.RecentResults = append(out.RecentResults, s.Index)
	}
	return out
}

// Reset Сброс статистики, индексы теряют смысл после замены сегментов
func (r *StatsRepo) Reset(wheelID string) {
	r.mtx.Lock()
	defer r.mtx.Unlock()
	delete(r.wheels, wheelID)
}
