package model

import "time"

// SpinRequest желаемый исход спина + смещение внутри сектора
type SpinRequest struct {
	RequestedSegmentIndex int
	JitterSeed            float64 // [-0.5, 0.5]
}

// SpinOutcome авторитетный результат, вычисленный из финального угла
type SpinOutcome struct {
	RequestedSegmentIndex int
	ResolvedSegmentIndex  int
	FinalRotation         float64
	Mismatch              bool
}

// SpinRecord запись истории спинов
type SpinRecord struct {
	ID             int64
	WheelID        string
	UserID         int
	RequestedIndex int
	ResolvedIndex  int
	Label          string
	FinalRotation  float64
	Mismatch       bool
	CreatedAt      time.Time
}

// WheelStats статистика по колесу (премиум)
type WheelStats struct {
	TotalSpins    int
	Mismatches    int
	SegmentHits   map[int]int
	RecentResults []int
	LastSpinAt    time.Time
}
