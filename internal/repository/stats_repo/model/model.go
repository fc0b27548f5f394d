package model

import "time"

// Состояние одного колеса
type WheelState struct {
	TotalSpins  int         // Сколько всего спинов сделано
	Mismatches  int         // Сколько раз сектор под указателем не совпал с запрошенным
	SegmentHits map[int]int // Выпадения по индексам сегментов
	LastSpinAt  time.Time

	SpinWindow []SpinResult // Окно последних спинов
	WindowSize int          // Размер окна
}

// Результат спина для окна
type SpinResult struct {
	Index    int
	Mismatch bool
	At       time.Time
}
