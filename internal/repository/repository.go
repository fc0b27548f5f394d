package repository

import (
	"context"
	"time"

	"prize_wheel/internal/model"
)

// HistoryRepository история спинов в postgres
type HistoryRepository interface {
	Insert(ctx context.Context, rec *model.SpinRecord) (int64, error)
	List(ctx context.Context, userID int, wheelID string, limit int) ([]model.SpinRecord, error)
	DeleteByWheel(ctx context.Context, userID int, wheelID string) error
}

// RotationRepository последний угол колеса, чтобы после рестарта оно не прыгало в ноль
type RotationRepository interface {
	// Owner владелец сохраненного колеса, чтобы чужой id нельзя было занять
	Owner(ctx context.Context, wheelID string) (userID int, found bool, err error)
	Get(ctx context.Context, userID int, wheelID string) (rotation float64, found bool, err error)
	Upsert(ctx context.Context, userID int, wheelID string, rotation float64) error
	Delete(ctx context.Context, userID int, wheelID string) error
}

// StatsRepository счетчики по колесам в памяти
type StatsRepository interface {
	Record(wheelID string, resolvedIndex int, mismatch bool, at time.Time)
	Stats(wheelID string) model.WheelStats
	Reset(wheelID string)
}
