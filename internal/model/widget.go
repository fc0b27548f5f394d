package model

import "time"

// WidgetInput то, что пользователь присылает при создании колеса.
// ID можно передать, чтобы заново зарегистрировать сохраненное колесо и восстановить его угол
type WidgetInput struct {
	ID       string
	Title    string
	Size     SizePreset
	Segments []Segment
	Design   WheelDesign
	Editable bool
}

// Widget колесо пользователя вместе с текущим состоянием
type Widget struct {
	ID           string
	OwnerID      int
	Title        string
	Size         SizePreset
	Segments     []Segment
	Design       WheelDesign
	Premium      bool
	Editable     bool
	Rotation     float64
	Spinning     bool
	LoadedImages int
	CreatedAt    time.Time
}

// SpinCommand nil-поля выбираются сервисом случайно
type SpinCommand struct {
	TargetIndex *int
	Jitter      *float64
}

// WidgetSpin итог спина после сохранения в историю
type WidgetSpin struct {
	RecordID int64
	Outcome  SpinOutcome
	Label    string
}

type PointerKind string

const (
	PointerDown PointerKind = "down"
	PointerMove PointerKind = "move"
	PointerUp   PointerKind = "up"
)

// PointerEvent координаты в пикселях холста
type PointerEvent struct {
	Kind PointerKind
	X, Y float64
}

type PointerResult struct {
	Dragging  bool
	Index     int
	Placement *Placement
}
