package service

import (
	"context"

	"prize_wheel/internal/model"
)

type WidgetService interface {
	Create(ctx context.Context, user model.User, in model.WidgetInput) (*model.Widget, error)
	Get(ctx context.Context, user model.User, id string) (*model.Widget, error)
	Delete(ctx context.Context, user model.User, id string) error
	ReplaceSegments(ctx context.Context, user model.User, id string, segments []model.Segment) (*model.Widget, error)
	UpdateDesign(ctx context.Context, user model.User, id string, design model.WheelDesign) (*model.Widget, error)

	Spin(ctx context.Context, user model.User, id string, cmd model.SpinCommand) (*model.WidgetSpin, error)
	ResetRotation(ctx context.Context, user model.User, id string) (*model.Widget, error)

	Render(ctx context.Context, user model.User, id string) ([]byte, error)
	Pointer(ctx context.Context, user model.User, id string, ev model.PointerEvent) (*model.PointerResult, error)

	History(ctx context.Context, user model.User, id string, limit int) ([]model.SpinRecord, error)
	Stats(ctx context.Context, user model.User, id string) (*model.WheelStats, error)
}
