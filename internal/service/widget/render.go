package widget

import (
	"bytes"
	"context"
	"fmt"
	"image/png"

	"prize_wheel/internal/model"
)

// Render текущий кадр колеса в PNG
func (s *serv) Render(_ context.Context, user model.User, id string) ([]byte, error) {
	e, err := s.lookup(user, id)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, e.wheel.Render()); err != nil {
		return nil, fmt.Errorf("encode frame: %w", err)
	}
	return buf.Bytes(), nil
}

// Pointer события мыши в режиме редактирования
func (s *serv) Pointer(_ context.Context, user model.User, id string, ev model.PointerEvent) (*model.PointerResult, error) {
	e, err := s.lookup(user, id)
	if err != nil {
		return nil, err
	}

	switch ev.Kind {
	case model.PointerDown:
		e.wheel.PointerDown(ev.X, ev.Y)
	case model.PointerMove:
		if p, ok := e.wheel.PointerMove(ev.X, ev.Y); ok {
			idx, _ := e.wheel.Dragging()
			return &model.PointerResult{Dragging: true, Index: idx, Placement: &p}, nil
		}
	case model.PointerUp:
		e.wheel.PointerUp()
	default:
		return nil, fmt.Errorf("unknown pointer event %q", ev.Kind)
	}

	idx, dragging := e.wheel.Dragging()
	return &model.PointerResult{Dragging: dragging, Index: idx}, nil
}
