package widget

import (
	"context"

	"prize_wheel/internal/model"
)

// ReplaceSegments новый список сегментов. Картинки грузятся заново, угол сохраняется,
// статистика сбрасывается, потому что индексы сегментов поменяли смысл
func (s *serv) ReplaceSegments(_ context.Context, user model.User, id string, segments []model.Segment) (*model.Widget, error) {
	e, err := s.lookup(user, id)
	if err != nil {
		return nil, err
	}
	if err := validateSegments(segments, s.planCfg.Limits(user.Plan)); err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.segments = cloneSegments(segments)
	e.wheel.SetSegments(e.segments)
	view := e.viewLocked()
	e.mu.Unlock()

	s.statsRepo.Reset(id)
	return view, nil
}

// UpdateDesign только для премиума
func (s *serv) UpdateDesign(_ context.Context, user model.User, id string, design model.WheelDesign) (*model.Widget, error) {
	e, err := s.lookup(user, id)
	if err != nil {
		return nil, err
	}
	if !s.planCfg.Limits(user.Plan).Design {
		return nil, model.ErrPremiumRequired
	}

	e.mu.Lock()
	e.design = design
	e.premium = true
	e.wheel.SetDesign(design, true)
	view := e.viewLocked()
	e.mu.Unlock()

	return view, nil
}
