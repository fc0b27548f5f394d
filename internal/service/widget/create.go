package widget

import (
	"context"
	"fmt"

	"prize_wheel/internal/diagnostic"
	"prize_wheel/internal/model"
	"prize_wheel/internal/wheel"
)

// Create регистрирует колесо. Если для id сохранен угол, колесо продолжает с него
func (s *serv) Create(ctx context.Context, user model.User, in model.WidgetInput) (*model.Widget, error) {
	limits := s.planCfg.Limits(user.Plan)
	if err := validateSegments(in.Segments, limits); err != nil {
		return nil, err
	}
	if !in.Design.IsZero() && !limits.Design {
		return nil, model.ErrPremiumRequired
	}

	size, err := model.ParseSizePreset(string(in.Size))
	if err != nil {
		return nil, err
	}

	id, err := s.newID(in.ID)
	if err != nil {
		return nil, err
	}

	s.mtx.RLock()
	existing, exists := s.widgets[id]
	s.mtx.RUnlock()
	if exists {
		return nil, existsError(existing, user)
	}

	// чужое сохраненное колесо для пользователя не существует
	owner, owned, err := s.rotationRepo.Owner(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load wheel owner: %w", err)
	}
	if owned && owner != user.ID {
		return nil, model.ErrWheelNotFound
	}

	rotation, found, err := s.rotationRepo.Get(ctx, user.ID, id)
	if err != nil {
		return nil, fmt.Errorf("load rotation: %w", err)
	}

	e := &entry{
		id:        id,
		ownerID:   user.ID,
		title:     in.Title,
		size:      size,
		editable:  in.Editable,
		createdAt: s.now(),
		segments:  cloneSegments(in.Segments),
		design:    in.Design,
		premium:   limits.Design,
	}
	e.wheel = wheel.New(wheel.Options{
		Preset:       s.presetFor(size),
		SpinDuration: s.wheelCfg.SpinDuration(),
		FullSpins:    s.wheelCfg.FullSpins(),
		Editable:     in.Editable,
		Loader:       s.loader,
		Scheduler:    s.newScheduler(),
		Diagnostics:  diagnostic.WithFields(s.diag, map[string]any{"wheel_id": id}),
		OnSpinComplete: func(o model.SpinOutcome) {
			e.deliver(o)
		},
		OnPlacementChange: func(index int, p model.Placement) {
			e.applyPlacement(index, p)
		},
	})
	if found {
		e.wheel.ResetRotation(rotation)
	}
	e.wheel.SetSegments(e.segments)
	e.wheel.SetDesign(e.design, e.premium)

	s.mtx.Lock()
	if other, ok := s.widgets[id]; ok {
		s.mtx.Unlock()
		e.wheel.Close()
		return nil, existsError(other, user)
	}
	s.widgets[id] = e
	s.mtx.Unlock()

	s.logger.Info().Str("wheel_id", id).Int("user_id", user.ID).Int("segments", len(in.Segments)).
		Bool("restored", found).Msg("wheel created")

	return e.view(), nil
}

func (s *serv) Get(_ context.Context, user model.User, id string) (*model.Widget, error) {
	e, err := s.lookup(user, id)
	if err != nil {
		return nil, err
	}
	return e.view(), nil
}

// Delete убирает колесо из памяти и чистит его историю и угол.
// Спин, который докрутится после удаления, ничего не запишет
func (s *serv) Delete(ctx context.Context, user model.User, id string) error {
	e, err := s.lookup(user, id)
	if err != nil {
		return err
	}

	e.persistMu.Lock()
	defer e.persistMu.Unlock()
	if e.deleted {
		return model.ErrWheelNotFound
	}

	err = s.txManager.Do(ctx, func(txCtx context.Context) error {
		if err := s.historyRepo.DeleteByWheel(txCtx, e.ownerID, id); err != nil {
			return fmt.Errorf("delete history: %w", err)
		}
		if err := s.rotationRepo.Delete(txCtx, e.ownerID, id); err != nil {
			return fmt.Errorf("delete rotation: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	e.deleted = true

	s.mtx.Lock()
	if s.widgets[id] == e {
		delete(s.widgets, id)
	}
	s.mtx.Unlock()

	e.wheel.Close()
	s.statsRepo.Reset(id)
	s.logger.Info().Str("wheel_id", id).Msg("wheel deleted")
	return nil
}

// existsError занятый id другого пользователя выглядит как отсутствующее колесо
func existsError(e *entry, user model.User) error {
	if e.ownerID != user.ID {
		return model.ErrWheelNotFound
	}
	return model.ErrWheelExists
}

// deliver отдает результат ожидающему Spin. Спин, запущенный не через сервис, никто не ждет
func (e *entry) deliver(o model.SpinOutcome) {
	e.mu.Lock()
	ch := e.pending
	e.pending = nil
	e.mu.Unlock()

	if ch != nil {
		ch <- o
	}
}

// applyPlacement перетаскивание меняет только сохраненную копию, картинки не перезагружаются
func (e *entry) applyPlacement(index int, p model.Placement) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if index < 0 || index >= len(e.segments) {
		return
	}
	e.segments[index].Placement = &p
}
