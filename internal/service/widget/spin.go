package widget

import (
	"context"
	"errors"
	"fmt"

	"prize_wheel/internal/model"
	"prize_wheel/pkg/picker"
)

// Spin выполняет спин колеса и ждет, пока анимация закончится.
// Победитель берется из итогового угла, а не из запроса
func (s *serv) Spin(ctx context.Context, user model.User, id string, cmd model.SpinCommand) (*model.WidgetSpin, error) {
	e, err := s.lookup(user, id)
	if err != nil {
		return nil, err
	}

	busy, weights := e.spinSnapshot()
	if busy {
		return nil, model.ErrSpinInProgress
	}
	n := len(weights)
	if n == 0 {
		return nil, model.ErrNoSegments
	}

	// Явный индекс вне диапазона - ошибка клиента, а не повод молча зажать его
	var target int
	if cmd.TargetIndex != nil {
		target = *cmd.TargetIndex
		if target < 0 || target >= n {
			return nil, model.ErrInvalidIndex
		}
	} else {
		target = picker.Weighted(weights, s.random)
	}

	jitter := s.random.Float64() - 0.5
	if cmd.Jitter != nil {
		jitter = *cmd.Jitter
	}

	ch, ok := e.reserveSpin()
	if !ok {
		return nil, model.ErrSpinInProgress
	}

	if !e.wheel.Spin(model.SpinRequest{RequestedSegmentIndex: target, JitterSeed: jitter}) {
		e.releaseSpin(ch)
		return nil, model.ErrSpinInProgress
	}

	select {
	case o := <-ch:
		return s.complete(ctx, e, o)
	case <-ctx.Done():
		// клиент ушел, но колесо докрутится и результат все равно надо сохранить
		go func() {
			o := <-ch
			_, err := s.complete(context.WithoutCancel(ctx), e, o)
			if err != nil && !errors.Is(err, model.ErrWheelNotFound) {
				s.logger.Error().Err(err).Str("wheel_id", e.id).Msg("failed to save detached spin")
			}
		}()
		return nil, ctx.Err()
	}
}

func (e *entry) spinSnapshot() (bool, []int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	weights := make([]int, len(e.segments))
	for i, seg := range e.segments {
		weights[i] = seg.Weight
	}
	return e.pending != nil, weights
}

func (e *entry) reserveSpin() (chan model.SpinOutcome, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pending != nil {
		return nil, false
	}
	ch := make(chan model.SpinOutcome, 1)
	e.pending = ch
	return ch, true
}

func (e *entry) releaseSpin(ch chan model.SpinOutcome) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pending == ch {
		e.pending = nil
	}
}

// complete сохраняет историю и угол в одной транзакции и обновляет статистику.
// Для удаленного колеса ничего не пишет
func (s *serv) complete(ctx context.Context, e *entry, o model.SpinOutcome) (*model.WidgetSpin, error) {
	e.persistMu.Lock()
	defer e.persistMu.Unlock()

	if e.deleted {
		return nil, model.ErrWheelNotFound
	}

	e.mu.Lock()
	label := ""
	if o.ResolvedSegmentIndex >= 0 && o.ResolvedSegmentIndex < len(e.segments) {
		label = e.segments[o.ResolvedSegmentIndex].Label
	}
	e.mu.Unlock()

	rec := &model.SpinRecord{
		WheelID:        e.id,
		UserID:         e.ownerID,
		RequestedIndex: o.RequestedSegmentIndex,
		ResolvedIndex:  o.ResolvedSegmentIndex,
		Label:          label,
		FinalRotation:  o.FinalRotation,
		Mismatch:       o.Mismatch,
		CreatedAt:      s.now(),
	}

	err := s.txManager.Do(ctx, func(txCtx context.Context) error {
		id, err := s.historyRepo.Insert(txCtx, rec)
		if err != nil {
			return fmt.Errorf("insert spin history: %w", err)
		}
		rec.ID = id

		if err := s.rotationRepo.Upsert(txCtx, e.ownerID, e.id, o.FinalRotation); err != nil {
			return fmt.Errorf("save rotation: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.statsRepo.Record(e.id, o.ResolvedSegmentIndex, o.Mismatch, rec.CreatedAt)

	s.logger.Info().
		Str("wheel_id", e.id).
		Int("requested", o.RequestedSegmentIndex).
		Int("resolved", o.ResolvedSegmentIndex).
		Bool("mismatch", o.Mismatch).
		Msg("spin completed")

	return &model.WidgetSpin{RecordID: rec.ID, Outcome: o, Label: label}, nil
}

// ResetRotation ставит колесо в ноль. Во время спина нельзя
func (s *serv) ResetRotation(ctx context.Context, user model.User, id string) (*model.Widget, error) {
	e, err := s.lookup(user, id)
	if err != nil {
		return nil, err
	}

	e.persistMu.Lock()
	defer e.persistMu.Unlock()
	if e.deleted {
		return nil, model.ErrWheelNotFound
	}

	if !e.wheel.ResetRotation(0) {
		return nil, model.ErrSpinInProgress
	}
	if err := s.rotationRepo.Upsert(ctx, e.ownerID, id, 0); err != nil {
		return nil, fmt.Errorf("save rotation: %w", err)
	}
	return e.view(), nil
}
