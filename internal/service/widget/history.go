package widget

import (
	"context"

	"prize_wheel/internal/model"
)

// History последние спины, не больше лимита тарифа
func (s *serv) History(ctx context.Context, user model.User, id string, limit int) ([]model.SpinRecord, error) {
	if _, err := s.lookup(user, id); err != nil {
		return nil, err
	}

	allowed := s.planCfg.Limits(user.Plan).HistoryLimit
	if limit <= 0 || limit > allowed {
		limit = allowed
	}
	return s.historyRepo.List(ctx, user.ID, id, limit)
}

// Stats только для премиума
func (s *serv) Stats(_ context.Context, user model.User, id string) (*model.WheelStats, error) {
	if _, err := s.lookup(user, id); err != nil {
		return nil, err
	}
	if !s.planCfg.Limits(user.Plan).Stats {
		return nil, model.ErrPremiumRequired
	}

	stats := s.statsRepo.Stats(id)
	return &stats, nil
}
