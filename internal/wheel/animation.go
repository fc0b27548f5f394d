package wheel

import "time"

// EaseOutCubic монотонное замедление: 1 - (1-t)^3
func EaseOutCubic(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	inv := 1 - t
	return 1 - inv*inv*inv
}

// Animation один непрерывный переход поворота от From к To
type Animation struct {
	From      float64
	To        float64
	StartedAt time.Time
	Duration  time.Duration
}

// Progress доля прошедшего времени, прижатая к [0, 1]
func (a Animation) Progress(now time.Time) float64 {
	if a.Duration <= 0 {
		return 1
	}
	t := float64(now.Sub(a.StartedAt)) / float64(a.Duration)
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}

// RotationAt угол в момент now. На последнем кадре возвращается ровно To,
// чтобы погрешность тайминга кадров не накапливалась в состоянии
func (a Animation) RotationAt(now time.Time) (rotation float64, done bool) {
	p := a.Progress(now)
	if p >= 1 {
		return a.To, true
	}
	return a.From + (a.To-a.From)*EaseOutCubic(p), false
}

// EndsAt момент окончания анимации
func (a Animation) EndsAt() time.Time {
	return a.StartedAt.Add(a.Duration)
}
