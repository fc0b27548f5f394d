package wheel

import (
	"math"

	"prize_wheel/internal/model"
)

// SegmentAt индекс сектора под точкой холста, -1 если точка вне колеса
func (w *Wheel) SegmentAt(x, y float64) int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.segmentAtLocked(x, y)
}

func (w *Wheel) segmentAtLocked(x, y float64) int {
	n := len(w.segments)
	if n == 0 {
		return -1
	}
	l := LayoutFor(w.opts.Preset)
	dx, dy := x-l.CX, y-l.CY
	if math.Hypot(dx, dy) > l.Radius {
		return -1
	}
	return SegmentAtAngle(math.Atan2(dy, dx), w.rotation, n)
}

// PointerDown начинает перетаскивание картинки, если под точкой сектор с загруженной картинкой.
// Работает только в режиме редактирования и не во время спина
func (w *Wheel) PointerDown(x, y float64) bool {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.opts.Editable || w.spin != nil {
		return false
	}
	idx := w.segmentAtLocked(x, y)
	if idx < 0 {
		return false
	}
	if _, ok := w.images[idx]; !ok {
		return false
	}
	w.drag = &dragState{index: idx}
	return true
}

// PointerMove переводит точку в систему координат сектора и сообщает новую позицию картинки
func (w *Wheel) PointerMove(x, y float64) (model.Placement, bool) {
	w.mu.Lock()
	if w.drag == nil || w.spin != nil {
		w.mu.Unlock()
		return model.Placement{}, false
	}

	idx := w.drag.index
	l := LayoutFor(w.opts.Preset)
	width := SegmentWidth(len(w.segments))
	bisector := w.rotation + float64(idx)*width + width/2
	ax, ay, phi := imageFrame(l, bisector)

	// обратный поворот на угол сектора
	dx, dy := x-ax, y-ay
	sin, cos := math.Sincos(phi)
	lx := cos*dx + sin*dy
	ly := -sin*dx + cos*dy

	scale := l.Radius * placementScale
	p := model.Placement{
		X: clampUnit(lx / scale),
		Y: clampUnit(ly / scale),
	}
	w.placements[idx] = p
	cb := w.opts.OnPlacementChange
	w.mu.Unlock()

	if cb != nil {
		cb(idx, p)
	}
	w.invalidate()
	return p, true
}

// PointerUp заканчивает перетаскивание
func (w *Wheel) PointerUp() {
	w.mu.Lock()
	w.drag = nil
	w.mu.Unlock()
}

// Dragging индекс перетаскиваемого сектора
func (w *Wheel) Dragging() (int, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.drag == nil {
		return -1, false
	}
	return w.drag.index, true
}

func clampUnit(v float64) float64 {
	return math.Max(-1, math.Min(1, v))
}
