package wheel

import (
	"context"
	"image"

	"prize_wheel/internal/model"
)

type loadJob struct {
	index int
	ref   model.ImageRef
}

// SetSegments заменяет список сегментов целиком.
// Кеш картинок сбрасывается и все картинки грузятся заново, даже если ссылка не поменялась.
// Угол поворота не трогается
func (w *Wheel) SetSegments(segs []model.Segment) {
	segments := cloneSegments(segs)

	w.mu.Lock()
	w.segments = segments
	w.generation++
	gen := w.generation
	w.images = make(map[int]image.Image, len(segments))
	w.placements = make(map[int]model.Placement)
	w.drag = nil

	var jobs []loadJob
	if w.opts.Loader != nil {
		for i, s := range segments {
			if s.HasImage() {
				jobs = append(jobs, loadJob{index: i, ref: s.Image})
			}
		}
	}
	w.beginLoadsLocked(len(jobs))
	w.mu.Unlock()

	for _, j := range jobs {
		go w.loadSegmentImage(gen, j)
	}
	w.invalidate()
}

// SetDesign премиум-оформление. Без premium дизайн сохраняется, но не рисуется
func (w *Wheel) SetDesign(design model.WheelDesign, premium bool) {
	w.mu.Lock()
	w.design = design
	w.premium = premium
	w.designGen++
	gen := w.designGen
	w.center = nil

	load := premium && !design.CenterImage.IsZero() && w.opts.Loader != nil
	if load {
		w.beginLoadsLocked(1)
	}
	w.mu.Unlock()

	if load {
		go w.loadCenterImage(gen, design.CenterImage)
	}
	w.invalidate()
}

// HasImage загружена ли картинка сегмента i в текущем поколении
func (w *Wheel) HasImage(i int) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.images[i]
	return ok
}

// HasCenterImage загружена ли центральная картинка
func (w *Wheel) HasCenterImage() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.center != nil
}

// WaitImages ждет, пока завершатся все загрузки, начатые до вызова
func (w *Wheel) WaitImages(ctx context.Context) error {
	w.mu.Lock()
	settled := w.settled
	w.mu.Unlock()

	select {
	case <-settled:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Wheel) loadSegmentImage(gen uint64, j loadJob) {
	defer w.endLoad()

	img, err := w.opts.Loader.Load(w.ctx, j.ref)

	w.mu.Lock()
	// список сегментов уже заменили, картинка относится к старому индексу
	if gen != w.generation {
		w.mu.Unlock()
		return
	}
	if err != nil || img == nil {
		w.mu.Unlock()
		w.reportUnavailable("segment", j.index, err)
		return
	}
	w.images[j.index] = img
	w.mu.Unlock()

	w.invalidate()
}

func (w *Wheel) loadCenterImage(gen uint64, ref model.ImageRef) {
	defer w.endLoad()

	img, err := w.opts.Loader.Load(w.ctx, ref)

	w.mu.Lock()
	if gen != w.designGen {
		w.mu.Unlock()
		return
	}
	if err != nil || img == nil {
		w.mu.Unlock()
		// в центре останется встроенный значок
		w.reportUnavailable("center", -1, err)
		return
	}
	w.center = img
	w.mu.Unlock()

	w.invalidate()
}

func (w *Wheel) reportUnavailable(kind string, index int, err error) {
	fields := map[string]any{"kind": kind, "index": index}
	if err != nil {
		fields["error"] = err.Error()
	}
	w.opts.Diagnostics.LogDiagnostic(EventImageUnavailable, fields)
}

func (w *Wheel) beginLoadsLocked(n int) {
	if n <= 0 {
		return
	}
	if w.pendingLoads == 0 {
		w.settled = make(chan struct{})
	}
	w.pendingLoads += n
}

func (w *Wheel) endLoad() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pendingLoads--
	if w.pendingLoads == 0 {
		close(w.settled)
	}
}
