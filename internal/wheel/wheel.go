// Package wheel колесо призов: угол, определение выпавшего сектора,
// кэш картинок и отрисовка
package wheel

import (
	"context"
	"image"
	"sync"
	"time"

	"prize_wheel/internal/diagnostic"
	"prize_wheel/internal/model"

	"golang.org/x/image/font"
)

const (
	DefaultSpinDuration  = 3000 * time.Millisecond
	DefaultFullSpins     = 5
	DefaultFrameInterval = 16 * time.Millisecond

	// EventLandingMismatch сектор под указателем не совпал с запрошенным
	EventLandingMismatch = "wheel.landing_mismatch"
	// EventImageUnavailable картинку не удалось загрузить ни одним способом
	EventImageUnavailable = "wheel.image_unavailable"
)

// DefaultPresets размеры small/medium/large
var DefaultPresets = map[model.SizePreset]model.PresetMetrics{
	model.SizeSmall:  {Radius: 150, FontSize: 12, TextDistance: 95},
	model.SizeMedium: {Radius: 200, FontSize: 16, TextDistance: 125},
	model.SizeLarge:  {Radius: 250, FontSize: 20, TextDistance: 160},
}

// ImageLoader превращает ссылку в готовую к отрисовке картинку
type ImageLoader interface {
	Load(ctx context.Context, ref model.ImageRef) (image.Image, error)
}

// Options входы компонента. Нулевые поля заменяются дефолтами в New
type Options struct {
	Preset       model.PresetMetrics
	SpinDuration time.Duration
	FullSpins    int
	Editable     bool

	Loader      ImageLoader
	Scheduler   FrameScheduler
	Clock       func() time.Time
	Diagnostics diagnostic.Sink

	// OnSpinComplete вызывается ровно один раз на спин с итоговым индексом
	OnSpinComplete func(model.SpinOutcome)
	// OnPlacementChange новая позиция картинки при перетаскивании
	OnPlacementChange func(index int, p model.Placement)
	// OnInvalidate состояние изменилось, кадр стоит перерисовать
	OnInvalidate func()
}

type spinState struct {
	anim      Animation
	requested int
}

type dragState struct {
	index int
}

// Wheel владеет углом поворота, кешем картинок и состоянием перетаскивания.
// Колбэки вызываются вне блокировки
type Wheel struct {
	mu   sync.Mutex
	opts Options
	face font.Face

	ctx    context.Context
	cancel context.CancelFunc

	segments   []model.Segment
	generation uint64
	images     map[int]image.Image
	placements map[int]model.Placement

	design    model.WheelDesign
	premium   bool
	designGen uint64
	center    image.Image

	pendingLoads int
	settled      chan struct{}

	// rotation не сбрасывается при смене сегментов, меняется только по окончании спина или через ResetRotation
	rotation float64
	spin     *spinState
	drag     *dragState
}

func New(opts Options) *Wheel {
	if opts.Preset.Radius <= 0 {
		opts.Preset = DefaultPresets[model.SizeMedium]
	}
	if opts.SpinDuration <= 0 {
		opts.SpinDuration = DefaultSpinDuration
	}
	if opts.FullSpins <= 0 {
		opts.FullSpins = DefaultFullSpins
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}
	if opts.Scheduler == nil {
		opts.Scheduler = NewTickerScheduler(DefaultFrameInterval, opts.Clock)
	}
	if opts.Diagnostics == nil {
		opts.Diagnostics = diagnostic.Nop
	}

	settled := make(chan struct{})
	close(settled)

	ctx, cancel := context.WithCancel(context.Background())
	return &Wheel{
		opts:       opts,
		face:       newLabelFace(opts.Preset.FontSize),
		ctx:        ctx,
		cancel:     cancel,
		images:     make(map[int]image.Image),
		placements: make(map[int]model.Placement),
		settled:    settled,
	}
}

// Close прерывает загрузки картинок. Колесо после этого можно только читать
func (w *Wheel) Close() {
	w.cancel()
}

// State снимок состояния для чтения снаружи
type State struct {
	Rotation     float64
	Spinning     bool
	SegmentCount int
	Generation   uint64
	LoadedImages int
	Editable     bool
	Premium      bool
}

func (w *Wheel) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return State{
		Rotation:     w.rotation,
		Spinning:     w.spin != nil,
		SegmentCount: len(w.segments),
		Generation:   w.generation,
		LoadedImages: len(w.images),
		Editable:     w.opts.Editable,
		Premium:      w.premium,
	}
}

// Rotation накопленный угол, без приведения к [0, 2π)
func (w *Wheel) Rotation() float64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.rotation
}

func (w *Wheel) IsSpinning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.spin != nil
}

// Segments копия текущего списка сегментов
func (w *Wheel) Segments() []model.Segment {
	w.mu.Lock()
	defer w.mu.Unlock()
	return cloneSegments(w.segments)
}

// ResetRotation явный сброс угла. Во время спина игнорируется
func (w *Wheel) ResetRotation(rotation float64) bool {
	w.mu.Lock()
	if w.spin != nil {
		w.mu.Unlock()
		return false
	}
	w.rotation = rotation
	w.mu.Unlock()

	w.invalidate()
	return true
}

// Spin запускает анимацию к запрошенному сектору.
// Если спин уже идет или сегментов нет, запрос молча игнорируется и возвращается false
func (w *Wheel) Spin(req model.SpinRequest) bool {
	w.mu.Lock()
	n := len(w.segments)
	if w.spin != nil || n == 0 {
		w.mu.Unlock()
		return false
	}

	idx := ClampIndex(req.RequestedSegmentIndex, n)
	target := TargetAngle(idx, n, req.JitterSeed)
	final := FinalRotation(w.rotation, target, w.opts.FullSpins)

	w.spin = &spinState{
		requested: idx,
		anim: Animation{
			From:      w.rotation,
			To:        final,
			StartedAt: w.opts.Clock(),
			Duration:  w.opts.SpinDuration,
		},
	}
	// во время спина перетаскивать нельзя
	w.drag = nil
	w.mu.Unlock()

	w.opts.Scheduler.RequestFrame(w.frame)
	w.invalidate()
	return true
}

// frame один шаг анимации
func (w *Wheel) frame(now time.Time) {
	w.mu.Lock()
	s := w.spin
	if s == nil {
		w.mu.Unlock()
		return
	}

	rotation, done := s.anim.RotationAt(now)
	w.rotation = rotation
	if !done {
		w.mu.Unlock()
		w.opts.Scheduler.RequestFrame(w.frame)
		w.invalidate()
		return
	}

	// сегменты могли смениться посреди спина, индекс считаем по текущему количеству
	n := len(w.segments)
	resolved := ResolveSegment(s.anim.To, n)
	outcome := model.SpinOutcome{
		RequestedSegmentIndex: s.requested,
		ResolvedSegmentIndex:  resolved,
		FinalRotation:         s.anim.To,
		Mismatch:              resolved != s.requested,
	}
	w.spin = nil
	w.mu.Unlock()

	if outcome.Mismatch {
		w.opts.Diagnostics.LogDiagnostic(EventLandingMismatch, map[string]any{
			"requested":      outcome.RequestedSegmentIndex,
			"resolved":       outcome.ResolvedSegmentIndex,
			"final_rotation": outcome.FinalRotation,
			"segments":       n,
		})
	}

	w.invalidate()
	if w.opts.OnSpinComplete != nil {
		w.opts.OnSpinComplete(outcome)
	}
}

func (w *Wheel) invalidate() {
	if w.opts.OnInvalidate != nil {
		w.opts.OnInvalidate()
	}
}

func cloneSegments(segs []model.Segment) []model.Segment {
	out := make([]model.Segment, len(segs))
	for i, s := range segs {
		out[i] = s
		if s.Placement != nil {
			p := *s.Placement
			out[i].Placement = &p
		}
	}
	return out
}
