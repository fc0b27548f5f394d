package widget

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
	"time"

	"prize_wheel/internal/config"
	"prize_wheel/internal/diagnostic"
	"prize_wheel/internal/model"
	"prize_wheel/internal/repository"
	"prize_wheel/internal/service"
	"prize_wheel/internal/wheel"
	"prize_wheel/pkg/picker"

	"github.com/avito-tech/go-transaction-manager/trm/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Random источник случайности для выбора сектора и смещения внутри него
type Random interface {
	picker.RNG
	Float64() float64
}

type globalRand struct{}

func (globalRand) Intn(n int) int   { return rand.IntN(n) }
func (globalRand) Float64() float64 { return rand.Float64() }

type Deps struct {
	HistoryRepo  repository.HistoryRepository
	RotationRepo repository.RotationRepository
	StatsRepo    repository.StatsRepository
	TxManager    trm.Manager

	WheelCfg config.WheelConfig
	PlanCfg  config.PlanConfig

	Loader      wheel.ImageLoader
	Diagnostics diagnostic.Sink
	Logger      zerolog.Logger

	// необязательные, для тестов
	Random       Random
	NewScheduler func() wheel.FrameScheduler
	Now          func() time.Time
}

// entry зарегистрированное колесо. segments - копия с примененными перетаскиваниями
type entry struct {
	mu        sync.Mutex
	id        string
	ownerID   int
	title     string
	size      model.SizePreset
	editable  bool
	createdAt time.Time
	segments  []model.Segment
	design    model.WheelDesign
	premium   bool
	pending   chan model.SpinOutcome

	// persistMu упорядочивает запись результата спина и удаление колеса.
	// Берется раньше mu
	persistMu sync.Mutex
	deleted   bool

	wheel *wheel.Wheel
}

type serv struct {
	mtx     sync.RWMutex
	widgets map[string]*entry

	historyRepo  repository.HistoryRepository
	rotationRepo repository.RotationRepository
	statsRepo    repository.StatsRepository
	txManager    trm.Manager

	wheelCfg config.WheelConfig
	planCfg  config.PlanConfig

	loader       wheel.ImageLoader
	diag         diagnostic.Sink
	logger       zerolog.Logger
	random       Random
	newScheduler func() wheel.FrameScheduler
	now          func() time.Time
}

// NewWidgetService Колеса живут в памяти процесса, в postgres только история и угол
func NewWidgetService(deps Deps) service.WidgetService {
	s := &serv{
		widgets:      make(map[string]*entry),
		historyRepo:  deps.HistoryRepo,
		rotationRepo: deps.RotationRepo,
		statsRepo:    deps.StatsRepo,
		txManager:    deps.TxManager,
		wheelCfg:     deps.WheelCfg,
		planCfg:      deps.PlanCfg,
		loader:       deps.Loader,
		diag:         deps.Diagnostics,
		logger:       deps.Logger,
		random:       deps.Random,
		newScheduler: deps.NewScheduler,
		now:          deps.Now,
	}
	if s.diag == nil {
		s.diag = diagnostic.Nop
	}
	if s.random == nil {
		s.random = globalRand{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.newScheduler == nil {
		interval := s.wheelCfg.FrameInterval()
		s.newScheduler = func() wheel.FrameScheduler {
			return wheel.NewTickerScheduler(interval, nil)
		}
	}
	return s
}

// lookup колесо пользователя. Чужое колесо для него не существует
func (s *serv) lookup(user model.User, id string) (*entry, error) {
	s.mtx.RLock()
	e, ok := s.widgets[id]
	s.mtx.RUnlock()

	if !ok || e.ownerID != user.ID {
		return nil, model.ErrWheelNotFound
	}
	return e, nil
}

func (s *serv) presetFor(size model.SizePreset) model.PresetMetrics {
	if p, ok := s.wheelCfg.Presets()[size]; ok {
		return p
	}
	return wheel.DefaultPresets[size]
}

func (s *serv) newID(requested string) (string, error) {
	if requested == "" {
		return uuid.NewString(), nil
	}
	id, err := uuid.Parse(requested)
	if err != nil {
		return "", model.ErrInvalidWheelID
	}
	return id.String(), nil
}

// validateSegments проверка списка сегментов против тарифа
func validateSegments(segs []model.Segment, limits model.PlanLimits) error {
	if len(segs) == 0 {
		return model.ErrNoSegments
	}
	if len(segs) > limits.MaxSegments {
		return model.ErrTooManySegments
	}
	total := 0
	for i, seg := range segs {
		if seg.Weight < 0 || seg.Weight > model.MaxSegmentWeight {
			return fmt.Errorf("%w: segment %d weight %d", model.ErrInvalidWeight, i, seg.Weight)
		}
		total += max(seg.Weight, 1)
		if total > math.MaxInt32 {
			return fmt.Errorf("%w: total weight too large", model.ErrInvalidWeight)
		}
		if seg.HasImage() && !limits.Images {
			return model.ErrPremiumRequired
		}
		if seg.Placement != nil {
			if err := seg.Placement.Validate(); err != nil {
				return err
			}
		}
	}
	return nil
}

func cloneSegments(segs []model.Segment) []model.Segment {
	out := make([]model.Segment, len(segs))
	for i, seg := range segs {
		out[i] = seg
		if seg.Placement != nil {
			p := *seg.Placement
			out[i].Placement = &p
		}
	}
	return out
}

// viewLocked снимок колеса, вызывается под e.mu
func (e *entry) viewLocked() *model.Widget {
	st := e.wheel.State()
	return &model.Widget{
		ID:           e.id,
		OwnerID:      e.ownerID,
		Title:        e.title,
		Size:         e.size,
		Segments:     cloneSegments(e.segments),
		Design:       e.design,
		Premium:      e.premium,
		Editable:     e.editable,
		Rotation:     st.Rotation,
		Spinning:     st.Spinning,
		LoadedImages: st.LoadedImages,
		CreatedAt:    e.createdAt,
	}
}

func (e *entry) view() *model.Widget {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.viewLocked()
}
