package env

import (
	"fmt"
	"os"
	"time"

	"prize_wheel/internal/config"
	"prize_wheel/internal/model"

	"gopkg.in/yaml.v3"
)

const (
	defaultSpinDuration  = 3 * time.Second
	defaultFullSpins     = 5
	defaultFrameInterval = 16 * time.Millisecond
	defaultStatsWindow   = 50
)

type wheelSection struct {
	SpinDuration  time.Duration                            `yaml:"spin_duration"`
	FullSpins     int                                      `yaml:"full_spins"`
	FrameInterval time.Duration                            `yaml:"frame_interval"`
	StatsWindow   int                                      `yaml:"stats_window"`
	Presets       map[model.SizePreset]model.PresetMetrics `yaml:"presets"`
}

type fileConfig struct {
	Wheel wheelSection                    `yaml:"wheel"`
	Plans map[model.Plan]model.PlanLimits `yaml:"plans"`
}

func readYAML(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var cfg fileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

type wheelConfig struct {
	section wheelSection
}

// NewWheelConfigFromYAML секция wheel. Отсутствующие ключи заменяются дефолтами,
// незаданные пресеты берутся из колеса
func NewWheelConfigFromYAML(path string) (config.WheelConfig, error) {
	cfg, err := readYAML(path)
	if err != nil {
		return nil, err
	}

	s := cfg.Wheel
	if s.SpinDuration <= 0 {
		s.SpinDuration = defaultSpinDuration
	}
	if s.FullSpins <= 0 {
		s.FullSpins = defaultFullSpins
	}
	if s.FrameInterval <= 0 {
		s.FrameInterval = defaultFrameInterval
	}
	if s.StatsWindow <= 0 {
		s.StatsWindow = defaultStatsWindow
	}
	for name, p := range s.Presets {
		if _, err := model.ParseSizePreset(string(name)); err != nil {
			return nil, err
		}
		if p.Radius <= 0 || p.FontSize <= 0 || p.TextDistance <= 0 || p.TextDistance >= p.Radius {
			return nil, fmt.Errorf("invalid preset %q: %+v", name, p)
		}
	}

	return &wheelConfig{section: s}, nil
}

func (c *wheelConfig) Presets() map[model.SizePreset]model.PresetMetrics {
	out := make(map[model.SizePreset]model.PresetMetrics, len(c.section.Presets))
	for k, v := range c.section.Presets {
		out[k] = v
	}
	return out
}

func (c *wheelConfig) SpinDuration() time.Duration {
	return c.section.SpinDuration
}

func (c *wheelConfig) FullSpins() int {
	return c.section.FullSpins
}

func (c *wheelConfig) FrameInterval() time.Duration {
	return c.section.FrameInterval
}

func (c *wheelConfig) StatsWindow() int {
	return c.section.StatsWindow
}

var defaultPlanLimits = map[model.Plan]model.PlanLimits{
	model.PlanFree:    {MaxSegments: 8, HistoryLimit: 20},
	model.PlanPremium: {MaxSegments: 24, Images: true, Design: true, Stats: true, HistoryLimit: 200},
}

type planConfig struct {
	limits map[model.Plan]model.PlanLimits
}

// NewPlanConfigFromYAML секция plans. Неизвестный тариф получает ограничения free
func NewPlanConfigFromYAML(path string) (config.PlanConfig, error) {
	cfg, err := readYAML(path)
	if err != nil {
		return nil, err
	}

	limits := make(map[model.Plan]model.PlanLimits, len(defaultPlanLimits))
	for plan, l := range defaultPlanLimits {
		limits[plan] = l
	}
	for plan, l := range cfg.Plans {
		if l.MaxSegments <= 0 {
			return nil, fmt.Errorf("plan %q: max_segments must be positive", plan)
		}
		if l.HistoryLimit <= 0 {
			l.HistoryLimit = defaultPlanLimits[model.PlanFree].HistoryLimit
		}
		limits[plan] = l
	}

	return &planConfig{limits: limits}, nil
}

func (c *planConfig) Limits(plan model.Plan) model.PlanLimits {
	if l, ok := c.limits[plan]; ok {
		return l
	}
	return c.limits[model.PlanFree]
}
