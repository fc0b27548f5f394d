package config

import (
	"time"

	"prize_wheel/internal/model"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

func Load(path string) error {
	err := godotenv.Load(path)
	if err != nil {
		return err
	}
	return nil
}

type HTTPConfig interface {
	Address() string
}

type PGConfig interface {
	DSN() string
	MaxConns() int32
}

type JWTConfig interface {
	AccessTokenSecretKey() []byte
	AccessTokenDuration() time.Duration
}

type LogConfig interface {
	Level() zerolog.Level
}

// ImageConfig загрузка картинок сегментов и прокси
type ImageConfig interface {
	ProxyURL() string
	Origin() string
	FetchTimeout() time.Duration
	MaxBytes() int64
	ProxySecret() []byte
	AllowPrivate() bool
}

// WheelConfig параметры колеса из config.yaml
type WheelConfig interface {
	Presets() map[model.SizePreset]model.PresetMetrics
	SpinDuration() time.Duration
	FullSpins() int
	FrameInterval() time.Duration
	StatsWindow() int
}

// PlanConfig ограничения тарифов из config.yaml
type PlanConfig interface {
	Limits(plan model.Plan) model.PlanLimits
}
