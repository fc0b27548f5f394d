package env

import (
	"fmt"
	"os"

	"prize_wheel/internal/config"

	"github.com/rs/zerolog"
)

const logLevelEnvName = "LOG_LEVEL"

type logConfig struct {
	level zerolog.Level
}

func NewLogConfig() (config.LogConfig, error) {
	raw := os.Getenv(logLevelEnvName)
	if len(raw) == 0 {
		return &logConfig{level: zerolog.InfoLevel}, nil
	}

	level, err := zerolog.ParseLevel(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	return &logConfig{level: level}, nil
}

func (cfg *logConfig) Level() zerolog.Level {
	return cfg.level
}
