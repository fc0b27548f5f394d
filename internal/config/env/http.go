package env

import (
	"os"

	"prize_wheel/internal/config"
)

const (
	httpAddrEnvName = "HTTP_ADDR"
	defaultHTTPAddr = ":8080"
)

type httpConfig struct {
	address string
}

// NewHTTPConfig адрес сервера, по умолчанию :8080
func NewHTTPConfig() (config.HTTPConfig, error) {
	addr := os.Getenv(httpAddrEnvName)
	if len(addr) == 0 {
		addr = defaultHTTPAddr
	}
	return &httpConfig{address: addr}, nil
}

func (cfg *httpConfig) Address() string {
	return cfg.address
}
