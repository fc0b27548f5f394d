package env

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"prize_wheel/internal/config"
)

const (
	imageProxyURLEnvName     = "IMAGE_PROXY_URL"
	imageOriginEnvName       = "IMAGE_ORIGIN"
	imageFetchTimeoutEnvName = "IMAGE_FETCH_TIMEOUT"
	imageMaxBytesEnvName     = "IMAGE_MAX_BYTES"
	imageProxySecretEnvName  = "IMAGE_PROXY_SECRET"
	imageAllowPrivateEnvName = "IMAGE_ALLOW_PRIVATE"

	defaultImageFetchTimeout = 10 * time.Second
	defaultImageMaxBytes     = 5 << 20
)

type imageConfig struct {
	proxyURL     string
	origin       string
	fetchTimeout time.Duration
	maxBytes     int64
	proxySecret  []byte
	allowPrivate bool
}

// NewImageConfig прокси может быть пустым, тогда третья попытка загрузки всегда неуспешна
func NewImageConfig() (config.ImageConfig, error) {
	cfg := &imageConfig{
		proxyURL:     strings.TrimSpace(os.Getenv(imageProxyURLEnvName)),
		origin:       strings.TrimSpace(os.Getenv(imageOriginEnvName)),
		fetchTimeout: defaultImageFetchTimeout,
		maxBytes:     defaultImageMaxBytes,
		proxySecret:  []byte(os.Getenv(imageProxySecretEnvName)),
	}

	if raw := os.Getenv(imageAllowPrivateEnvName); len(raw) != 0 {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid image allow private flag: %w", err)
		}
		cfg.allowPrivate = v
	}

	if raw := os.Getenv(imageFetchTimeoutEnvName); len(raw) != 0 {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid image fetch timeout: %w", err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("image fetch timeout must be positive")
		}
		cfg.fetchTimeout = d
	}

	if raw := os.Getenv(imageMaxBytesEnvName); len(raw) != 0 {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid image max bytes: %w", err)
		}
		if n <= 0 {
			return nil, fmt.Errorf("image max bytes must be positive")
		}
		cfg.maxBytes = n
	}

	return cfg, nil
}

func (cfg *imageConfig) ProxyURL() string {
	return cfg.proxyURL
}

func (cfg *imageConfig) Origin() string {
	return cfg.origin
}

func (cfg *imageConfig) FetchTimeout() time.Duration {
	return cfg.fetchTimeout
}

func (cfg *imageConfig) MaxBytes() int64 {
	return cfg.maxBytes
}

// ProxySecret пустой, если не задан. Тогда подпись берется из ACCESS_TOKEN
func (cfg *imageConfig) ProxySecret() []byte {
	return cfg.proxySecret
}

func (cfg *imageConfig) AllowPrivate() bool {
	return cfg.allowPrivate
}
