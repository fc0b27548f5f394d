package proxy

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"prize_wheel/internal/loader"
	"prize_wheel/pkg/resp"
	"prize_wheel/pkg/token"

	"github.com/rs/zerolog"
)

// Fetcher скачивает картинку с проверкой типа и размера
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, header http.Header) ([]byte, string, http.Header, error)
}

type HandlerDeps struct {
	Fetcher Fetcher
	// Secret ключ, которым подписаны ссылки на прокси
	Secret []byte
	Logger zerolog.Logger
}

type Handler struct {
	fetcher Fetcher
	secret  []byte
	logger  zerolog.Logger
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{fetcher: deps.Fetcher, secret: deps.Secret, logger: deps.Logger}
}

// Image отдает чужую картинку со своим Access-Control-Allow-Origin.
// Последняя ступень загрузки картинок колеса, работает только по подписанной ссылке
func (h *Handler) Image(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("url")
	if raw == "" {
		resp.WriteError(w, http.StatusBadRequest, "url is required")
		return
	}
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		resp.WriteError(w, http.StatusBadRequest, "only http(s) urls are allowed")
		return
	}
	if err := token.VerifyProxyToken(r.URL.Query().Get("token"), raw, h.secret); err != nil {
		h.logger.Warn().Err(err).Str("url", raw).Msg("proxy link rejected")
		resp.WriteError(w, http.StatusForbidden, "invalid proxy token")
		return
	}

	body, contentType, header, err := h.fetcher.Fetch(r.Context(), u.String(), nil)
	if err != nil {
		status := statusFor(err)
		h.logger.Warn().Err(err).Str("url", u.String()).Int("status", status).Msg("proxy fetch failed")
		resp.WriteError(w, status, http.StatusText(status))
		return
	}

	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(body)))
	if cc := header.Get("Cache-Control"); cc != "" {
		w.Header().Set("Cache-Control", cc)
	} else {
		w.Header().Set("Cache-Control", "public, max-age=300")
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, loader.ErrUnsupportedScheme):
		return http.StatusBadRequest
	case errors.Is(err, loader.ErrBlockedAddress):
		return http.StatusForbidden
	case errors.Is(err, loader.ErrNotImage):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, loader.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusBadGateway
	}
}
