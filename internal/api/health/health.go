package health

import (
	"context"
	"net/http"
	"time"

	"prize_wheel/pkg/resp"
)

// Pinger проверка зависимости, например пула postgres
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	db Pinger
}

func NewHandler(db Pinger) *Handler {
	return &Handler{db: db}
}

func (h *Handler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if h.db != nil {
		if err := h.db.Ping(ctx); err != nil {
			resp.WriteJSONResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "db unavailable"})
			return
		}
	}
	resp.WriteJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}
