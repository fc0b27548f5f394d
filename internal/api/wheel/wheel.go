package wheel

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	dto "prize_wheel/internal/api/dto/wheel"
	"prize_wheel/internal/converter"
	"prize_wheel/internal/middleware"
	"prize_wheel/internal/model"
	"prize_wheel/internal/service"
	"prize_wheel/pkg/req"
	"prize_wheel/pkg/resp"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// statusClientClosedRequest клиент ушел, не дождавшись ответа
const statusClientClosedRequest = 499

type HandlerDeps struct {
	Serv   service.WidgetService
	Logger zerolog.Logger
}

type Handler struct {
	serv   service.WidgetService
	logger zerolog.Logger
}

func NewHandler(deps HandlerDeps) *Handler {
	return &Handler{serv: deps.Serv, logger: deps.Logger}
}

// Routes маршруты колес. Пользователь должен быть уже в контексте
func (h *Handler) Routes(r chi.Router) {
	r.Route("/wheels", func(rr chi.Router) {
		rr.Post("/", h.Create)
		rr.Get("/{id}", h.Get)
		rr.Delete("/{id}", h.Delete)
		rr.Put("/{id}/segments", h.ReplaceSegments)
		rr.Put("/{id}/design", h.UpdateDesign)
		rr.Post("/{id}/spin", h.Spin)
		rr.Post("/{id}/rotation/reset", h.ResetRotation)
		rr.Get("/{id}/frame.png", h.Frame)
		rr.Post("/{id}/pointer", h.Pointer)
		rr.Get("/{id}/history", h.History)
		rr.Get("/{id}/stats", h.Stats)
	})
}

// Create регистрирует колесо пользователя
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := h.user(w, r)
	if !ok {
		return
	}

	payload, err := req.Decode[dto.CreateWheelRequest](r.Body)
	if err != nil {
		resp.WriteError(w, http.StatusBadRequest, "invalid request")
		return
	}
	input, err := converter.ToWidgetInput(payload)
	if err != nil {
		h.writeError(w, err)
		return
	}

	widget, err := h.serv.Create(r.Context(), user, input)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusCreated, converter.ToWheelResponse(*widget))
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := h.user(w, r)
	if !ok {
		return
	}

	widget, err := h.serv.Get(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToWheelResponse(*widget))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := h.user(w, r)
	if !ok {
		return
	}

	if err := h.serv.Delete(r.Context(), user, chi.URLParam(r, "id")); err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ReplaceSegments заменяет весь список сегментов, картинки перезагружаются
func (h *Handler) ReplaceSegments(w http.ResponseWriter, r *http.Request) {
	user, ok := h.user(w, r)
	if !ok {
		return
	}

	payload, err := req.Decode[dto.ReplaceSegmentsRequest](r.Body)
	if err != nil {
		resp.WriteError(w, http.StatusBadRequest, "invalid request")
		return
	}
	segments, err := converter.ToSegments(payload.Segments)
	if err != nil {
		h.writeError(w, err)
		return
	}

	widget, err := h.serv.ReplaceSegments(r.Context(), user, chi.URLParam(r, "id"), segments)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToWheelResponse(*widget))
}

func (h *Handler) UpdateDesign(w http.ResponseWriter, r *http.Request) {
	user, ok := h.user(w, r)
	if !ok {
		return
	}

	payload, err := req.Decode[dto.Design](r.Body)
	if err != nil {
		resp.WriteError(w, http.StatusBadRequest, "invalid request")
		return
	}
	design, err := converter.ToDesign(payload)
	if err != nil {
		h.writeError(w, err)
		return
	}

	widget, err := h.serv.UpdateDesign(r.Context(), user, chi.URLParam(r, "id"), design)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToWheelResponse(*widget))
}

// Spin отвечает, когда колесо остановилось
func (h *Handler) Spin(w http.ResponseWriter, r *http.Request) {
	user, ok := h.user(w, r)
	if !ok {
		return
	}

	// пустое тело - случайный сектор и смещение
	var payload dto.SpinRequest
	if r.ContentLength != 0 {
		decoded, err := req.Decode[dto.SpinRequest](r.Body)
		if err != nil && !errors.Is(err, io.EOF) {
			resp.WriteError(w, http.StatusBadRequest, "invalid request")
			return
		}
		payload = decoded
	}

	result, err := h.serv.Spin(r.Context(), user, chi.URLParam(r, "id"), converter.ToSpinCommand(payload))
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToSpinResponse(*result))
}

func (h *Handler) ResetRotation(w http.ResponseWriter, r *http.Request) {
	user, ok := h.user(w, r)
	if !ok {
		return
	}

	widget, err := h.serv.ResetRotation(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToWheelResponse(*widget))
}

// Frame текущий кадр в PNG
func (h *Handler) Frame(w http.ResponseWriter, r *http.Request) {
	user, ok := h.user(w, r)
	if !ok {
		return
	}

	data, err := h.serv.Render(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// Pointer события перетаскивания картинок в режиме редактирования
func (h *Handler) Pointer(w http.ResponseWriter, r *http.Request) {
	user, ok := h.user(w, r)
	if !ok {
		return
	}

	payload, err := req.Decode[dto.PointerRequest](r.Body)
	if err != nil {
		resp.WriteError(w, http.StatusBadRequest, "invalid request")
		return
	}
	switch model.PointerKind(payload.Type) {
	case model.PointerDown, model.PointerMove, model.PointerUp:
	default:
		resp.WriteError(w, http.StatusBadRequest, "unknown pointer event")
		return
	}

	result, err := h.serv.Pointer(r.Context(), user, chi.URLParam(r, "id"), converter.ToPointerEvent(payload))
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToPointerResponse(*result))
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	user, ok := h.user(w, r)
	if !ok {
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			resp.WriteError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	records, err := h.serv.History(r.Context(), user, chi.URLParam(r, "id"), limit)
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToHistoryResponse(records))
}

func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	user, ok := h.user(w, r)
	if !ok {
		return
	}

	stats, err := h.serv.Stats(r.Context(), user, chi.URLParam(r, "id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	resp.WriteJSONResponse(w, http.StatusOK, converter.ToStatsResponse(*stats))
}

func (h *Handler) user(w http.ResponseWriter, r *http.Request) (model.User, bool) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		resp.WriteError(w, http.StatusUnauthorized, model.ErrUnauthorized.Error())
	}
	return user, ok
}

// writeError ошибки сервиса в HTTP статус. Неизвестные ошибки наружу не отдаем
func (h *Handler) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		h.logger.Error().Err(err).Msg("wheel request failed")
		resp.WriteError(w, status, "internal error")
		return
	}
	resp.WriteError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, model.ErrWheelNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrPremiumRequired):
		return http.StatusForbidden
	case errors.Is(err, model.ErrSpinInProgress), errors.Is(err, model.ErrWheelExists):
		return http.StatusConflict
	case errors.Is(err, model.ErrNoSegments),
		errors.Is(err, model.ErrTooManySegments),
		errors.Is(err, model.ErrInvalidColor),
		errors.Is(err, model.ErrInvalidPlacement),
		errors.Is(err, model.ErrInvalidIndex),
		errors.Is(err, model.ErrInvalidWheelID),
		errors.Is(err, model.ErrInvalidSize),
		errors.Is(err, model.ErrInvalidWeight):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.Canceled):
		return statusClientClosedRequest
	default:
		return http.StatusInternalServerError
	}
}
