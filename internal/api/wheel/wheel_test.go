package wheel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	dto "prize_wheel/internal/api/dto/wheel"
	"prize_wheel/internal/middleware"
	"prize_wheel/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// mockService реализует только то, что нужно тестам, остальное отдает err
type mockService struct {
	err error

	created  model.WidgetInput
	segments []model.Segment
	design   model.WheelDesign
	cmd      model.SpinCommand
	pointer  model.PointerEvent
	limit    int
	lastUser model.User
	lastID   string
}

func (m *mockService) widget(id string) *model.Widget {
	return &model.Widget{ID: id, Size: model.SizeMedium, Segments: []model.Segment{{Label: "a"}}}
}

func (m *mockService) Create(_ context.Context, user model.User, in model.WidgetInput) (*model.Widget, error) {
	m.lastUser, m.created = user, in
	if m.err != nil {
		return nil, m.err
	}
	w := m.widget("w1")
	w.Segments = in.Segments
	return w, nil
}

func (m *mockService) Get(_ context.Context, user model.User, id string) (*model.Widget, error) {
	m.lastUser, m.lastID = user, id
	if m.err != nil {
		return nil, m.err
	}
	return m.widget(id), nil
}

func (m *mockService) Delete(_ context.Context, _ model.User, id string) error {
	m.lastID = id
	return m.err
}

func (m *mockService) ReplaceSegments(_ context.Context, _ model.User, id string, segments []model.Segment) (*model.Widget, error) {
	m.segments = segments
	if m.err != nil {
		return nil, m.err
	}
	w := m.widget(id)
	w.Segments = segments
	return w, nil
}

func (m *mockService) UpdateDesign(_ context.Context, _ model.User, id string, design model.WheelDesign) (*model.Widget, error) {
	m.design = design
	if m.err != nil {
		return nil, m.err
	}
	w := m.widget(id)
	w.Design = design
	return w, nil
}

func (m *mockService) Spin(_ context.Context, _ model.User, _ string, cmd model.SpinCommand) (*model.WidgetSpin, error) {
	m.cmd = cmd
	if m.err != nil {
		return nil, m.err
	}
	return &model.WidgetSpin{
		RecordID: 7,
		Label:    "b",
		Outcome:  model.SpinOutcome{RequestedSegmentIndex: 1, ResolvedSegmentIndex: 1, FinalRotation: 33.1},
	}, nil
}

func (m *mockService) ResetRotation(_ context.Context, _ model.User, id string) (*model.Widget, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.widget(id), nil
}

func (m *mockService) Render(context.Context, model.User, string) ([]byte, error) {
	if m.err != nil {
		return nil, m.err
	}
	return []byte("\x89PNG"), nil
}

func (m *mockService) Pointer(_ context.Context, _ model.User, _ string, ev model.PointerEvent) (*model.PointerResult, error) {
	m.pointer = ev
	if m.err != nil {
		return nil, m.err
	}
	return &model.PointerResult{Dragging: true, Index: 0, Placement: &model.Placement{X: 0.5}}, nil
}

func (m *mockService) History(_ context.Context, _ model.User, _ string, limit int) ([]model.SpinRecord, error) {
	m.limit = limit
	if m.err != nil {
		return nil, m.err
	}
	return []model.SpinRecord{{ID: 1, ResolvedIndex: 2, Label: "c"}}, nil
}

func (m *mockService) Stats(context.Context, model.User, string) (*model.WheelStats, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &model.WheelStats{TotalSpins: 3, SegmentHits: map[int]int{0: 2, 1: 1}}, nil
}

var testUser = model.User{ID: 9, Plan: model.PlanPremium}

// newRouter маршруты как в приложении, пользователь подставляется без токена
func newRouter(serv *mockService) http.Handler {
	h := NewHandler(HandlerDeps{Serv: serv, Logger: zerolog.Nop()})
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-Anonymous") == "" {
				r = r.WithContext(middleware.WithUser(r.Context(), testUser))
			}
			next.ServeHTTP(w, r)
		})
	})
	h.Routes(r)
	return r
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestCreate(t *testing.T) {
	serv := &mockService{}
	rec := do(t, newRouter(serv), http.MethodPost, "/wheels",
		`{"title":"promo","size":"large","segments":[{"label":"a","fill_color":"#ff0000"},{"label":"b","weight":3}],"design":{"border_color":"#00ff00"},"editable":true}`)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if serv.lastUser != testUser {
		t.Errorf("user %+v", serv.lastUser)
	}
	in := serv.created
	if in.Size != model.SizeLarge || !in.Editable || len(in.Segments) != 2 {
		t.Errorf("input %+v", in)
	}
	if in.Segments[0].FillColor == nil || *in.Segments[0].FillColor != model.MustColor("#ff0000") || in.Segments[1].Weight != 3 {
		t.Errorf("segments %+v", in.Segments)
	}
	if in.Design.BorderColor == nil || *in.Design.BorderColor != model.MustColor("#00ff00") {
		t.Errorf("design %+v", in.Design)
	}

	var body dto.WheelResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.ID != "w1" || body.Segments[0].FillColor != "#ff0000" {
		t.Errorf("body %+v", body)
	}
}

func TestCreate_BadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"broken json", `{"segments":`, http.StatusBadRequest},
		{"unknown field", `{"segments":[],"bet":5}`, http.StatusBadRequest},
		{"bad color", `{"segments":[{"label":"a","fill_color":"red"}]}`, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, newRouter(&mockService{}), http.MethodPost, "/wheels", tt.body)
			if rec.Code != tt.want {
				t.Errorf("status %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{model.ErrWheelNotFound, http.StatusNotFound},
		{model.ErrPremiumRequired, http.StatusForbidden},
		{model.ErrSpinInProgress, http.StatusConflict},
		{model.ErrWheelExists, http.StatusConflict},
		{fmt.Errorf("wrap: %w", model.ErrTooManySegments), http.StatusUnprocessableEntity},
		{model.ErrNoSegments, http.StatusUnprocessableEntity},
		{model.ErrInvalidIndex, http.StatusUnprocessableEntity},
		{model.ErrInvalidSize, http.StatusUnprocessableEntity},
		{fmt.Errorf("%w: segment 0 weight -1", model.ErrInvalidWeight), http.StatusUnprocessableEntity},
		{context.Canceled, statusClientClosedRequest},
		{errors.New("db down"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := do(t, newRouter(&mockService{err: tt.err}), http.MethodGet, "/wheels/w1", "")
			if rec.Code != tt.want {
				t.Errorf("status %d, want %d", rec.Code, tt.want)
			}
		})
	}

	rec := do(t, newRouter(&mockService{err: errors.New("secret dsn")}), http.MethodGet, "/wheels/w1", "")
	if strings.Contains(rec.Body.String(), "secret dsn") {
		t.Error("internal error leaked to client")
	}
}

func TestUnauthenticated(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/wheels/w1", nil)
	req.Header.Set("X-Anonymous", "1")
	rec := httptest.NewRecorder()
	newRouter(&mockService{}).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status %d", rec.Code)
	}
}

func TestSpin(t *testing.T) {
	serv := &mockService{}
	rec := do(t, newRouter(serv), http.MethodPost, "/wheels/w1/spin", `{"target_index":1,"jitter":0.25}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if serv.cmd.TargetIndex == nil || *serv.cmd.TargetIndex != 1 || serv.cmd.Jitter == nil || *serv.cmd.Jitter != 0.25 {
		t.Errorf("cmd %+v", serv.cmd)
	}

	var body dto.SpinResponse
	_ = json.NewDecoder(rec.Body).Decode(&body)
	if body.ResolvedIndex != 1 || body.Label != "b" || body.RecordID != 7 {
		t.Errorf("body %+v", body)
	}
}

func TestSpin_EmptyBody(t *testing.T) {
	serv := &mockService{}
	rec := do(t, newRouter(serv), http.MethodPost, "/wheels/w1/spin", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}
	if serv.cmd.TargetIndex != nil || serv.cmd.Jitter != nil {
		t.Errorf("cmd %+v, want random", serv.cmd)
	}
}

func TestReplaceSegmentsAndDesign(t *testing.T) {
	serv := &mockService{}
	h := newRouter(serv)

	rec := do(t, h, http.MethodPut, "/wheels/w1/segments", `{"segments":[{"label":"x","placement":{"x":0.5,"y":-0.5}}]}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("segments status %d", rec.Code)
	}
	if len(serv.segments) != 1 || serv.segments[0].Placement == nil || serv.segments[0].Placement.Y != -0.5 {
		t.Errorf("segments %+v", serv.segments)
	}

	rec = do(t, h, http.MethodPut, "/wheels/w1/design", `{"background_color":"#101010","center_image":"https://cdn.test/logo.png"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("design status %d", rec.Code)
	}
	if serv.design.CenterImage != "https://cdn.test/logo.png" || serv.design.BackgroundColor == nil {
		t.Errorf("design %+v", serv.design)
	}
	var body dto.WheelResponse
	_ = json.NewDecoder(rec.Body).Decode(&body)
	if body.Design == nil || body.Design.BackgroundColor == nil || *body.Design.BackgroundColor != "#101010" {
		t.Errorf("design in response %+v", body.Design)
	}
}

func TestFrame(t *testing.T) {
	rec := do(t, newRouter(&mockService{}), http.MethodGet, "/wheels/w1/frame.png", "")
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != "image/png" {
		t.Fatalf("status %d, type %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	if !strings.HasPrefix(rec.Body.String(), "\x89PNG") {
		t.Error("body is not png")
	}
}

func TestPointer(t *testing.T) {
	serv := &mockService{}
	h := newRouter(serv)

	rec := do(t, h, http.MethodPost, "/wheels/w1/pointer", `{"type":"move","x":10,"y":20}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if serv.pointer.Kind != model.PointerMove || serv.pointer.X != 10 || serv.pointer.Y != 20 {
		t.Errorf("event %+v", serv.pointer)
	}
	var body dto.PointerResponse
	_ = json.NewDecoder(rec.Body).Decode(&body)
	if !body.Dragging || body.Placement == nil || body.Placement.X != 0.5 {
		t.Errorf("body %+v", body)
	}

	if rec := do(t, h, http.MethodPost, "/wheels/w1/pointer", `{"type":"wheel"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown type status %d", rec.Code)
	}
}

func TestHistoryAndStats(t *testing.T) {
	serv := &mockService{}
	h := newRouter(serv)

	rec := do(t, h, http.MethodGet, "/wheels/w1/history?limit=5", "")
	if rec.Code != http.StatusOK || serv.limit != 5 {
		t.Fatalf("status %d, limit %d", rec.Code, serv.limit)
	}
	var items []dto.HistoryItem
	_ = json.NewDecoder(rec.Body).Decode(&items)
	if len(items) != 1 || items[0].Label != "c" {
		t.Errorf("items %+v", items)
	}

	if rec := do(t, h, http.MethodGet, "/wheels/w1/history?limit=abc", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad limit status %d", rec.Code)
	}

	rec = do(t, h, http.MethodGet, "/wheels/w1/stats", "")
	var stats dto.StatsResponse
	_ = json.NewDecoder(rec.Body).Decode(&stats)
	if stats.TotalSpins != 3 || stats.SegmentHits["0"] != 2 || stats.RecentResults == nil {
		t.Errorf("stats %+v", stats)
	}
}

func TestDeleteAndReset(t *testing.T) {
	serv := &mockService{}
	h := newRouter(serv)

	if rec := do(t, h, http.MethodDelete, "/wheels/w1", ""); rec.Code != http.StatusNoContent || serv.lastID != "w1" {
		t.Errorf("delete status %d, id %q", rec.Code, serv.lastID)
	}
	if rec := do(t, h, http.MethodPost, "/wheels/w1/rotation/reset", ""); rec.Code != http.StatusOK {
		t.Errorf("reset status %d", rec.Code)
	}
}
