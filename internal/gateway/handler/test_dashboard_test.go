package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"boxoffice/internal/archive"
	"boxoffice/internal/dashboard"
	"boxoffice/internal/types"
)

type mockDashboard struct{ mock.Mock }

func (m *mockDashboard) Current() dashboard.Status {
	return m.Called().Get(0).(dashboard.Status)
}

func (m *mockDashboard) Refresh(ctx context.Context) (dashboard.Status, error) {
	args := m.Called(ctx)
	return args.Get(0).(dashboard.Status), args.Error(1)
}

func (m *mockDashboard) Subscribe(ctx context.Context) <-chan dashboard.Status {
	return m.Called(ctx).Get(0).(<-chan dashboard.Status)
}

func sampleSnapshot() *types.Snapshot {
	return &types.Snapshot{
		TopIndian: []types.Movie{
			{ID: "ind-1", Name: "Dangal", CollectionValue: 2070, Industry: "Hindi", Category: types.CategoryTopIndian},
			{ID: "ind-2", Name: "Baahubali 2", CollectionValue: 1810, Industry: "Telugu", Category: types.CategoryTopIndian},
			{ID: "ind-3", Name: "Unknown", CollectionValue: types.NaNAmount(), Industry: "Tamil", Category: types.CategoryTopIndian},
		},
		Sources: []types.Citation{
			{Title: "Box Office | Sacnilk", URI: "https://www.sacnilk.com/"},
			{Title: "Wikipedia", URI: "https://en.wikipedia.org/"},
		},
		LastUpdated: "19 Oct 2026, 03:45 pm",
	}
}

func routes(h *DashboardHandler) http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", h.Health)
	r.Get("/api/v1/dashboard", h.GetDashboard)
	r.Post("/api/v1/dashboard/refresh", h.Refresh)
	r.Get("/api/v1/dashboard/{category}", h.GetCategory)
	r.Get("/api/v1/sources", h.GetSources)
	r.Get("/api/v1/archive", h.ListArchive)
	r.Get("/ws/dashboard", h.Watch)
	return r
}

func do(t *testing.T, h http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	rec := do(t, routes(NewDashboardHandler(&mockDashboard{}, nil)), http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestGetDashboard(t *testing.T) {
	svc := &mockDashboard{}
	svc.On("Current").Return(dashboard.Status{State: types.FetchSuccess, Snapshot: sampleSnapshot(), Seq: 2})

	rec := do(t, routes(NewDashboardHandler(svc, nil)), http.MethodGet, "/api/v1/dashboard")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	body := decode[map[string]any](t, rec)
	assert.Equal(t, "SUCCESS", body["state"])
	data := body["data"].(map[string]any)
	assert.Len(t, data["topIndianAllTime"], 3)
	assert.Equal(t, "19 Oct 2026, 03:45 pm", data["lastUpdated"])
}

func TestRefresh_StatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		status dashboard.Status
		err    error
		code   int
	}{
		{"success", dashboard.Status{State: types.FetchSuccess, Snapshot: sampleSnapshot()}, nil, http.StatusOK},
		{"in progress", dashboard.Status{State: types.FetchLoading}, dashboard.ErrRefreshInProgress, http.StatusConflict},
		{"failed", dashboard.Status{State: types.FetchError, Error: dashboard.UserErrorMessage}, errors.New("upstream 500"), http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockDashboard{}
			svc.On("Refresh", mock.Anything).Return(tt.status, tt.err).Once()

			rec := do(t, routes(NewDashboardHandler(svc, nil)), http.MethodPost, "/api/v1/dashboard/refresh")
			assert.Equal(t, tt.code, rec.Code)
			got := decode[dashboard.Status](t, rec)
			assert.Equal(t, tt.status.State, got.State)
			assert.Equal(t, tt.status.Error, got.Error)
			assert.NotContains(t, rec.Body.String(), "upstream 500")
			svc.AssertExpectations(t)
		})
	}
}

func TestGetCategory(t *testing.T) {
	svc := &mockDashboard{}
	svc.On("Current").Return(dashboard.Status{State: types.FetchSuccess, Snapshot: sampleSnapshot()})
	h := routes(NewDashboardHandler(svc, nil))

	rec := do(t, h, http.MethodGet, "/api/v1/dashboard/topIndian?sort=name&dir=asc")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	view := decode[struct {
		Category types.Category          `json:"category"`
		Unit     string                  `json:"unit"`
		Rows     []types.Movie           `json:"rows"`
		Chart    []dashboard.SeriesPoint `json:"chart"`
		Stats    struct {
			Count          int    `json:"count"`
			Total          string `json:"total"`
			AboveMilestone int    `json:"aboveMilestone"`
		} `json:"stats"`
	}](t, rec)
	assert.Equal(t, types.CategoryTopIndian, view.Category)
	assert.Equal(t, "crores", view.Unit)
	require.Len(t, view.Rows, 3)
	assert.Equal(t, "Baahubali 2", view.Rows[0].Name)
	assert.Equal(t, []dashboard.SeriesPoint{{Name: "Dangal", Value: 2070}, {Name: "Baahubali 2", Value: 1810}}, view.Chart)
	assert.Equal(t, 3, view.Stats.Count)
	assert.Equal(t, "3880", view.Stats.Total)
	assert.Equal(t, 2, view.Stats.AboveMilestone)

	rec = do(t, h, http.MethodGet, "/api/v1/dashboard/ind?q=TELUGU")
	require.Equal(t, http.StatusOK, rec.Code)
	filtered := decode[struct {
		Rows []types.Movie `json:"rows"`
	}](t, rec)
	require.Len(t, filtered.Rows, 1)
	assert.Equal(t, "Baahubali 2", filtered.Rows[0].Name)
}

func TestGetCategory_Errors(t *testing.T) {
	svc := &mockDashboard{}
	svc.On("Current").Return(dashboard.Status{State: types.FetchIdle})
	h := routes(NewDashboardHandler(svc, nil))

	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/v1/dashboard/tollywood").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/v1/dashboard/running?sort=rating").Code)

	rec := do(t, h, http.MethodGet, "/api/v1/dashboard/running")
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.JSONEq(t, `{"error":"no dashboard data yet"}`, rec.Body.String())
}

func TestGetSources(t *testing.T) {
	svc := &mockDashboard{}
	svc.On("Current").Return(dashboard.Status{State: types.FetchSuccess, Snapshot: sampleSnapshot()})
	h := routes(NewDashboardHandler(svc, nil))

	rec := do(t, h, http.MethodGet, "/api/v1/sources?limit=1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"sources":[{"label":"Box Office","title":"Box Office | Sacnilk","uri":"https://www.sacnilk.com/"}],"total":2}`, rec.Body.String())

	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/v1/sources?limit=-1").Code)
	assert.Equal(t, http.StatusBadRequest, do(t, h, http.MethodGet, "/api/v1/sources?limit=x").Code)
}

func TestGetSources_NoSnapshot(t *testing.T) {
	svc := &mockDashboard{}
	svc.On("Current").Return(dashboard.Status{State: types.FetchIdle})

	rec := do(t, routes(NewDashboardHandler(svc, nil)), http.MethodGet, "/api/v1/sources")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"sources":[],"total":0}`, rec.Body.String())
}

func TestListArchive(t *testing.T) {
	h := routes(NewDashboardHandler(&mockDashboard{}, nil))
	assert.Equal(t, http.StatusNotFound, do(t, h, http.MethodGet, "/api/v1/archive").Code)

	store := archive.NewMemoryStore()
	h = routes(NewDashboardHandler(&mockDashboard{}, store))
	rec := do(t, h, http.MethodGet, "/api/v1/archive")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"keys":[]}`, rec.Body.String())

	require.NoError(t, store.Put(context.Background(), "snapshots/a.json", []byte("{}")))
	rec = do(t, h, http.MethodGet, "/api/v1/archive")
	assert.JSONEq(t, `{"keys":["snapshots/a.json"]}`, rec.Body.String())
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusConflict, statusFor(dashboard.ErrRefreshInProgress))
	assert.Equal(t, http.StatusBadRequest, statusFor(dashboard.ErrInvalidQuery))
	assert.Equal(t, http.StatusNotFound, statusFor(errUnknownCategory))
	assert.Equal(t, http.StatusInternalServerError, statusFor(errors.New("boom")))
}
