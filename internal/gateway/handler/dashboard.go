package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"boxoffice/internal/archive"
	"boxoffice/internal/dashboard"
	"boxoffice/internal/types"
)

// Dashboard is the part of *dashboard.Service the handlers use.
type Dashboard interface {
	Current() dashboard.Status
	Refresh(ctx context.Context) (dashboard.Status, error)
	Subscribe(ctx context.Context) <-chan dashboard.Status
}

const chartSize = 10

type DashboardHandler struct {
	svc     Dashboard
	archive archive.Store
}

// NewDashboardHandler serves svc. store may be nil when archiving is off.
func NewDashboardHandler(svc Dashboard, store archive.Store) *DashboardHandler {
	return &DashboardHandler{svc: svc, archive: store}
}

func (h *DashboardHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, h.svc.Current())
}

// Refresh blocks until the fetch finishes. The body is always the resulting
// status so clients can render the user-facing error text. The fetch keeps
// going if the caller disconnects; the fetch timeout still bounds it.
func (h *DashboardHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Refresh(context.WithoutCancel(r.Context()))
	switch {
	case err == nil:
		writeJSON(w, r, http.StatusOK, st)
	case errors.Is(err, dashboard.ErrRefreshInProgress):
		writeJSON(w, r, http.StatusConflict, st)
	default:
		zerolog.Ctx(r.Context()).Warn().Err(err).Msg("refresh failed")
		writeJSON(w, r, http.StatusBadGateway, st)
	}
}

type categoryView struct {
	Category    types.Category          `json:"category"`
	Title       string                  `json:"title"`
	Unit        string                  `json:"unit"`
	LastUpdated string                  `json:"lastUpdated"`
	Rows        []types.Movie           `json:"rows"`
	Stats       dashboard.Stats         `json:"stats"`
	Chart       []dashboard.SeriesPoint `json:"chart"`
}

func (h *DashboardHandler) GetCategory(w http.ResponseWriter, r *http.Request) {
	c, ok := types.ParseCategory(chi.URLParam(r, "category"))
	if !ok {
		writeError(w, r, errUnknownCategory)
		return
	}
	qs := r.URL.Query()
	q, err := dashboard.ParseTableQuery(qs.Get("sort"), qs.Get("dir"), qs.Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	snap := h.svc.Current().Snapshot
	if snap == nil {
		writeError(w, r, errNoSnapshot)
		return
	}

	all := snap.Movies(c)
	writeJSON(w, r, http.StatusOK, categoryView{
		Category:    c,
		Title:       c.Title(),
		Unit:        c.Unit(),
		LastUpdated: snap.LastUpdated,
		Rows:        dashboard.ApplyTable(all, q),
		Stats:       dashboard.Summarize(c, all),
		Chart:       dashboard.ChartSeries(all, chartSize),
	})
}

func (h *DashboardHandler) GetSources(w http.ResponseWriter, r *http.Request) {
	limit := dashboard.DefaultSourceLimit
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, r, errBadLimit)
			return
		}
		limit = n
	}
	var citations []types.Citation
	if snap := h.svc.Current().Snapshot; snap != nil {
		citations = snap.Sources
	}
	writeJSON(w, r, http.StatusOK, map[string]any{
		"sources": dashboard.SourceLinks(citations, limit, dashboard.DefaultLabelMax),
		"total":   len(citations),
	})
}

func (h *DashboardHandler) ListArchive(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		writeError(w, r, errArchiveDisabled)
		return
	}
	keys, err := h.archive.List(r.Context())
	if err != nil {
		zerolog.Ctx(r.Context()).Error().Err(err).Msg("failed to list archive")
		writeError(w, r, err)
		return
	}
	if keys == nil {
		keys = []string{}
	}
	writeJSON(w, r, http.StatusOK, map[string]any{"keys": keys})
}
