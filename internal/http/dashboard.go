package http

import (
	"net/http"
	"strconv"

	"nobudget/internal/log"
	"nobudget/internal/report"
)

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	snap, err := s.services.Snapshot(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report.Summarize(snap))
}

func (s *Server) handleCategoryChart(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.services.Expenses.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.writePNG(w, r, "categories", func() ([]byte, error) {
		return s.charts.CategoryPie(report.TotalsBy(expenses, report.ByCategory))
	})
}

func (s *Server) handleDailyChart(w http.ResponseWriter, r *http.Request) {
	snap, err := s.services.Snapshot(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	s.writePNG(w, r, "daily", func() ([]byte, error) {
		return s.charts.DailySeries(report.SeriesByDate(snap.Expenses, snap.Income))
	})
}

// writePNG sends the rendered image, or 204 when there is nothing to plot.
func (s *Server) writePNG(w http.ResponseWriter, r *http.Request, name string, render func() ([]byte, error)) {
	img, err := render()
	if err != nil {
		log.FromContext(r.Context()).WithComponent(log.ComponentCharts).ErrorContext(r.Context(),
			"Rendering chart failed", "chart", name, log.FieldOperation, log.OpRender, log.FieldError, err)
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Failed to render chart"})
		return
	}
	if img == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	w.Header().Set("Content-Length", strconv.Itoa(len(img)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(img)
}
