package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/seo-forecast/internal/ctr"
	"github.com/sells-group/seo-forecast/internal/engine"
	"github.com/sells-group/seo-forecast/internal/export"
	"github.com/sells-group/seo-forecast/internal/ingest"
	"github.com/sells-group/seo-forecast/internal/model"
	"github.com/sells-group/seo-forecast/internal/projection"
	"github.com/sells-group/seo-forecast/internal/store"
	"github.com/sells-group/seo-forecast/internal/whatif"
)

var contentTypes = map[export.Format]string{
	export.FormatTable:      "text/plain; charset=utf-8",
	export.FormatJSON:       "application/json",
	export.FormatCSV:        "text/csv; charset=utf-8",
	export.FormatMonthlyCSV: "text/csv; charset=utf-8",
	export.FormatXLSX:       "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
	export.FormatMarkdown:   "text/markdown; charset=utf-8",
	export.FormatHTML:       "text/html; charset=utf-8",
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("server: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeStoreError maps store failures onto HTTP status codes.
func writeStoreError(w http.ResponseWriter, err error) {
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "run not found")
		return
	}
	zap.L().Error("server: store", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error")
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}

func (s *Server) requireStore(w http.ResponseWriter) bool {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "run history is disabled")
		return false
	}
	return true
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	st := "enabled"
	if s.store == nil {
		st = "disabled"
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "run_history": st})
}

type profileResponse struct {
	Name  model.CTRProfile `json:"name"`
	Rates map[int]float64  `json:"rates"`
}

func (s *Server) handleProfiles(w http.ResponseWriter, _ *http.Request) {
	out := make([]profileResponse, 0, len(ctr.BuiltinNames()))
	for _, name := range ctr.BuiltinNames() {
		p, err := ctr.Builtin(name)
		if err != nil {
			continue
		}
		out = append(out, profileResponse{Name: p.Name, Rates: p.Rates})
	}
	writeJSON(w, http.StatusOK, map[string]any{"profiles": out})
}

type categoryResponse struct {
	Slug        model.Category `json:"slug"`
	Name        string         `json:"name"`
	Seasonality [12]float64    `json:"seasonality"`
}

func (s *Server) handleCategories(w http.ResponseWriter, _ *http.Request) {
	out := make([]categoryResponse, 0, len(model.Categories()))
	for _, c := range model.Categories() {
		factors, err := projection.Seasonality(c)
		if err != nil {
			continue
		}
		out = append(out, categoryResponse{Slug: c, Name: c.DisplayName(), Seasonality: factors})
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": out})
}

// handleImport parses a CSV keyword file sent as the raw request body.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	imp, err := ingest.ReadCSV(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, imp)
}

type forecastRequest struct {
	Name     string          `json:"name"`
	Save     bool            `json:"save"`
	Settings model.Settings  `json:"settings"`
	Keywords []model.Keyword `json:"keywords"`
}

type forecastResponse struct {
	RunID  string        `json:"run_id,omitempty"`
	Report *model.Report `json:"report"`
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	req := forecastRequest{Settings: s.cfg.Defaults.Clone()}
	if !s.decode(w, r, &req) {
		return
	}
	if req.Save && !s.requireStore(w) {
		return
	}

	report, err := engine.New(engine.WithClock(s.now)).Forecast(req.Keywords, req.Settings)
	if err != nil {
		s.metrics.observeForecast("forecast", "invalid", 0)
		writeError(w, http.StatusBadRequest, eris.Cause(err).Error())
		return
	}
	s.metrics.observeForecast("forecast", "ok", len(req.Keywords))

	resp := forecastResponse{Report: report}
	if req.Save {
		run, err := s.store.SaveRun(r.Context(), req.Name, report)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		resp.RunID = run.ID
	}
	writeJSON(w, http.StatusOK, resp)
}

type whatIfRequest struct {
	Settings model.Settings      `json:"settings"`
	Keywords []model.Keyword     `json:"keywords"`
	Variable model.SweepVariable `json:"variable"`
	Values   []float64           `json:"values"`
	Min      *float64            `json:"min"`
	Max      *float64            `json:"max"`
	Steps    int                 `json:"steps"`
}

// values resolves the sample points: explicit values win, then a min/max
// range, then the variable's defaults.
func (req whatIfRequest) values() ([]float64, error) {
	if len(req.Values) > 0 {
		return req.Values, nil
	}
	if req.Min != nil && req.Max != nil {
		steps := req.Steps
		if steps == 0 {
			steps = whatif.DefaultSteps
		}
		return whatif.LinSpace(*req.Min, *req.Max, steps)
	}
	if req.Variable == model.SweepTargetPositions {
		return whatif.DefaultImprovements, nil
	}
	return nil, eris.Errorf("whatif: values or min/max required for %s", req.Variable)
}

func (s *Server) handleWhatIf(w http.ResponseWriter, r *http.Request) {
	req := whatIfRequest{Settings: s.cfg.Defaults.Clone()}
	if !s.decode(w, r, &req) {
		return
	}
	values, err := req.values()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	runner := whatif.NewRunner(req.Keywords, req.Settings,
		whatif.WithConcurrency(s.cfg.WhatIfConcurrency),
		whatif.WithStartMonth(s.now().Month()),
	)
	rows, err := runner.Run(r.Context(), whatif.Sweep{Variable: req.Variable, Values: values})
	if err != nil {
		s.metrics.observeForecast("whatif", "invalid", 0)
		writeError(w, http.StatusBadRequest, eris.Cause(err).Error())
		return
	}
	s.metrics.observeForecast("whatif", "ok", len(req.Keywords))
	writeJSON(w, http.StatusOK, map[string]any{"variable": req.Variable, "rows": rows})
}

type runSummary struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Category    model.Category   `json:"category"`
	CTRProfile  model.CTRProfile `json:"ctr_profile"`
	Keywords    int              `json:"keywords"`
	TrafficGain float64          `json:"traffic_gain"`
	RevenueGain float64          `json:"revenue_gain"`
	ROI         float64          `json:"roi"`
	CreatedAt   time.Time        `json:"created_at"`
}

func summarize(run model.Run) runSummary {
	return runSummary{
		ID:          run.ID,
		Name:        run.Name,
		Category:    run.Report.Settings.Category,
		CTRProfile:  run.Report.Settings.CTRProfile,
		Keywords:    len(run.Report.Keywords),
		TrafficGain: run.Report.Totals.TrafficGain,
		RevenueGain: run.Report.Totals.RevenueGain,
		ROI:         run.Report.ROI,
		CreatedAt:   run.CreatedAt,
	}
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	q := r.URL.Query()
	filter := store.RunFilter{Name: q.Get("name")}
	if c := q.Get("category"); c != "" {
		cat, err := model.ParseCategory(c)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		filter.Category = cat
	}
	var err error
	if filter.Limit, err = intParam(q.Get("limit")); err != nil {
		writeError(w, http.StatusBadRequest, "limit: "+err.Error())
		return
	}
	if filter.Offset, err = intParam(q.Get("offset")); err != nil {
		writeError(w, http.StatusBadRequest, "offset: "+err.Error())
		return
	}

	runs, err := s.store.ListRuns(r.Context(), filter)
	if err != nil {
		writeStoreError(w, err)
		return
	}
	out := make([]runSummary, 0, len(runs))
	for _, run := range runs {
		out = append(out, summarize(run))
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": out})
}

func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	run, err := s.store.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, run)
}

// handleExportRun renders a stored run in any export format, json by default.
func (s *Server) handleExportRun(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	format := export.FormatJSON
	if f := r.URL.Query().Get("format"); f != "" {
		parsed, err := export.ParseFormat(f)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		format = parsed
	}

	run, err := s.store.GetRun(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeStoreError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, format, &run.Report); err != nil {
		zap.L().Error("server: export run", zap.String("id", run.ID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "export failed")
		return
	}
	w.Header().Set("Content-Type", contentTypes[format])
	if format.Binary() {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", run.ID+".xlsx"))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, &buf); err != nil {
		zap.L().Warn("server: write export", zap.Error(err))
	}
}

func (s *Server) handleDeleteRun(w http.ResponseWriter, r *http.Request) {
	if !s.requireStore(w) {
		return
	}
	if err := s.store.DeleteRun(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeStoreError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, eris.Errorf("not an integer: %q", s)
	}
	if n < 0 {
		return 0, eris.Errorf("must be >= 0, got %d", n)
	}
	return n, nil
}
