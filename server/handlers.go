package server

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spektr-org/spendlens/engine"
	"github.com/spektr-org/spendlens/errs"
	"github.com/spektr-org/spendlens/helpers"
)

// ============================================================================
// RESPONSES
// ============================================================================

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// fail maps caller mistakes to 400 and everything else to 500.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	if errs.IsCallerError(err) {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.log.Error("request failed",
		zap.String("request_id", RequestIDFrom(r.Context())),
		zap.Error(err))
	respondError(w, http.StatusInternalServerError, err.Error())
}

// ============================================================================
// QUERY PARSING — mirrors the CLI flags
// ============================================================================

func parseQuery(v url.Values) (helpers.Query, error) {
	q := helpers.Query{
		End:      first(v, "end", "asOf"),
		Current:  v.Get("current"),
		Previous: v.Get("previous"),
		GroupBy:  v.Get("groupBy"),
		Region:   v.Get("region"),
		Category: v["category"],
		Entity:   v["entity"],
	}
	if s := v.Get("range"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return q, errs.InvalidParameter("range", s, "must be an integer")
		}
		if n <= 0 {
			return q, errs.InvalidParameter("range", n, "must be > 0")
		}
		q.Range = n
	}
	if s := v.Get("qtd"); s != "" {
		b, err := strconv.ParseBool(s)
		if err != nil {
			return q, errs.InvalidParameter("qtd", s, "must be a boolean")
		}
		q.QTD = b
	}
	if strings.EqualFold(v.Get("mode"), string(engine.ModeQuarterToDate)) {
		q.QTD = true
	}
	if s := v.Get("z"); s != "" {
		z, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return q, errs.InvalidParameter("z", s, "must be a number")
		}
		q.Z = z
	}
	return q, nil
}

func first(v url.Values, keys ...string) string {
	for _, k := range keys {
		if s := v.Get(k); s != "" {
			return s
		}
	}
	return ""
}

// params resolves request params, falling back to the analysis config.
func (s *Server) params(r *http.Request) (engine.DashboardParams, error) {
	q, err := parseQuery(r.URL.Query())
	if err != nil {
		return engine.DashboardParams{}, err
	}
	return q.WithDefaults(s.analysis).Params()
}

func (s *Server) engineOptions(r *http.Request, extra ...engine.Option) []engine.Option {
	opts := []engine.Option{
		engine.WithLogger(s.log.With(zap.String("request_id", RequestIDFrom(r.Context())))),
	}
	return append(opts, extra...)
}

func (s *Server) buildModel(r *http.Request, extra ...engine.Option) (*engine.DashboardModel, error) {
	params, err := s.params(r)
	if err != nil {
		return nil, err
	}
	start := time.Now()
	model, err := engine.BuildDashboardModel(s.data.Rows, params, s.engineOptions(r, extra...)...)
	s.metrics.DashboardBuildDurationSeconds.Observe(time.Since(start).Seconds())
	return model, err
}

// ============================================================================
// HANDLERS
// ============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "spendlens",
		"records": len(s.data.Rows),
	})
}

func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.data.Describe())
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	params, err := s.params(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	rows := engine.FilterRows(s.data.Rows, params.Filter)
	if from, to := r.URL.Query().Get("from"), r.URL.Query().Get("to"); from != "" || to != "" {
		span := engine.Window{Start: from, End: to}
		if err := span.Validate(); err != nil {
			s.fail(w, r, err)
			return
		}
		rows = engine.FilterRows(rows, &engine.Filter{DateRange: &span})
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"count":   len(rows),
		"records": rows,
	})
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	model, err := s.buildModel(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, model)
}

func (s *Server) handleDrivers(w http.ResponseWriter, r *http.Request) {
	model, err := s.buildModel(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"groupBy":  model.GroupBy,
		"current":  model.Current,
		"previous": model.Previous,
		"drivers":  model.Drivers,
		"table":    engine.BuildDriverTable(model),
		"chart":    engine.BuildDriverChart(model),
	})
}

func (s *Server) handleAnomalies(w http.ResponseWriter, r *http.Request) {
	v := r.URL.Query()
	order, err := engine.ParseAnomalyOrder(v.Get("order"))
	if err != nil {
		s.fail(w, r, err)
		return
	}

	if all, _ := strconv.ParseBool(v.Get("all")); all {
		params, err := s.params(r)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		byEntity, err := engine.DetectAllEntityAnomalies(r.Context(), s.data.Rows, params.AnomalyZThreshold)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{"entities": byEntity})
		return
	}

	if entity := v.Get("entity"); entity != "" {
		params, err := s.params(r)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		points, err := engine.DetectEntityAnomalies(r.Context(), s.data.Rows, entity, params.AnomalyZThreshold, order)
		if err != nil {
			s.fail(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, map[string]interface{}{"entity": entity, "anomalies": points})
		return
	}

	model, err := s.buildModel(r, engine.WithAnomalyOrder(order))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"current":   model.Current,
		"anomalies": model.Anomalies,
	})
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	model, err := s.buildModel(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(model.Summary))
}

func (s *Server) handleSeries(w http.ResponseWriter, r *http.Request) {
	model, err := s.buildModel(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"current":   model.Current,
		"series":    model.Series,
		"anomalies": model.Anomalies,
		"table":     engine.BuildSeriesTable(model),
		"chart":     engine.BuildSeriesChart(model),
	})
}
