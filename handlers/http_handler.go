// Package handlers provides the HTTP handlers for the disease dashboard:
// the HTML page, the CSV download, the JSON API and the health check.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/giygas/disease-dashboard/dashboard"
	"github.com/giygas/disease-dashboard/export"
	"github.com/giygas/disease-dashboard/interfaces"
	"github.com/giygas/disease-dashboard/logging"
	"github.com/giygas/disease-dashboard/metrics"
	"github.com/giygas/disease-dashboard/report"
	"github.com/giygas/disease-dashboard/validation"
)

// Compile-time check to ensure HTTPHandlerImpl implements HTTPHandler
var _ interfaces.HTTPHandler = (*HTTPHandlerImpl)(nil)

// HTTPHandlerImpl implements the interfaces.HTTPHandler interface
type HTTPHandlerImpl struct {
	pipeline interfaces.Pipeline
	stats    interfaces.StatsStore
	health   interfaces.HealthChecker
	builder  *dashboard.Builder
}

// NewHTTPHandler creates a new HTTP handler with injected dependencies
func NewHTTPHandler(pipeline interfaces.Pipeline, stats interfaces.StatsStore, health interfaces.HealthChecker) *HTTPHandlerImpl {
	return &HTTPHandlerImpl{
		pipeline: pipeline,
		stats:    stats,
		health:   health,
		builder:  dashboard.NewBuilder(validation.NewReportValidator()),
	}
}

// ReportRequest is the body of POST /api/v1/reports
type ReportRequest struct {
	Disease string `json:"disease"`
}

// ReportResponse is a successful API lookup
type ReportResponse struct {
	SubmissionID string          `json:"submission_id"`
	View         *dashboard.View `json:"view"`
	Report       json.RawMessage `json:"report"`
}

// HealthResponse defines the structure for consistent JSON ordering
type HealthResponse struct {
	Status        string         `json:"status"`
	Uptime        string         `json:"uptime"`
	UptimeSeconds float64        `json:"uptime_seconds"`
	Data          map[string]any `json:"data"`
	System        map[string]any `json:"system"`
}

// RespondWithJSON writes a JSON response
func RespondWithJSON(w http.ResponseWriter, code int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		logging.Error("Failed to marshal JSON response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write(data)
}

// RespondWithError writes a JSON error response
func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, map[string]any{
		"error":   http.StatusText(code),
		"message": message,
		"code":    code,
	})
}

// ServeDashboard renders the idle page
func (h *HTTPHandlerImpl) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	renderPage(w, http.StatusOK, pageData{})
}

// SubmitDisease runs one lookup for the posted disease name and renders
// the dashboard, the malformed-reply message, or a generic fault. A blank
// name leaves the page idle without calling the completion endpoint.
func (h *HTTPHandlerImpl) SubmitDisease(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		logging.Warn("Unreadable form submission", "error", err)
		renderPage(w, http.StatusBadRequest, pageData{Fault: http.StatusText(http.StatusBadRequest)})
		return
	}

	disease := r.PostForm.Get("disease")
	if blankDisease(disease) {
		renderPage(w, http.StatusOK, pageData{})
		return
	}

	res := h.lookup(r.Context(), disease, true)
	w.Header().Set(logging.SubmissionHeader, res.ID)

	data := pageData{Disease: disease}
	switch res.Outcome {
	case interfaces.OutcomeRendered:
		data.View = res.View
		data.BarChart = pngDataURI(res.BarChart)
		data.PieChart = pngDataURI(res.PieChart)
		data.ReportJSON = string(res.ReportJSON)
	case interfaces.OutcomeMalformed:
		data.Message = report.MalformedReplyMessage
	default:
		data.Fault = http.StatusText(res.Status)
	}

	renderPage(w, res.Status, data)
}

// ExportCSV turns the posted report back into CSV. The report comes from
// the rendered page, so no completion call is made.
func (h *HTTPHandlerImpl) ExportCSV(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		RespondWithError(w, http.StatusBadRequest, "Unreadable form")
		return
	}

	raw := r.PostForm.Get("report")
	if strings.TrimSpace(raw) == "" {
		RespondWithError(w, http.StatusBadRequest, "Missing report")
		return
	}

	rep, err := report.Parse(raw)
	if err != nil {
		logging.Warn("Rejected export payload", "error", err)
		RespondWithError(w, http.StatusBadRequest, "Invalid report")
		return
	}

	out, err := export.CSV(rep)
	if err != nil {
		logging.Error("Failed to export report", "error", err)
		RespondWithError(w, http.StatusInternalServerError, "Export failed")
		return
	}

	metrics.ExportsTotal.Inc()

	w.Header().Set("Content-Type", export.ContentType+"; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(out)
}

// CreateReport is the JSON twin of SubmitDisease
func (h *HTTPHandlerImpl) CreateReport(w http.ResponseWriter, r *http.Request) {
	var req ReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			RespondWithError(w, http.StatusRequestEntityTooLarge, "Request body too large")
			return
		}
		RespondWithError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	disease := req.Disease
	if blankDisease(disease) {
		RespondWithError(w, http.StatusBadRequest, "Missing disease name")
		return
	}

	res := h.lookup(r.Context(), disease, false)
	w.Header().Set(logging.SubmissionHeader, res.ID)

	switch res.Outcome {
	case interfaces.OutcomeRendered:
		RespondWithJSON(w, http.StatusOK, ReportResponse{
			SubmissionID: res.ID,
			View:         res.View,
			Report:       res.ReportJSON,
		})
	case interfaces.OutcomeMalformed:
		RespondWithError(w, res.Status, report.MalformedReplyMessage)
	default:
		RespondWithError(w, res.Status, http.StatusText(res.Status))
	}
}

// HealthCheck returns server health information
func (h *HTTPHandlerImpl) HealthCheck(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	status, data, httpStatus := h.health.HealthCheck()

	var uptime time.Duration
	if start := h.stats.GetServerStartTime(); !start.IsZero() {
		uptime = time.Since(start)
	}

	RespondWithJSON(w, httpStatus, HealthResponse{
		Status:        status,
		Uptime:        formatUptimeHuman(uptime),
		UptimeSeconds: uptime.Seconds(),
		Data:          data,
		System: map[string]any{
			"goroutines": runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       int(m.Alloc / 1024 / 1024),
				"total_alloc_mb": int(m.TotalAlloc / 1024 / 1024),
				"sys_mb":         int(m.Sys / 1024 / 1024),
				"num_gc":         m.NumGC,
			},
		},
	})
}

// formatUptimeHuman formats duration into a human-readable string
func formatUptimeHuman(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	var parts []string

	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	parts = append(parts, fmt.Sprintf("%ds", seconds))

	return strings.Join(parts, " ")
}
