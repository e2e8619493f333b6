package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/giygas/disease-dashboard/chart"
	"github.com/giygas/disease-dashboard/dashboard"
	"github.com/giygas/disease-dashboard/interfaces"
	"github.com/giygas/disease-dashboard/logging"
	"github.com/giygas/disease-dashboard/metrics"
	"github.com/giygas/disease-dashboard/pipeline"
	"github.com/giygas/disease-dashboard/report"
)

// lookupResult is one finished submission
type lookupResult struct {
	ID         string
	Report     *report.Report
	View       *dashboard.View
	ReportJSON []byte
	BarChart   []byte
	PieChart   []byte

	Outcome interfaces.Outcome
	Status  int
	Err     error
}

// blankDisease reports whether a submitted name is empty once surrounding
// whitespace is ignored. A non-blank name is sent on exactly as submitted.
func blankDisease(raw string) bool {
	return strings.TrimSpace(raw) == ""
}

// lookup runs the pipeline once and builds the view, plus the chart
// images when withCharts is set. Every outcome is recorded in the stats
// store and in Prometheus before returning.
func (h *HTTPHandlerImpl) lookup(ctx context.Context, disease string, withCharts bool) lookupResult {
	res := lookupResult{ID: uuid.NewString()}

	rep, err := h.pipeline.Run(ctx, disease)
	if err == nil {
		res.Report = rep
		res.View, err = h.builder.Build(rep)
	}
	if err == nil {
		res.ReportJSON, err = rep.JSON()
	}
	if err == nil && withCharts {
		res.BarChart, res.PieChart, err = renderCharts(res.View)
	}

	res.Err = err
	res.Outcome, res.Status = classify(err)

	h.stats.RecordOutcome(res.Outcome)
	metrics.SubmissionsTotal.WithLabelValues(string(res.Outcome)).Inc()

	attrs := []any{
		"submission_id", res.ID,
		"disease", disease,
		"outcome", string(res.Outcome),
	}

	switch res.Outcome {
	case interfaces.OutcomeRendered:
		logging.Info("Dashboard rendered", attrs...)
	case interfaces.OutcomeMalformed:
		logging.Warn("Completion reply is not JSON", append(attrs, "error", err)...)
	case interfaces.OutcomeUpstream:
		logging.Error("Completion endpoint failed", append(attrs, "error", err)...)
	default:
		kind := faultKind(err)
		metrics.ReportFaultsTotal.WithLabelValues(kind).Inc()
		logging.Error("Report could not be rendered", append(attrs, "kind", kind, "error", err)...)
	}

	return res
}

// classify maps a pipeline or build error to its outcome and HTTP status.
// Only a malformed reply has a dedicated surface.
func classify(err error) (interfaces.Outcome, int) {
	switch {
	case err == nil:
		return interfaces.OutcomeRendered, http.StatusOK
	case errors.Is(err, report.ErrMalformedReply):
		return interfaces.OutcomeMalformed, http.StatusUnprocessableEntity
	case errors.Is(err, pipeline.ErrCompletion):
		return interfaces.OutcomeUpstream, http.StatusBadGateway
	default:
		return interfaces.OutcomeFault, http.StatusInternalServerError
	}
}

// faultKind labels a fault for the report_faults_total metric
func faultKind(err error) string {
	switch {
	case errors.Is(err, report.ErrMissingField):
		return "missing_field"
	case errors.Is(err, report.ErrWrongKind):
		return "wrong_kind"
	case errors.Is(err, report.ErrRateFormat):
		return "rate_format"
	case errors.Is(err, report.ErrCountFormat):
		return "count_format"
	default:
		return "internal"
	}
}

// renderCharts draws the bar chart and, when there is a distribution, the
// pie chart
func renderCharts(view *dashboard.View) (bar, pie []byte, err error) {
	bar, err = chart.RenderBar(view.Rates)
	if err != nil {
		return nil, nil, err
	}
	if view.Distribution != nil {
		pie, err = chart.RenderPie(view.Distribution)
		if err != nil {
			return nil, nil, err
		}
	}
	return bar, pie, nil
}
