// Package health provides health checking functionality for the disease dashboard.
package health

import (
	"math"
	"net/http"
	"time"

	"github.com/giygas/disease-dashboard/interfaces"
)

const (
	// degradedStreak consecutive upstream failures mark the service degraded
	degradedStreak = 3
	// unhealthyStreak consecutive upstream failures mark it unhealthy
	unhealthyStreak = 10
)

// HealthCheckerImpl implements the interfaces.HealthChecker interface
type HealthCheckerImpl struct {
	stats interfaces.StatsStore
}

// NewHealthChecker creates a new health checker with injected dependencies
func NewHealthChecker(stats interfaces.StatsStore) interfaces.HealthChecker {
	return &HealthCheckerImpl{
		stats: stats,
	}
}

// HealthCheck returns the health status, its details and the HTTP status
// the /health endpoint should answer with
func (h *HealthCheckerImpl) HealthCheck() (status string, data map[string]any, httpStatus int) {
	snapshot := h.stats.Snapshot()
	configured := h.stats.IsCompletionConfigured()

	switch {
	case !configured:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case snapshot.ConsecutiveUpstreams >= unhealthyStreak:
		status = "unhealthy"
		httpStatus = http.StatusServiceUnavailable

	case snapshot.ConsecutiveUpstreams >= degradedStreak:
		status = "degraded"
		httpStatus = http.StatusOK

	default:
		status = "healthy"
		httpStatus = http.StatusOK
	}

	data = map[string]any{
		"completion_configured":   configured,
		"submissions":             snapshot.Submissions,
		"rendered":                snapshot.Rendered,
		"malformed_replies":       snapshot.Malformed,
		"upstream_failures":       snapshot.UpstreamFailures,
		"faults":                  snapshot.Faults,
		"consecutive_upstreams":   snapshot.ConsecutiveUpstreams,
		"last_outcome":            string(snapshot.LastOutcome),
		"last_submission":         formatTime(snapshot.LastSubmission),
		"uptime_hours":            h.uptimeHours(),
		"hours_since_last_render": hoursSince(snapshot.LastRendered),
	}

	return status, data, httpStatus
}

func (h *HealthCheckerImpl) uptimeHours() float64 {
	start := h.stats.GetServerStartTime()
	if start.IsZero() {
		return 0
	}
	return math.Round(time.Since(start).Hours()*10) / 10
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

// hoursSince returns -1 when t was never set
func hoursSince(t time.Time) float64 {
	if t.IsZero() {
		return -1
	}
	return math.Round(time.Since(t).Hours()*10) / 10
}
