// Package interfaces defines core abstractions for the disease dashboard
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"context"
	"net/http"
	"time"

	"github.com/giygas/disease-dashboard/report"
)

// Completer sends one instruction to a hosted text-completion model and
// returns the text of its first reply, verbatim.
type Completer interface {
	Complete(ctx context.Context, instruction string) (string, error)
}

// Pipeline turns a disease name into a decoded report: build the prompt,
// call the completion endpoint once, parse the reply.
type Pipeline interface {
	Run(ctx context.Context, disease string) (*report.Report, error)
}

// ReportValidator checks that a decoded report carries the fields the
// dashboard needs.
type ReportValidator interface {
	ValidateReport(r *report.Report) error
}

// Outcome classifies how a submission ended.
type Outcome string

const (
	OutcomeRendered  Outcome = "rendered"
	OutcomeMalformed Outcome = "malformed_reply"
	OutcomeUpstream  Outcome = "upstream_failure"
	OutcomeFault     Outcome = "fault"
)

// Stats is a point-in-time view of submission counters.
type Stats struct {
	Submissions          int64
	Rendered             int64
	Malformed            int64
	UpstreamFailures     int64
	Faults               int64
	ConsecutiveUpstreams int64
	LastOutcome          Outcome
	LastSubmission       time.Time
	LastRendered         time.Time
}

// StatsStore records submission outcomes. It is the only state shared
// between submissions and holds counters only, never reports.
type StatsStore interface {
	RecordOutcome(outcome Outcome)
	Snapshot() Stats
	GetServerStartTime() time.Time
	IsCompletionConfigured() bool
}

// HTTPHandler defines the contract for the dashboard's HTTP endpoints.
type HTTPHandler interface {
	ServeDashboard(w http.ResponseWriter, r *http.Request)
	SubmitDisease(w http.ResponseWriter, r *http.Request)
	ExportCSV(w http.ResponseWriter, r *http.Request)
	CreateReport(w http.ResponseWriter, r *http.Request)
	HealthCheck(w http.ResponseWriter, r *http.Request)
}

// HealthChecker defines the contract for health check functionality.
type HealthChecker interface {
	HealthCheck() (status string, details map[string]any, httpStatus int)
}

// Scheduler defines the contract for background job scheduling.
type Scheduler interface {
	Start() error
	Stop()
}
