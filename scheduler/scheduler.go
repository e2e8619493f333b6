// Package scheduler runs the dashboard's background jobs. The only job is
// an hourly summary of submission outcomes taken from the stats store.
package scheduler

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/giygas/disease-dashboard/interfaces"
	"github.com/giygas/disease-dashboard/logging"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// SummaryInterval is how often the submission summary is logged
const SummaryInterval = time.Hour

// Summary is the difference between two stats snapshots
type Summary struct {
	Submissions      int64
	Rendered         int64
	Malformed        int64
	UpstreamFailures int64
	Faults           int64
}

// AllUpstreamFailed reports whether every submission in the window failed
// to reach the completion endpoint
func (s Summary) AllUpstreamFailed() bool {
	return s.Submissions > 0 && s.UpstreamFailures == s.Submissions
}

// Scheduler logs a periodic submission summary using dependency injection
type Scheduler struct {
	stats     interfaces.StatsStore
	scheduler *gocron.Scheduler

	mu   sync.Mutex
	last interfaces.Stats
}

// NewScheduler creates a new scheduler instance with injected dependencies
func NewScheduler(stats interfaces.StatsStore) *Scheduler {
	return &Scheduler{
		stats:     stats,
		scheduler: gocron.NewScheduler(time.Local),
		last:      stats.Snapshot(),
	}
}

// Start schedules the summary job. The first summary runs one interval
// after start.
func (s *Scheduler) Start() error {
	_, err := s.scheduler.Every(SummaryInterval).WaitForSchedule().Do(func() {
		s.runSummary()
	})
	if err != nil {
		logging.Error("Failed to schedule submission summary", "error", err)
		return fmt.Errorf("failed to schedule submission summary: %w", err)
	}

	s.scheduler.StartAsync()
	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// NextSummary returns when the next summary is due, or the zero time when
// the scheduler has not been started
func (s *Scheduler) NextSummary() time.Time {
	_, next := s.scheduler.NextRun()
	return next
}

// runSummary logs what happened since the previous run
func (s *Scheduler) runSummary() Summary {
	current := s.stats.Snapshot()

	s.mu.Lock()
	previous := s.last
	s.last = current
	s.mu.Unlock()

	summary := Summary{
		Submissions:      current.Submissions - previous.Submissions,
		Rendered:         current.Rendered - previous.Rendered,
		Malformed:        current.Malformed - previous.Malformed,
		UpstreamFailures: current.UpstreamFailures - previous.UpstreamFailures,
		Faults:           current.Faults - previous.Faults,
	}

	logging.Info("Submission summary",
		"submissions", summary.Submissions,
		"rendered", summary.Rendered,
		"malformed_replies", summary.Malformed,
		"upstream_failures", summary.UpstreamFailures,
		"faults", summary.Faults,
		"total_submissions", current.Submissions,
	)

	if summary.AllUpstreamFailed() {
		logging.Warn("Every submission since the last summary failed at the completion endpoint",
			"upstream_failures", summary.UpstreamFailures)
	}
	if !s.stats.IsCompletionConfigured() {
		logging.Warn("No completion credential configured, submissions cannot succeed")
	}

	return summary
}
