// Package data keeps the process-wide submission counters of the dashboard.
// Reports themselves are never stored: each submission is rendered and
// discarded, only its outcome is counted here.
package data

import (
	"sync/atomic"
	"time"

	"github.com/giygas/disease-dashboard/interfaces"
	"github.com/giygas/disease-dashboard/logging"
)

// Compile-time check to ensure DataContainer implements StatsStore
var _ interfaces.StatsStore = (*DataContainer)(nil)

// DataContainer holds counters with atomic fields so handlers never block
// each other
type DataContainer struct {
	submissions          atomic.Int64
	rendered             atomic.Int64
	malformed            atomic.Int64
	upstreamFailures     atomic.Int64
	faults               atomic.Int64
	consecutiveUpstreams atomic.Int64
	lastOutcome          atomic.Value // interfaces.Outcome
	lastSubmission       atomic.Value // time.Time
	lastRendered         atomic.Value // time.Time
	serverStartTime      atomic.Value // time.Time
	completionConfigured atomic.Bool
}

// NewDataContainer creates a new DataContainer with zeroed counters
func NewDataContainer() *DataContainer {
	dc := &DataContainer{}
	dc.lastOutcome.Store(interfaces.Outcome(""))
	dc.lastSubmission.Store(time.Time{})
	dc.lastRendered.Store(time.Time{})
	dc.serverStartTime.Store(time.Time{})
	return dc
}

// RecordOutcome counts one finished submission
func (dc *DataContainer) RecordOutcome(outcome interfaces.Outcome) {
	now := time.Now()
	dc.submissions.Add(1)
	dc.lastOutcome.Store(outcome)
	dc.lastSubmission.Store(now)

	switch outcome {
	case interfaces.OutcomeRendered:
		dc.rendered.Add(1)
		dc.lastRendered.Store(now)
		dc.consecutiveUpstreams.Store(0)
	case interfaces.OutcomeMalformed:
		dc.malformed.Add(1)
		dc.consecutiveUpstreams.Store(0)
	case interfaces.OutcomeUpstream:
		dc.upstreamFailures.Add(1)
		dc.consecutiveUpstreams.Add(1)
	case interfaces.OutcomeFault:
		dc.faults.Add(1)
		dc.consecutiveUpstreams.Store(0)
	default:
		logging.Warn("Unknown submission outcome", "outcome", string(outcome))
	}
}

// Snapshot returns the current counters
func (dc *DataContainer) Snapshot() interfaces.Stats {
	return interfaces.Stats{
		Submissions:          dc.submissions.Load(),
		Rendered:             dc.rendered.Load(),
		Malformed:            dc.malformed.Load(),
		UpstreamFailures:     dc.upstreamFailures.Load(),
		Faults:               dc.faults.Load(),
		ConsecutiveUpstreams: dc.consecutiveUpstreams.Load(),
		LastOutcome:          dc.loadOutcome(),
		LastSubmission:       loadTime(&dc.lastSubmission),
		LastRendered:         loadTime(&dc.lastRendered),
	}
}

func (dc *DataContainer) loadOutcome() interfaces.Outcome {
	if v := dc.lastOutcome.Load(); v != nil {
		if outcome, ok := v.(interfaces.Outcome); ok {
			return outcome
		}
	}
	return ""
}

// SetServerStartTime sets the server start time
func (dc *DataContainer) SetServerStartTime(startTime time.Time) {
	dc.serverStartTime.Store(startTime)
}

// GetServerStartTime returns the server start time
func (dc *DataContainer) GetServerStartTime() time.Time {
	return loadTime(&dc.serverStartTime)
}

// SetCompletionConfigured records whether a completion credential was supplied
func (dc *DataContainer) SetCompletionConfigured(configured bool) {
	dc.completionConfigured.Store(configured)
}

// IsCompletionConfigured reports whether submissions can reach the completion endpoint
func (dc *DataContainer) IsCompletionConfigured() bool {
	return dc.completionConfigured.Load()
}

func loadTime(v *atomic.Value) time.Time {
	if raw := v.Load(); raw != nil {
		if t, ok := raw.(time.Time); ok {
			return t
		}
	}
	return time.Time{}
}
