// Package pipeline runs one lookup: build the instruction, ask the
// completion endpoint once, parse the reply.
package pipeline

import (
	"context"
	"errors"
	"fmt"

	"github.com/giygas/disease-dashboard/interfaces"
	"github.com/giygas/disease-dashboard/prompt"
	"github.com/giygas/disease-dashboard/report"
)

// ErrCompletion marks failures of the completion call itself (transport,
// auth, quota), as opposed to problems with the reply
var ErrCompletion = errors.New("completion failed")

// Pipeline is safe for concurrent use as long as its Completer is
type Pipeline struct {
	completer interfaces.Completer
}

// New returns a pipeline that sends every lookup through completer
func New(completer interfaces.Completer) *Pipeline {
	return &Pipeline{completer: completer}
}

// Run performs exactly one completion call. A reply that is not JSON
// yields an error matching report.ErrMalformedReply; completion failures
// match ErrCompletion and keep their cause.
func (p *Pipeline) Run(ctx context.Context, disease string) (*report.Report, error) {
	reply, err := p.completer.Complete(ctx, prompt.Build(disease))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompletion, err)
	}

	return report.Parse(reply)
}
