package orchestrator

import (
	"context"
	"errors"
	"time"

	"github.com/cartbridge/backend/internal/interfaces/http/dto"
	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

const (
	// DefaultPacing is the pause between successful steps, giving the
	// server room to breathe on large catalogs.
	DefaultPacing = 300 * time.Millisecond
	// DefaultRetryDelay is the constant wait before re-sending the same
	// cursor after a transport failure.
	DefaultRetryDelay = 5 * time.Second
)

// Stats summarizes a finished run.
type Stats struct {
	Steps       int
	Products    int
	LastMessage string
}

// Runner loops the step protocol until the catalog is exhausted. Transport
// failures retry the same cursor forever with a constant delay; a
// server-reported step failure halts the run.
type Runner struct {
	transport  Transport
	logger     *zap.Logger
	pacing     time.Duration
	retryDelay time.Duration
}

// RunnerOption is a functional option for Runner configuration
type RunnerOption func(*Runner)

// WithPacing sets the pause between successful steps. Zero disables pacing.
func WithPacing(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.pacing = d
	}
}

// WithRetryDelay sets the constant delay between transport retries.
func WithRetryDelay(d time.Duration) RunnerOption {
	return func(r *Runner) {
		r.retryDelay = d
	}
}

// NewRunner creates a Runner over the given transport.
func NewRunner(transport Transport, logger *zap.Logger, opts ...RunnerOption) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Runner{
		transport:  transport,
		logger:     logger,
		pacing:     DefaultPacing,
		retryDelay: DefaultRetryDelay,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes the sync from startOffset (0-based product rank) to
// completion. It returns the stats collected so far together with the halt
// reason, or nil when the catalog is exhausted.
func (r *Runner) Run(ctx context.Context, startOffset int) (Stats, error) {
	machine := NewMachine(startOffset)
	stats := Stats{}

	for {
		prev := machine.Cursor()
		resp, err := r.step(ctx, machine)
		if err != nil {
			return stats, err
		}

		stats.Steps++
		stats.LastMessage = resp.Message
		// A product counts only when the cursor moved past it; the terminal
		// no-more-products reply completes nothing.
		if !resp.HasMoreVariations && resp.Offset > prev.Offset {
			stats.Products++
		}

		r.logger.Info("step complete",
			zap.String("message", resp.Message),
			zap.Int("offset", resp.Offset),
			zap.Int("variation_offset", resp.VariationOffset),
			zap.Bool("has_more_products", resp.HasMoreProducts))

		if !machine.Advance(resp) {
			return stats, nil
		}

		if r.pacing > 0 {
			select {
			case <-time.After(r.pacing):
			case <-ctx.Done():
				return stats, ctx.Err()
			}
		}
	}
}

// step sends the machine's cursor, retrying transport failures with a
// constant delay. Step failures and context cancellation pass through.
func (r *Runner) step(ctx context.Context, machine *Machine) (resp *dto.StepResponse, err error) {
	policy := backoff.WithContext(backoff.NewConstantBackOff(r.retryDelay), ctx)

	err = backoff.Retry(func() error {
		var stepErr error
		resp, stepErr = r.transport.Step(ctx, machine.Cursor())
		if stepErr == nil {
			return nil
		}

		var transportErr *TransportError
		if errors.As(stepErr, &transportErr) {
			r.logger.Warn("transport failure, retrying same cursor",
				zap.Int("offset", machine.Cursor().Offset),
				zap.Int("variation_offset", machine.Cursor().VariationOffset),
				zap.Duration("retry_in", r.retryDelay),
				zap.Error(stepErr))
			return stepErr
		}
		return backoff.Permanent(stepErr)
	}, policy)

	return resp, err
}
