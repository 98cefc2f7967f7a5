// Package simulate declares the Run options, sentinel errors, and Result.
// The simulation loop lives in simulate.go.
package simulate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/katalvlaran/ystrlr/lr"
)

// Sentinel errors for simulation setup.
var (
	// ErrNilArgument is returned when the pedigree, model, or frequency
	// table is nil.
	ErrNilArgument = errors.New("simulate: nil argument")

	// ErrBadIterations is returned for a non-positive iteration count.
	ErrBadIterations = errors.New("simulate: iteration count must be positive")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("simulate: invalid option supplied")
)

// DefaultSeed seeds the random streams when WithSeed is not given.
const DefaultSeed int64 = 1

// Option configures Run via functional arguments. Invalid options are
// recorded and surfaced as ErrOptionViolation before any iteration runs.
type Option func(*options)

type options struct {
	ctx          context.Context
	seed         int64
	workers      int
	logger       logr.Logger
	essThreshold float64
	onIteration  func(i int, weight float64, match bool)

	err error
}

func defaultOptions() options {
	return options{
		ctx:     context.Background(),
		seed:    DefaultSeed,
		workers: 1,
		logger:  logr.Discard(),
	}
}

// WithContext sets a context for cancellation and deadlines. Cancellation
// is honored between iterations; completed iterations remain valid.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// WithSeed fixes the root seed of the per-iteration random streams.
// The same (seed, workers) pair reproduces the Result bit for bit.
func WithSeed(seed int64) Option {
	return func(o *options) { o.seed = seed }
}

// WithWorkers sets how many goroutines partition the iterations.
//
//	n > 0: that many workers
//	n ≤ 0: invalid → ErrOptionViolation
func WithWorkers(n int) Option {
	return func(o *options) {
		if n <= 0 {
			o.err = fmt.Errorf("%w: workers must be positive (%d)", ErrOptionViolation, n)
			return
		}
		o.workers = n
	}
}

// WithLogger attaches a logr.Logger for run-level progress; the per-marker
// hot path never logs. Default: logr.Discard().
func WithLogger(log logr.Logger) Option {
	return func(o *options) { o.logger = log }
}

// WithESSThreshold forwards the low-ESS warning threshold to the estimator.
func WithESSThreshold(frac float64) Option {
	return func(o *options) {
		if frac <= 0 || frac >= 1 {
			o.err = fmt.Errorf("%w: ESS threshold %v outside (0,1)", ErrOptionViolation, frac)
			return
		}
		o.essThreshold = frac
	}
}

// WithOnIteration registers a hook invoked after every folded iteration
// with its index, linear importance weight, and match indicator.
// With multiple workers the hook is called concurrently; it must be
// goroutine-safe.
func WithOnIteration(fn func(i int, weight float64, match bool)) Option {
	return func(o *options) {
		if fn != nil {
			o.onIteration = fn
		}
	}
}

// Result is the outcome of one simulation run.
type Result struct {
	// Result is the finalized LR estimate (LR, StandardError,
	// EffectiveSampleSize, Iterations, Warnings...).
	lr.Result

	// RunID uniquely identifies this run in logs and reports.
	RunID string

	// Seed is the root seed the run used.
	Seed int64

	// Workers is the worker count the iterations were partitioned over.
	Workers int

	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration
}
