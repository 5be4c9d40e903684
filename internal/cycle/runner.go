// Package cycle drives the sample, classify, evaluate, render and alert
// pass on a fixed cadence.
package cycle

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/luki/thermwatch/internal/alert"
	"github.com/luki/thermwatch/internal/clock"
	"github.com/luki/thermwatch/internal/metrics"
	"github.com/luki/thermwatch/internal/report"
	"github.com/luki/thermwatch/internal/sensor"
	"github.com/luki/thermwatch/internal/threshold"
)

// Interval is the pause between the end of one cycle and the next.
const Interval = 1 * time.Second

// Result is everything one cycle derived from its snapshot.
type Result struct {
	Snapshot   metrics.Snapshot
	Evaluation threshold.Evaluation
}

// Runner owns the collaborators of the cycle. It keeps no state between
// cycles.
type Runner struct {
	Provider metrics.Provider
	Renderer *report.Renderer
	Alerter  *alert.Emitter
	Clock    clock.Clock
	Out      io.Writer
	Log      *zap.Logger

	// Clear wipes the display before each report. Its error is ignored.
	Clear func(ctx context.Context) error
}

// Sample takes one snapshot and classifies and evaluates it. The returned
// error wraps sensor.ErrEnumerationMismatch when core sensors outnumber
// CPUs.
func (r *Runner) Sample(ctx context.Context) (Result, error) {
	snap, err := r.snapshot(ctx)
	if err != nil {
		return Result{}, err
	}

	c := sensor.Classify(snap.Sensors)
	cores, err := sensor.PairUsage(c.Cores, snap.Usage())
	if err != nil {
		return Result{}, err
	}
	return Result{Snapshot: snap, Evaluation: threshold.Evaluate(cores, c.GPUs)}, nil
}

func (r *Runner) snapshot(ctx context.Context) (metrics.Snapshot, error) {
	s, err := r.Provider.Open(ctx)
	if err != nil {
		return metrics.Snapshot{}, fmt.Errorf("open sampler: %w", err)
	}
	defer s.Close()

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return metrics.Snapshot{}, fmt.Errorf("take snapshot: %w", err)
	}
	return snap, nil
}

// RunOnce performs a single cycle. Provider failures are logged and the
// cycle is skipped; only an enumeration mismatch or a dead context is
// returned.
func (r *Runner) RunOnce(ctx context.Context) error {
	res, err := r.Sample(ctx)
	switch {
	case err == nil:
	case errors.Is(err, sensor.ErrEnumerationMismatch):
		return err
	case ctx.Err() != nil:
		return ctx.Err()
	default:
		r.Log.Warn("cycle skipped", zap.Error(err))
		return nil
	}

	// Cleared only once there is a report to replace the old one.
	if r.Clear != nil {
		if err := r.Clear(ctx); err != nil {
			r.Log.Debug("clear display failed", zap.Error(err))
		}
	}
	if err := r.Renderer.Render(r.Out, res.Snapshot, res.Evaluation); err != nil {
		r.Log.Warn("render failed", zap.Error(err))
	}

	if !res.Evaluation.AnyOverheat {
		return nil
	}
	for _, label := range res.Evaluation.Overheated() {
		r.Log.Info("overheat",
			zap.String("sensor", label),
			zap.String("component", sensor.FriendlyName(label)),
			zap.Float64("ceiling", threshold.Ceiling),
		)
	}
	if err := r.Alerter.Emit(ctx, alert.Pulses); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		r.Log.Warn("alert failed", zap.Error(err))
	}
	return nil
}

// Run repeats RunOnce with Interval between cycles until a cycle fails
// fatally or ctx is done.
func (r *Runner) Run(ctx context.Context) error {
	for {
		if err := r.RunOnce(ctx); err != nil {
			return err
		}
		if err := r.Clock.Sleep(ctx, Interval); err != nil {
			return err
		}
	}
}
