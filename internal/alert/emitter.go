// Package alert emits the audible overheat signal.
package alert

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/luki/thermwatch/internal/clock"
)

// Pulses is the number of bells per alert.
const Pulses = 3

// Emitter writes bell pulses to a sink, pausing between them on a clock.
type Emitter struct {
	out      io.Writer
	clock    clock.Clock
	bellOnly bool
}

// Option configures an Emitter.
type Option func(*Emitter)

// BellOnly drops the announcement and the line breaks, writing a bare BEL
// per pulse. Use it when another program owns the cursor.
func BellOnly() Option {
	return func(e *Emitter) { e.bellOnly = true }
}

// NewEmitter returns an Emitter writing to out.
func NewEmitter(out io.Writer, clk clock.Clock, opts ...Option) *Emitter {
	e := &Emitter{out: out, clock: clk}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Pause returns the wait before pulse i of count: (1000/count)*i
// milliseconds, so later pulses are spaced further from the start.
func Pause(count, i int) time.Duration {
	if count <= 0 {
		return 0
	}
	return time.Duration((1000/count)*i) * time.Millisecond
}

// Emit announces the alert and writes count bells. It blocks for the sum of
// the pauses. A non-positive count does nothing.
func (e *Emitter) Emit(ctx context.Context, count int) error {
	if count <= 0 {
		return nil
	}
	bell := "\a\n"
	if e.bellOnly {
		bell = "\a"
	} else if _, err := fmt.Fprintf(e.out, "Beep %dx\n", count); err != nil {
		return fmt.Errorf("announce alert: %w", err)
	}
	for i := 0; i < count; i++ {
		if err := e.clock.Sleep(ctx, Pause(count, i)); err != nil {
			return err
		}
		if _, err := io.WriteString(e.out, bell); err != nil {
			return fmt.Errorf("write bell: %w", err)
		}
	}
	return nil
}
