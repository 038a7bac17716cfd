package frame

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"
)

// Source supplies frames. Next returns io.EOF once no frames remain.
type Source interface {
	Next(ctx context.Context) (Frame, error)
}

// Rewinder is implemented by sources that can restart from the first frame.
type Rewinder interface {
	Rewind()
}

// RunnerConfig configures a Runner.
type RunnerConfig struct {
	Interval time.Duration // time between frames; 0 processes frames back to back
	Loop     bool          // rewind the source when it is exhausted
	OnUpdate func(Update) error
}

// Runner drives a Processor from a Source on a fixed tick.
type Runner struct {
	src  Source
	proc *Processor
	cfg  RunnerConfig
	log  *zap.Logger

	frames int
}

// NewRunner creates a runner.
func NewRunner(src Source, proc *Processor, cfg RunnerConfig, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{src: src, proc: proc, cfg: cfg, log: log}
}

// Frames returns the number of frames processed so far.
func (r *Runner) Frames() int { return r.frames }

// Run processes frames until the source is exhausted or ctx is done.
// Exhaustion returns nil; cancellation returns ctx.Err().
func (r *Runner) Run(ctx context.Context) error {
	var tick <-chan time.Time
	if r.cfg.Interval > 0 {
		ticker := time.NewTicker(r.cfg.Interval)
		defer ticker.Stop()
		tick = ticker.C
	}

	rewound := false
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		f, err := r.src.Next(ctx)
		if errors.Is(err, io.EOF) {
			rw, ok := r.src.(Rewinder)
			// A rewind that yields nothing means the source is empty.
			if !r.cfg.Loop || !ok || rewound {
				r.log.Info("source exhausted", zap.Int("frames", r.frames))
				return nil
			}
			r.log.Debug("rewinding source", zap.Int("frames", r.frames))
			rw.Rewind()
			rewound = true
			continue
		}
		if err != nil {
			return fmt.Errorf("reading frame: %w", err)
		}
		rewound = false

		u := r.proc.Process(f)
		r.frames++
		if r.cfg.OnUpdate != nil {
			if err := r.cfg.OnUpdate(u); err != nil {
				return fmt.Errorf("frame %d: %w", f.Seq, err)
			}
		}

		if tick != nil {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-tick:
			}
		}
	}
}
