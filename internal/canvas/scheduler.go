package canvas

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// maxSleepSlice bounds how long the scheduler ever blocks in one sleep, so
// Stop() is observed promptly even while waiting out a long tick period.
const maxSleepSlice = 10 * time.Millisecond

// Scheduler drives one Canvas's effect updates and feature sends at a
// fixed frame rate. Grounded on effectsmanager.h's Start() worker-thread
// loop, translated from a blocking condition-variable wait to a bounded
// polling sleep so Stop can interrupt within one slice.
type Scheduler struct {
	canvas *Canvas

	running    atomic.Bool
	wasStarted atomic.Bool
	stopCh     chan struct{}
	doneCh     chan struct{}
	startOnce  sync.Once
	stopOnce   sync.Once

	log zerolog.Logger
}

// NewScheduler returns a scheduler bound to c. Call Start to begin ticking.
func NewScheduler(c *Canvas) *Scheduler {
	return &Scheduler{
		canvas: c,
		stopCh: make(chan struct{}),
		doneCh: make(chan struct{}),
		log:    zerolog.Nop(),
	}
}

// SetLogger attaches log to the scheduler, tagged with its canvas id.
func (s *Scheduler) SetLogger(log zerolog.Logger) {
	s.log = log.With().Str("component", "scheduler").Uint32("canvasId", s.canvas.ID()).Logger()
}

// Start launches the scheduler's goroutine. A second call is a no-op.
// Before ticking begins, the canvas's currently selected effect gets its
// one-time Start against the live buffer, so the first Update never runs
// against unseeded state.
func (s *Scheduler) Start() {
	s.startOnce.Do(func() {
		s.canvas.Effects().StartCurrent(s.canvas.Graphics()) //nolint:errcheck // no effect selected is not an error
		s.wasStarted.Store(true)
		s.running.Store(true)
		s.log.Debug().Msg("scheduler starting")
		go s.loop()
	})
}

// Running reports whether the scheduler's goroutine is active.
func (s *Scheduler) Running() bool { return s.running.Load() }

// Stop halts the scheduler and waits for its goroutine to exit. Idempotent;
// safe to call even if Start was never called.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.running.Store(false)
		close(s.stopCh)
	})
	if s.wasStarted.Load() {
		<-s.doneCh
	}
}

func (s *Scheduler) loop() {
	defer close(s.doneCh)

	fps := s.canvas.FPS()
	if fps == 0 {
		fps = 20
	}
	period := time.Second / time.Duration(fps)

	lastTick := time.Now()
	deadline := lastTick.Add(period)

	for s.running.Load() {
		now := time.Now()
		if now.Before(deadline) {
			slice := deadline.Sub(now)
			if slice > maxSleepSlice {
				slice = maxSleepSlice
			}
			timer := time.NewTimer(slice)
			select {
			case <-s.stopCh:
				timer.Stop()
				return
			case <-timer.C:
			}
			continue
		}

		dt := now.Sub(lastTick)
		lastTick = now
		s.tick(dt)

		if f := s.canvas.FPS(); f != 0 && f != fps {
			fps = f
			period = time.Second / time.Duration(fps)
		}

		// Absolute-deadline catch-up: if a slow tick left us behind, skip
		// the deadline forward in whole periods instead of bursting ticks
		// to make up for lost time.
		for deadline.Before(now) {
			deadline = deadline.Add(period)
		}
	}
}

func (s *Scheduler) tick(dt time.Duration) {
	buf := s.canvas.Graphics()
	s.canvas.Effects().UpdateCurrent(buf, dt)

	for _, f := range s.canvas.Features() {
		frame := f.GetDataFrame()
		f.Socket().Enqueue(frame)
	}
}
