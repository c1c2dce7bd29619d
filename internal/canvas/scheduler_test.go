package canvas

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledserver/internal/pixel"
)

type countingEffect struct{ n atomic.Int64 }

func (c *countingEffect) Name() string { return "counter" }
func (c *countingEffect) Type() string { return "counter" }
func (c *countingEffect) Start(buf *pixel.Buffer) {}
func (c *countingEffect) Update(buf *pixel.Buffer, dt time.Duration) {
	c.n.Add(1)
}

func TestSchedulerTicksAtApproximatelyFPS(t *testing.T) {
	const fps = 100
	const runFor = 200 * time.Millisecond

	c, err := New(1, "main", 4, 4, fps)
	require.NoError(t, err)

	counter := &countingEffect{}
	c.Effects().Add(counter)

	c.Scheduler().Start()
	time.Sleep(runFor)
	c.Scheduler().Stop()

	expected := float64(fps) * runFor.Seconds()
	got := counter.n.Load()
	assert.InDelta(t, expected, float64(got), expected*0.5+2)
}

func TestSchedulerStopIsLive(t *testing.T) {
	c, err := New(1, "main", 2, 2, 30)
	require.NoError(t, err)

	c.Scheduler().Start()
	time.Sleep(10 * time.Millisecond)

	done := make(chan struct{})
	go func() {
		c.Scheduler().Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return promptly")
	}
	assert.False(t, c.Scheduler().Running())
}

func TestSchedulerStopWithoutStartIsNoop(t *testing.T) {
	c, err := New(1, "main", 2, 2, 30)
	require.NoError(t, err)
	c.Scheduler().Stop()
}
