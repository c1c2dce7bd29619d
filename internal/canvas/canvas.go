// Package canvas implements the Canvas/Feature pixel model and the
// per-canvas effects scheduler described in spec.md §4.1–§4.3.
package canvas

import (
	"fmt"
	"sync"

	"ledserver/internal/effects"
	"ledserver/internal/pixel"
)

// Canvas owns one pixel buffer and the ordered list of Features bound to
// sub-rectangles of it. Canvas exclusively owns its pixel buffer; no
// external writer may mutate it outside the scheduler's tick.
type Canvas struct {
	mu sync.RWMutex

	id   uint32
	name string
	fps  uint16

	buf      *pixel.Buffer
	features []*Feature

	effects   *effects.Manager
	scheduler *Scheduler
}

// New creates an empty, black canvas of the given dimensions. Both
// dimensions must be positive.
func New(id uint32, name string, width, height int, fps uint16) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("canvas: invalid dimensions %dx%d", width, height)
	}
	c := &Canvas{
		id:      id,
		name:    name,
		fps:     fps,
		buf:     pixel.NewBuffer(width, height),
		effects: effects.NewManager(),
	}
	c.scheduler = NewScheduler(c)
	return c, nil
}

func (c *Canvas) ID() uint32 { return c.id }
func (c *Canvas) Width() int { return c.buf.W }
func (c *Canvas) Height() int { return c.buf.H }

func (c *Canvas) Name() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.name
}

func (c *Canvas) FPS() uint16 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.fps
}

// SetName renames the canvas, e.g. from a REST PUT.
func (c *Canvas) SetName(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.name = name
}

// SetFPS changes the canvas's target frame rate. Takes effect from the
// scheduler's next tick.
func (c *Canvas) SetFPS(fps uint16) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fps = fps
}

// Graphics returns the canvas's pixel buffer for direct drawing, read, or
// effect use. Callers running outside the scheduler's own tick must not
// write concurrently with it.
func (c *Canvas) Graphics() *pixel.Buffer { return c.buf }

// Effects returns the canvas's effect manager.
func (c *Canvas) Effects() *effects.Manager { return c.effects }

// Scheduler returns the canvas's fixed-FPS scheduler.
func (c *Canvas) Scheduler() *Scheduler { return c.scheduler }

// AddFeature attaches a feature whose rectangle must lie wholly inside the
// canvas. Overlapping features are permitted.
func (c *Canvas) AddFeature(f *Feature) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if f.offsetX < 0 || f.offsetY < 0 ||
		f.offsetX+f.width > c.buf.W || f.offsetY+f.height > c.buf.H {
		return fmt.Errorf("canvas: feature %d rectangle (%d,%d,%d,%d) exceeds canvas bounds %dx%d",
			f.id, f.offsetX, f.offsetY, f.width, f.height, c.buf.W, c.buf.H)
	}

	for _, existing := range c.features {
		if existing.id == f.id {
			return fmt.Errorf("canvas: feature id %d already attached", f.id)
		}
	}

	f.canvas = c
	c.features = append(c.features, f)
	return nil
}

// RemoveFeatureByID detaches a feature. Callers are responsible for
// stopping its socket channel first.
func (c *Canvas) RemoveFeatureByID(id uint32) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, f := range c.features {
		if f.id == id {
			c.features = append(c.features[:i], c.features[i+1:]...)
			return true
		}
	}
	return false
}

// Features returns a snapshot slice of the attached features.
func (c *Canvas) Features() []*Feature {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]*Feature, len(c.features))
	copy(out, c.features)
	return out
}

// FeatureByID looks up an attached feature by id.
func (c *Canvas) FeatureByID(id uint32) (*Feature, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, f := range c.features {
		if f.id == id {
			return f, true
		}
	}
	return nil, false
}
