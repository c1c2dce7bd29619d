// Package controller implements the root Controller aggregate: the
// registry of Canvases and the Socket Channels their Features open,
// plus the fan-out operations that connect, disconnect, start, and stop
// the whole fleet.
package controller

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"ledserver/internal/canvas"
	"ledserver/internal/socket"
)

// Controller owns every Canvas the server knows about and the socket
// registry their Features' channels are registered into.
type Controller struct {
	mu       sync.RWMutex
	canvases map[uint32]*canvas.Canvas
	sockets  *socket.Controller
	log      zerolog.Logger
}

// New returns an empty Controller.
func New() *Controller {
	return &Controller{
		canvases: make(map[uint32]*canvas.Canvas),
		sockets:  socket.NewController(),
		log:      zerolog.Nop(),
	}
}

// SetLogger attaches log to the controller, its socket registry, and every
// already-registered canvas's scheduler. Call once during startup, after
// config.Load has built the initial fleet.
func (ctl *Controller) SetLogger(log zerolog.Logger) {
	ctl.mu.Lock()
	ctl.log = log
	canvases := make([]*canvas.Canvas, 0, len(ctl.canvases))
	for _, c := range ctl.canvases {
		canvases = append(canvases, c)
	}
	ctl.mu.Unlock()

	ctl.sockets.SetLogger(log)
	for _, c := range canvases {
		c.Scheduler().SetLogger(log)
	}
}

// AddCanvas registers c under its own id. Duplicate ids are rejected.
func (ctl *Controller) AddCanvas(c *canvas.Canvas) error {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()

	if _, exists := ctl.canvases[c.ID()]; exists {
		return &InvalidArgument{Reason: "canvas id already registered"}
	}
	c.Scheduler().SetLogger(ctl.log)
	ctl.canvases[c.ID()] = c
	return nil
}

// RemoveCanvas stops and unregisters the canvas with the given id.
func (ctl *Controller) RemoveCanvas(id uint32) error {
	ctl.mu.Lock()
	c, ok := ctl.canvases[id]
	if !ok {
		ctl.mu.Unlock()
		return &NotFound{Kind: "canvas", ID: id}
	}
	delete(ctl.canvases, id)
	ctl.mu.Unlock()

	c.Scheduler().Stop()
	for _, f := range c.Features() {
		ctl.sockets.Remove(f.Host())
	}
	return nil
}

// Canvas looks up a canvas by id.
func (ctl *Controller) Canvas(id uint32) (*canvas.Canvas, error) {
	ctl.mu.RLock()
	defer ctl.mu.RUnlock()

	c, ok := ctl.canvases[id]
	if !ok {
		return nil, &NotFound{Kind: "canvas", ID: id}
	}
	return c, nil
}

// Canvases returns a snapshot of every registered canvas.
func (ctl *Controller) Canvases() []*canvas.Canvas {
	ctl.mu.RLock()
	defer ctl.mu.RUnlock()

	out := make([]*canvas.Canvas, 0, len(ctl.canvases))
	for _, c := range ctl.canvases {
		out = append(out, c)
	}
	return out
}

// AddFeature attaches f to the canvas identified by canvasID and
// registers its socket channel with the controller's socket registry.
func (ctl *Controller) AddFeature(canvasID uint32, f *canvas.Feature) error {
	c, err := ctl.Canvas(canvasID)
	if err != nil {
		return err
	}
	if err := c.AddFeature(f); err != nil {
		return &InvalidArgument{Reason: err.Error()}
	}
	ctl.sockets.Register(f.Socket())
	return nil
}

// RemoveFeature detaches a feature from its canvas and stops its channel.
func (ctl *Controller) RemoveFeature(canvasID, featureID uint32) error {
	c, err := ctl.Canvas(canvasID)
	if err != nil {
		return err
	}
	f, ok := c.FeatureByID(featureID)
	if !ok {
		return &NotFound{Kind: "feature", ID: featureID}
	}
	c.RemoveFeatureByID(featureID)
	ctl.sockets.Remove(f.Host())
	return nil
}

// Sockets returns a snapshot of every registered socket channel.
func (ctl *Controller) Sockets() []*socket.Channel { return ctl.sockets.All() }

// SocketByHost looks up a socket channel by its client host.
func (ctl *Controller) SocketByHost(host string) (*socket.Channel, bool) {
	return ctl.sockets.FindByHost(host)
}

// Connect starts every registered socket channel concurrently, returning
// the first error (if any) once the whole fan-out has settled.
func (ctl *Controller) Connect(ctx context.Context) error {
	g, _ := errgroup.WithContext(ctx)
	for _, ch := range ctl.Sockets() {
		ch := ch
		g.Go(func() error {
			ch.Start()
			return nil
		})
	}
	return g.Wait()
}

// Disconnect stops every registered socket channel concurrently and waits
// for the whole fan-out to settle.
func (ctl *Controller) Disconnect(ctx context.Context) error {
	g, _ := errgroup.WithContext(ctx)
	for _, ch := range ctl.Sockets() {
		ch := ch
		g.Go(func() error {
			ch.Stop()
			return nil
		})
	}
	return g.Wait()
}

// Start launches every canvas's effects scheduler concurrently.
func (ctl *Controller) Start(ctx context.Context) error {
	g, _ := errgroup.WithContext(ctx)
	for _, c := range ctl.Canvases() {
		c := c
		g.Go(func() error {
			c.Scheduler().Start()
			return nil
		})
	}
	return g.Wait()
}

// Stop halts every canvas's effects scheduler concurrently and waits for
// the whole fan-out to settle.
func (ctl *Controller) Stop(ctx context.Context) error {
	g, _ := errgroup.WithContext(ctx)
	for _, c := range ctl.Canvases() {
		c := c
		g.Go(func() error {
			c.Scheduler().Stop()
			return nil
		})
	}
	return g.Wait()
}
