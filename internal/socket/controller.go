package socket

import (
	"sync"

	"github.com/rs/zerolog"
)

// Controller is the registry of active Channels, keyed by client host.
// Grounded on socketcontroller.h's host->channel map; the map mutex is
// never held while blocking on a Channel's own internals (Start/Stop do
// their own blocking after the map lookup releases the registry lock).
type Controller struct {
	mu       sync.RWMutex
	channels map[string]*Channel
	log      zerolog.Logger
}

// NewController returns an empty registry.
func NewController() *Controller {
	return &Controller{channels: make(map[string]*Channel), log: zerolog.Nop()}
}

// SetLogger attaches log to the registry and every channel already
// registered, so each channel's debug traces carry the same sink.
func (c *Controller) SetLogger(log zerolog.Logger) {
	c.mu.Lock()
	c.log = log
	channels := make([]*Channel, 0, len(c.channels))
	for _, ch := range c.channels {
		channels = append(channels, ch)
	}
	c.mu.Unlock()

	for _, ch := range channels {
		ch.SetLogger(log)
	}
}

// Register adds ch to the registry keyed by its host, starting it. If a
// channel for that host already exists it is returned unchanged and ch is
// discarded (callers should prefer FindByHost first).
func (c *Controller) Register(ch *Channel) *Channel {
	c.mu.Lock()
	if existing, ok := c.channels[ch.Host()]; ok {
		c.mu.Unlock()
		return existing
	}
	ch.SetLogger(c.log)
	c.channels[ch.Host()] = ch
	c.mu.Unlock()

	ch.Start()
	return ch
}

// FindByHost returns the channel registered for host, if any.
func (c *Controller) FindByHost(host string) (*Channel, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	ch, ok := c.channels[host]
	return ch, ok
}

// Remove stops and unregisters the channel for host, if present.
func (c *Controller) Remove(host string) {
	c.mu.Lock()
	ch, ok := c.channels[host]
	if ok {
		delete(c.channels, host)
	}
	c.mu.Unlock()

	if ok {
		ch.Stop()
	}
}

// All returns a snapshot of every registered channel.
func (c *Controller) All() []*Channel {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Channel, 0, len(c.channels))
	for _, ch := range c.channels {
		out = append(out, ch)
	}
	return out
}

// StartAll starts every registered channel (Start is itself idempotent).
func (c *Controller) StartAll() {
	for _, ch := range c.All() {
		ch.Start()
	}
}

// StopAll stops every registered channel, releasing the registry lock
// before blocking on any individual channel's shutdown.
func (c *Controller) StopAll() {
	for _, ch := range c.All() {
		ch.Stop()
	}
}

// RemoveAll stops and clears every registered channel.
func (c *Controller) RemoveAll() {
	c.mu.Lock()
	channels := c.channels
	c.channels = make(map[string]*Channel)
	c.mu.Unlock()

	for _, ch := range channels {
		ch.Stop()
	}
}
