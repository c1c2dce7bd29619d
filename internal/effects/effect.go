// Package effects implements stateful pixel animators and the tagged
// registry used to construct them from persisted JSON configuration
// (spec.md §9: "a registry that maps tag -> constructor").
package effects

import (
	"encoding/json"
	"fmt"
	"time"

	"ledserver/internal/pixel"
)

// Effect mutates a pixel buffer once per scheduler tick. Effects own
// private animation state initialized by Start and advanced by Update; no
// state is shared across effects.
type Effect interface {
	// Name identifies the effect instance, e.g. for monitor display.
	Name() string
	// Type returns the registry tag this effect was constructed from, so
	// config.Save can round-trip it back to the same JSON shape.
	Type() string
	// Start (re)initializes animation state against the current buffer.
	// Manager.SetCurrent and Manager.StartCurrent call it (the scheduler
	// calls StartCurrent once when it starts); Manager.Next, Previous and
	// Remove change the selection without calling it.
	Start(buf *pixel.Buffer)
	// Update advances animation state by dt and writes the new frame.
	Update(buf *pixel.Buffer, dt time.Duration)
}

// Constructor builds an Effect from its type-specific JSON parameters.
type Constructor func(name string, params json.RawMessage) (Effect, error)

// registry maps a persisted "type" tag to the constructor for that effect.
var registry = map[string]Constructor{}

// Register adds a constructor under the given type tag. Calling Register
// twice for the same tag is a configuration error, not a panic, since
// registration can be driven by plugin-style init functions whose order
// isn't guaranteed.
func Register(typeTag string, ctor Constructor) error {
	if _, exists := registry[typeTag]; exists {
		return fmt.Errorf("effects: type tag %q already registered", typeTag)
	}
	registry[typeTag] = ctor
	return nil
}

// Build constructs the effect named by typeTag, or an error if the tag is
// unknown.
func Build(typeTag, name string, params json.RawMessage) (Effect, error) {
	ctor, ok := registry[typeTag]
	if !ok {
		return nil, fmt.Errorf("effects: unknown effect type %q", typeTag)
	}
	return ctor(name, params)
}

func init() {
	_ = Register("solidfill", newSolidFill)
	_ = Register("colorwave", newColorWave)
	_ = Register("comet", newComet)
}
