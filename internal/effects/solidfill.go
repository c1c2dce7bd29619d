package effects

import (
	"encoding/json"
	"fmt"
	"time"

	"ledserver/internal/pixel"
)

// solidFill fills the whole buffer with a fixed color every tick. It
// exists mainly as the simplest possible Effect for tests.
type solidFill struct {
	name  string
	color pixel.CRGB
}

type solidFillParams struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

func newSolidFill(name string, params json.RawMessage) (Effect, error) {
	var p solidFillParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("effects: solidfill params: %w", err)
		}
	}
	return &solidFill{name: name, color: pixel.CRGB{R: p.R, G: p.G, B: p.B}}, nil
}

func (e *solidFill) Name() string { return e.name }
func (e *solidFill) Type() string { return "solidfill" }

func (e *solidFill) Start(buf *pixel.Buffer) {
	buf.Clear(e.color)
}

func (e *solidFill) Update(buf *pixel.Buffer, _ time.Duration) {
	buf.Clear(e.color)
}
