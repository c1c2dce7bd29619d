package effects

import (
	"encoding/json"
	"fmt"
	"time"

	"ledserver/internal/pixel"
)

// comet is a bright head with a fading tail bouncing back and forth along
// the buffer's flattened 1-D projection. Exercises Buffer.SetPixelsF (for
// the anti-aliased head) and Buffer.FadeFrameBy (for the tail).
type comet struct {
	name    string
	color   pixel.CRGB
	speed   float64 // pixels per second
	tailFade uint8  // per-tick fade amount applied before drawing the head
	headLen  float64

	pos float64
	dir float64
}

type cometParams struct {
	R        uint8   `json:"r"`
	G        uint8   `json:"g"`
	B        uint8   `json:"b"`
	SpeedPxS float64 `json:"speedPxPerSec"`
	TailFade uint8   `json:"tailFade"`
	HeadLen  float64 `json:"headLength"`
}

func newComet(name string, params json.RawMessage) (Effect, error) {
	p := cometParams{R: 255, G: 255, B: 255, SpeedPxS: 30, TailFade: 40, HeadLen: 1.5}
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("effects: comet params: %w", err)
		}
	}
	return &comet{
		name:     name,
		color:    pixel.CRGB{R: p.R, G: p.G, B: p.B},
		speed:    p.SpeedPxS,
		tailFade: p.TailFade,
		headLen:  p.HeadLen,
		dir:      1,
	}, nil
}

func (e *comet) Name() string { return e.name }
func (e *comet) Type() string { return "comet" }

func (e *comet) Start(buf *pixel.Buffer) {
	e.pos = 0
	e.dir = 1
	buf.Clear(pixel.Black)
}

func (e *comet) Update(buf *pixel.Buffer, dt time.Duration) {
	n := buf.W * buf.H
	if n == 0 {
		return
	}

	e.pos += e.dir * e.speed * dt.Seconds()
	max := float64(n) - e.headLen
	if max < 0 {
		max = 0
	}
	if e.pos >= max {
		e.pos = max
		e.dir = -1
	} else if e.pos <= 0 {
		e.pos = 0
		e.dir = 1
	}

	buf.FadeFrameBy(e.tailFade)
	buf.SetPixelsF(e.pos, e.headLen, e.color, true, func(i int) (int, int) {
		if i < 0 {
			i = 0
		}
		if i >= n {
			i = n - 1
		}
		return i % buf.W, i / buf.W
	})
}
