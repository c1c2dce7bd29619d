package effects

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"ledserver/internal/pixel"
)

// colorWave sweeps a hue phase across the buffer's columns, each column
// lagging the previous by a fixed phase offset, so the overall effect
// scrolls sideways. Grounded on the shape described by original_source's
// colorwaveeffect.h: a moving per-column palette phase advanced each tick.
type colorWave struct {
	name        string
	speed       float64 // phase units per second
	phase       float64
	columnDelta float64 // phase offset between adjacent columns
}

type colorWaveParams struct {
	SpeedHz     float64 `json:"speedHz"`
	ColumnDelta float64 `json:"columnDelta"`
}

func newColorWave(name string, params json.RawMessage) (Effect, error) {
	p := colorWaveParams{SpeedHz: 0.25, ColumnDelta: 0.05}
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("effects: colorwave params: %w", err)
		}
	}
	return &colorWave{name: name, speed: p.SpeedHz, columnDelta: p.ColumnDelta}, nil
}

func (e *colorWave) Name() string { return e.name }
func (e *colorWave) Type() string { return "colorwave" }

func (e *colorWave) Start(buf *pixel.Buffer) {
	e.phase = 0
	e.render(buf)
}

func (e *colorWave) Update(buf *pixel.Buffer, dt time.Duration) {
	e.phase += e.speed * dt.Seconds()
	e.render(buf)
}

func (e *colorWave) render(buf *pixel.Buffer) {
	for x := 0; x < buf.W; x++ {
		hue := math.Mod(e.phase+float64(x)*e.columnDelta, 1.0)
		c := hueToRGB(hue)
		for y := 0; y < buf.H; y++ {
			buf.SetPixel(x, y, c)
		}
	}
}

// hueToRGB converts a hue in [0,1) to a fully saturated, fully bright RGB
// color (HSV with S=V=1), the minimal colorwheel math this effect needs.
func hueToRGB(hue float64) pixel.CRGB {
	h := hue * 6
	i := int(math.Floor(h))
	f := h - float64(i)

	q := uint8(255 * (1 - f))
	t := uint8(255 * f)

	switch i % 6 {
	case 0:
		return pixel.CRGB{R: 255, G: t, B: 0}
	case 1:
		return pixel.CRGB{R: q, G: 255, B: 0}
	case 2:
		return pixel.CRGB{R: 0, G: 255, B: t}
	case 3:
		return pixel.CRGB{R: 0, G: q, B: 255}
	case 4:
		return pixel.CRGB{R: t, G: 0, B: 255}
	default:
		return pixel.CRGB{R: 255, G: 0, B: q}
	}
}
