package canvas

import (
	"time"

	"ledserver/internal/pixel"
	"ledserver/internal/socket"
	"ledserver/internal/wire"
)

// Feature maps a rectangular sub-region of a Canvas to one client
// endpoint and wire format. A Feature holds a non-owning back-reference
// to the Canvas it was attached to (spec.md §9: the Canvas owns the
// Feature list, so the Feature side of the relationship is a plain
// pointer set at AddFeature time, never the reverse).
type Feature struct {
	id           uint32
	typeTag      string
	host         string
	friendlyName string
	port         uint16

	offsetX, offsetY int
	width, height    int

	channel      uint8
	reversed     bool
	redGreenSwap bool

	// framesPerBuffer/percentBufferUse, when framesPerBuffer > 0, derive
	// this feature's schedule lead from the client's reported buffer
	// depth instead of the 2s default (spec.md §9 open question).
	framesPerBuffer  int
	percentBufferUse float64

	canvas *Canvas
	sock   *socket.Channel
}

// FeatureConfig carries the construction parameters for a Feature.
type FeatureConfig struct {
	ID               uint32
	Type             string
	Host             string
	FriendlyName     string
	Port             uint16
	OffsetX, OffsetY int
	Width, Height    int
	Channel          uint8
	Reversed         bool
	RedGreenSwap     bool
	FramesPerBuffer  int
	PercentBufferUse float64
}

// NewFeature constructs a Feature and its backing socket channel. The
// Feature is not yet attached to any Canvas; call Canvas.AddFeature.
func NewFeature(cfg FeatureConfig) *Feature {
	if cfg.Port == 0 {
		cfg.Port = 49152
	}
	if cfg.Height == 0 {
		cfg.Height = 1
	}
	if cfg.PercentBufferUse == 0 {
		cfg.PercentBufferUse = 1.0
	}
	if cfg.Type == "" {
		cfg.Type = "strip"
	}
	return &Feature{
		id:               cfg.ID,
		typeTag:          cfg.Type,
		host:             cfg.Host,
		friendlyName:     cfg.FriendlyName,
		port:             cfg.Port,
		offsetX:          cfg.OffsetX,
		offsetY:          cfg.OffsetY,
		width:            cfg.Width,
		height:           cfg.Height,
		channel:          cfg.Channel,
		reversed:         cfg.Reversed,
		redGreenSwap:     cfg.RedGreenSwap,
		framesPerBuffer:  cfg.FramesPerBuffer,
		percentBufferUse: cfg.PercentBufferUse,
		sock:             socket.NewChannel(cfg.Host, cfg.FriendlyName, cfg.Port),
	}
}

func (f *Feature) ID() uint32            { return f.id }
func (f *Feature) Type() string          { return f.typeTag }
func (f *Feature) Host() string          { return f.host }
func (f *Feature) FriendlyName() string  { return f.friendlyName }
func (f *Feature) Port() uint16          { return f.port }
func (f *Feature) OffsetX() int          { return f.offsetX }
func (f *Feature) OffsetY() int          { return f.offsetY }
func (f *Feature) Width() int            { return f.width }
func (f *Feature) Height() int           { return f.height }
func (f *Feature) Channel() uint8        { return f.channel }
func (f *Feature) Reversed() bool        { return f.reversed }
func (f *Feature) RedGreenSwap() bool    { return f.redGreenSwap }
func (f *Feature) Socket() *socket.Channel { return f.sock }
func (f *Feature) FramesPerBuffer() int    { return f.framesPerBuffer }

// scheduleLead computes this feature's buffering lead per spec.md §9.
func (f *Feature) scheduleLead(fps uint16) time.Duration {
	return wire.ScheduleLead(f.framesPerBuffer, f.percentBufferUse, float64(fps))
}

// samplePixels reads this feature's sub-rectangle from its canvas. Samples
// outside the canvas bounds come back as magenta, the out-of-bounds
// sentinel (the canvas's own GetPixel already clips to Black, so an
// explicit bounds check is needed here to produce magenta instead).
func (f *Feature) samplePixels() []pixel.CRGB {
	buf := f.canvas.Graphics()
	out := make([]pixel.CRGB, f.width*f.height)

	// Fast path: the feature covers the whole canvas at the origin, so the
	// buffer's own pixel order already matches what the wire needs.
	if f.offsetX == 0 && f.offsetY == 0 && f.width == buf.W && f.height == buf.H {
		copy(out, buf.Pixels())
		return out
	}

	i := 0
	for y := 0; y < f.height; y++ {
		for x := 0; x < f.width; x++ {
			cx, cy := x+f.offsetX, y+f.offsetY
			if cx >= 0 && cy >= 0 && cx < buf.W && cy < buf.H {
				out[i] = buf.GetPixel(cx, cy)
			} else {
				out[i] = pixel.Magenta
			}
			i++
		}
	}
	return out
}

// GetDataFrame builds this feature's data frame for the current canvas
// state: header (command, channel, pixelCount, timestamp) followed by the
// RGB (or GRB) pixel payload, reversed if configured.
func (f *Feature) GetDataFrame() []byte {
	pixels := f.samplePixels()
	lead := f.scheduleLead(f.canvas.FPS())
	return wire.BuildDataFrame(uint16(f.channel), pixels, f.redGreenSwap, f.reversed, time.Now(), lead)
}
