package canvas

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledserver/internal/pixel"
	"ledserver/internal/wire"
)

func TestSamplePixelsFastPathCoversWholeCanvas(t *testing.T) {
	c, err := New(1, "main", 3, 2, 30)
	require.NoError(t, err)
	c.Graphics().Clear(pixel.CRGB{R: 9})

	f := NewFeature(FeatureConfig{ID: 1, Host: "h", Width: 3, Height: 2})
	require.NoError(t, c.AddFeature(f))

	out := f.samplePixels()
	require.Len(t, out, 6)
	for _, px := range out {
		assert.Equal(t, pixel.CRGB{R: 9}, px)
	}
}

func TestSamplePixelsOutOfBoundsIsMagenta(t *testing.T) {
	c, err := New(1, "main", 4, 4, 30)
	require.NoError(t, err)

	f := NewFeature(FeatureConfig{ID: 1, Host: "h", Width: 2, Height: 2, OffsetX: 3, OffsetY: 3})
	// AddFeature rejects a rectangle that leaves the canvas, so bind the
	// canvas directly to reach the out-of-bounds sampling path.
	require.Error(t, c.AddFeature(f))
	f.canvas = c

	out := f.samplePixels()
	require.Len(t, out, 4)
	assert.Equal(t, pixel.Magenta, out[3]) // (4,4) is outside the 4x4 canvas
}

func TestGetDataFrameHasParsableHeader(t *testing.T) {
	c, err := New(7, "main", 2, 1, 30)
	require.NoError(t, err)

	f := NewFeature(FeatureConfig{ID: 1, Host: "h", Width: 2, Height: 1, Channel: 3})
	require.NoError(t, c.AddFeature(f))

	frame := f.GetDataFrame()
	require.Len(t, frame, wire.HeaderSize+2*3)

	h := wire.ParseHeader(frame)
	assert.Equal(t, uint16(3), h.Channel)
	assert.Equal(t, uint32(2), h.PixelCount)
}
