package wire

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledserver/internal/pixel"
)

func TestBuildDataFrameHeader(t *testing.T) {
	pixels := []pixel.CRGB{{R: 1, G: 2, B: 3}, {R: 4, G: 5, B: 6}}
	capturedAt := time.Unix(1000, 0)

	frame := BuildDataFrame(7, pixels, false, false, capturedAt, 2*time.Second)
	require.Len(t, frame, HeaderSize+len(pixels)*3)

	h := ParseHeader(frame)
	assert.Equal(t, uint16(CommandPixelData64), h.Command)
	assert.Equal(t, uint16(7), h.Channel)
	assert.Equal(t, uint32(2), h.PixelCount)
	assert.Equal(t, uint64(1002), h.Seconds)
	assert.Equal(t, uint64(0), h.Microseconds)
}

func TestSerializePixelsRedGreenSwap(t *testing.T) {
	pixels := []pixel.CRGB{{R: 10, G: 20, B: 30}}
	plain := SerializePixels(pixels, false, false)
	swapped := SerializePixels(pixels, true, false)

	assert.Equal(t, []byte{10, 20, 30}, plain)
	assert.Equal(t, []byte{20, 10, 30}, swapped)
}

func TestSerializePixelsReversed(t *testing.T) {
	pixels := []pixel.CRGB{{R: 1}, {R: 2}, {R: 3}}
	out := SerializePixels(pixels, false, true)
	assert.Equal(t, []byte{3, 0, 0, 2, 0, 0, 1, 0, 0}, out)
}

func TestScheduleLeadDefaultsWithoutBufferGeometry(t *testing.T) {
	assert.Equal(t, DefaultScheduleLead, ScheduleLead(0, 1.0, 30))
	assert.Equal(t, DefaultScheduleLead, ScheduleLead(10, 1.0, 0))
}

func TestScheduleLeadFromBufferGeometry(t *testing.T) {
	lead := ScheduleLead(60, 0.5, 30)
	assert.Equal(t, time.Second, lead)
}
