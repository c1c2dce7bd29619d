package pixel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetGetPixelClipsOutOfBounds(t *testing.T) {
	buf := NewBuffer(4, 4)
	buf.SetPixel(-1, 0, CRGB{R: 9})
	buf.SetPixel(0, -1, CRGB{R: 9})
	buf.SetPixel(4, 0, CRGB{R: 9})
	buf.SetPixel(0, 4, CRGB{R: 9})

	assert.Equal(t, Black, buf.GetPixel(-1, 0))
	assert.Equal(t, Black, buf.GetPixel(4, 4))

	for _, px := range buf.Pixels() {
		assert.Equal(t, Black, px)
	}
}

func TestClearAndFillRectangle(t *testing.T) {
	buf := NewBuffer(5, 5)
	red := CRGB{R: 255}
	buf.Clear(red)
	for _, px := range buf.Pixels() {
		require.Equal(t, red, px)
	}

	green := CRGB{G: 255}
	buf.FillRectangle(1, 1, 2, 2, green)
	assert.Equal(t, green, buf.GetPixel(1, 1))
	assert.Equal(t, green, buf.GetPixel(2, 2))
	assert.Equal(t, red, buf.GetPixel(0, 0))
	assert.Equal(t, red, buf.GetPixel(3, 3))
}

func TestDrawLineHorizontalVerticalDiagonal(t *testing.T) {
	buf := NewBuffer(5, 5)
	c := CRGB{B: 255}

	buf.DrawLine(0, 0, 4, 0, c)
	for x := 0; x < 5; x++ {
		assert.Equal(t, c, buf.GetPixel(x, 0))
	}

	buf2 := NewBuffer(5, 5)
	buf2.DrawLine(0, 0, 0, 4, c)
	for y := 0; y < 5; y++ {
		assert.Equal(t, c, buf2.GetPixel(0, y))
	}

	buf3 := NewBuffer(5, 5)
	buf3.DrawLine(0, 0, 4, 4, c)
	for i := 0; i < 5; i++ {
		assert.Equal(t, c, buf3.GetPixel(i, i))
	}
}

func TestDrawLineSinglePoint(t *testing.T) {
	buf := NewBuffer(3, 3)
	c := CRGB{R: 1, G: 2, B: 3}
	buf.DrawLine(1, 1, 1, 1, c)
	assert.Equal(t, c, buf.GetPixel(1, 1))
}

func TestDrawRectangleBorderOnly(t *testing.T) {
	buf := NewBuffer(5, 5)
	c := CRGB{R: 255}
	buf.DrawRectangle(1, 1, 3, 3, c)

	assert.Equal(t, c, buf.GetPixel(1, 1))
	assert.Equal(t, c, buf.GetPixel(3, 1))
	assert.Equal(t, c, buf.GetPixel(1, 3))
	assert.Equal(t, c, buf.GetPixel(3, 3))
	assert.Equal(t, Black, buf.GetPixel(2, 2))
}

func TestFillCircleProducesSolidDisk(t *testing.T) {
	buf := NewBuffer(21, 21)
	c := CRGB{G: 255}
	buf.FillCircle(10, 10, 5, c)

	assert.Equal(t, c, buf.GetPixel(10, 10))
	assert.Equal(t, c, buf.GetPixel(10, 5))
	assert.Equal(t, Black, buf.GetPixel(0, 0))
}

func TestFadeFrameByReducesChannels(t *testing.T) {
	buf := NewBuffer(2, 2)
	buf.Clear(CRGB{R: 255, G: 255, B: 255})
	buf.FadeFrameBy(255)
	for _, px := range buf.Pixels() {
		assert.Equal(t, Black, px)
	}
}

func TestSetPixelsFCoversFullAndFractionalRun(t *testing.T) {
	buf := NewBuffer(10, 1)
	c := CRGB{R: 255}
	project := func(i int) (int, int) { return i, 0 }

	buf.SetPixelsF(2.5, 3, c, false, project)

	assert.Equal(t, Black, buf.GetPixel(1, 0))
	assert.Equal(t, c, buf.GetPixel(3, 0))
	assert.NotEqual(t, Black, buf.GetPixel(2, 0))
	assert.NotEqual(t, c, buf.GetPixel(2, 0))
}

func TestSetPixelsFMergeSaturates(t *testing.T) {
	buf := NewBuffer(5, 1)
	project := func(i int) (int, int) { return i, 0 }

	buf.SetPixelsF(1, 1, CRGB{R: 200}, true, project)
	buf.SetPixelsF(1, 1, CRGB{R: 100}, true, project)

	assert.Equal(t, uint8(255), buf.GetPixel(1, 0).R)
}

func TestSetPixelsFZeroLengthIsNoop(t *testing.T) {
	buf := NewBuffer(3, 1)
	project := func(i int) (int, int) { return i, 0 }
	buf.SetPixelsF(0, 0, CRGB{R: 255}, false, project)
	for _, px := range buf.Pixels() {
		assert.Equal(t, Black, px)
	}
}
