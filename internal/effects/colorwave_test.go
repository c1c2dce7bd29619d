package effects

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledserver/internal/pixel"
)

func TestColorWaveFillsEveryColumn(t *testing.T) {
	eff, err := newColorWave("wave", nil)
	require.NoError(t, err)

	buf := pixel.NewBuffer(4, 2)
	eff.Start(buf)

	for x := 0; x < buf.W; x++ {
		c0 := buf.GetPixel(x, 0)
		c1 := buf.GetPixel(x, 1)
		assert.Equal(t, c0, c1, "both rows of a column share the same hue")
	}
}

func TestColorWaveAdvancesPhase(t *testing.T) {
	eff, err := newColorWave("wave", []byte(`{"speedHz":1,"columnDelta":0}`))
	require.NoError(t, err)

	buf := pixel.NewBuffer(1, 1)
	eff.Start(buf)
	before := buf.GetPixel(0, 0)

	eff.Update(buf, 250*time.Millisecond)
	after := buf.GetPixel(0, 0)

	assert.NotEqual(t, before, after)
}
