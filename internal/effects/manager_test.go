package effects

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledserver/internal/pixel"
)

func TestManagerStartsEmpty(t *testing.T) {
	m := NewManager()
	assert.Equal(t, "", m.CurrentName())
	assert.Empty(t, m.Effects())
}

func TestAddSelectsFirstEffect(t *testing.T) {
	m := NewManager()
	e, err := newSolidFill("red", nil)
	require.NoError(t, err)
	m.Add(e)
	assert.Equal(t, "red", m.CurrentName())
}

func TestNextPreviousWrapAround(t *testing.T) {
	m := NewManager()
	a, _ := newSolidFill("a", nil)
	b, _ := newSolidFill("b", nil)
	m.Add(a)
	m.Add(b)

	assert.Equal(t, "a", m.CurrentName())
	m.Next()
	assert.Equal(t, "b", m.CurrentName())
	m.Next()
	assert.Equal(t, "a", m.CurrentName())
	m.Previous()
	assert.Equal(t, "b", m.CurrentName())
}

func TestRemoveCurrentClearsSelectionWhenEmpty(t *testing.T) {
	m := NewManager()
	a, _ := newSolidFill("a", nil)
	m.Add(a)

	require.NoError(t, m.Remove(0))
	assert.Equal(t, "", m.CurrentName())
}

func TestStartAndUpdateCurrentDrivesEffect(t *testing.T) {
	m := NewManager()
	e, _ := newSolidFill("white", []byte(`{"r":255,"g":255,"b":255}`))
	m.Add(e)

	buf := pixel.NewBuffer(2, 2)
	require.NoError(t, m.StartCurrent(buf))
	m.UpdateCurrent(buf, 16*time.Millisecond)

	assert.Equal(t, pixel.CRGB{R: 255, G: 255, B: 255}, buf.GetPixel(0, 0))
}

func TestSetCurrentOutOfRange(t *testing.T) {
	m := NewManager()
	buf := pixel.NewBuffer(1, 1)
	assert.Error(t, m.SetCurrent(0, buf))
}
