package controller

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledserver/internal/canvas"
)

func newTestCanvas(t *testing.T, id uint32) *canvas.Canvas {
	t.Helper()
	c, err := canvas.New(id, "main", 4, 4, 30)
	require.NoError(t, err)
	return c
}

func TestAddCanvasRejectsDuplicateID(t *testing.T) {
	ctl := New()
	require.NoError(t, ctl.AddCanvas(newTestCanvas(t, 1)))

	err := ctl.AddCanvas(newTestCanvas(t, 1))
	require.Error(t, err)
	var invalid *InvalidArgument
	assert.ErrorAs(t, err, &invalid)
}

func TestRemoveCanvasUnknownIsNotFound(t *testing.T) {
	ctl := New()
	err := ctl.RemoveCanvas(99)
	require.Error(t, err)
	var notFound *NotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestRemoveCanvasStopsSchedulerAndSockets(t *testing.T) {
	ctl := New()
	c := newTestCanvas(t, 1)
	require.NoError(t, ctl.AddCanvas(c))

	f := canvas.NewFeature(canvas.FeatureConfig{ID: 1, Host: "10.1.1.1", Width: 2, Height: 2})
	require.NoError(t, ctl.AddFeature(1, f))

	c.Scheduler().Start()
	require.NoError(t, ctl.RemoveCanvas(1))

	_, err := ctl.Canvas(1)
	assert.Error(t, err)

	_, ok := ctl.SocketByHost("10.1.1.1")
	assert.False(t, ok, "feature's socket should be unregistered on canvas removal")
}

func TestAddFeatureRegistersSocket(t *testing.T) {
	ctl := New()
	c := newTestCanvas(t, 1)
	require.NoError(t, ctl.AddCanvas(c))

	f := canvas.NewFeature(canvas.FeatureConfig{ID: 1, Host: "10.2.2.2", Width: 2, Height: 2})
	require.NoError(t, ctl.AddFeature(1, f))

	ch, ok := ctl.SocketByHost("10.2.2.2")
	require.True(t, ok)
	assert.Equal(t, "10.2.2.2", ch.Host())
}

func TestAddFeatureUnknownCanvasIsNotFound(t *testing.T) {
	ctl := New()
	f := canvas.NewFeature(canvas.FeatureConfig{ID: 1, Host: "10.3.3.3", Width: 2, Height: 2})
	err := ctl.AddFeature(42, f)
	var notFound *NotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestAddFeatureOutOfBoundsIsInvalidArgument(t *testing.T) {
	ctl := New()
	require.NoError(t, ctl.AddCanvas(newTestCanvas(t, 1)))

	f := canvas.NewFeature(canvas.FeatureConfig{ID: 1, Host: "10.4.4.4", Width: 10, Height: 10})
	err := ctl.AddFeature(1, f)
	var invalid *InvalidArgument
	assert.ErrorAs(t, err, &invalid)
}

func TestRemoveFeatureStopsSocket(t *testing.T) {
	ctl := New()
	require.NoError(t, ctl.AddCanvas(newTestCanvas(t, 1)))

	f := canvas.NewFeature(canvas.FeatureConfig{ID: 1, Host: "10.5.5.5", Width: 2, Height: 2})
	require.NoError(t, ctl.AddFeature(1, f))

	require.NoError(t, ctl.RemoveFeature(1, 1))

	_, ok := ctl.SocketByHost("10.5.5.5")
	assert.False(t, ok)
}

func TestRemoveFeatureUnknownIsNotFound(t *testing.T) {
	ctl := New()
	require.NoError(t, ctl.AddCanvas(newTestCanvas(t, 1)))

	err := ctl.RemoveFeature(1, 99)
	var notFound *NotFound
	assert.ErrorAs(t, err, &notFound)
}

func TestConnectAndDisconnectFanOut(t *testing.T) {
	ctl := New()
	require.NoError(t, ctl.AddCanvas(newTestCanvas(t, 1)))

	require.NoError(t, ctl.AddFeature(1, canvas.NewFeature(canvas.FeatureConfig{ID: 1, Host: "10.6.6.1", Width: 2, Height: 2})))
	require.NoError(t, ctl.AddFeature(1, canvas.NewFeature(canvas.FeatureConfig{ID: 2, Host: "10.6.6.2", Width: 2, Height: 2})))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, ctl.Connect(ctx))
	for _, ch := range ctl.Sockets() {
		assert.NotEqual(t, "", ch.State().String())
	}

	require.NoError(t, ctl.Disconnect(ctx))
}

func TestStartAndStopFanOut(t *testing.T) {
	ctl := New()
	require.NoError(t, ctl.AddCanvas(newTestCanvas(t, 1)))
	require.NoError(t, ctl.AddCanvas(newTestCanvas(t, 2)))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, ctl.Start(ctx))
	for _, c := range ctl.Canvases() {
		assert.True(t, c.Scheduler().Running())
	}

	require.NoError(t, ctl.Stop(ctx))
	for _, c := range ctl.Canvases() {
		assert.False(t, c.Scheduler().Running())
	}
}
