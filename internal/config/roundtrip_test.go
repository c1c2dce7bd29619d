package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ledserver/internal/canvas"
	"ledserver/internal/controller"
	"ledserver/internal/effects"
)

func newFixtureController(t *testing.T) *controller.Controller {
	t.Helper()
	ctl := controller.New()

	c, err := canvas.New(1, "studio", 4, 4, 30)
	require.NoError(t, err)
	require.NoError(t, ctl.AddCanvas(c))

	f := canvas.NewFeature(canvas.FeatureConfig{ID: 1, Host: "10.9.9.9", Width: 4, Height: 4})
	require.NoError(t, ctl.AddFeature(1, f))

	fill, err := effects.Build("solidfill", "white", nil)
	require.NoError(t, err)
	c.Effects().Add(fill)

	return ctl
}

func TestSaveThenLoadRoundTripsCanvasesFeaturesAndEffectTypes(t *testing.T) {
	ctl := newFixtureController(t)

	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, Save(path, ctl))

	loaded, errs := Load(path)
	require.Empty(t, errs)

	canvases := loaded.Canvases()
	require.Len(t, canvases, 1)
	c := canvases[0]
	assert.Equal(t, "studio", c.Name())
	assert.Equal(t, uint16(30), c.FPS())

	features := c.Features()
	require.Len(t, features, 1)
	assert.Equal(t, "strip", features[0].Type())
	assert.Equal(t, "10.9.9.9", features[0].Host())

	effs := c.Effects().Effects()
	require.Len(t, effs, 1)
	assert.Equal(t, "solidfill", effs[0].Type())
}

func TestLoadSkipsUnknownEffectTypeButKeepsCanvas(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	doc := `{
		"canvases": [
			{
				"id": 1, "name": "studio", "width": 4, "height": 4, "fps": 30,
				"features": [],
				"effects": [{"type": "not-a-real-effect", "name": "x"}]
			}
		]
	}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	ctl, errs := Load(path)
	require.Len(t, errs, 1)

	c, err := ctl.Canvas(1)
	require.NoError(t, err)
	assert.Empty(t, c.Effects().Effects())
}

func TestLoadBadJSONReturnsDocumentError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	_, errs := Load(path)
	require.Len(t, errs, 1)
	assert.Equal(t, "document", errs[0].Entity)
}

func TestLoadMissingFileReturnsDocumentError(t *testing.T) {
	_, errs := Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Len(t, errs, 1)
	assert.Equal(t, "document", errs[0].Entity)
}
