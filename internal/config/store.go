package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"ledserver/internal/controller"
)

// Save serializes ctl's live canvases, features, and effects back to the
// document shape and writes it to path via a temp-file-then-rename, the
// same atomic-write idiom the rest of this codebase uses for on-disk
// state.
func Save(path string, ctl *controller.Controller) error {
	doc := Document{}
	for _, c := range ctl.Canvases() {
		cd := CanvasDoc{
			ID:     c.ID(),
			Name:   c.Name(),
			Width:  c.Width(),
			Height: c.Height(),
			FPS:    c.FPS(),
		}

		for _, f := range c.Features() {
			cd.Features = append(cd.Features, FeatureDoc{
				Type:              f.Type(),
				HostName:          f.Host(),
				FriendlyName:      f.FriendlyName(),
				Port:              f.Port(),
				Width:             f.Width(),
				Height:            f.Height(),
				OffsetX:           f.OffsetX(),
				OffsetY:           f.OffsetY(),
				Reversed:          f.Reversed(),
				Channel:           f.Channel(),
				RedGreenSwap:      f.RedGreenSwap(),
				ClientBufferCount: f.FramesPerBuffer(),
			})
		}

		for _, e := range c.Effects().Effects() {
			cd.Effects = append(cd.Effects, EffectDoc{Type: e.Type(), Name: e.Name()})
		}

		doc.Canvases = append(doc.Canvases, cd)
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("config: marshal document: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("config: create config directory: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("config: write temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("config: rename temp file: %w", err)
	}
	return nil
}
