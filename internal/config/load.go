package config

import (
	"encoding/json"
	"fmt"
	"os"

	"ledserver/internal/canvas"
	"ledserver/internal/controller"
	"ledserver/internal/effects"
)

// Error reports one entity skipped while loading a Document: bad JSON
// shape, an unknown effect type tag, or a duplicate id. Load skips the
// offending entity and keeps loading the rest of the document.
type Error struct {
	Entity string
	Err    error
}

func (e *Error) Error() string { return fmt.Sprintf("config: %s: %v", e.Entity, e.Err) }
func (e *Error) Unwrap() error { return e.Err }

// Load parses the JSON document at path and builds a Controller from it.
// Entities that fail to construct are skipped rather than aborting the
// whole load; Load returns the partially-built Controller alongside the
// list of skipped entities.
func Load(path string) (*controller.Controller, []*Error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return controller.New(), []*Error{{Entity: "document", Err: err}}
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return controller.New(), []*Error{{Entity: "document", Err: err}}
	}

	return build(doc)
}

func build(doc Document) (*controller.Controller, []*Error) {
	var errs []*Error
	ctl := controller.New()

	for _, cd := range doc.Canvases {
		c, err := canvas.New(cd.ID, cd.Name, cd.Width, cd.Height, cd.FPS)
		if err != nil {
			errs = append(errs, &Error{Entity: fmt.Sprintf("canvas %d", cd.ID), Err: err})
			continue
		}
		if err := ctl.AddCanvas(c); err != nil {
			errs = append(errs, &Error{Entity: fmt.Sprintf("canvas %d", cd.ID), Err: err})
			continue
		}

		for i, fd := range cd.Features {
			f := canvas.NewFeature(canvas.FeatureConfig{
				ID:               uint32(i + 1),
				Type:             fd.Type,
				Host:             fd.HostName,
				FriendlyName:     fd.FriendlyName,
				Port:             fd.Port,
				OffsetX:          fd.OffsetX,
				OffsetY:          fd.OffsetY,
				Width:            fd.Width,
				Height:           fd.Height,
				Channel:          fd.Channel,
				Reversed:         fd.Reversed,
				RedGreenSwap:     fd.RedGreenSwap,
				FramesPerBuffer:  fd.ClientBufferCount,
				PercentBufferUse: 1.0,
			})
			if err := ctl.AddFeature(c.ID(), f); err != nil {
				errs = append(errs, &Error{
					Entity: fmt.Sprintf("canvas %d feature %s", cd.ID, fd.HostName),
					Err:    err,
				})
			}
		}

		for _, ed := range cd.Effects {
			eff, err := effects.Build(ed.Type, ed.Name, ed.Params)
			if err != nil {
				errs = append(errs, &Error{
					Entity: fmt.Sprintf("canvas %d effect %s", cd.ID, ed.Name),
					Err:    err,
				})
				continue
			}
			c.Effects().Add(eff)
		}
	}

	return ctl, errs
}
