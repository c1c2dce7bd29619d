// Package config loads and saves the server's persisted JSON
// configuration: the canvases, their attached features, and the effects
// registered on each (spec.md §6 persisted document shape).
package config

import "encoding/json"

// Document is the on-disk configuration shape.
type Document struct {
	Canvases []CanvasDoc `json:"canvases"`
}

// CanvasDoc describes one canvas and everything attached to it.
type CanvasDoc struct {
	ID       uint32       `json:"id"`
	Name     string       `json:"name"`
	Width    int          `json:"width"`
	Height   int          `json:"height"`
	FPS      uint16       `json:"fps"`
	Features []FeatureDoc `json:"features"`
	Effects  []EffectDoc  `json:"effects"`
}

// FeatureDoc describes one feature's client endpoint and wire layout.
type FeatureDoc struct {
	Type              string `json:"type"`
	HostName          string `json:"hostName"`
	FriendlyName      string `json:"friendlyName"`
	Port              uint16 `json:"port"`
	Width             int    `json:"width"`
	Height            int    `json:"height"`
	OffsetX           int    `json:"offsetX"`
	OffsetY           int    `json:"offsetY"`
	Reversed          bool   `json:"reversed"`
	Channel           uint8  `json:"channel"`
	RedGreenSwap      bool   `json:"redGreenSwap"`
	ClientBufferCount int    `json:"clientBufferCount"`
}

// EffectDoc names an effect's registry tag, display name, and its
// type-specific parameters.
type EffectDoc struct {
	Type   string          `json:"type"`
	Name   string          `json:"name"`
	Params json.RawMessage `json:"params,omitempty"`
}
