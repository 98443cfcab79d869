// Package catalog holds the widget types gridboard knows out of the box and
// merges them with types declared in configuration.
package catalog

import (
	"encoding/json"

	"github.com/matzehuels/gridboard/internal/config"
	"github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/widget"
)

// Builtins returns the built-in widget definitions.
func Builtins() []widget.Definition {
	return []widget.Definition{
		{
			ID:           "clock",
			Title:        "Clock",
			Description:  "Current time in a configurable zone",
			DefaultState: json.RawMessage(`{"timezone":"UTC","format":"15:04"}`),
		},
		{
			ID:           "note",
			Title:        "Note",
			Description:  "Free-form text",
			DefaultState: json.RawMessage(`{"text":""}`),
		},
		{
			ID:           "weather",
			Title:        "Weather",
			Description:  "Conditions for a location",
			DefaultState: json.RawMessage(`{"location":"","units":"metric"}`),
		},
		{
			ID:           "chart",
			Title:        "Chart",
			Description:  "Time series plot",
			DefaultState: json.RawMessage(`{"kind":"line","series":[]}`),
		},
		{
			ID:           "counter",
			Title:        "Counter",
			Description:  "A number that goes up and down",
			DefaultState: json.RawMessage(`{"value":0}`),
		},
	}
}

// FromConfig converts configured widget declarations to definitions.
func FromConfig(ws []config.WidgetConfig) ([]widget.Definition, error) {
	defs := make([]widget.Definition, 0, len(ws))
	for _, w := range ws {
		d := widget.Definition{ID: w.Type, Title: w.Name, Description: w.Description}
		if w.State != "" {
			if !json.Valid([]byte(w.State)) {
				return nil, errors.New(errors.ErrCodeInvalidConfig, "widget %q: state is not valid JSON", w.Type)
			}
			d.DefaultState = json.RawMessage(w.State)
		}
		defs = append(defs, d)
	}
	return defs, nil
}

// Register adds defs to reg.
func Register(reg *widget.Registry, defs []widget.Definition) error {
	return reg.Register(defs...)
}

// New builds a registry holding the built-ins overlaid with the configured
// widgets, minus the types listed in without.
func New(ws []config.WidgetConfig, without []string) (*widget.Registry, error) {
	extra, err := FromConfig(ws)
	if err != nil {
		return nil, err
	}
	reg := widget.NewRegistry()
	if err := Register(reg, Builtins()); err != nil {
		return nil, err
	}
	if err := Register(reg, extra); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "register configured widgets")
	}
	reg.Unregister(without...)
	return reg, nil
}
