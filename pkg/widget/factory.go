package widget

import "encoding/json"

// UnknownTypeID is the reserved type identifier of the placeholder factory.
// It is never persisted: export skips widgets whose type would serialize as it.
const UnknownTypeID = "__unknown__"

// Factory is the opaque handle the engine stores on every placed widget.
type Factory interface {
	// TypeID returns the identifier the factory is registered under.
	TypeID() string
	// Name returns a human-readable label.
	Name() string
}

// StateInitializer is implemented by factories that provide an initial state
// for freshly created widgets.
type StateInitializer interface {
	InitialState() json.RawMessage
}

// Provider resolves widget types and signals when the set of types changes.
type Provider interface {
	// ResolveFactory returns the factory for typeID, or Placeholder when the
	// type is not registered. It never returns nil.
	ResolveFactory(typeID string) Factory

	// Subscribe registers fn to be called after the set of registered types
	// changes. The returned function removes the subscription and is safe to
	// call more than once.
	Subscribe(fn func()) (cancel func())
}

// Definition is a static widget type description. It implements [Factory]
// and [StateInitializer].
type Definition struct {
	ID           string          `json:"id" toml:"type"`
	Title        string          `json:"name" toml:"name"`
	Description  string          `json:"description,omitempty" toml:"description"`
	DefaultState json.RawMessage `json:"defaultState,omitempty" toml:"-"`
}

// TypeID returns the definition's type identifier.
func (d Definition) TypeID() string { return d.ID }

// Name returns the definition's title, falling back to its identifier.
func (d Definition) Name() string {
	if d.Title == "" {
		return d.ID
	}
	return d.Title
}

// InitialState returns a copy of the definition's default state.
func (d Definition) InitialState() json.RawMessage {
	if len(d.DefaultState) == 0 {
		return nil
	}
	return append(json.RawMessage(nil), d.DefaultState...)
}

type placeholder struct{}

func (placeholder) TypeID() string { return UnknownTypeID }
func (placeholder) Name() string   { return "Unknown widget" }

// Placeholder stands in for widget types that cannot be resolved.
var Placeholder Factory = placeholder{}

// IsPlaceholder reports whether f is the placeholder factory.
func IsPlaceholder(f Factory) bool {
	return f == nil || f.TypeID() == UnknownTypeID
}

// InitialState returns f's initial state if it implements [StateInitializer].
func InitialState(f Factory) json.RawMessage {
	if si, ok := f.(StateInitializer); ok {
		return si.InitialState()
	}
	return nil
}
