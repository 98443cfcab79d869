// Package widget defines the contract between the grid engine and the
// collaborators that know which widget types exist.
//
// # Overview
//
// The engine never decides what a widget is. It only needs to turn a type
// identifier into an opaque [Factory] and to learn when the set of known types
// changes. Those two needs are captured by [Provider]:
//
//	type Provider interface {
//	    ResolveFactory(typeID string) Factory
//	    Subscribe(fn func()) (cancel func())
//	}
//
// ResolveFactory is total: an unknown identifier resolves to [Placeholder]
// rather than failing, so that documents referencing types that are not
// registered yet can still be loaded. The placeholder keeps the widget's
// position and state until the real type appears (see "healing" in the board
// package).
//
// # Registry
//
// [Registry] is the in-memory implementation used by the CLI, the editor and
// the HTTP server. It is safe for concurrent use. Listeners registered with
// Subscribe are called synchronously after every Register or Unregister, on the
// caller's goroutine and outside the registry lock.
//
//	reg := widget.NewRegistry()
//	reg.Register(widget.Definition{ID: "clock", Name: "Clock"})
//	f := reg.ResolveFactory("clock")   // the clock definition
//	u := reg.ResolveFactory("unknown") // widget.Placeholder
//
// # Shared state
//
// Some widget types share state across all their instances (for example a
// common API key). [SharedStateProvider] lets export collect those bundles and
// import restore them; [SharedStore] is a simple concurrent implementation.
package widget
