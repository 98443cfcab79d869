// Package pkg provides the core libraries for gridboard dashboard layouts.
//
// # Overview
//
// Gridboard places rectangular widgets on a fixed grid of cells, keeps them
// from overlapping, and saves layouts as versioned JSON documents. The pkg
// directory is organized into these areas:
//
//  1. [grid] - Pure placement math (addresses, collision, resize limits)
//  2. [widget] - Widget type registry and shared per-type state
//  3. [board] - Stateful engine (widget registry, drag and resize sessions, undo)
//  4. [document] - JSON document format, import and export
//  5. [store] - Persistence backends (file, memory, Redis, MongoDB, SQLite)
//  6. [render] - Graphviz rendering of documents to SVG and PNG
//  7. [observability] - Hooks for logging and metrics
//
// # Architecture
//
//	widget types ([widget.Registry])
//	         ↓
//	    [board.Board] (drag, drop, resize, heal)
//	         ↓
//	    [document.Export] / [document.Import]
//	         ↓
//	    [store.Store] and [render.ToDOT]
//
// # Quick Start
//
//	types := widget.NewRegistry()
//	types.Register(widget.Definition{ID: "clock", Title: "Clock"})
//
//	b, _ := board.New(board.Config{DashboardID: "ops"}, types)
//	p := grid.PaletteDrag("clock")
//	b.StartDrag(p)
//	b.HandleDrop(p, grid.MustEncode(1, 1))
//
//	doc := document.Export(b, document.Options{})
//	document.ExportJSON(doc, "ops.json")
//
// [grid]: github.com/matzehuels/gridboard/pkg/grid
// [widget]: github.com/matzehuels/gridboard/pkg/widget
// [board]: github.com/matzehuels/gridboard/pkg/board
// [document]: github.com/matzehuels/gridboard/pkg/document
// [store]: github.com/matzehuels/gridboard/pkg/store
// [render]: github.com/matzehuels/gridboard/pkg/render
// [observability]: github.com/matzehuels/gridboard/pkg/observability
package pkg
