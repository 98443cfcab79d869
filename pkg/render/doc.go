// Package render draws board documents as images.
//
// # Overview
//
// A board is drawn as a single Graphviz node whose label is an HTML table.
// Every widget becomes one table cell with ROWSPAN and COLSPAN equal to its
// spans, and every free grid cell becomes an empty cell, so the table has
// exactly the geometry of the board.
//
//	dot := render.ToDOT(doc, render.Options{Detailed: true})
//	svg, err := render.RenderSVG(ctx, dot)
//	png, err := render.RenderPNG(ctx, dot)
//
// # Invalid layouts
//
// Documents may describe layouts that interactive editing would never
// produce. Widgets are claimed in origin order; a widget that overlaps an
// earlier one is left out of the table and listed in the caption. Widgets
// that extend past the grid are clipped to it.
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and
// PNG rendering. No external Graphviz installation is needed.
package render
