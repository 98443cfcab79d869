package render

import (
	"bytes"
	"fmt"
	"hash/fnv"
	"html"
	"sort"
	"strings"

	"github.com/matzehuels/gridboard/pkg/document"
	"github.com/matzehuels/gridboard/pkg/grid"
)

// Options configures board rendering.
type Options struct {
	// CellSize is the side of one grid cell in points. Defaults to 40.
	CellSize int

	// Detailed adds the origin and spans under each widget's type id.
	Detailed bool

	// Unregistered lists type ids to draw as placeholders.
	Unregistered map[string]bool
}

var palette = []string{
	"#AEC6CF", "#FFB347", "#B39EB5", "#77DD77",
	"#FDFD96", "#FF6961", "#CFCFC4", "#84B6F4",
}

// ToDOT converts a document to Graphviz DOT source.
// The result can be rendered with [RenderSVG] or [RenderPNG].
func ToDOT(doc *document.Document, opts Options) string {
	size := opts.CellSize
	if size <= 0 {
		size = 40
	}

	origins, skipped := claim(doc)

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=plain, fontname=\"Helvetica\", fontsize=10];\n")
	buf.WriteString("\n")
	fmt.Fprintf(&buf, "  %q [label=<\n", "board")
	buf.WriteString("    <TABLE BORDER=\"1\" CELLBORDER=\"1\" CELLSPACING=\"2\" CELLPADDING=\"0\">\n")

	covered := map[grid.Address]bool{}
	for r := 1; r <= doc.Rows; r++ {
		// Rows fully covered by spans still need one cell.
		buf.WriteString(`      <TR><TD WIDTH="1" BORDER="0"></TD>`)
		for c := 1; c <= doc.Columns; c++ {
			a := grid.MustEncode(r, c)
			if covered[a] {
				continue
			}
			cell, ok := origins[a]
			if !ok {
				fmt.Fprintf(&buf, `<TD WIDTH="%d" HEIGHT="%d" FIXEDSIZE="TRUE"> </TD>`, size, size)
				continue
			}
			rs := min(max(1, cell.RowSpan), doc.Rows-r+1)
			cs := min(max(1, cell.ColSpan), doc.Columns-c+1)
			for _, fa := range grid.Footprint(r, c, rs, cs) {
				covered[fa] = true
			}
			buf.WriteString(widgetTD(cell, rs, cs, size, opts))
		}
		buf.WriteString("</TR>\n")
	}

	buf.WriteString("    </TABLE>\n")
	buf.WriteString("  >];\n")

	label := doc.DashboardID
	if len(skipped) > 0 {
		label += `\n` + "overlapping: " + strings.Join(skipped, ", ")
	}
	if label != "" {
		fmt.Fprintf(&buf, "  label=\"%s\";\n  labelloc=t;\n", strings.ReplaceAll(label, `"`, `\"`))
	}
	buf.WriteString("}\n")
	return buf.String()
}

// claim assigns cells to widgets in origin order. Widgets that start outside
// the grid or overlap an earlier widget are returned as skipped.
func claim(doc *document.Document) (map[grid.Address]document.Cell, []string) {
	type entry struct {
		w    grid.Widget
		cell document.Cell
	}
	entries := make([]entry, 0, len(doc.Cells))
	for _, c := range doc.Cells {
		a, err := c.Origin()
		if err != nil {
			continue
		}
		entries = append(entries, entry{
			w: grid.Widget{
				Origin:  a,
				Row:     c.Row,
				Col:     c.Col,
				RowSpan: max(1, c.RowSpan),
				ColSpan: max(1, c.ColSpan),
			},
			cell: c,
		})
	}
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].w.Origin < entries[j].w.Origin })

	origins := map[grid.Address]document.Cell{}
	var taken []grid.Widget
	var skipped []string
	for _, e := range entries {
		w := e.w
		if w.Row > doc.Rows || w.Col > doc.Columns || overlapsAny(taken, w) {
			skipped = append(skipped, fmt.Sprintf("%s@%s", e.cell.WidgetTypeID, w.Origin))
			continue
		}
		taken = append(taken, w)
		origins[w.Origin] = e.cell
	}
	return origins, skipped
}

func overlapsAny(ws []grid.Widget, w grid.Widget) bool {
	for _, t := range ws {
		if t.Overlaps(w.Row, w.Col, w.RowSpan, w.ColSpan) {
			return true
		}
	}
	return false
}

func widgetTD(c document.Cell, rowSpan, colSpan, size int, opts Options) string {
	label := html.EscapeString(c.WidgetTypeID)
	if opts.Detailed {
		label += fmt.Sprintf(`<BR/><FONT POINT-SIZE="8">r%dc%d %dx%d</FONT>`, c.Row, c.Col, c.RowSpan, c.ColSpan)
	}
	color := colorFor(c.WidgetTypeID)
	style := ""
	if opts.Unregistered[c.WidgetTypeID] {
		color = "#EEEEEE"
		style = ` STYLE="DASHED"`
		label = "<I>" + label + "</I>"
	}
	if c.Flat {
		style = ` BORDER="0"`
	}
	return fmt.Sprintf(`<TD ROWSPAN="%d" COLSPAN="%d" BGCOLOR="%s"%s WIDTH="%d" HEIGHT="%d">%s</TD>`,
		rowSpan, colSpan, color, style, colSpan*size, rowSpan*size, label)
}

func colorFor(typeID string) string {
	h := fnv.New32a()
	h.Write([]byte(typeID))
	return palette[h.Sum32()%uint32(len(palette))]
}
