package cli

import (
	"fmt"
	"hash/fnv"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/gridboard/pkg/board"
	"github.com/matzehuels/gridboard/pkg/grid"
)

// stdout receives all command output.
var stdout io.Writer = os.Stdout

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// widgetColors are background colors for widget types.
var widgetColors = []lipgloss.Color{"24", "58", "90", "30", "94", "61", "66", "130"}

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)

	styleCellEmpty       = lipgloss.NewStyle().Foreground(colorDim)
	styleCellPlaceholder = lipgloss.NewStyle().Background(lipgloss.Color("237")).Foreground(colorGray).Italic(true)
	styleCellValid       = lipgloss.NewStyle().Background(colorGreen).Foreground(lipgloss.Color("0"))
	styleCellInvalid     = lipgloss.NewStyle().Background(colorRed).Foreground(lipgloss.Color("0"))
	styleCellPreview     = lipgloss.NewStyle().Background(colorYellow).Foreground(lipgloss.Color("0"))
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(stdout, styleIconSuccess.Render(iconSuccess)+" "+msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(stdout, styleIconError.Render(iconError)+" "+msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(stdout, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(stdout, styleIconInfo.Render(iconInfo)+" "+msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(stdout, "  "+StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(iconArrow)+" "+StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(stdout, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// =============================================================================
// Grid View
// =============================================================================

// cellWidth is the number of terminal columns one grid cell takes.
const cellWidth = 3

// overlay marks cells on top of the board in the grid view.
type overlay struct {
	cursor    *grid.Address
	footprint []grid.Address
	valid     bool
	preview   []grid.Address
}

// widgetStyle returns the style for widgets of typeID.
func widgetStyle(typeID string) lipgloss.Style {
	h := fnv.New32a()
	h.Write([]byte(typeID))
	bg := widgetColors[h.Sum32()%uint32(len(widgetColors))]
	return lipgloss.NewStyle().Background(bg).Foreground(colorWhite)
}

// renderGrid draws the board as rows of fixed-width cells. Origin cells show
// the start of the widget's type id.
func renderGrid(b *board.Board, ov overlay) string {
	widgets := b.Widgets()
	marks := map[grid.Address]lipgloss.Style{}
	fpStyle := styleCellInvalid
	if ov.valid {
		fpStyle = styleCellValid
	}
	for _, a := range ov.footprint {
		marks[a] = fpStyle
	}
	for _, a := range ov.preview {
		marks[a] = styleCellPreview
	}

	var sb strings.Builder
	sb.WriteString("    ")
	for c := 1; c <= b.Columns(); c++ {
		sb.WriteString(StyleDim.Render(fmt.Sprintf("%-*d", cellWidth, c%100)))
	}
	sb.WriteString("\n")

	for r := 1; r <= b.Rows(); r++ {
		sb.WriteString(StyleDim.Render(fmt.Sprintf("%3d ", r)))
		for c := 1; c <= b.Columns(); c++ {
			a := grid.MustEncode(r, c)
			text := " · "
			style := styleCellEmpty
			if w, ok := grid.WidgetCovering(widgets, r, c); ok {
				text = strings.Repeat(" ", cellWidth)
				if w.Origin == a {
					text = fmt.Sprintf("%-*.*s", cellWidth, cellWidth, w.TypeID())
				}
				style = widgetStyle(w.TypeID())
				if w.IsPlaceholder() {
					style = styleCellPlaceholder
				}
			}
			if m, ok := marks[a]; ok {
				style = m
			}
			if ov.cursor != nil && *ov.cursor == a {
				style = style.Reverse(true)
			}
			sb.WriteString(style.Render(text))
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
