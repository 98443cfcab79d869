package document

import (
	"encoding/json"
	"slices"

	"github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/grid"
)

// Supported document versions.
const (
	Version       = 2
	LegacyVersion = 1
)

// Document is the serialized form of a board.
type Document struct {
	Version      int                        `json:"version"`
	DashboardID  string                     `json:"dashboardId"`
	Rows         int                        `json:"rows"`
	Columns      int                        `json:"columns"`
	GutterSize   int                        `json:"gutterSize"`
	Cells        []Cell                     `json:"cells"`
	SharedStates map[string]json.RawMessage `json:"sharedStates,omitempty"`
}

// Cell is one serialized widget.
type Cell struct {
	Row          int             `json:"row"`
	Col          int             `json:"col"`
	RowSpan      int             `json:"rowSpan"`
	ColSpan      int             `json:"colSpan"`
	Flat         bool            `json:"flat"`
	WidgetTypeID string          `json:"widgetTypeId"`
	WidgetState  json.RawMessage `json:"widgetState,omitempty"`
}

// New returns an empty document of the current version.
func New(dashboardID string, rows, columns, gutter int) *Document {
	return &Document{
		Version:     Version,
		DashboardID: dashboardID,
		Rows:        rows,
		Columns:     columns,
		GutterSize:  gutter,
		Cells:       []Cell{},
	}
}

// Origin returns the cell's origin address.
func (c Cell) Origin() (grid.Address, error) { return grid.Encode(c.Row, c.Col) }

// Validate checks the document shape. Zero spans count as 1; overlaps and
// out-of-bounds cells are allowed here and reported by board validation.
func (d *Document) Validate() error {
	if d.Version > Version || d.Version < 0 {
		return errors.New(errors.ErrCodeInvalidDocument, "unsupported version %d", d.Version)
	}
	if d.DashboardID != "" {
		if err := errors.ValidateDashboardID(d.DashboardID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidDocument, err, "dashboardId")
		}
	}
	if d.Rows < 1 {
		return errors.New(errors.ErrCodeInvalidDocument, "rows must be >= 1, got %d", d.Rows)
	}
	if d.Columns < 1 || d.Columns >= grid.Stride {
		return errors.New(errors.ErrCodeInvalidDocument, "columns must be in [1, %d), got %d", grid.Stride, d.Columns)
	}
	if d.GutterSize < 0 {
		return errors.New(errors.ErrCodeInvalidDocument, "gutterSize must be >= 0, got %d", d.GutterSize)
	}
	for i, c := range d.Cells {
		if _, err := c.Origin(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidDocument, err, "cell %d", i)
		}
		if c.RowSpan < 0 || c.ColSpan < 0 {
			return errors.New(errors.ErrCodeInvalidDocument, "cell %d: negative span %dx%d", i, c.RowSpan, c.ColSpan)
		}
		if c.WidgetTypeID == "" {
			return errors.New(errors.ErrCodeInvalidDocument, "cell %d: widgetTypeId is required", i)
		}
		if len(c.WidgetState) > 0 && !json.Valid(c.WidgetState) {
			return errors.New(errors.ErrCodeInvalidDocument, "cell %d: widgetState is not valid JSON", i)
		}
	}
	return nil
}

// TypeIDs returns the distinct widget type ids in the document, sorted.
func (d *Document) TypeIDs() []string {
	ids := make([]string, 0, len(d.Cells))
	for _, c := range d.Cells {
		ids = append(ids, c.WidgetTypeID)
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}
