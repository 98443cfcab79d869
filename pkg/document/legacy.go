package document

import (
	"encoding/json"

	"github.com/matzehuels/gridboard/pkg/errors"
	"github.com/matzehuels/gridboard/pkg/grid"
)

// wireDocument accepts both the current and the legacy layout.
type wireDocument struct {
	Version      *int                       `json:"version"`
	DashboardID  string                     `json:"dashboardId"`
	Rows         int                        `json:"rows"`
	Columns      int                        `json:"columns"`
	GutterSize   int                        `json:"gutterSize"`
	Cells        []wireCell                 `json:"cells"`
	SharedStates map[string]json.RawMessage `json:"sharedStates"`
}

type wireCell struct {
	CellID       *int            `json:"cellId"`
	Row          *int            `json:"row"`
	Col          *int            `json:"col"`
	RowSpan      *int            `json:"rowSpan"`
	ColSpan      *int            `json:"colSpan"`
	Flat         bool            `json:"flat"`
	WidgetTypeID string          `json:"widgetTypeId"`
	WidgetState  json.RawMessage `json:"widgetState"`
}

// upgrade converts a decoded wire document to the current version. A missing
// version is read as version 1. Version 1 cells may carry an encoded cellId
// instead of row and col, and may omit spans.
func (w *wireDocument) upgrade() (*Document, error) {
	version := LegacyVersion
	if w.Version != nil {
		version = *w.Version
	}
	if version != Version && version != LegacyVersion {
		return nil, errors.New(errors.ErrCodeInvalidDocument, "unsupported version %d", version)
	}

	doc := &Document{
		Version:      Version,
		DashboardID:  w.DashboardID,
		Rows:         w.Rows,
		Columns:      w.Columns,
		GutterSize:   w.GutterSize,
		Cells:        make([]Cell, 0, len(w.Cells)),
		SharedStates: w.SharedStates,
	}
	for i, wc := range w.Cells {
		c := Cell{
			RowSpan:      deref(wc.RowSpan, 1),
			ColSpan:      deref(wc.ColSpan, 1),
			Flat:         wc.Flat,
			WidgetTypeID: wc.WidgetTypeID,
			WidgetState:  wc.WidgetState,
		}
		switch {
		case wc.Row != nil && wc.Col != nil:
			c.Row, c.Col = *wc.Row, *wc.Col
		case version == LegacyVersion && wc.CellID != nil:
			a := grid.Address(*wc.CellID)
			if !a.Valid() {
				return nil, errors.New(errors.ErrCodeInvalidDocument, "cell %d: invalid cellId %d", i, *wc.CellID)
			}
			c.Row, c.Col = grid.Decode(a)
		default:
			return nil, errors.New(errors.ErrCodeInvalidDocument, "cell %d: missing row/col", i)
		}
		doc.Cells = append(doc.Cells, c)
	}
	return doc, nil
}

func deref(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}
