// Package document serializes boards to a plain JSON document and back.
//
// # Overview
//
// A [Document] is the persisted form of a board: its grid size and one
// [Cell] per widget. Instance ids are not persisted; cells are identified by
// their origin. Widget state is carried as opaque JSON.
//
// # JSON Format
//
//	{
//	  "version": 2,
//	  "dashboardId": "home",
//	  "rows": 16,
//	  "columns": 16,
//	  "gutterSize": 8,
//	  "cells": [
//	    {"row": 1, "col": 1, "rowSpan": 2, "colSpan": 3, "flat": false,
//	     "widgetTypeId": "clock", "widgetState": {"tz": "UTC"}}
//	  ],
//	  "sharedStates": {"weather": {"apiKey": "..."}}
//	}
//
// Unknown fields are ignored. Version 1 documents, which addressed cells by
// an encoded "cellId" and allowed spans to be omitted, are upgraded on read.
//
// # Export
//
// [Export] writes every widget of a board. Widgets loaded with an
// unregistered type keep their original type id, so a round trip never
// rewrites a type the reader did not know. Widgets that hold the placeholder
// type with no known intent are skipped. Live state supplied by the caller
// wins over the state stored on the board.
//
// # Import
//
// [Import] validates the whole document before touching the board and then
// replaces the board's contents in one step. Cells whose type cannot be
// resolved become placeholders that heal once the type is registered.
//
//	doc, err := document.ImportJSON("home.json")
//	if err != nil {
//	    return err
//	}
//	if err := document.Import(b, doc, document.Options{}); err != nil {
//	    return err
//	}
package document
