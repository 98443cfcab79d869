package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// logHooks reports board and store events at debug level.
type logHooks struct {
	logger *log.Logger
}

func (h *logHooks) OnDrop(boardID, kind, target string, applied bool) {
	h.logger.Debug("drop", "board", boardID, "kind", kind, "target", target, "applied", applied)
}

func (h *logHooks) OnResize(boardID, widgetID string, rowSpan, colSpan int) {
	h.logger.Debug("resize", "board", boardID, "widget", widgetID, "rowSpan", rowSpan, "colSpan", colSpan)
}

func (h *logHooks) OnImport(boardID string, cells, placeholders int) {
	h.logger.Debug("import", "board", boardID, "cells", cells, "placeholders", placeholders)
}

func (h *logHooks) OnHeal(boardID string, healed int) {
	h.logger.Debug("heal", "board", boardID, "healed", healed)
}

func (h *logHooks) OnLoad(_ context.Context, backend, id string, d time.Duration, err error) {
	h.storeEvent("load", backend, id, d, err)
}

func (h *logHooks) OnSave(_ context.Context, backend, id string, cells int, d time.Duration, err error) {
	h.storeEvent("save", backend, id, d, err, "cells", cells)
}

func (h *logHooks) OnDelete(_ context.Context, backend, id string, err error) {
	h.storeEvent("delete", backend, id, 0, err)
}

func (h *logHooks) storeEvent(op, backend, id string, d time.Duration, err error, kv ...any) {
	kv = append([]any{"backend", backend, "id", id}, kv...)
	if d > 0 {
		kv = append(kv, "took", d.Round(time.Microsecond))
	}
	if err != nil {
		kv = append(kv, "err", err)
	}
	h.logger.Debug("store "+op, kv...)
}
