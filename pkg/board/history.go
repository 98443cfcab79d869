package board

type history struct {
	depth int
	undo  []Snapshot
	redo  []Snapshot
}

func (h *history) push(s Snapshot) {
	if h.depth == 0 {
		return
	}
	h.undo = append(h.undo, s)
	if n := len(h.undo) - h.depth; n > 0 {
		h.undo = append(h.undo[:0:0], h.undo[n:]...)
	}
	h.redo = nil
}

func (h *history) reset() {
	h.undo = nil
	h.redo = nil
}

// CanUndo reports whether there is a change to undo.
func (b *Board) CanUndo() bool { return len(b.hist.undo) > 0 }

// CanRedo reports whether there is an undone change to redo.
func (b *Board) CanRedo() bool { return len(b.hist.redo) > 0 }

// Undo restores the snapshot before the last committed change. Interaction
// sessions are ended. It reports whether anything was undone.
func (b *Board) Undo() bool {
	n := len(b.hist.undo)
	if n == 0 {
		return false
	}
	prev := b.hist.undo[n-1]
	b.hist.undo = b.hist.undo[:n-1]
	b.hist.redo = append(b.hist.redo, b.reg.Snapshot())
	b.restore(prev)
	return true
}

// Redo reapplies the last undone change.
func (b *Board) Redo() bool {
	n := len(b.hist.redo)
	if n == 0 {
		return false
	}
	next := b.hist.redo[n-1]
	b.hist.redo = b.hist.redo[:n-1]
	b.hist.undo = append(b.hist.undo, b.reg.Snapshot())
	b.restore(next)
	return true
}

func (b *Board) restore(s Snapshot) {
	b.EndDrag()
	b.resize = nil
	b.reg.Restore(s)
	// A restored snapshot may predate a heal.
	b.Heal()
}
