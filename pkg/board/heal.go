package board

import (
	"github.com/matzehuels/gridboard/pkg/grid"
	"github.com/matzehuels/gridboard/pkg/widget"
)

// Heal swaps the placeholder factory of every widget whose intended type now
// resolves. Position, spans and state are untouched. It returns the number of
// widgets healed; with nothing to heal no new snapshot is published.
func (b *Board) Heal() int {
	swaps := map[grid.WidgetID]widget.Factory{}
	for id, w := range b.reg.widgets {
		if !healable(w) {
			continue
		}
		f := b.provider.ResolveFactory(w.IntendedTypeID)
		if widget.IsPlaceholder(f) {
			continue
		}
		swaps[id] = f
	}
	if len(swaps) > 0 {
		b.reg.swapFactories(swaps)
		b.hooks.OnHeal(b.cfg.DashboardID, len(swaps))
	}
	b.syncHealing()
	return len(swaps)
}

// Placeholders returns the widgets still waiting for their type.
func (b *Board) Placeholders() []grid.Widget {
	var ws []grid.Widget
	for _, w := range b.reg.Widgets() {
		if w.IsPlaceholder() {
			ws = append(ws, w)
		}
	}
	return ws
}

// syncHealing subscribes to type changes while a healable widget exists and
// unsubscribes once none is left.
func (b *Board) syncHealing() {
	need := false
	for _, w := range b.reg.widgets {
		if healable(w) {
			need = true
			break
		}
	}
	switch {
	case need && b.cancelHeal == nil:
		b.cancelHeal = b.provider.Subscribe(func() { b.Heal() })
	case !need && b.cancelHeal != nil:
		b.Close()
	}
}

// Healing reports whether the board is listening for type changes.
func (b *Board) Healing() bool { return b.cancelHeal != nil }

func healable(w grid.Widget) bool {
	return w.IsPlaceholder() && w.IntendedTypeID != "" && w.IntendedTypeID != widget.UnknownTypeID
}
