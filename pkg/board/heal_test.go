package board

import (
	"encoding/json"
	"testing"

	"github.com/matzehuels/gridboard/pkg/grid"
	"github.com/matzehuels/gridboard/pkg/observability"
	"github.com/matzehuels/gridboard/pkg/widget"
)

type recordingHooks struct {
	observability.NoopBoardHooks
	healed  int
	imports int
	drops   []bool
}

func (h *recordingHooks) OnHeal(_ string, n int)              { h.healed += n }
func (h *recordingHooks) OnImport(string, int, int)           { h.imports++ }
func (h *recordingHooks) OnDrop(_, _, _ string, applied bool) { h.drops = append(h.drops, applied) }

func loadPlaceholder(t *testing.T, b *Board, typeID string) grid.WidgetID {
	t.Helper()
	err := b.Load(b.Config(), []grid.Widget{{
		ID:             "p",
		Row:            4,
		Col:            6,
		RowSpan:        2,
		ColSpan:        3,
		IntendedTypeID: typeID,
		Factory:        b.Provider().ResolveFactory(typeID),
		State:          json.RawMessage(`{"city":"Oslo"}`),
	}})
	if err != nil {
		t.Fatal(err)
	}
	return "p"
}

func TestHealSwapsFactoryInPlace(t *testing.T) {
	hooks := &recordingHooks{}
	reg := widget.NewRegistry()
	b, err := New(Config{DashboardID: "heal"}, reg, WithHooks(hooks))
	if err != nil {
		t.Fatal(err)
	}
	defer b.Close()

	id := loadPlaceholder(t, b, "future-widget")
	if !b.Healing() || reg.Subscribers() != 1 {
		t.Fatalf("healing=%v subscribers=%d, want listening", b.Healing(), reg.Subscribers())
	}
	if got := len(b.Placeholders()); got != 1 {
		t.Fatalf("placeholders = %d, want 1", got)
	}

	// Registering an unrelated type changes nothing.
	if err := reg.Register(widget.Definition{ID: "clock"}); err != nil {
		t.Fatal(err)
	}
	if w, _ := b.Widget(id); !w.IsPlaceholder() {
		t.Fatal("healed by an unrelated type")
	}

	if err := reg.Register(widget.Definition{ID: "future-widget"}); err != nil {
		t.Fatal(err)
	}
	w, _ := b.Widget(id)
	if w.IsPlaceholder() || w.TypeID() != "future-widget" {
		t.Fatalf("widget not healed: %+v", w)
	}
	if w.Origin != grid.MustEncode(4, 6) || w.RowSpan != 2 || w.ColSpan != 3 || string(w.State) != `{"city":"Oslo"}` {
		t.Errorf("healing changed placement or state: %+v", w)
	}
	if b.Healing() || reg.Subscribers() != 0 {
		t.Errorf("still listening after heal: subscribers=%d", reg.Subscribers())
	}
	if hooks.healed != 1 || hooks.imports != 1 {
		t.Errorf("hooks healed=%d imports=%d", hooks.healed, hooks.imports)
	}
}

func TestHealWithoutPlaceholdersIsNoop(t *testing.T) {
	b, reg := newBoard(t, "note")
	addWidget(b, "a", 1, 1, 1, 1)
	before := b.Snapshot()

	if b.Healing() || reg.Subscribers() != 0 {
		t.Fatal("board without placeholders should not listen")
	}
	if n := b.Heal(); n != 0 {
		t.Errorf("Heal() = %d, want 0", n)
	}
	if b.Snapshot().Version() != before.Version() {
		t.Error("no-op heal published a new snapshot")
	}
	w1, _ := before.Get("a")
	w2, _ := b.Widget("a")
	if w1.ID != w2.ID || w1.Factory != w2.Factory {
		t.Error("no-op heal changed widget identity")
	}
}

func TestRemovingLastPlaceholderStopsListening(t *testing.T) {
	b, reg := newBoard(t)
	id := loadPlaceholder(t, b, "later")
	if reg.Subscribers() != 1 {
		t.Fatalf("subscribers = %d, want 1", reg.Subscribers())
	}
	b.Remove(id)
	if reg.Subscribers() != 0 {
		t.Errorf("subscribers after removal = %d, want 0", reg.Subscribers())
	}
}

func TestHealAfterTypeAlreadyRegistered(t *testing.T) {
	b, reg := newBoard(t)
	id := loadPlaceholder(t, b, "gauge")

	// Bypass the listener: register without the board listening.
	b.Close()
	if err := reg.Register(widget.Definition{ID: "gauge"}); err != nil {
		t.Fatal(err)
	}
	if w, _ := b.Widget(id); !w.IsPlaceholder() {
		t.Fatal("closed board should not heal on its own")
	}
	if n := b.Heal(); n != 1 {
		t.Errorf("Heal() = %d, want 1", n)
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	b, reg := newBoard(t)
	loadPlaceholder(t, b, "later")
	b.Close()
	b.Close()
	if reg.Subscribers() != 0 {
		t.Errorf("subscribers = %d", reg.Subscribers())
	}
}
