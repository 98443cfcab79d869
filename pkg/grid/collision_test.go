package grid

import "testing"

func ptr[T any](v T) *T { return &v }

func TestEvaluateNoPayloadOrTarget(t *testing.T) {
	widgets := []Widget{place("a", 1, 1, 1, 1)}
	p := PaletteDrag("clock")

	if v := Evaluate(nil, ptr(MustEncode(1, 1)), widgets, 16, 16); !v.Valid() || v.Invalid != nil {
		t.Errorf("nil payload verdict = %+v, want zero", v)
	}
	if v := Evaluate(&p, nil, widgets, 16, 16); !v.Valid() || v.Invalid != nil {
		t.Errorf("nil target verdict = %+v, want zero", v)
	}
	if HighlightedZones(nil, nil) != nil {
		t.Error("HighlightedZones without drag should be empty")
	}
}

func TestEvaluatePaletteDrag(t *testing.T) {
	widgets := []Widget{place("a", 3, 3, 2, 2)}
	p := PaletteDrag("note")

	tests := []struct {
		name          string
		row, col      int
		wantCollision bool
		wantOOB       bool
	}{
		{"free cell", 1, 1, false, false},
		{"inside widget", 4, 4, true, false},
		{"corner cell", 16, 16, false, false},
		{"beyond edge", 17, 1, false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Evaluate(&p, ptr(MustEncode(tt.row, tt.col)), widgets, 16, 16)
			if v.HasCollision != tt.wantCollision || v.OutOfBounds != tt.wantOOB {
				t.Errorf("verdict = %+v, want collision=%v oob=%v", v, tt.wantCollision, tt.wantOOB)
			}
			if !v.Valid() && len(v.Invalid) != 1 {
				t.Errorf("invalid footprint len = %d, want 1", len(v.Invalid))
			}
		})
	}
}

// Scenario 1: a 3×3 widget dragged one column right only overlaps itself.
func TestEvaluateSelfOverlapIsValid(t *testing.T) {
	w := place("big", 5, 5, 3, 3)
	widgets := []Widget{w}
	p := CellDrag(w)

	v := Evaluate(&p, ptr(MustEncode(5, 6)), widgets, 16, 16)
	if !v.Valid() {
		t.Fatalf("partial self overlap reported invalid: %+v", v)
	}
	if len(v.Invalid) != 0 {
		t.Errorf("valid verdict should have no invalid cells, got %d", len(v.Invalid))
	}
}

func TestEvaluateSelfMoveProperty(t *testing.T) {
	w := place("w", 4, 4, 3, 2)
	other := place("o", 12, 12, 2, 2)
	widgets := []Widget{w, other}
	p := CellDrag(w)

	// Every target whose footprint only touches w's own cells must be valid.
	for r := 1; r <= 16; r++ {
		for c := 1; c <= 16; c++ {
			if IsOutOfBounds(r, c, 3, 2, 16, 16) || other.Overlaps(r, c, 3, 2) {
				continue
			}
			if v := Evaluate(&p, ptr(MustEncode(r, c)), widgets, 16, 16); !v.Valid() {
				t.Fatalf("move to (%d, %d) reported %+v", r, c, v)
			}
		}
	}
}

// Scenario 2: dragging onto another widget collides and marks the full footprint.
func TestEvaluateCollisionMarksFullFootprint(t *testing.T) {
	a := place("a", 3, 3, 2, 2)
	b := place("b", 10, 10, 2, 2)
	widgets := []Widget{a, b}
	p := CellDrag(a)

	v := Evaluate(&p, ptr(MustEncode(10, 10)), widgets, 16, 16)
	if !v.HasCollision {
		t.Fatal("expected collision")
	}
	if v.OutOfBounds {
		t.Error("target is in bounds")
	}
	if len(v.Invalid) != 4 {
		t.Errorf("invalid footprint len = %d, want 4", len(v.Invalid))
	}
}

func TestEvaluatePartialOverlapCollides(t *testing.T) {
	a := place("a", 1, 1, 2, 2)
	b := place("b", 2, 4, 1, 1)
	p := CellDrag(a)

	// Footprint (1..2, 3..4) touches b only at r2c4.
	v := Evaluate(&p, ptr(MustEncode(1, 3)), []Widget{a, b}, 16, 16)
	if !v.HasCollision {
		t.Error("partial overlap must collide")
	}
}

func TestEvaluateOutOfBoundsMarksFootprint(t *testing.T) {
	w := place("w", 1, 1, 2, 3)
	p := CellDrag(w)

	v := Evaluate(&p, ptr(MustEncode(16, 15)), []Widget{w}, 16, 16)
	if !v.OutOfBounds {
		t.Fatal("expected out of bounds")
	}
	if v.HasCollision {
		t.Error("no other widget, no collision")
	}
	if len(v.Invalid) != 6 {
		t.Errorf("invalid footprint len = %d, want 6", len(v.Invalid))
	}
}

func TestEvaluateExcludesByIDNotStaleOrigin(t *testing.T) {
	w := place("w", 8, 8, 2, 2)
	p := CellDrag(w)
	// The registry moved w after the drag started; the payload origin is stale.
	moved := place("w", 1, 1, 2, 2)

	v := Evaluate(&p, ptr(MustEncode(1, 2)), []Widget{moved}, 16, 16)
	if !v.Valid() {
		t.Errorf("dragged widget collided with itself: %+v", v)
	}
}

func TestHighlightedZonesIgnoresValidity(t *testing.T) {
	w := place("w", 1, 1, 2, 2)
	p := CellDrag(w)
	hovered := MustEncode(16, 16)

	zones := HighlightedZones(&p, &hovered)
	// Two of the four cells fall outside a 16x16 grid but are still encodable.
	if len(zones) != 4 {
		t.Errorf("zones len = %d, want 4", len(zones))
	}
	if zones[0] != hovered {
		t.Errorf("first zone = %v, want %v", zones[0], hovered)
	}
}

func TestEvaluateIsPure(t *testing.T) {
	w := place("w", 2, 2, 1, 1)
	widgets := []Widget{w}
	p := CellDrag(w)
	target := MustEncode(2, 3)

	first := Evaluate(&p, &target, widgets, 4, 4)
	second := Evaluate(&p, &target, widgets, 4, 4)
	if first.Valid() != second.Valid() || len(first.Invalid) != len(second.Invalid) {
		t.Error("repeated evaluation should give identical verdicts")
	}
	if widgets[0].Row != 2 || p.Row != 2 {
		t.Error("Evaluate must not mutate its inputs")
	}
}
