package database

import (
	"testing"

	"github.com/shopspring/decimal"
)

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestPhaseClassification(t *testing.T) {
	tests := []struct {
		name        string
		final       bool
		semifinal   bool
		preliminary bool
	}{
		{"Final", true, false, false},
		{"FINAL A", true, false, false},
		{"Semifinal", true, true, false}, // "semifinal" contains "final" too
		{"Semi-Final 2", true, true, false},
		{"Preliminary", false, false, true},
		{"Heat 3", false, false, true},
		{"Clasificatoria", false, false, true},
		{"Eliminatoria", false, false, true},
		{"Time Trial", false, false, false},
	}

	for _, tt := range tests {
		p := Phase{Name: tt.name}
		if p.IsFinal() != tt.final {
			t.Errorf("%q: IsFinal = %v, want %v", tt.name, p.IsFinal(), tt.final)
		}
		if p.IsSemifinal() != tt.semifinal {
			t.Errorf("%q: IsSemifinal = %v, want %v", tt.name, p.IsSemifinal(), tt.semifinal)
		}
		if p.IsPreliminary() != tt.preliminary {
			t.Errorf("%q: IsPreliminary = %v, want %v", tt.name, p.IsPreliminary(), tt.preliminary)
		}
	}
}

func TestParameterKind(t *testing.T) {
	manual := Parameter{Name: "Stroke count", Kind: ParameterKindManual}
	if !manual.IsManual() || manual.IsAutomatic() {
		t.Error("kind M must classify as manual")
	}

	automatic := Parameter{Name: "Velocity", Kind: ParameterKindAutomatic}
	if !automatic.IsAutomatic() || automatic.IsManual() {
		t.Error("kind A must classify as automatic")
	}
}

func TestParameterDisplayName(t *testing.T) {
	withUnit := Parameter{Name: "Velocity", Unit: strPtr("m/s")}
	if got := withUnit.DisplayName(); got != "Velocity (m/s)" {
		t.Errorf("unexpected display name: %q", got)
	}

	noUnit := Parameter{Name: "Stroke count"}
	if got := noUnit.DisplayName(); got != "Stroke count" {
		t.Errorf("unexpected display name: %q", got)
	}

	emptyUnit := Parameter{Name: "Turns", Unit: strPtr("")}
	if got := emptyUnit.DisplayName(); got != "Turns" {
		t.Errorf("empty unit must not be rendered: %q", got)
	}
}

func TestSwimmerDisplayName(t *testing.T) {
	age := int16(23)
	s := Swimmer{Name: "Ana Torres", Age: &age, Team: strPtr("Delfines")}
	if got := s.DisplayName(); got != "Ana Torres (23) - Delfines" {
		t.Errorf("unexpected display name: %q", got)
	}

	bare := Swimmer{Name: "Ana Torres"}
	if got := bare.DisplayName(); got != "Ana Torres" {
		t.Errorf("unexpected display name: %q", got)
	}
}

func TestCompetitionFullName(t *testing.T) {
	c := Competition{Name: "Nacional 2026", City: strPtr("Monterrey"), Country: strPtr("Mexico")}
	if got := c.FullName(); got != "Nacional 2026 (Monterrey, Mexico)" {
		t.Errorf("unexpected full name: %q", got)
	}

	cityOnly := Competition{Name: "Nacional 2026", City: strPtr("Monterrey")}
	if got := cityOnly.FullName(); got != "Nacional 2026 (Monterrey)" {
		t.Errorf("unexpected full name: %q", got)
	}

	bare := Competition{Name: "Nacional 2026"}
	if got := bare.FullName(); got != "Nacional 2026" {
		t.Errorf("unexpected full name: %q", got)
	}
}

func TestRecordIsSplit(t *testing.T) {
	if (Record{}).IsSplit() {
		t.Error("record without segment is not a split")
	}
	if (Record{Segment: intPtr(0)}).IsSplit() {
		t.Error("segment 0 is a full-race value, not a split")
	}
	if !(Record{Segment: intPtr(2)}).IsSplit() {
		t.Error("positive segment is a split")
	}
}

func TestRecordFormattedValue(t *testing.T) {
	r := Record{Value: decimal.RequireFromString("12.345")}

	if got := r.FormattedValue(nil); got != "12.345" {
		t.Errorf("unexpected formatted value: %q", got)
	}

	p := &Parameter{Name: "Tiempo", Unit: strPtr("s")}
	if got := r.FormattedValue(p); got != "12.345 s" {
		t.Errorf("unexpected formatted value: %q", got)
	}
}

func TestRecordValueKeepsScale(t *testing.T) {
	// Fixed-point, not floating point: scale must survive parsing and
	// stringifying without drift.
	for _, s := range []string{"12.345", "0.001", "59.990", "1234567.890"} {
		v := decimal.RequireFromString(s)
		if v.String() != decimal.RequireFromString(s).String() {
			t.Fatalf("decimal parse not stable for %s", s)
		}
		if !v.Equal(decimal.RequireFromString(s)) {
			t.Errorf("%s did not round-trip exactly", s)
		}
	}
}
