package database

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Parameter kinds as stored in the kind column.
const (
	ParameterKindManual    = "M"
	ParameterKindAutomatic = "A"
)

// Distance is a catalog row for race distances, unique by meters.
type Distance struct {
	ID     int
	Meters int
}

func (d Distance) String() string {
	return fmt.Sprintf("%dm", d.Meters)
}

// Stroke is a catalog row for swimming strokes, unique by name.
type Stroke struct {
	ID   int
	Name string
}

// Phase is a catalog row for competition phases, unique by name.
type Phase struct {
	ID   int
	Name string
}

// IsFinal reports whether the phase is a final, derived from its name.
func (p Phase) IsFinal() bool {
	return strings.Contains(strings.ToLower(p.Name), "final")
}

// IsSemifinal reports whether the phase is a semifinal.
func (p Phase) IsSemifinal() bool {
	return strings.Contains(strings.ToLower(p.Name), "semi")
}

// IsPreliminary reports whether the phase is a preliminary/qualifying round.
func (p Phase) IsPreliminary() bool {
	name := strings.ToLower(p.Name)
	for _, term := range []string{"prelim", "heat", "clasif", "eliminat"} {
		if strings.Contains(name, term) {
			return true
		}
	}
	return false
}

// Parameter is a catalog row for a measurable metric.
type Parameter struct {
	ID          int
	Name        string
	Kind        string // ParameterKindManual or ParameterKindAutomatic
	Global      bool
	Description *string
	Unit        *string
}

// IsManual reports whether the metric is captured by hand.
func (p Parameter) IsManual() bool {
	return p.Kind == ParameterKindManual
}

// IsAutomatic reports whether the metric is derived automatically.
func (p Parameter) IsAutomatic() bool {
	return p.Kind == ParameterKindAutomatic
}

// DisplayName returns the parameter name annotated with its unit when known.
func (p Parameter) DisplayName() string {
	if p.Unit != nil && *p.Unit != "" {
		return fmt.Sprintf("%s (%s)", p.Name, *p.Unit)
	}
	return p.Name
}

// Swimmer is an athlete. Deleting a swimmer cascades to its records.
type Swimmer struct {
	ID       int
	Name     string
	Age      *int16
	Weight   *int16
	Team     *string
	Category *string
}

// DisplayName returns the swimmer's name with age and team when known.
func (s Swimmer) DisplayName() string {
	parts := []string{s.Name}
	if s.Age != nil {
		parts = append(parts, fmt.Sprintf("(%d)", *s.Age))
	}
	if s.Team != nil && *s.Team != "" {
		parts = append(parts, "- "+*s.Team)
	}
	return strings.Join(parts, " ")
}

// Competition is an event where records are measured. Deleting a
// competition cascades to its records.
type Competition struct {
	ID        int
	Name      string
	StartDate *time.Time
	EndDate   *time.Time
	City      *string
	Country   *string
	Type      *string
}

// FullName returns the competition name with its location when known.
func (c Competition) FullName() string {
	switch {
	case c.City != nil && c.Country != nil:
		return fmt.Sprintf("%s (%s, %s)", c.Name, *c.City, *c.Country)
	case c.City != nil:
		return fmt.Sprintf("%s (%s)", c.Name, *c.City)
	case c.Country != nil:
		return fmt.Sprintf("%s (%s)", c.Name, *c.Country)
	}
	return c.Name
}

// Record is one measured value: a metric for a swimmer in a competition,
// at a distance, stroke and phase. Value is fixed-point NUMERIC(10,3) and
// must round-trip exactly.
type Record struct {
	ID            int64
	CompetitionID int
	SwimmerID     int
	DistanceID    int
	StrokeID      int
	PhaseID       int
	ParameterID   int
	Date          *time.Time
	Segment       *int
	Value         decimal.Decimal
	Note          *string
	Validated     bool
}

// IsSplit reports whether the record is a partial-race split rather than a
// full-race value.
func (r Record) IsSplit() bool {
	return r.Segment != nil && *r.Segment > 0
}

// FormattedValue renders the value with the parameter's unit. The parameter
// must already be loaded; this never touches storage.
func (r Record) FormattedValue(p *Parameter) string {
	if p != nil && p.Unit != nil && *p.Unit != "" {
		return fmt.Sprintf("%s %s", r.Value.String(), *p.Unit)
	}
	return r.Value.String()
}
