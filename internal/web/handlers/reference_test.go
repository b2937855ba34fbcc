package handlers

import (
	"encoding/json"
	"testing"

	"github.com/aqualytics/aqualytics/internal/database"
)

// List and create handlers answer with the same response structs, so a
// catalog resource has one wire shape: snake_case keys on GET and POST
// alike, never the Go field names of the entity structs.
func TestCatalogResponseFieldNames(t *testing.T) {
	cases := []struct {
		name string
		v    any
		keys []string
	}{
		{
			name: "distance",
			v:    toDistanceResponse(database.Distance{ID: 1, Meters: 50}),
			keys: []string{"id", "meters"},
		},
		{
			name: "stroke",
			v:    toStrokeResponse(database.Stroke{ID: 2, Name: "Butterfly"}),
			keys: []string{"id", "name"},
		},
		{
			name: "phase",
			v:    toPhaseResponse(database.Phase{ID: 3, Name: "Semifinal"}),
			keys: []string{"id", "name", "is_final", "is_semifinal", "is_preliminary"},
		},
		{
			name: "parameter",
			v:    toParameterResponse(database.Parameter{ID: 4, Name: "Stroke rate", Kind: database.ParameterKindManual}),
			keys: []string{"id", "name", "kind", "global", "display_name", "is_manual"},
		},
	}

	for _, tc := range cases {
		raw, err := json.Marshal(tc.v)
		if err != nil {
			t.Fatalf("%s: failed to marshal: %v", tc.name, err)
		}

		var got map[string]any
		if err := json.Unmarshal(raw, &got); err != nil {
			t.Fatalf("%s: failed to unmarshal: %v", tc.name, err)
		}

		for _, key := range tc.keys {
			if _, ok := got[key]; !ok {
				t.Errorf("%s: missing %q in %s", tc.name, key, raw)
			}
		}
		for key := range got {
			if key[0] >= 'A' && key[0] <= 'Z' {
				t.Errorf("%s: Go field name %q leaked into the payload %s", tc.name, key, raw)
			}
		}
	}
}

func TestPhaseResponseClassification(t *testing.T) {
	resp := toPhaseResponse(database.Phase{ID: 1, Name: "Semifinal"})
	if !resp.IsFinal || !resp.IsSemifinal || resp.IsPreliminary {
		t.Errorf("unexpected classification: %+v", resp)
	}
}
