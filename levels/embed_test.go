package levels

import (
	"slices"
	"testing"
)

func TestLoadEmbeddedLevels(t *testing.T) {
	names, err := Names()
	if err != nil {
		t.Fatalf("names: %v", err)
	}
	if !slices.Contains(names, "flat") || !slices.Contains(names, "steps") {
		t.Fatalf("expected flat and steps, got %v", names)
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			lvl, err := LoadLevelFromFS(name)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			if lvl.Name != name {
				t.Fatalf("expected name %q, got %q", name, lvl.Name)
			}
			players := 0
			for _, ent := range lvl.Entities {
				if ent.Type == "player" {
					players++
				}
			}
			if players != 1 {
				t.Fatalf("expected one player, got %d", players)
			}
		})
	}
}

func TestPropFloat(t *testing.T) {
	ent := Entity{Props: map[string]interface{}{"width": 3.5, "count": 2, "label": "x"}}
	tests := []struct {
		key  string
		want float64
		ok   bool
	}{
		{"width", 3.5, true},
		{"count", 2, true},
		{"label", 0, false},
		{"missing", 0, false},
	}
	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			got, ok := ent.PropFloat(tc.key)
			if got != tc.want || ok != tc.ok {
				t.Fatalf("expected (%v, %v), got (%v, %v)", tc.want, tc.ok, got, ok)
			}
		})
	}
}

func TestLoadMissingLevel(t *testing.T) {
	if _, err := LoadLevelFromFS("nope"); err == nil {
		t.Fatalf("expected error for missing level")
	}
}
