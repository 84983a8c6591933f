package script

import (
	"testing"

	"github.com/milk9111/platformer/controller"
)

func TestSourcePollsPerTick(t *testing.T) {
	src, err := Compile("test", []byte(`
keys := func(tick) {
	if tick == 1 {
		return [{key: "A", pressed: true}, {key: "Space", pressed: true}]
	}
	if tick == 3 {
		return [{key: "space", pressed: false}]
	}
	return []
}
`))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}

	tests := []struct {
		tick int
		want []controller.KeyEvent
	}{
		{1, []controller.KeyEvent{{Key: controller.KeyA, Pressed: true}, {Key: controller.KeySpace, Pressed: true}}},
		{2, nil},
		{3, []controller.KeyEvent{{Key: controller.KeySpace, Pressed: false}}},
	}
	for _, tc := range tests {
		got := src.Poll(nil)
		if src.Tick() != tc.tick {
			t.Fatalf("expected tick %d, got %d", tc.tick, src.Tick())
		}
		if len(got) != len(tc.want) {
			t.Fatalf("tick %d: expected %v, got %v", tc.tick, tc.want, got)
		}
		for i := range got {
			if got[i] != tc.want[i] {
				t.Fatalf("tick %d: expected %v, got %v", tc.tick, tc.want, got)
			}
		}
	}
}

func TestSourceBadKeyYieldsNoEvents(t *testing.T) {
	src, err := Compile("bad", []byte(`
keys := func(tick) {
	return [{key: "Escape", pressed: true}]
}
`))
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	dst := []controller.KeyEvent{{Key: controller.KeyD, Pressed: true}}
	got := src.Poll(dst)
	if len(got) != 1 {
		t.Fatalf("expected dst untouched, got %v", got)
	}
	if src.Err() == nil {
		t.Fatalf("expected error for unknown key")
	}
}

func TestSourceRejectsMalformedEvents(t *testing.T) {
	tests := []struct {
		name  string
		event string
	}{
		{"missing_key", `{pressed: true}`},
		{"missing_pressed", `{key: "D"}`},
		{"non_bool_pressed", `{key: "D", pressed: 1}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			src, err := Compile(tc.name, []byte("keys := func(tick) { return ["+tc.event+"] }\n"))
			if err != nil {
				t.Fatalf("compile: %v", err)
			}
			if got := src.Poll(nil); len(got) != 0 {
				t.Fatalf("expected no events, got %v", got)
			}
			if src.Err() == nil {
				t.Fatalf("expected an error for %s", tc.event)
			}
		})
	}
}

func TestCompileError(t *testing.T) {
	if _, err := Compile("broken", []byte(`keys := func(tick) {`)); err == nil {
		t.Fatalf("expected compile error")
	}
}

func TestLoadEmbeddedScripts(t *testing.T) {
	for _, name := range []string{"hop.tengo", "scripts/idle.tengo"} {
		t.Run(name, func(t *testing.T) {
			src, err := Load(name)
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			for i := 0; i < 5; i++ {
				src.Poll(nil)
			}
			if src.Err() != nil {
				t.Fatalf("unexpected script error: %v", src.Err())
			}
		})
	}
}
