// Package script drives character input from tengo scripts. A script defines
// `keys(tick)` returning a list of {key: "A", pressed: true} maps; the source
// calls it once per poll with a tick counter starting at 1.
package script

import (
	"fmt"
	"log"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/milk9111/platformer/controller"
	"github.com/milk9111/platformer/prefabs"
)

const keysDispatchScript = `
__out := keys(__tick)
`

// Source is a controller.KeySource backed by a compiled tengo script.
type Source struct {
	name     string
	compiled *tengo.Compiled
	tick     int
	err      error
}

// Load compiles a script from the prefabs scripts directory.
func Load(name string) (*Source, error) {
	src, err := prefabs.LoadScript(name)
	if err != nil {
		return nil, fmt.Errorf("script: load %s: %w", name, err)
	}
	return Compile(name, src)
}

// Compile builds a Source from script text.
func Compile(name string, src []byte) (*Source, error) {
	s := tengo.NewScript(append(append([]byte(nil), src...), keysDispatchScript...))
	if err := s.Add("__tick", 0); err != nil {
		return nil, fmt.Errorf("script: prepare %s: %w", name, err)
	}
	s.SetImports(stdlib.GetModuleMap(stdlib.AllModuleNames()...))

	compiled, err := s.Compile()
	if err != nil {
		return nil, fmt.Errorf("script: compile %s: %w", name, err)
	}
	return &Source{name: name, compiled: compiled}, nil
}

// Tick returns the number of polls so far.
func (s *Source) Tick() int {
	return s.tick
}

// Err returns the last script failure. A failing tick yields no events.
func (s *Source) Err() error {
	return s.err
}

func (s *Source) Poll(dst []controller.KeyEvent) []controller.KeyEvent {
	if s == nil || s.compiled == nil {
		return dst
	}
	s.tick++
	events, err := s.run(s.tick)
	if err != nil {
		if s.err == nil || s.err.Error() != err.Error() {
			log.Printf("script: %s tick=%d: %v", s.name, s.tick, err)
		}
		s.err = err
		return dst
	}
	s.err = nil
	return append(dst, events...)
}

func (s *Source) run(tick int) ([]controller.KeyEvent, error) {
	if err := s.compiled.Set("__tick", tick); err != nil {
		return nil, err
	}
	if err := s.compiled.Run(); err != nil {
		return nil, err
	}
	out := s.compiled.Get("__out")
	if out.IsUndefined() {
		return nil, nil
	}
	if out.ValueType() != "array" {
		return nil, fmt.Errorf("keys() returned %s, want array", out.ValueType())
	}

	items := out.Array()
	events := make([]controller.KeyEvent, 0, len(items))
	for i, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("event %d: want map, got %T", i, item)
		}
		name, _ := m["key"].(string)
		key, err := controller.ParseKey(name)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		pressed, ok := m["pressed"].(bool)
		if !ok {
			return nil, fmt.Errorf("event %d: missing or non-bool pressed", i)
		}
		events = append(events, controller.KeyEvent{Key: key, Pressed: pressed})
	}
	return events, nil
}
