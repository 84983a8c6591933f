package system

import (
	"github.com/milk9111/platformer/controller"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
)

// InputSystem polls a key source once per tick and queues the events on every
// player entity.
type InputSystem struct {
	source  controller.KeySource
	pending []controller.KeyEvent
}

func NewInputSystem(source controller.KeySource) *InputSystem {
	return &InputSystem{source: source}
}

// SetSource swaps the key source, for example from a script back to the keyboard.
func (i *InputSystem) SetSource(source controller.KeySource) {
	i.source = source
}

// Collect polls the source and keeps the events for the next Update. Hosts call
// it on frames that skip the tick, such as while paused, so edges are not lost.
func (i *InputSystem) Collect() {
	if i.source == nil {
		return
	}
	i.pending = i.source.Poll(i.pending)
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	i.Collect()
	if len(i.pending) == 0 {
		return
	}

	ecs.ForEach2(w, component.PlayerTagComponent.Kind(), component.InputComponent.Kind(), func(_ ecs.Entity, _ *component.PlayerTag, input *component.Input) {
		input.Events = append(input.Events, i.pending...)
	})
	i.pending = i.pending[:0]
}
