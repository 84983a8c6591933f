package system

import (
	"log"

	"github.com/milk9111/platformer/controller"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
)

// PlayerControllerSystem feeds queued key events to each character controller
// and runs its update against the contacts of the previous physics step.
type PlayerControllerSystem struct {
	Debug bool
	tick  uint64
}

func NewPlayerControllerSystem(debug bool) *PlayerControllerSystem {
	return &PlayerControllerSystem{Debug: debug}
}

func (p *PlayerControllerSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	p.tick++

	access := NewWorldAccess(w)
	ecs.ForEach2(w, component.CharacterComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, ctrl *controller.Controller, bodyComp *component.PhysicsBody) {
		if input, ok := ecs.Get(w, e, component.InputComponent.Kind()); ok {
			for _, ev := range input.Events {
				ctrl.OnKeyEvent(ev.Key, ev.Pressed)
			}
			input.Events = input.Events[:0]
		}

		transition := ctrl.Update(RigidBodyOf(bodyComp.Body), access, access)
		if transition == controller.TransitionNone {
			return
		}

		w.Events().PushTransition(ecs.TransitionEvent{Entity: e, Transition: transition})
		if p.Debug {
			log.Printf("controller: tick %d entity %v %s", p.tick, e, transition)
		}
	})
}
