package main

import (
	"fmt"
	"io"

	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/controller"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/ecs/system"
)

// Summary is the outcome of a headless run.
type Summary struct {
	Ticks       int
	Jumps       int
	Landings    int
	Grounded    bool
	X, Y        float64
	Transitions []TickTransition
}

type TickTransition struct {
	Tick       int
	Transition controller.Transition
}

// simulation steps a level with scripted input and no window.
type simulation struct {
	world     *ecs.World
	scheduler *ecs.Scheduler
	tick      int
	summary   Summary
	trace     io.Writer
}

func newSimulation(level string, source controller.KeySource, debug bool, trace io.Writer) *simulation {
	physics := system.NewPhysicsSystem(common.TickSeconds)
	s := &simulation{world: ecs.NewWorld(), trace: trace}
	s.scheduler = ecs.NewScheduler(
		system.NewPersistenceSystem(level, "", physics.Reset),
		system.NewInputSystem(source),
		system.NewPlayerControllerSystem(debug),
		ecs.SystemFunc(s.record),
		physics,
	)
	return s
}

func (s *simulation) record(w *ecs.World) {
	for _, evt := range w.Events().Transitions() {
		s.summary.Transitions = append(s.summary.Transitions, TickTransition{Tick: s.tick, Transition: evt.Transition})
		switch evt.Transition {
		case controller.TransitionJumped:
			s.summary.Jumps++
		case controller.TransitionLanded:
			s.summary.Landings++
		case controller.TransitionLandedAndJumped:
			s.summary.Landings++
			s.summary.Jumps++
		}
		if s.trace != nil {
			fmt.Fprintf(s.trace, "tick %d: %s\n", s.tick, evt.Transition)
		}
	}
}

func (s *simulation) run(ticks int) Summary {
	for i := 0; i < ticks; i++ {
		s.tick++
		s.scheduler.Update(s.world)
	}

	s.summary.Ticks = s.tick
	if e, ok := ecs.First(s.world, component.PlayerTagComponent.Kind()); ok {
		if ctrl, ok := ecs.Get(s.world, e, component.CharacterComponent.Kind()); ok {
			s.summary.Grounded = ctrl.Grounded()
		}
		if tf, ok := ecs.Get(s.world, e, component.TransformComponent.Kind()); ok {
			s.summary.X, s.summary.Y = tf.X, tf.Y
		}
	}
	return s.summary
}
