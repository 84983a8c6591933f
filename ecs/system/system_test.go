package system

import (
	"testing"

	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/controller"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/ecs/entity"
)

// scriptedKeys returns the events listed for each tick, counting from 1.
type scriptedKeys struct {
	byTick map[int][]controller.KeyEvent
	tick   int
}

func (s *scriptedKeys) Poll(dst []controller.KeyEvent) []controller.KeyEvent {
	s.tick++
	return append(dst, s.byTick[s.tick]...)
}

// transitionRecorder keeps every transition event seen during a test.
type transitionRecorder struct {
	tick   int
	events []recordedTransition
}

type recordedTransition struct {
	tick       int
	transition controller.Transition
}

func (r *transitionRecorder) Update(w *ecs.World) {
	r.tick++
	for _, evt := range w.Events().Transitions() {
		r.events = append(r.events, recordedTransition{tick: r.tick, transition: evt.Transition})
	}
}

func (r *transitionRecorder) count(t controller.Transition) int {
	n := 0
	for _, evt := range r.events {
		if evt.transition == t {
			n++
		}
	}
	return n
}

type testHarness struct {
	w        *ecs.World
	keys     *scriptedKeys
	physics  *PhysicsSystem
	recorder *transitionRecorder
	sched    *ecs.Scheduler
}

func newHarness(t *testing.T) *testHarness {
	t.Helper()
	h := &testHarness{
		w:        ecs.NewWorld(),
		keys:     &scriptedKeys{byTick: map[int][]controller.KeyEvent{}},
		physics:  NewPhysicsSystem(common.TickSeconds),
		recorder: &transitionRecorder{},
	}
	h.sched = ecs.NewScheduler(
		NewInputSystem(h.keys),
		NewPlayerControllerSystem(false),
		h.recorder,
		h.physics,
	)
	return h
}

func (h *testHarness) run(ticks int) {
	for i := 0; i < ticks; i++ {
		h.sched.Update(h.w)
	}
}

func (h *testHarness) at(tick int, events ...controller.KeyEvent) {
	h.keys.byTick[tick] = append(h.keys.byTick[tick], events...)
}

func mustBuild(t *testing.T, w *ecs.World, prefab string, x, y float64) ecs.Entity {
	t.Helper()
	e, err := entity.BuildEntity(w, prefab)
	if err != nil {
		t.Fatalf("build %s: %v", prefab, err)
	}
	if err := entity.SetEntityTransform(w, e, x, y, 0); err != nil {
		t.Fatalf("place %s: %v", prefab, err)
	}
	return e
}

func airborne(t *testing.T, w *ecs.World, e ecs.Entity) *controller.Controller {
	t.Helper()
	ctrl, ok := ecs.Get(w, e, component.CharacterComponent.Kind())
	if !ok {
		t.Fatalf("expected character on %v", e)
	}
	ctrl.Restore(controller.Snapshot{Tunables: ctrl.Tunables})
	return ctrl
}
