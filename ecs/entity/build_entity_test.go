package entity

import (
	"testing"

	"github.com/milk9111/platformer/controller"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/levels"
	"github.com/milk9111/platformer/prefabs"
)

func TestBuildPlayerPrefab(t *testing.T) {
	w := ecs.NewWorld()
	e, err := NewPlayerAt(w, 2, 5)
	if err != nil {
		t.Fatalf("build player: %v", err)
	}

	for name, has := range map[string]bool{
		"player_tag":   ecs.Has(w, e, component.PlayerTagComponent.Kind()),
		"input":        ecs.Has(w, e, component.InputComponent.Kind()),
		"physics_body": ecs.Has(w, e, component.PhysicsBodyComponent.Kind()),
		"foot_sensor":  ecs.Has(w, e, component.FootSensorComponent.Kind()),
		"rectangle":    ecs.Has(w, e, component.RectangleComponent.Kind()),
		"persistent":   ecs.Has(w, e, component.PersistentComponent.Kind()),
	} {
		if !has {
			t.Fatalf("expected %s on player", name)
		}
	}

	ctrl, ok := ecs.Get(w, e, component.CharacterComponent.Kind())
	if !ok {
		t.Fatalf("expected character component")
	}
	if ctrl.Tunables != controller.DefaultTunables() {
		t.Fatalf("expected default tunables, got %+v", ctrl.Tunables)
	}
	if !ctrl.Grounded() {
		t.Fatalf("expected player to start grounded")
	}
	if ctrl.Owner != controller.EntityID(e) || ctrl.FootSensor != controller.EntityID(e) {
		t.Fatalf("expected owner and sensor to reference the player entity")
	}
	if a, ok := ctrl.Bindings.Action(controller.KeySpace); !ok || a != controller.ActionJump {
		t.Fatalf("expected Space bound to jump")
	}

	tf, _ := ecs.Get(w, e, component.TransformComponent.Kind())
	if tf.X != 2 || tf.Y != 5 {
		t.Fatalf("expected transform override, got %+v", tf)
	}
}

func TestCharacterTunablesOverrides(t *testing.T) {
	speed := float32(5)
	grounded := false
	got, err := CharacterTunables(prefabs.CharacterComponentSpec{HorizontalSpeed: &speed, StartGrounded: &grounded})
	if err != nil {
		t.Fatalf("tunables: %v", err)
	}
	if got.HorizontalSpeed != 5 || got.JumpImpulse != controller.DefaultJumpImpulse || got.StartGrounded {
		t.Fatalf("unexpected tunables %+v", got)
	}
}

func TestBuildGroundAndCrate(t *testing.T) {
	w := ecs.NewWorld()
	ground, err := BuildEntity(w, "ground.yaml")
	if err != nil {
		t.Fatalf("ground: %v", err)
	}
	crate, err := BuildEntity(w, "crate.yaml")
	if err != nil {
		t.Fatalf("crate: %v", err)
	}
	if !ecs.Has(w, ground, component.GroundTagComponent.Kind()) {
		t.Fatalf("ground must carry the ground tag")
	}
	if ecs.Has(w, crate, component.GroundTagComponent.Kind()) {
		t.Fatalf("crate must not carry the ground tag")
	}
}

func TestBuildMissingPrefab(t *testing.T) {
	w := ecs.NewWorld()
	if _, err := BuildEntity(w, "does_not_exist.yaml"); err == nil {
		t.Fatalf("expected error")
	}
	if n := len(ecs.Entities(w)); n != 0 {
		t.Fatalf("expected no leaked entities, got %d", n)
	}
}

func TestLoadLevelToWorld(t *testing.T) {
	w := ecs.NewWorld()
	lvl, err := levels.LoadLevelFromFS("steps")
	if err != nil {
		t.Fatalf("load level: %v", err)
	}
	if err := LoadLevelToWorld(w, lvl); err != nil {
		t.Fatalf("populate: %v", err)
	}

	grounds := 0
	ecs.ForEach(w, component.GroundTagComponent.Kind(), func(_ ecs.Entity, _ *component.GroundTag) {
		grounds++
	})
	if grounds != 3 {
		t.Fatalf("expected 3 ground entities, got %d", grounds)
	}

	var widest float64
	ecs.ForEach2(w, component.GroundTagComponent.Kind(), component.PhysicsBodyComponent.Kind(), func(_ ecs.Entity, _ *component.GroundTag, body *component.PhysicsBody) {
		widest = max(widest, body.Width)
	})
	if widest != 30 {
		t.Fatalf("expected width prop to resize the collider, got %v", widest)
	}

	if _, ok := ecs.First(w, component.PlayerTagComponent.Kind()); !ok {
		t.Fatalf("expected a player")
	}
}
