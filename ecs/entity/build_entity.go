package entity

import (
	"fmt"
	"image/color"
	"sort"

	"github.com/milk9111/platformer/controller"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/prefabs"
	"golang.org/x/image/colornames"
)

type buildContext struct {
	PrefabPath string
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"player_tag":   addPlayerTag,
	"ground_tag":   addGroundTag,
	"camera_tag":   addCameraTag,
	"name":         addName,
	"persistent":   addPersistent,
	"input":        addInput,
	"transform":    addTransform,
	"physics_body": addPhysicsBody,
	"foot_sensor":  addFootSensor,
	"character":    addCharacter,
	"rectangle":    addRectangle,
	"camera":       addCamera,
}

var componentBuildOrder = []string{
	"player_tag",
	"ground_tag",
	"camera_tag",
	"name",
	"persistent",
	"input",
	"transform",
	"physics_body",
	"foot_sensor",
	"character",
	"rectangle",
	"camera",
}

func BuildEntity(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if len(spec.Components) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	e := ecs.CreateEntity(w)
	ctx := &buildContext{PrefabPath: prefabPath}

	remaining := make(map[string]any, len(spec.Components))
	for k, v := range spec.Components {
		remaining[k] = v
	}

	for _, name := range componentBuildOrder {
		raw, ok := remaining[name]
		if !ok {
			continue
		}
		if err := componentRegistry[name](w, e, raw, ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add %q: %w", prefabPath, name, err)
		}
		delete(remaining, name)
	}

	if len(remaining) > 0 {
		names := make([]string, 0, len(remaining))
		for name := range remaining {
			names = append(names, name)
		}
		sort.Strings(names)
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("build entity: %q: no builder for component %q", prefabPath, names[0])
	}

	return e, nil
}

func SetEntityTransform(w *ecs.World, e ecs.Entity, x, y, rotation float64) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || t == nil {
		t = &component.Transform{}
	}
	t.X = x
	t.Y = y
	t.Rotation = rotation
	return ecs.Add(w, e, component.TransformComponent.Kind(), t)
}

func addPlayerTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
}

func addGroundTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.GroundTagComponent.Kind(), &component.GroundTag{})
}

func addCameraTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.CameraTagComponent.Kind(), &component.CameraTag{})
}

func addName(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.NameComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode name spec: %w", err)
	}
	return ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: spec.Value})
}

func addPersistent(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.PersistentComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode persistent spec: %w", err)
	}
	if spec.ID == "" {
		return fmt.Errorf("persistent component in %q needs an id", ctx.PrefabPath)
	}
	return ecs.Add(w, e, component.PersistentComponent.Kind(), &component.Persistent{ID: spec.ID})
}

func addInput(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{})
}

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.TransformComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode transform spec: %w", err)
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{
		X:        spec.X,
		Y:        spec.Y,
		Rotation: spec.Rotation,
	})
}

func addPhysicsBody(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.PhysicsBodyComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode physics_body spec: %w", err)
	}
	if spec.Width < 0 || spec.Height < 0 {
		return fmt.Errorf("physics_body size must not be negative")
	}
	return ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Width:        spec.Width,
		Height:       spec.Height,
		Mass:         spec.Mass,
		Friction:     spec.Friction,
		Elasticity:   spec.Elasticity,
		Static:       spec.Static,
		LockRotation: spec.LockRotation,
	})
}

func addFootSensor(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.FootSensorComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode foot_sensor spec: %w", err)
	}
	return ecs.Add(w, e, component.FootSensorComponent.Kind(), &component.FootSensor{
		Width:   spec.Width,
		Height:  spec.Height,
		OffsetX: spec.OffsetX,
		OffsetY: spec.OffsetY,
	})
}

// CharacterTunables resolves a character spec against the defaults.
func CharacterTunables(spec prefabs.CharacterComponentSpec) (controller.Tunables, error) {
	t := controller.DefaultTunables()
	if spec.HorizontalSpeed != nil {
		t.HorizontalSpeed = *spec.HorizontalSpeed
	}
	if spec.JumpImpulse != nil {
		t.JumpImpulse = *spec.JumpImpulse
	}
	if spec.StartGrounded != nil {
		t.StartGrounded = *spec.StartGrounded
	}
	if err := t.Validate(); err != nil {
		return controller.Tunables{}, err
	}
	return t, nil
}

func addCharacter(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.CharacterComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode character spec: %w", err)
	}

	tunables, err := CharacterTunables(spec)
	if err != nil {
		return err
	}

	ctrl := controller.New(tunables)
	if len(spec.Bindings) > 0 {
		bindings, err := controller.ParseBindings(spec.Bindings)
		if err != nil {
			return fmt.Errorf("character bindings: %w", err)
		}
		ctrl.Bindings = bindings
	}

	// The foot sensor is a shape on the owner's body, so both share the entity.
	ctrl.Owner = controller.EntityID(e)
	ctrl.FootSensor = controller.EntityID(e)

	return ecs.Add(w, e, component.CharacterComponent.Kind(), ctrl)
}

func addRectangle(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.RectangleComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode rectangle spec: %w", err)
	}

	var col color.Color = colornames.White
	if spec.Color != nil && spec.Color.Color != nil {
		col = spec.Color.Color
	}

	return ecs.Add(w, e, component.RectangleComponent.Kind(), &component.Rectangle{
		Width:  spec.Width,
		Height: spec.Height,
		Color:  col,
		Layer:  spec.Layer,
	})
}

func addCamera(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[prefabs.CameraComponentSpec](raw)
	if err != nil {
		return fmt.Errorf("decode camera spec: %w", err)
	}

	zoom := spec.Zoom
	if zoom <= 0 {
		zoom = 48
	}
	smooth := spec.Smoothness
	if smooth <= 0 || smooth > 1 {
		smooth = 0.15
	}

	return ecs.Add(w, e, component.CameraComponent.Kind(), &component.Camera{
		TargetName: spec.TargetName,
		Zoom:       zoom,
		Smoothness: smooth,
		OffsetY:    spec.OffsetY,
	})
}
