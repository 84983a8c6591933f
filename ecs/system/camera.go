package system

import (
	"github.com/milk9111/platformer/common"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
)

type CameraSystem struct {
	camEntity    ecs.Entity
	targetEntity ecs.Entity
	loadSequence uint64
	snap         bool
}

func NewCameraSystem() *CameraSystem {
	return &CameraSystem{}
}

// Update eases the camera transform toward its target. The first update after
// a level load jumps straight there.
func (cs *CameraSystem) Update(w *ecs.World) {
	if loaded, ok := latestLevelLoaded(w); ok && loaded.Sequence != cs.loadSequence {
		cs.loadSequence = loaded.Sequence
		cs.camEntity = 0
		cs.targetEntity = 0
		cs.snap = true
	}

	if !ecs.IsAlive(w, cs.camEntity) {
		camEntity, ok := ecs.First(w, component.CameraComponent.Kind())
		if !ok {
			return
		}
		cs.camEntity = camEntity
		cs.snap = true
	}

	camComp, ok := ecs.Get(w, cs.camEntity, component.CameraComponent.Kind())
	if !ok {
		return
	}

	if !ecs.IsAlive(w, cs.targetEntity) {
		cs.targetEntity = findEntityByNameOrTag(w, camComp.TargetName)
		if !cs.targetEntity.Valid() {
			return
		}
	}

	targetTransform, ok := ecs.Get(w, cs.targetEntity, component.TransformComponent.Kind())
	if !ok {
		return
	}
	camTransform, ok := ecs.Get(w, cs.camEntity, component.TransformComponent.Kind())
	if !ok {
		camTransform = &component.Transform{}
		if err := ecs.Add(w, cs.camEntity, component.TransformComponent.Kind(), camTransform); err != nil {
			panic("camera system: add transform: " + err.Error())
		}
	}

	goalX := targetTransform.X
	goalY := targetTransform.Y + camComp.OffsetY
	if cs.snap || camComp.Smoothness <= 0 || camComp.Smoothness >= 1 {
		camTransform.X, camTransform.Y = goalX, goalY
		cs.snap = false
		return
	}
	camTransform.X = common.Lerp(camTransform.X, goalX, camComp.Smoothness)
	camTransform.Y = common.Lerp(camTransform.Y, goalY, camComp.Smoothness)
}

func latestLevelLoaded(w *ecs.World) (component.LevelLoaded, bool) {
	var latest component.LevelLoaded
	found := false
	ecs.ForEach(w, component.LevelLoadedComponent.Kind(), func(_ ecs.Entity, l *component.LevelLoaded) {
		if !found || l.Sequence > latest.Sequence {
			latest = *l
			found = true
		}
	})
	return latest, found
}

func findEntityByNameOrTag(w *ecs.World, name string) ecs.Entity {
	var match ecs.Entity
	ecs.ForEach(w, component.NameComponent.Kind(), func(e ecs.Entity, n *component.Name) {
		if !match.Valid() && n.Value == name {
			match = e
		}
	})
	if match.Valid() {
		return match
	}
	if name == "" || name == "player" {
		if e, ok := ecs.First(w, component.PlayerTagComponent.Kind()); ok {
			return e
		}
	}
	return 0
}
