package system

import (
	"iter"
	"slices"

	"github.com/milk9111/platformer/controller"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
)

// WorldAccess serves the controller's contact and capability queries from the
// world. Contacts come from FootSensor components filled by the physics step.
type WorldAccess struct {
	w *ecs.World
}

func NewWorldAccess(w *ecs.World) WorldAccess {
	return WorldAccess{w: w}
}

func (a WorldAccess) Contacts(sensor controller.EntityID) iter.Seq[controller.ContactPair] {
	fs, ok := ecs.Get(a.w, ecs.Entity(sensor), component.FootSensorComponent.Kind())
	if !ok || fs == nil {
		return func(func(controller.ContactPair) bool) {}
	}
	return slices.Values(fs.Contacts)
}

func (a WorldAccess) Has(entity controller.EntityID, capability controller.Capability) bool {
	switch capability {
	case controller.CapabilityGround:
		return ecs.Has(a.w, ecs.Entity(entity), component.GroundTagComponent.Kind())
	default:
		return false
	}
}
