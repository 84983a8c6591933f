package system

import (
	"fmt"
	"log"
	"slices"

	"github.com/milk9111/platformer/controller"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/ecs/entity"
	"github.com/milk9111/platformer/prefabs"
)

// ChangeSource reports prefab files edited since the last call.
type ChangeSource interface {
	Drain() []string
}

// TunablesReloadSystem swaps the tunables and bindings of live player
// characters when the player prefab changes on disk. Grounded state and held
// keys are kept. Script changes are handed to OnScriptChanged.
type TunablesReloadSystem struct {
	changes         ChangeSource
	prefab          string
	OnScriptChanged func(name string)
}

func NewTunablesReloadSystem(changes ChangeSource, prefab string) *TunablesReloadSystem {
	if prefab == "" {
		prefab = "player.yaml"
	}
	return &TunablesReloadSystem{changes: changes, prefab: prefab}
}

func (s *TunablesReloadSystem) Update(w *ecs.World) {
	if s == nil || s.changes == nil || w == nil {
		return
	}
	changed := s.changes.Drain()
	if len(changed) == 0 {
		return
	}
	if err := s.Apply(w, changed); err != nil {
		log.Printf("prefabs: reload %s: %v", s.prefab, err)
	}
}

// Apply reacts to a list of changed prefab-relative file names.
func (s *TunablesReloadSystem) Apply(w *ecs.World, changed []string) error {
	for _, name := range changed {
		if prefabs.IsScript(name) && s.OnScriptChanged != nil {
			s.OnScriptChanged(name)
		}
	}
	if !slices.Contains(changed, s.prefab) {
		return nil
	}

	tunables, bindings, err := loadCharacterSpec(s.prefab)
	if err != nil {
		return err
	}

	updated := 0
	ecs.ForEach2(w, component.PlayerTagComponent.Kind(), component.CharacterComponent.Kind(), func(_ ecs.Entity, _ *component.PlayerTag, ctrl *controller.Controller) {
		ctrl.Tunables = tunables
		if bindings != nil {
			ctrl.Bindings = bindings
		}
		updated++
	})
	log.Printf("prefabs: applied %s tunables to %d character(s)", s.prefab, updated)
	return nil
}

func loadCharacterSpec(prefab string) (controller.Tunables, *controller.Bindings, error) {
	spec, err := prefabs.LoadEntityBuildSpec(prefab)
	if err != nil {
		return controller.Tunables{}, nil, err
	}
	raw, ok := spec.Components["character"]
	if !ok {
		return controller.Tunables{}, nil, fmt.Errorf("prefab %s has no character component", prefab)
	}
	charSpec, err := prefabs.DecodeComponentSpec[prefabs.CharacterComponentSpec](raw)
	if err != nil {
		return controller.Tunables{}, nil, fmt.Errorf("decode character spec: %w", err)
	}
	tunables, err := entity.CharacterTunables(charSpec)
	if err != nil {
		return controller.Tunables{}, nil, err
	}
	if len(charSpec.Bindings) == 0 {
		return tunables, nil, nil
	}
	bindings, err := controller.ParseBindings(charSpec.Bindings)
	if err != nil {
		return controller.Tunables{}, nil, err
	}
	return tunables, bindings, nil
}
