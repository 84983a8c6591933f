package entity

import (
	"fmt"
	"path"
	"strings"

	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/levels"
)

// LoadLevelToWorld builds one entity per level placement. The level's props
// width and height resize both the collider and the drawn rectangle.
func LoadLevelToWorld(world *ecs.World, lvl *levels.Level) error {
	if world == nil || lvl == nil {
		return fmt.Errorf("load level: world and level are required")
	}

	for i, ent := range lvl.Entities {
		prefab := strings.ToLower(strings.TrimSpace(ent.Type))
		if path.Ext(prefab) == "" {
			prefab += ".yaml"
		}

		e, err := BuildEntity(world, prefab)
		if err != nil {
			return fmt.Errorf("load level %s: entity %d: %w", lvl.Name, i, err)
		}
		if err := SetEntityTransform(world, e, ent.X, ent.Y, 0); err != nil {
			return fmt.Errorf("load level %s: entity %d: %w", lvl.Name, i, err)
		}
		applyLevelProps(world, e, ent)
	}

	return nil
}

func applyLevelProps(world *ecs.World, e ecs.Entity, ent levels.Entity) {
	width, hasW := ent.PropFloat("width")
	height, hasH := ent.PropFloat("height")
	if hasW || hasH {
		if body, ok := ecs.Get(world, e, component.PhysicsBodyComponent.Kind()); ok {
			if hasW && width > 0 {
				body.Width = width
			}
			if hasH && height > 0 {
				body.Height = height
			}
		}
		if rect, ok := ecs.Get(world, e, component.RectangleComponent.Kind()); ok {
			if hasW && width > 0 {
				rect.Width = width
			}
			if hasH && height > 0 {
				rect.Height = height
			}
		}
	}

	if name, ok := ent.PropString("name"); ok && name != "" {
		_ = ecs.Add(world, e, component.NameComponent.Kind(), &component.Name{Value: name})
	}
}
