package system

import (
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/milk9111/platformer/controller"
	"github.com/milk9111/platformer/ecs"
	"github.com/milk9111/platformer/ecs/component"
	"github.com/milk9111/platformer/ecs/entity"
	"github.com/milk9111/platformer/levels"
	"gopkg.in/yaml.v3"
)

// CharacterState is the saved form of one persistent character.
type CharacterState struct {
	Controller controller.Snapshot `yaml:"controller"`
	X          float64             `yaml:"x"`
	Y          float64             `yaml:"y"`
	VelocityX  float64             `yaml:"velocity_x"`
	VelocityY  float64             `yaml:"velocity_y"`
}

// SaveState is the document written to the state file.
type SaveState struct {
	Level      string                    `yaml:"level"`
	Characters map[string]CharacterState `yaml:"characters"`
}

type PersistenceSystem struct {
	levelName    string
	stateFile    string
	physicsReset func()
	initialized  bool
	loadSequence uint64
}

// NewPersistenceSystem loads levelName on its first update. physicsReset runs
// before each load so no body of the previous scene survives.
func NewPersistenceSystem(levelName, stateFile string, physicsReset func()) *PersistenceSystem {
	return &PersistenceSystem{
		levelName:    levelName,
		stateFile:    stateFile,
		physicsReset: physicsReset,
	}
}

func (p *PersistenceSystem) LevelName() string {
	if p == nil {
		return ""
	}
	return p.levelName
}

func (p *PersistenceSystem) Update(w *ecs.World) {
	if p == nil || w == nil {
		return
	}

	if !p.initialized {
		if err := p.reloadWorld(w, nil, false); err != nil {
			panic("persistence system: initial load failed: " + err.Error())
		}
		p.initialized = true
		return
	}

	if consumeRequests(w, component.SaveStateRequestComponent.Kind()) {
		if err := p.Save(w); err != nil {
			log.Printf("persistence: save: %v", err)
		}
	}

	if consumeRequests(w, component.LoadStateRequestComponent.Kind()) {
		if err := p.Load(w); err != nil {
			log.Printf("persistence: load: %v", err)
		}
		return
	}

	if consumeRequests(w, component.ReloadRequestComponent.Kind()) {
		if err := p.reloadWorld(w, p.capture(w, false), false); err != nil {
			panic("persistence system: reload failed: " + err.Error())
		}
		return
	}

	if req, ok := p.firstLevelChangeRequest(w); ok {
		consumeRequests(w, component.LevelChangeRequestComponent.Kind())
		target := req.TargetLevel
		if target == "" {
			target = p.levelName
		}
		level, err := levels.LoadLevelFromFS(target)
		if err != nil {
			log.Printf("persistence: change level %q: %v", target, err)
			return
		}
		p.levelName = target
		if err := p.rebuild(w, level, p.capture(w, false), false); err != nil {
			panic("persistence system: change level failed: " + err.Error())
		}
	}
}

// Save writes every persistent character to the state file.
func (p *PersistenceSystem) Save(w *ecs.World) error {
	if p.stateFile == "" {
		return errors.New("persistence: no state file configured")
	}
	state := SaveState{Level: p.levelName, Characters: p.capture(w, true)}
	data, err := yaml.Marshal(state)
	if err != nil {
		return fmt.Errorf("persistence: marshal state: %w", err)
	}
	if err := os.WriteFile(p.stateFile, data, 0o644); err != nil {
		return fmt.Errorf("persistence: write %s: %w", p.stateFile, err)
	}
	log.Printf("persistence: saved %d character(s) to %s", len(state.Characters), p.stateFile)
	return nil
}

// Load reloads the saved level and restores the saved characters, positions
// included. Held keys stay as they are on the live characters.
func (p *PersistenceSystem) Load(w *ecs.World) error {
	if p.stateFile == "" {
		return errors.New("persistence: no state file configured")
	}
	data, err := os.ReadFile(p.stateFile)
	if err != nil {
		return fmt.Errorf("persistence: read %s: %w", p.stateFile, err)
	}
	var state SaveState
	if err := yaml.Unmarshal(data, &state); err != nil {
		return fmt.Errorf("persistence: unmarshal %s: %w", p.stateFile, err)
	}
	for id, cs := range state.Characters {
		if err := cs.Controller.Tunables.Validate(); err != nil {
			return fmt.Errorf("persistence: character %q: %w", id, err)
		}
	}
	name := p.levelName
	if state.Level != "" {
		name = state.Level
	}
	level, err := levels.LoadLevelFromFS(name)
	if err != nil {
		return fmt.Errorf("persistence: load level %q: %w", name, err)
	}

	// Held keys come from the live keyboard, not from the file.
	live := p.capture(w, false)
	for id, cs := range state.Characters {
		cs.Controller.Input = live[id].Controller.Input
		state.Characters[id] = cs
	}

	p.levelName = name
	return p.rebuild(w, level, state.Characters, true)
}

// capture snapshots the persistent characters. Positions are kept only when
// withPosition is set; a plain reload puts characters back at their spawn.
func (p *PersistenceSystem) capture(w *ecs.World, withPosition bool) map[string]CharacterState {
	out := make(map[string]CharacterState)
	ecs.ForEach2(w, component.PersistentComponent.Kind(), component.CharacterComponent.Kind(), func(e ecs.Entity, persistent *component.Persistent, ctrl *controller.Controller) {
		if persistent.ID == "" {
			return
		}
		if _, exists := out[persistent.ID]; exists {
			return
		}
		cs := CharacterState{Controller: ctrl.Snapshot()}
		if !withPosition {
			cs.Controller.Grounded = ctrl.Tunables.StartGrounded
			out[persistent.ID] = cs
			return
		}
		if tf, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			cs.X, cs.Y = tf.X, tf.Y
		}
		if body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok {
			cs.VelocityX, cs.VelocityY = body.VelocityX, body.VelocityY
		}
		out[persistent.ID] = cs
	})
	return out
}

func (p *PersistenceSystem) reloadWorld(w *ecs.World, carried map[string]CharacterState, placed bool) error {
	level, err := levels.LoadLevelFromFS(p.levelName)
	if err != nil {
		return fmt.Errorf("load level %q: %w", p.levelName, err)
	}
	return p.rebuild(w, level, carried, placed)
}

// rebuild replaces the current scene with level and restores carried characters.
func (p *PersistenceSystem) rebuild(w *ecs.World, level *levels.Level, carried map[string]CharacterState, placed bool) error {
	ecs.Clear(w)
	if p.physicsReset != nil {
		p.physicsReset()
	}

	if err := entity.LoadLevelToWorld(w, level); err != nil {
		return err
	}

	playerEnt, ok := ecs.First(w, component.PlayerTagComponent.Kind())
	if !ok {
		var err error
		if playerEnt, err = entity.NewPlayer(w); err != nil {
			return err
		}
	}

	if _, ok := ecs.First(w, component.CameraComponent.Kind()); !ok {
		var x, y float64
		if tf, ok := ecs.Get(w, playerEnt, component.TransformComponent.Kind()); ok {
			x, y = tf.X, tf.Y
		}
		if _, err := entity.NewCameraAt(w, x, y); err != nil {
			return err
		}
	}

	p.restore(w, carried, placed)

	p.loadSequence++
	ent := ecs.CreateEntity(w)
	_ = ecs.Add(w, ent, component.LevelLoadedComponent.Kind(), &component.LevelLoaded{Name: level.Name, Sequence: p.loadSequence})
	log.Printf("persistence: loaded level %q", level.Name)
	return nil
}

func (p *PersistenceSystem) restore(w *ecs.World, carried map[string]CharacterState, placed bool) {
	if len(carried) == 0 {
		return
	}
	ecs.ForEach2(w, component.PersistentComponent.Kind(), component.CharacterComponent.Kind(), func(e ecs.Entity, persistent *component.Persistent, ctrl *controller.Controller) {
		cs, ok := carried[persistent.ID]
		if !ok {
			return
		}
		ctrl.Restore(cs.Controller)

		if !placed {
			return
		}
		if tf, ok := ecs.Get(w, e, component.TransformComponent.Kind()); ok {
			tf.X, tf.Y = cs.X, cs.Y
		}
		if body, ok := ecs.Get(w, e, component.PhysicsBodyComponent.Kind()); ok {
			body.VelocityX, body.VelocityY = cs.VelocityX, cs.VelocityY
		}
	})
}

func (p *PersistenceSystem) firstLevelChangeRequest(w *ecs.World) (component.LevelChangeRequest, bool) {
	ent, ok := ecs.First(w, component.LevelChangeRequestComponent.Kind())
	if !ok {
		return component.LevelChangeRequest{}, false
	}
	req, ok := ecs.Get(w, ent, component.LevelChangeRequestComponent.Kind())
	if !ok || req == nil {
		return component.LevelChangeRequest{}, false
	}
	return *req, true
}

// consumeRequests destroys every entity carrying kind and reports whether there was one.
func consumeRequests[T any](w *ecs.World, kind component.ComponentKind[T]) bool {
	var found []ecs.Entity
	ecs.ForEach(w, kind, func(e ecs.Entity, _ *T) {
		found = append(found, e)
	})
	for _, e := range found {
		ecs.DestroyEntity(w, e)
	}
	return len(found) > 0
}
