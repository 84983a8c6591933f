package prefabs

import "gopkg.in/yaml.v3"

// EntityBuildSpec is a prefab: a name plus a component name -> raw spec table.
type EntityBuildSpec struct {
	Name       string         `yaml:"name"`
	Components map[string]any `yaml:"components"`
}

func LoadEntityBuildSpec(filename string) (EntityBuildSpec, error) {
	return LoadSpec[EntityBuildSpec](filename)
}

func DecodeComponentSpec[T any](raw any) (T, error) {
	var zero T
	if raw == nil {
		return zero, nil
	}
	b, err := yaml.Marshal(raw)
	if err != nil {
		return zero, err
	}
	var out T
	if err := yaml.Unmarshal(b, &out); err != nil {
		return zero, err
	}
	return out, nil
}

// CharacterComponentSpec carries the controller tunables and key bindings.
// Bindings map an action name (move_left, move_right, jump) to key names.
type CharacterComponentSpec struct {
	HorizontalSpeed *float32            `yaml:"horizontal_speed"`
	JumpImpulse     *float32            `yaml:"jump_impulse"`
	StartGrounded   *bool               `yaml:"start_grounded"`
	Bindings        map[string][]string `yaml:"bindings"`
}

type TransformComponentSpec struct {
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Rotation float64 `yaml:"rotation"`
}

type PhysicsBodyComponentSpec struct {
	Width        float64 `yaml:"width"`
	Height       float64 `yaml:"height"`
	Mass         float64 `yaml:"mass"`
	Friction     float64 `yaml:"friction"`
	Elasticity   float64 `yaml:"elasticity"`
	Static       bool    `yaml:"static"`
	LockRotation bool    `yaml:"lock_rotation"`
}

type FootSensorComponentSpec struct {
	Width   float64 `yaml:"width"`
	Height  float64 `yaml:"height"`
	OffsetX float64 `yaml:"offset_x"`
	OffsetY float64 `yaml:"offset_y"`
}

type RectangleComponentSpec struct {
	Width  float64    `yaml:"width"`
	Height float64    `yaml:"height"`
	Color  *YAMLColor `yaml:"color"`
	Layer  int        `yaml:"layer"`
}

type CameraComponentSpec struct {
	TargetName string  `yaml:"target_name"`
	Zoom       float64 `yaml:"zoom"`
	Smoothness float64 `yaml:"smoothness"`
	OffsetY    float64 `yaml:"offset_y"`
}

type NameComponentSpec struct {
	Value string `yaml:"value"`
}

type PersistentComponentSpec struct {
	ID string `yaml:"id"`
}
