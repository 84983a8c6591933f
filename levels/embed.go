package levels

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"path"
	"strings"
)

//go:embed *.json
var LevelsFS embed.FS

// Level lists the prefabs placed in a scene. Coordinates are meters, y-up.
type Level struct {
	Name     string   `json:"name"`
	Entities []Entity `json:"entities,omitempty"`
}

// Entity places one prefab. Type names a prefab file without its extension.
// Props override component fields of the built entity, for example width and
// height for static boxes.
type Entity struct {
	Type  string                 `json:"type"`
	X     float64                `json:"x"`
	Y     float64                `json:"y"`
	Props map[string]interface{} `json:"props,omitempty"`
}

// PropFloat returns Props[key] as a float64.
func (e Entity) PropFloat(key string) (float64, bool) {
	v, ok := e.Props[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

func (e Entity) PropString(key string) (string, bool) {
	v, ok := e.Props[key].(string)
	return v, ok
}

// Names lists the embedded levels without their extension.
func Names() ([]string, error) {
	entries, err := fs.ReadDir(LevelsFS, ".")
	if err != nil {
		return nil, fmt.Errorf("levels: list: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".json" {
			continue
		}
		names = append(names, strings.TrimSuffix(entry.Name(), ".json"))
	}
	return names, nil
}

func LoadLevelFromFS(name string) (*Level, error) {
	if path.Ext(name) == "" {
		name += ".json"
	}
	data, err := fs.ReadFile(LevelsFS, name)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	var lvl Level
	if err := json.Unmarshal(data, &lvl); err != nil {
		return nil, fmt.Errorf("unmarshal level: %w", err)
	}
	for i, ent := range lvl.Entities {
		if strings.TrimSpace(ent.Type) == "" {
			return nil, fmt.Errorf("level %s: entity %d has no type", name, i)
		}
	}
	if lvl.Name == "" {
		lvl.Name = strings.TrimSuffix(name, ".json")
	}
	return &lvl, nil
}
