package controller

import (
	"errors"
	"fmt"
	"strings"

	"github.com/elliotchance/orderedmap/v2"
)

var (
	ErrUnknownKey    = errors.New("controller: unknown key")
	ErrUnknownAction = errors.New("controller: unknown action")
)

// Key is a host-neutral physical key code. Hosts translate their own key codes
// into Key before handing events to a controller.
type Key int

const (
	KeyUnknown Key = iota
	KeyA
	KeyD
	KeyW
	KeySpace
	KeyArrowLeft
	KeyArrowRight
	KeyArrowUp
)

var keyNames = map[Key]string{
	KeyA:          "A",
	KeyD:          "D",
	KeyW:          "W",
	KeySpace:      "Space",
	KeyArrowLeft:  "ArrowLeft",
	KeyArrowRight: "ArrowRight",
	KeyArrowUp:    "ArrowUp",
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Key(%d)", int(k))
}

// ParseKey resolves a key name as written in prefab files. Matching is case-insensitive.
func ParseKey(name string) (Key, error) {
	trimmed := strings.TrimSpace(name)
	for k, n := range keyNames {
		if strings.EqualFold(n, trimmed) {
			return k, nil
		}
	}
	return KeyUnknown, fmt.Errorf("%w: %q", ErrUnknownKey, name)
}

// Action is one of the three logical actions a character responds to.
type Action int

const (
	ActionNone Action = iota
	ActionMoveLeft
	ActionMoveRight
	ActionJump
)

func (a Action) String() string {
	switch a {
	case ActionMoveLeft:
		return "move_left"
	case ActionMoveRight:
		return "move_right"
	case ActionJump:
		return "jump"
	default:
		return "none"
	}
}

func ParseAction(name string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "move_left":
		return ActionMoveLeft, nil
	case "move_right":
		return ActionMoveRight, nil
	case "jump":
		return ActionJump, nil
	}
	return ActionNone, fmt.Errorf("%w: %q", ErrUnknownAction, name)
}

// KeyEvent is a discrete key transition delivered by a KeySource.
type KeyEvent struct {
	Key     Key
	Pressed bool
}

// KeySource delivers the key events observed since the previous poll.
// Poll appends to dst and returns the extended slice.
type KeySource interface {
	Poll(dst []KeyEvent) []KeyEvent
}

// Bindings maps physical keys to actions. Iteration follows insertion order.
type Bindings struct {
	keys *orderedmap.OrderedMap[Key, Action]
}

func NewBindings() *Bindings {
	return &Bindings{keys: orderedmap.NewOrderedMap[Key, Action]()}
}

// DefaultBindings returns A/D for horizontal movement and Space for jump.
func DefaultBindings() *Bindings {
	b := NewBindings()
	b.Bind(KeyA, ActionMoveLeft)
	b.Bind(KeyD, ActionMoveRight)
	b.Bind(KeySpace, ActionJump)
	return b
}

// Bind assigns key to action, replacing any earlier binding for key.
// Binding to ActionNone removes the key.
func (b *Bindings) Bind(key Key, action Action) {
	if b == nil || key == KeyUnknown {
		return
	}
	if b.keys == nil {
		b.keys = orderedmap.NewOrderedMap[Key, Action]()
	}
	if action == ActionNone {
		b.keys.Delete(key)
		return
	}
	b.keys.Set(key, action)
}

// Action returns the action bound to key.
func (b *Bindings) Action(key Key) (Action, bool) {
	if b == nil || b.keys == nil {
		return ActionNone, false
	}
	return b.keys.Get(key)
}

func (b *Bindings) Len() int {
	if b == nil || b.keys == nil {
		return 0
	}
	return b.keys.Len()
}

// Each calls fn for every binding in insertion order.
func (b *Bindings) Each(fn func(key Key, action Action)) {
	if b == nil || b.keys == nil {
		return
	}
	for el := b.keys.Front(); el != nil; el = el.Next() {
		fn(el.Key, el.Value)
	}
}

// ParseBindings builds bindings from an action name -> key names table.
// Actions are bound in move_left, move_right, jump order so iteration is stable.
func ParseBindings(table map[string][]string) (*Bindings, error) {
	b := NewBindings()
	for _, action := range []Action{ActionMoveLeft, ActionMoveRight, ActionJump} {
		for _, name := range table[action.String()] {
			key, err := ParseKey(name)
			if err != nil {
				return nil, err
			}
			b.Bind(key, action)
		}
	}
	for name := range table {
		if _, err := ParseAction(name); err != nil {
			return nil, err
		}
	}
	return b, nil
}
