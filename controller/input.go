package controller

// InputState holds the level-triggered state of the three character actions.
// Each field reflects the latest key event seen for its bound keys.
type InputState struct {
	MoveLeft  bool `yaml:"move_left"`
	MoveRight bool `yaml:"move_right"`
	JumpHeld  bool `yaml:"jump_held"`
}

// Set records the latest pressed state for action. ActionNone is ignored.
func (in *InputState) Set(action Action, pressed bool) {
	if in == nil {
		return
	}
	switch action {
	case ActionMoveLeft:
		in.MoveLeft = pressed
	case ActionMoveRight:
		in.MoveRight = pressed
	case ActionJump:
		in.JumpHeld = pressed
	}
}

// OnKeyEvent applies a raw key event through bindings. Keys without a binding
// leave the state untouched; repeated identical events are idempotent.
func (in *InputState) OnKeyEvent(bindings *Bindings, key Key, pressed bool) {
	action, ok := bindings.Action(key)
	if !ok {
		return
	}
	in.Set(action, pressed)
}

// Reset releases every action.
func (in *InputState) Reset() {
	if in == nil {
		return
	}
	*in = InputState{}
}
