package component

import "github.com/milk9111/platformer/controller"

// Input buffers the key events delivered for an entity during the current
// tick. The controller system drains it before running the character update.
type Input struct {
	Events []controller.KeyEvent
}

var InputComponent = NewComponent[Input]()
