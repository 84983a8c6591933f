package component

import "github.com/milk9111/platformer/controller"

// CharacterComponent stores the grounded character controller of an entity.
var CharacterComponent = NewComponent[controller.Controller]()
