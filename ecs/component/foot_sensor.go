package component

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/platformer/controller"
)

// FootSensor is a sensor box attached under an entity's physics body. It never
// produces collision response; it only reports which bodies it overlaps.
// Offsets are relative to the body center.
type FootSensor struct {
	Width   float64
	Height  float64
	OffsetX float64
	OffsetY float64
	Shape   *cp.Shape

	// Contacts holds the pairs reported by the last physics step, sensor owner
	// on side A. It is rewritten every step.
	Contacts []controller.ContactPair
}

var FootSensorComponent = NewComponent[FootSensor]()
