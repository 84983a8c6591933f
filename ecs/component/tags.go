package component

type PlayerTag struct{}

var PlayerTagComponent = NewComponent[PlayerTag]()

// GroundTag marks an entity as valid floor for grounding.
type GroundTag struct{}

var GroundTagComponent = NewComponent[GroundTag]()

type CameraTag struct{}

var CameraTagComponent = NewComponent[CameraTag]()
