package component

type Camera struct {
	TargetName string
	// Zoom is screen pixels per world meter.
	Zoom       float64
	Smoothness float64
	// OffsetY lifts the view above the target, in meters.
	OffsetY float64
}

var CameraComponent = NewComponent[Camera]()
