package common

const (
	BaseWidth  = 1280
	BaseHeight = 720
)

const (
	// TicksPerSecond is the fixed simulation rate.
	TicksPerSecond = 60
	TickSeconds    = 1.0 / TicksPerSecond

	// Gravity is the downward acceleration in meters per second squared.
	Gravity = 9.81
)

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}
