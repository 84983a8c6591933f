package component

// LevelChangeRequest asks the persistence system to unload the current level
// and load TargetLevel in its place.
type LevelChangeRequest struct {
	TargetLevel string
}

var LevelChangeRequestComponent = NewComponent[LevelChangeRequest]()
