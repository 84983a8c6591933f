package component

// LevelLoaded is added once per level load. Systems that cache entity handles
// use it to drop them; the newest one wins.
type LevelLoaded struct {
	Name     string
	Sequence uint64
}

var LevelLoadedComponent = NewComponent[LevelLoaded]()
