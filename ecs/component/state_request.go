package component

// SaveStateRequest asks the persistence system to write every persistent
// character to the state file.
type SaveStateRequest struct{}

var SaveStateRequestComponent = NewComponent[SaveStateRequest]()

// LoadStateRequest asks the persistence system to reload the saved level and
// put the saved characters back.
type LoadStateRequest struct{}

var LoadStateRequestComponent = NewComponent[LoadStateRequest]()
