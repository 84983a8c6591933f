package component

// ReloadRequest is a marker component used to ask the persistence system to
// reload the current level. Systems create a short-lived entity carrying it.
type ReloadRequest struct{}

var ReloadRequestComponent = NewComponent[ReloadRequest]()
