package component

// Persistent marks an entity whose character state survives a level reload.
// Entities are matched across loads by ID.
type Persistent struct {
	ID string
}

var PersistentComponent = NewComponent[Persistent]()
