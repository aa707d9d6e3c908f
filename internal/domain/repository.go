package domain

// StateRepository is a secondary port that defines how the whole application state is persisted.
// This interface is defined in the domain layer and implemented by adapters.
type StateRepository interface {
	Load() (Snapshot, error)
	Save(snapshot Snapshot) error
}
