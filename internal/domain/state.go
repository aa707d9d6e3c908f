package domain

// AppState is the single root owning the registry, the draft editor and the warn flag.
// It is mutated only through Update, one frame at a time.
type AppState struct {
	Label    string
	Registry *Registry
	Editor   *DraftEditor
	// Value is transient view state and is never persisted.
	Value float64
}

// NewAppState returns the default state.
func NewAppState() *AppState {
	return RestoreAppState(DefaultSnapshot())
}

// RestoreAppState rebuilds the root state from a persisted snapshot.
func RestoreAppState(s Snapshot) *AppState {
	return &AppState{
		Label:    s.Label,
		Registry: NewRegistry(s.Devices),
		Editor:   NewDraftEditor(s.Draft, s.Warn),
	}
}

// Snapshot returns a deep copy of everything that is persisted.
func (s *AppState) Snapshot() Snapshot {
	snap := Snapshot{
		Label:   s.Label,
		Warn:    s.Editor.Warn(),
		Devices: s.Registry.Devices(),
	}
	if d, ok := s.Editor.Draft(); ok {
		snap.Draft = &d
	}
	return snap
}

// View returns the current frame without applying any action.
func (s *AppState) View() Frame {
	f := Frame{
		Label:   s.Label,
		Devices: Views(s.Registry.Devices()),
		Warn:    s.Editor.Warn(),
	}
	if d, ok := s.Editor.Draft(); ok {
		f.Draft = &d
	}
	return f
}
