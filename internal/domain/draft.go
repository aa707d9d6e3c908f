package domain

// DraftEditor holds at most one device under construction.
//
// It is either empty or editing. BeginNew moves from empty to editing,
// AttemptCommit and Cancel move back.
type DraftEditor struct {
	draft *Device
	warn  bool
}

// NewDraftEditor restores an editor from persisted values.
func NewDraftEditor(draft *Device, warn bool) *DraftEditor {
	e := &DraftEditor{warn: warn}
	if draft != nil {
		d := draft.Clone()
		e.draft = &d
	}
	return e
}

// Editing reports whether a draft exists.
func (e *DraftEditor) Editing() bool {
	return e.draft != nil
}

// Warn reports whether the last commit attempt collided with an existing name.
func (e *DraftEditor) Warn() bool {
	return e.warn
}

// Draft returns a copy of the current draft.
func (e *DraftEditor) Draft() (Device, bool) {
	if e.draft == nil {
		return Device{}, false
	}
	return e.draft.Clone(), true
}

// BeginNew starts an empty draft. It is a no-op returning false while a draft exists.
func (e *DraftEditor) BeginNew() bool {
	if e.draft != nil {
		return false
	}
	e.draft = &Device{Sectors: []Sector{}}
	e.warn = false
	return true
}

// SetName replaces the draft name.
func (e *DraftEditor) SetName(name string) error {
	if e.draft == nil {
		return ErrNoDraft
	}
	e.draft.Name = name
	return nil
}

// SetFrequencyMin replaces the draft lower bound.
func (e *DraftEditor) SetFrequencyMin(v float64) error {
	if e.draft == nil {
		return ErrNoDraft
	}
	e.draft.FrequencyMin = v
	return nil
}

// SetFrequencyMax replaces the draft upper bound.
func (e *DraftEditor) SetFrequencyMax(v float64) error {
	if e.draft == nil {
		return ErrNoDraft
	}
	e.draft.FrequencyMax = v
	return nil
}

// AttemptCommit moves the draft into the registry.
// On a name collision the draft is kept, warn is raised and the error wraps ErrDuplicateName.
func (e *DraftEditor) AttemptCommit(r *Registry) error {
	if e.draft == nil {
		return ErrNoDraft
	}
	if err := r.Commit(*e.draft); err != nil {
		e.warn = true
		return err
	}
	e.draft = nil
	e.warn = false
	return nil
}

// Cancel discards the draft and clears warn. It returns false when there was nothing to discard.
func (e *DraftEditor) Cancel() bool {
	if e.draft == nil {
		return false
	}
	e.draft = nil
	e.warn = false
	return true
}
