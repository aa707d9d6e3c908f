package domain

import (
	"errors"
	"fmt"
)

// ActionType identifies what an Action does to the state.
type ActionType string

const (
	ActionBeginDraft   ActionType = "BeginDraft"
	ActionEditDraft    ActionType = "EditDraft"
	ActionCommitDraft  ActionType = "CommitDraft"
	ActionCancelDraft  ActionType = "CancelDraft"
	ActionEditDevice   ActionType = "EditDevice"
	ActionRemoveDevice ActionType = "RemoveDevice"
)

// DeviceEdit carries optional field changes. Nil fields are left unchanged.
// Only the frequency bounds of committed devices are editable; Name applies to the draft.
type DeviceEdit struct {
	Name         *string
	FrequencyMin *float64
	FrequencyMax *float64
}

// Clamped returns a copy with both bounds limited by ClampFrequency.
func (e DeviceEdit) Clamped() DeviceEdit {
	out := e
	if e.FrequencyMin != nil {
		v := ClampFrequency(*e.FrequencyMin)
		out.FrequencyMin = &v
	}
	if e.FrequencyMax != nil {
		v := ClampFrequency(*e.FrequencyMax)
		out.FrequencyMax = &v
	}
	return out
}

// Action is one user input applied during a frame.
type Action struct {
	Type  ActionType
	Index int
	Edit  DeviceEdit
}

func BeginDraft() Action { return Action{Type: ActionBeginDraft} }
func EditDraft(edit DeviceEdit) Action { return Action{Type: ActionEditDraft, Edit: edit} }
func CommitDraft() Action { return Action{Type: ActionCommitDraft} }
func CancelDraft() Action { return Action{Type: ActionCancelDraft} }
func RemoveDevice(index int) Action { return Action{Type: ActionRemoveDevice, Index: index} }
func EditDevice(index int, edit DeviceEdit) Action {
	return Action{Type: ActionEditDevice, Index: index, Edit: edit}
}

// Frame is the outcome of one Update: the view-models to render plus what changed.
type Frame struct {
	Label   string
	Devices []DeviceView
	Draft   *Device
	Warn    bool

	Started   bool
	Cancelled bool
	Committed []string
	Removed   int
}

// Update applies actions in order and then compacts the registry once.
// A removal requested by an earlier action is still visible to later actions of the same frame.
// Every action is attempted; their errors are joined.
func (s *AppState) Update(actions ...Action) (Frame, error) {
	var (
		errs      []error
		started   bool
		cancelled bool
		committed []string
	)
	for _, a := range actions {
		switch a.Type {
		case ActionBeginDraft:
			if s.Editor.BeginNew() {
				started = true
			}
		case ActionEditDraft:
			errs = append(errs, s.editDraft(a.Edit))
		case ActionCommitDraft:
			name := ""
			if d, ok := s.Editor.Draft(); ok {
				name = d.Name
			}
			if err := s.Editor.AttemptCommit(s.Registry); err != nil {
				errs = append(errs, err)
			} else {
				committed = append(committed, name)
			}
		case ActionCancelDraft:
			if s.Editor.Cancel() {
				cancelled = true
			}
		case ActionEditDevice:
			errs = append(errs, s.Registry.SetFrequencyRange(a.Index, a.Edit.FrequencyMin, a.Edit.FrequencyMax))
		case ActionRemoveDevice:
			errs = append(errs, s.Registry.MarkForRemoval(a.Index))
		default:
			errs = append(errs, fmt.Errorf("%w: %s", ErrUnknownAction, a.Type))
		}
	}

	removed := s.Registry.Compact()

	f := s.View()
	f.Started = started
	f.Cancelled = cancelled
	f.Committed = committed
	f.Removed = removed
	return f, errors.Join(errs...)
}

func (s *AppState) editDraft(edit DeviceEdit) error {
	if !s.Editor.Editing() {
		return ErrNoDraft
	}
	if edit.Name != nil {
		if err := s.Editor.SetName(*edit.Name); err != nil {
			return err
		}
	}
	if edit.FrequencyMin != nil {
		if err := s.Editor.SetFrequencyMin(*edit.FrequencyMin); err != nil {
			return err
		}
	}
	if edit.FrequencyMax != nil {
		if err := s.Editor.SetFrequencyMax(*edit.FrequencyMax); err != nil {
			return err
		}
	}
	return nil
}
