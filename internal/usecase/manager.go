package usecase

import (
	"errors"
	"fmt"
	"sync"

	"client-manager/internal/domain"
	"client-manager/internal/logging"
)

// ClientManager is the primary port for device list editing.
// Each mutating call runs exactly one frame against the root state.
type ClientManager interface {
	Current() domain.Frame
	Snapshot() domain.Snapshot
	Apply(actions ...domain.Action) (domain.Frame, error)

	BeginDraft() (domain.Frame, error)
	EditDraft(edit domain.DeviceEdit) (domain.Frame, error)
	CommitDraft() (domain.Frame, error)
	CancelDraft() (domain.Frame, error)
	EditDevice(index int, edit domain.DeviceEdit) (domain.Frame, error)
	RemoveDevice(index int) (domain.Frame, error)

	// Value and SetValue access the transient view value, which is never persisted.
	Value() float64
	SetValue(v float64)

	Save() error
	Close() error
}

// Options tune the interactor.
type Options struct {
	// Autosave persists the state after every frame.
	Autosave bool
}

// clientManagerInteractor implements ClientManager.
// It depends only on the domain layer and the state repository port.
type clientManagerInteractor struct {
	repo domain.StateRepository
	opts Options

	mu    sync.Mutex
	state *domain.AppState
}

// NewClientManager loads the persisted state and returns the interactor.
func NewClientManager(repo domain.StateRepository, opts Options) (ClientManager, error) {
	if repo == nil {
		return nil, errors.New("state repository is required")
	}
	snap, err := repo.Load()
	if err != nil {
		return nil, fmt.Errorf("load state: %w", err)
	}
	logging.Debugf("state loaded: %d devices, draft=%t, warn=%t", len(snap.Devices), snap.Draft != nil, snap.Warn)

	return &clientManagerInteractor{
		repo:  repo,
		opts:  opts,
		state: domain.RestoreAppState(snap),
	}, nil
}

// Current returns the state as it would be rendered now.
func (m *clientManagerInteractor) Current() domain.Frame {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.View()
}

// Snapshot returns a copy of the persisted shape.
func (m *clientManagerInteractor) Snapshot() domain.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Snapshot()
}

// Apply runs one frame. Frequency edits are clamped to the slider range first.
func (m *clientManagerInteractor) Apply(actions ...domain.Action) (domain.Frame, error) {
	clamped := make([]domain.Action, len(actions))
	for i, a := range actions {
		a.Edit = a.Edit.Clamped()
		clamped[i] = a
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	frame, err := m.state.Update(clamped...)
	m.logFrame(frame, err)

	if m.opts.Autosave {
		if saveErr := m.repo.Save(m.state.Snapshot()); saveErr != nil {
			logging.Errorf("autosave failed: %v", saveErr)
			return frame, errors.Join(err, fmt.Errorf("save state: %w", saveErr))
		}
	}
	return frame, err
}

func (m *clientManagerInteractor) logFrame(f domain.Frame, err error) {
	if f.Started {
		logging.Infof("new device draft started")
	}
	for _, name := range f.Committed {
		logging.Infof("device %q committed", name)
	}
	if f.Cancelled {
		logging.Infof("device draft discarded")
	}
	if f.Removed > 0 {
		logging.Infof("removed %d device(s)", f.Removed)
	}
	if errors.Is(err, domain.ErrDuplicateName) {
		logging.Warnf("commit rejected: %v", err)
	} else if err != nil {
		logging.Debugf("frame finished with errors: %v", err)
	}
	logging.Tracef("frame: %d devices, draft=%t, warn=%t", len(f.Devices), f.Draft != nil, f.Warn)
}

func (m *clientManagerInteractor) BeginDraft() (domain.Frame, error) {
	return m.Apply(domain.BeginDraft())
}

func (m *clientManagerInteractor) EditDraft(edit domain.DeviceEdit) (domain.Frame, error) {
	return m.Apply(domain.EditDraft(edit))
}

func (m *clientManagerInteractor) CommitDraft() (domain.Frame, error) {
	return m.Apply(domain.CommitDraft())
}

func (m *clientManagerInteractor) CancelDraft() (domain.Frame, error) {
	return m.Apply(domain.CancelDraft())
}

func (m *clientManagerInteractor) EditDevice(index int, edit domain.DeviceEdit) (domain.Frame, error) {
	return m.Apply(domain.EditDevice(index, edit))
}

func (m *clientManagerInteractor) RemoveDevice(index int) (domain.Frame, error) {
	return m.Apply(domain.RemoveDevice(index))
}

func (m *clientManagerInteractor) Value() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.Value
}

func (m *clientManagerInteractor) SetValue(v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.state.Value = v
}

// Save persists the whole state.
func (m *clientManagerInteractor) Save() error {
	m.mu.Lock()
	snap := m.state.Snapshot()
	m.mu.Unlock()

	if err := m.repo.Save(snap); err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// Close saves the state on shutdown.
func (m *clientManagerInteractor) Close() error {
	logging.Debugf("saving state on shutdown")
	return m.Save()
}
