package domain

import "math"

// Frequency bounds accepted by the editing controls.
const (
	FrequencyFloor   = 0.0
	FrequencyCeiling = 10000.0
)

// DefaultLabel is the label of a freshly created application state.
const DefaultLabel = "Client manager"

// WarnMessage is shown while the last commit collided with an existing name.
const WarnMessage = "try a unique name"

// Sector is an opaque sector label attached to a device.
type Sector string

// Device represents one managed client.
// This is a pure domain model with no dependencies on external concerns.
type Device struct {
	Name         string
	FrequencyMin float64
	FrequencyMax float64
	// PendingRemoval marks the device for deletion on the next Compact.
	PendingRemoval bool
	Sectors        []Sector
}

// Clone returns a deep copy of the device.
func (d Device) Clone() Device {
	out := d
	out.Sectors = make([]Sector, len(d.Sectors))
	copy(out.Sectors, d.Sectors)
	return out
}

// Inverted reports whether the lower bound is above the upper bound.
// Nothing forbids this state; views surface it instead.
func (d Device) Inverted() bool {
	return d.FrequencyMin > d.FrequencyMax
}

// ClampFrequency limits v to [FrequencyFloor, FrequencyCeiling]. NaN maps to the floor.
func ClampFrequency(v float64) float64 {
	if math.IsNaN(v) || v < FrequencyFloor {
		return FrequencyFloor
	}
	if v > FrequencyCeiling {
		return FrequencyCeiling
	}
	return v
}

// Snapshot is the persisted shape of the application state.
type Snapshot struct {
	Label   string
	Draft   *Device
	Warn    bool
	Devices []Device
}

// DefaultSnapshot returns the state used when nothing has been persisted yet.
func DefaultSnapshot() Snapshot {
	return Snapshot{
		Label:   DefaultLabel,
		Devices: []Device{},
	}
}

// Clone returns a deep copy of the snapshot.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Label:   s.Label,
		Warn:    s.Warn,
		Devices: make([]Device, len(s.Devices)),
	}
	for i, d := range s.Devices {
		out.Devices[i] = d.Clone()
	}
	if s.Draft != nil {
		draft := s.Draft.Clone()
		out.Draft = &draft
	}
	return out
}
