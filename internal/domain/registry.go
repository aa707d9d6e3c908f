package domain

import "fmt"

// Registry holds the committed devices in insertion order.
// Name uniqueness is checked when committing, not enforced by the structure.
type Registry struct {
	devices []Device
}

// NewRegistry creates a registry holding copies of the given devices.
func NewRegistry(devices []Device) *Registry {
	r := &Registry{devices: make([]Device, 0, len(devices))}
	for _, d := range devices {
		r.devices = append(r.devices, d.Clone())
	}
	return r
}

// Len returns the number of devices, including those pending removal.
func (r *Registry) Len() int {
	return len(r.devices)
}

// Device returns a copy of the device at index.
func (r *Registry) Device(index int) (Device, bool) {
	if index < 0 || index >= len(r.devices) {
		return Device{}, false
	}
	return r.devices[index].Clone(), true
}

// Devices returns a deep copy of the registry contents.
func (r *Registry) Devices() []Device {
	out := make([]Device, len(r.devices))
	for i, d := range r.devices {
		out[i] = d.Clone()
	}
	return out
}

// Contains reports whether a device with exactly this name is registered.
func (r *Registry) Contains(name string) bool {
	for _, d := range r.devices {
		if d.Name == name {
			return true
		}
	}
	return false
}

// Commit appends device unless its name is already taken.
// On failure the registry is left untouched.
func (r *Registry) Commit(device Device) error {
	if r.Contains(device.Name) {
		return fmt.Errorf("%w: %q", ErrDuplicateName, device.Name)
	}
	r.devices = append(r.devices, device.Clone())
	return nil
}

// MarkForRemoval flags the device at index. It stays visible until Compact runs.
func (r *Registry) MarkForRemoval(index int) error {
	if index < 0 || index >= len(r.devices) {
		return fmt.Errorf("%w: %d", ErrDeviceIndex, index)
	}
	r.devices[index].PendingRemoval = true
	return nil
}

// SetFrequencyRange updates the bounds of the device at index. Nil bounds are left unchanged.
func (r *Registry) SetFrequencyRange(index int, min, max *float64) error {
	if index < 0 || index >= len(r.devices) {
		return fmt.Errorf("%w: %d", ErrDeviceIndex, index)
	}
	if min != nil {
		r.devices[index].FrequencyMin = *min
	}
	if max != nil {
		r.devices[index].FrequencyMax = *max
	}
	return nil
}

// Compact drops every device flagged for removal, keeping the order of the rest.
// It walks the whole list and returns how many devices were removed.
func (r *Registry) Compact() int {
	kept := r.devices[:0]
	removed := 0
	for _, d := range r.devices {
		if d.PendingRemoval {
			removed++
			continue
		}
		kept = append(kept, d)
	}
	clear(r.devices[len(kept):])
	r.devices = kept
	return removed
}
