package domain

import (
	"errors"
	"reflect"
	"testing"
)

func names(devices []Device) []string {
	out := make([]string, 0, len(devices))
	for _, d := range devices {
		out = append(out, d.Name)
	}
	return out
}

func TestRegistryCommit(t *testing.T) {
	r := NewRegistry(nil)

	if err := r.Commit(Device{Name: "A"}); err != nil {
		t.Fatalf("Commit(A) error = %v", err)
	}
	if err := r.Commit(Device{Name: "a"}); err != nil {
		t.Fatalf("Commit(a) error = %v, names are case-sensitive", err)
	}

	before := r.Devices()
	err := r.Commit(Device{Name: "A", FrequencyMin: 10})
	if !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("Commit(duplicate) error = %v, want ErrDuplicateName", err)
	}
	if !reflect.DeepEqual(r.Devices(), before) {
		t.Errorf("failed Commit changed registry: got %+v, want %+v", r.Devices(), before)
	}
	if got := names(r.Devices()); !reflect.DeepEqual(got, []string{"A", "a"}) {
		t.Errorf("names = %v, want [A a]", got)
	}
}

func TestRegistryNeverHoldsDuplicates(t *testing.T) {
	r := NewRegistry(nil)
	for _, name := range []string{"x", "y", "x", "z", "y", "", ""} {
		_ = r.Commit(Device{Name: name})
	}

	seen := make(map[string]bool)
	for _, d := range r.Devices() {
		if seen[d.Name] {
			t.Fatalf("registry holds %q twice", d.Name)
		}
		seen[d.Name] = true
	}
	if r.Len() != 4 {
		t.Errorf("Len() = %d, want 4", r.Len())
	}
}

func TestRegistryCompact(t *testing.T) {
	tests := []struct {
		name    string
		devices []Device
		want    []string
		removed int
	}{
		{
			name:    "removes flagged",
			devices: []Device{{Name: "A"}, {Name: "B", PendingRemoval: true}},
			want:    []string{"A"},
			removed: 1,
		},
		{
			name: "keeps order of survivors",
			devices: []Device{
				{Name: "A", PendingRemoval: true},
				{Name: "B"},
				{Name: "C", PendingRemoval: true},
				{Name: "D"},
				{Name: "E"},
			},
			want:    []string{"B", "D", "E"},
			removed: 2,
		},
		{
			name:    "nothing flagged",
			devices: []Device{{Name: "A"}, {Name: "B"}},
			want:    []string{"A", "B"},
		},
		{
			name:    "empty",
			devices: nil,
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry(tt.devices)
			if got := r.Compact(); got != tt.removed {
				t.Errorf("Compact() = %d, want %d", got, tt.removed)
			}
			first := r.Devices()
			if got := names(first); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("names = %v, want %v", got, tt.want)
			}
			if got := r.Compact(); got != 0 {
				t.Errorf("second Compact() = %d, want 0", got)
			}
			if !reflect.DeepEqual(r.Devices(), first) {
				t.Errorf("second Compact() changed registry")
			}
		})
	}
}

func TestRegistryMarkForRemovalIsDeferred(t *testing.T) {
	r := NewRegistry([]Device{{Name: "A"}, {Name: "B"}})

	if err := r.MarkForRemoval(1); err != nil {
		t.Fatalf("MarkForRemoval(1) error = %v", err)
	}
	if r.Len() != 2 {
		t.Fatalf("Len() = %d before Compact, want 2", r.Len())
	}
	d, ok := r.Device(1)
	if !ok || !d.PendingRemoval {
		t.Errorf("Device(1) = %+v, %v; want pending removal", d, ok)
	}

	r.Compact()
	if got := names(r.Devices()); !reflect.DeepEqual(got, []string{"A"}) {
		t.Errorf("names = %v, want [A]", got)
	}
}

func TestRegistryIndexErrors(t *testing.T) {
	r := NewRegistry([]Device{{Name: "A"}})
	v := 5.0

	for _, idx := range []int{-1, 1, 10} {
		if err := r.MarkForRemoval(idx); !errors.Is(err, ErrDeviceIndex) {
			t.Errorf("MarkForRemoval(%d) error = %v, want ErrDeviceIndex", idx, err)
		}
		if err := r.SetFrequencyRange(idx, &v, nil); !errors.Is(err, ErrDeviceIndex) {
			t.Errorf("SetFrequencyRange(%d) error = %v, want ErrDeviceIndex", idx, err)
		}
		if _, ok := r.Device(idx); ok {
			t.Errorf("Device(%d) ok = true, want false", idx)
		}
	}
}

func TestRegistrySetFrequencyRange(t *testing.T) {
	r := NewRegistry([]Device{{Name: "A", FrequencyMin: 1, FrequencyMax: 2}})
	max := 500.0

	if err := r.SetFrequencyRange(0, nil, &max); err != nil {
		t.Fatalf("SetFrequencyRange() error = %v", err)
	}
	d, _ := r.Device(0)
	if d.FrequencyMin != 1 || d.FrequencyMax != 500 {
		t.Errorf("range = [%v, %v], want [1, 500]", d.FrequencyMin, d.FrequencyMax)
	}
}

func TestRegistryReturnsCopies(t *testing.T) {
	r := NewRegistry([]Device{{Name: "A", Sectors: []Sector{"n"}}})

	devices := r.Devices()
	devices[0].Name = "changed"
	devices[0].Sectors[0] = "changed"

	d, _ := r.Device(0)
	if d.Name != "A" || d.Sectors[0] != "n" {
		t.Errorf("registry mutated through copy: %+v", d)
	}
}
