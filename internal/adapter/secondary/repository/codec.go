package repository

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"client-manager/internal/domain"
)

// Format selects the on-disk encoding of a snapshot.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFor picks YAML for .yaml/.yml paths and JSON for everything else.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// ParseFormat converts a user supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown format %q (want json or yaml)", s)
	}
}

// persistedState represents the document on disk.
// The transient view value of the state is never written.
type persistedState struct {
	Label   string            `json:"label" yaml:"label"`
	Draft   *persistedDevice  `json:"draft" yaml:"draft"`
	Warn    bool              `json:"warn" yaml:"warn"`
	Devices []persistedDevice `json:"devices" yaml:"devices"`
}

type persistedDevice struct {
	Name           string   `json:"name" yaml:"name"`
	FrequencyMin   float64  `json:"frequency_min" yaml:"frequency_min"`
	FrequencyMax   float64  `json:"frequency_max" yaml:"frequency_max"`
	PendingRemoval bool     `json:"pending_removal" yaml:"pending_removal"`
	Sectors        []string `json:"sectors" yaml:"sectors"`
}

// Marshal encodes a snapshot in the given format.
func Marshal(s domain.Snapshot, format Format) ([]byte, error) {
	p := fromDomain(s)
	switch format {
	case FormatYAML:
		data, err := yaml.Marshal(p)
		if err != nil {
			return nil, fmt.Errorf("marshal state: %w", err)
		}
		return data, nil
	default:
		data, err := json.MarshalIndent(p, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal state: %w", err)
		}
		return data, nil
	}
}

// Unmarshal decodes a snapshot. Fields missing from the document keep their defaults.
func Unmarshal(data []byte, format Format) (domain.Snapshot, error) {
	def := domain.DefaultSnapshot()
	p := persistedState{Label: def.Label}

	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &p)
	default:
		err = json.Unmarshal(data, &p)
	}
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("unmarshal state: %w", err)
	}
	return p.toDomain(), nil
}

func fromDomain(s domain.Snapshot) persistedState {
	p := persistedState{
		Label:   s.Label,
		Warn:    s.Warn,
		Devices: make([]persistedDevice, 0, len(s.Devices)),
	}
	for _, d := range s.Devices {
		p.Devices = append(p.Devices, deviceFromDomain(d))
	}
	if s.Draft != nil {
		d := deviceFromDomain(*s.Draft)
		p.Draft = &d
	}
	return p
}

func deviceFromDomain(d domain.Device) persistedDevice {
	sectors := make([]string, len(d.Sectors))
	for i, s := range d.Sectors {
		sectors[i] = string(s)
	}
	return persistedDevice{
		Name:           d.Name,
		FrequencyMin:   d.FrequencyMin,
		FrequencyMax:   d.FrequencyMax,
		PendingRemoval: d.PendingRemoval,
		Sectors:        sectors,
	}
}

func (p persistedState) toDomain() domain.Snapshot {
	s := domain.Snapshot{
		Label:   p.Label,
		Warn:    p.Warn,
		Devices: make([]domain.Device, 0, len(p.Devices)),
	}
	for _, d := range p.Devices {
		s.Devices = append(s.Devices, d.toDomain())
	}
	if p.Draft != nil {
		d := p.Draft.toDomain()
		s.Draft = &d
	}
	return s
}

func (d persistedDevice) toDomain() domain.Device {
	sectors := make([]domain.Sector, len(d.Sectors))
	for i, s := range d.Sectors {
		sectors[i] = domain.Sector(s)
	}
	return domain.Device{
		Name:           d.Name,
		FrequencyMin:   d.FrequencyMin,
		FrequencyMax:   d.FrequencyMax,
		PendingRemoval: d.PendingRemoval,
		Sectors:        sectors,
	}
}
