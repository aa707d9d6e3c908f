package domain

// DeviceView is the editable row rendered for one registered device.
type DeviceView struct {
	Index          int
	Name           string
	FrequencyMin   float64
	FrequencyMax   float64
	Sectors        []string
	PendingRemoval bool
	Inverted       bool
}

// Views produces one view-model per device, in registry order.
func Views(devices []Device) []DeviceView {
	out := make([]DeviceView, 0, len(devices))
	for i, d := range devices {
		sectors := make([]string, len(d.Sectors))
		for j, s := range d.Sectors {
			sectors[j] = string(s)
		}
		out = append(out, DeviceView{
			Index:          i,
			Name:           d.Name,
			FrequencyMin:   d.FrequencyMin,
			FrequencyMax:   d.FrequencyMax,
			Sectors:        sectors,
			PendingRemoval: d.PendingRemoval,
			Inverted:       d.Inverted(),
		})
	}
	return out
}

// SectorBar is one horizontal band of the sector map.
// Offset and Width are fractions of the full frequency span.
type SectorBar struct {
	Name   string
	Offset float64
	Width  float64
}

// SectorMap lays out one bar per device over [FrequencyFloor, FrequencyCeiling].
// Inverted ranges are drawn from their lower to their higher bound.
func SectorMap(views []DeviceView) []SectorBar {
	span := FrequencyCeiling - FrequencyFloor
	bars := make([]SectorBar, 0, len(views))
	for _, v := range views {
		lo, hi := ClampFrequency(v.FrequencyMin), ClampFrequency(v.FrequencyMax)
		if lo > hi {
			lo, hi = hi, lo
		}
		bars = append(bars, SectorBar{
			Name:   v.Name,
			Offset: (lo - FrequencyFloor) / span,
			Width:  (hi - lo) / span,
		})
	}
	return bars
}
