package gui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"

	"client-manager/internal/domain"
)

const (
	barHeight   = 12
	barPitch    = 16
	minBarWidth = 2
	mapMinWidth = 200
)

var (
	barColor    = color.NRGBA{R: 0x70, G: 0xa0, B: 0xb8, A: 0xff}
	markerColor = color.NRGBA{R: 0xe0, G: 0x80, B: 0x20, A: 0xff}
)

// sectorMap is a passive drawing of every device range over the slider span.
type sectorMap struct {
	layout *sectorLayout
	object *fyne.Container
}

func newSectorMap() *sectorMap {
	l := &sectorLayout{}
	return &sectorMap{layout: l, object: container.New(l)}
}

func (m *sectorMap) update(devices []domain.DeviceView, marker float64) {
	m.layout.bars = domain.SectorMap(devices)
	m.layout.marker = marker

	objects := make([]fyne.CanvasObject, 0, len(m.layout.bars)+1)
	for range m.layout.bars {
		objects = append(objects, canvas.NewRectangle(barColor))
	}
	line := canvas.NewLine(markerColor)
	line.StrokeWidth = 2
	objects = append(objects, line)

	m.object.Objects = objects
	m.object.Refresh()
}

func (m *sectorMap) setMarker(value float64) {
	m.layout.marker = value
	m.object.Refresh()
}

// sectorLayout places bar i at its fractional offset on row i, with the marker line last.
type sectorLayout struct {
	bars   []domain.SectorBar
	marker float64
}

func (l *sectorLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	for i, o := range objects {
		if i < len(l.bars) {
			b := l.bars[i]
			width := float32(b.Width) * size.Width
			if width < minBarWidth {
				width = minBarWidth
			}
			o.Move(fyne.NewPos(float32(b.Offset)*size.Width, float32(i*barPitch)))
			o.Resize(fyne.NewSize(width, barHeight))
			continue
		}
		x := float32(domain.ClampFrequency(l.marker)/domain.FrequencyCeiling) * size.Width
		if line, ok := o.(*canvas.Line); ok {
			line.Position1 = fyne.NewPos(x, 0)
			line.Position2 = fyne.NewPos(x, size.Height)
		}
	}
}

func (l *sectorLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	rows := len(l.bars)
	if rows == 0 {
		rows = 1
	}
	return fyne.NewSize(mapMinWidth, float32(rows*barPitch))
}
