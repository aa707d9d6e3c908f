package gui

import (
	"image/color"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"client-manager/internal/domain"
	"client-manager/internal/logging"
	"client-manager/internal/usecase"
)

const (
	AppID        = "com.example.clientmanager"
	WindowWidth  = 640
	WindowHeight = 720
)

var warnColor = color.NRGBA{R: 0xd0, G: 0x20, B: 0x20, A: 0xff}

// Run opens the desktop window and blocks until it is closed.
// The caller is responsible for saving the state afterwards.
func Run(uc usecase.ClientManager) {
	fyneApp := app.NewWithID(AppID)
	frame := uc.Current()
	window := fyneApp.NewWindow(frame.Label)

	quit := fyne.NewMenuItem("Quit", func() { fyneApp.Quit() })
	quit.IsQuit = true
	window.SetMainMenu(fyne.NewMainMenu(fyne.NewMenu("File", quit)))

	v := newView(uc)
	window.SetContent(v.content)
	window.Resize(fyne.NewSize(WindowWidth, WindowHeight))
	window.CenterOnScreen()
	window.SetMaster()

	v.render(frame)
	logging.Infof("desktop window opened")
	window.ShowAndRun()
	logging.Infof("desktop window closed")
}

// view rebuilds its widgets from a frame after every structural change,
// the way an immediate-mode UI would redraw each frame.
type view struct {
	uc usecase.ClientManager

	heading   *widget.Label
	editor    *fyne.Container
	clients   *widget.Accordion
	sectorMap *sectorMap
	content   fyne.CanvasObject

	open map[string]bool
}

func newView(uc usecase.ClientManager) *view {
	v := &view{
		uc:        uc,
		heading:   widget.NewLabelWithStyle("", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		editor:    container.NewVBox(),
		clients:   widget.NewAccordion(),
		sectorMap: newSectorMap(),
		open:      make(map[string]bool),
	}
	v.clients.MultiOpen = true

	marker := widget.NewSlider(domain.FrequencyFloor, domain.FrequencyCeiling)
	marker.SetValue(uc.Value())
	marker.OnChanged = func(value float64) {
		v.uc.SetValue(value)
		v.sectorMap.setMarker(value)
	}

	v.content = container.NewBorder(
		container.NewVBox(v.heading, v.editor, widget.NewSeparator()),
		container.NewVBox(widget.NewSeparator(), widget.NewLabel("Sector map"), v.sectorMap.object, marker),
		nil, nil,
		container.NewVScroll(widget.NewAccordion(widget.NewAccordionItem("Clients", v.clients))),
	)
	return v
}

// apply runs one frame and redraws.
func (v *view) apply(run func() (domain.Frame, error)) {
	frame, err := run()
	if err != nil {
		logging.Debugf("frame error: %v", err)
	}
	v.render(frame)
}

func (v *view) render(frame domain.Frame) {
	v.heading.SetText(frame.Label)
	v.renderEditor(frame)
	v.renderClients(frame.Devices)
	v.sectorMap.update(frame.Devices, v.uc.Value())
}

func (v *view) renderEditor(frame domain.Frame) {
	v.editor.RemoveAll()

	if frame.Draft == nil {
		v.editor.Add(widget.NewButton("new client", func() { v.apply(v.uc.BeginDraft) }))
		v.editor.Refresh()
		return
	}

	name := widget.NewEntry()
	name.SetPlaceHolder("device name")
	name.SetText(frame.Draft.Name)
	name.OnChanged = func(s string) {
		if _, err := v.uc.EditDraft(domain.DeviceEdit{Name: &s}); err != nil {
			logging.Debugf("edit draft: %v", err)
		}
	}
	finish := widget.NewButton("finish", func() { v.apply(v.uc.CommitDraft) })
	cancel := widget.NewButton("cancel", func() { v.apply(v.uc.CancelDraft) })

	v.editor.Add(container.NewBorder(nil, nil, nil, container.NewHBox(finish, cancel), name))
	if frame.Warn {
		v.editor.Add(canvas.NewText(domain.WarnMessage, warnColor))
	}
	v.editor.Refresh()
}

func (v *view) renderClients(devices []domain.DeviceView) {
	for _, item := range v.clients.Items {
		v.open[item.Title] = item.Open
	}

	items := make([]*widget.AccordionItem, 0, len(devices))
	for _, d := range devices {
		item := widget.NewAccordionItem(d.Name, v.deviceDetail(d))
		item.Open = v.open[d.Name]
		items = append(items, item)
	}
	v.clients.Items = items
	v.clients.Refresh()
}

func (v *view) deviceDetail(d domain.DeviceView) fyne.CanvasObject {
	index := d.Index
	minRow := v.rangeSlider("min range", d.FrequencyMin, func(value float64) domain.DeviceEdit {
		return domain.DeviceEdit{FrequencyMin: &value}
	}, index)
	maxRow := v.rangeSlider("max range", d.FrequencyMax, func(value float64) domain.DeviceEdit {
		return domain.DeviceEdit{FrequencyMax: &value}
	}, index)
	remove := widget.NewButton("remove device", func() {
		v.apply(func() (domain.Frame, error) { return v.uc.RemoveDevice(index) })
	})
	return container.NewVBox(minRow, maxRow, remove)
}

// rangeSlider edits one bound in place; the list is not rebuilt so the drag is not interrupted.
func (v *view) rangeSlider(label string, value float64, edit func(float64) domain.DeviceEdit, index int) fyne.CanvasObject {
	text := widget.NewLabel(formatRange(label, value))
	slider := widget.NewSlider(domain.FrequencyFloor, domain.FrequencyCeiling)
	slider.Step = 1
	slider.SetValue(value)
	slider.OnChanged = func(value float64) {
		text.SetText(formatRange(label, value))
		frame, err := v.uc.EditDevice(index, edit(value))
		if err != nil {
			logging.Debugf("edit device %d: %v", index, err)
			return
		}
		v.sectorMap.update(frame.Devices, v.uc.Value())
	}
	return container.NewBorder(nil, nil, nil, text, slider)
}

func formatRange(label string, value float64) string {
	return label + " " + strconv.FormatFloat(value, 'f', 0, 64)
}
