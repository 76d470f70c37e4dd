// Package dialogs provides application dialogs.
package dialogs

import (
	"fmt"
	"image/color"
	"strconv"

	"pancrop/internal/crop"
	"pancrop/ui/prefs"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"
)

// SettingsDialog edits the stored crop preferences. Changes apply to the
// next session that is started.
type SettingsDialog struct {
	prefs  *prefs.Prefs
	window fyne.Window

	anchorEntry    *widget.Entry
	incrementEntry *widget.Entry
	lineWidthEntry *widget.Entry
	paddingEntry   *widget.Entry

	resizableCheck *widget.Check
	draggableCheck *widget.Check
	drawableCheck  *widget.Check

	clipEntry   *widget.Entry
	dragEntry   *widget.Entry
	resizeEntry *widget.Entry

	clipSwatch   *fynecanvas.Rectangle
	dragSwatch   *fynecanvas.Rectangle
	resizeSwatch *fynecanvas.Rectangle

	onSave func()
}

// NewSettingsDialog creates a settings dialog over p.
func NewSettingsDialog(p *prefs.Prefs, window fyne.Window, onSave func()) *SettingsDialog {
	return &SettingsDialog{
		prefs:  p,
		window: window,
		onSave: onSave,
	}
}

// Show displays the dialog.
func (d *SettingsDialog) Show() {
	content := d.createContent()

	dlg := dialog.NewCustomConfirm(
		"Crop Settings",
		"Save",
		"Cancel",
		content,
		func(save bool) {
			if !save {
				return
			}
			d.applyChanges()
			if err := d.prefs.Save(); err != nil {
				dialog.ShowError(err, d.window)
				return
			}
			if d.onSave != nil {
				d.onSave()
			}
		},
		d.window,
	)
	dlg.Resize(fyne.NewSize(420, 560))
	dlg.Show()
}

func (d *SettingsDialog) createContent() fyne.CanvasObject {
	opts := d.prefs.CropOptions(crop.DefaultOptions())

	d.anchorEntry = floatEntry(opts.AnchorSize)
	d.incrementEntry = floatEntry(opts.MoveIncrement)
	d.lineWidthEntry = floatEntry(opts.Style.LineWidth)
	d.paddingEntry = floatEntry(opts.ImagePadding)

	sizesForm := widget.NewForm(
		widget.NewFormItem("Anchor size (px)", d.anchorEntry),
		widget.NewFormItem("Arrow key step (px)", d.incrementEntry),
		widget.NewFormItem("Line width (px)", d.lineWidthEntry),
		widget.NewFormItem("Canvas padding", d.paddingEntry),
	)

	d.resizableCheck = widget.NewCheck("Resize from corners", nil)
	d.resizableCheck.SetChecked(opts.Resizable)
	d.draggableCheck = widget.NewCheck("Drag to move", nil)
	d.draggableCheck.SetChecked(opts.Draggable)
	d.drawableCheck = widget.NewCheck("Draw new crops", nil)
	d.drawableCheck.SetChecked(opts.Drawable)

	d.clipEntry, d.clipSwatch = colorEntry(opts.Style.ClipStroke)
	d.dragEntry, d.dragSwatch = colorEntry(opts.Style.DragStroke)
	d.resizeEntry, d.resizeSwatch = colorEntry(opts.Style.ResizeStroke)

	colorsForm := widget.NewForm(
		widget.NewFormItem("Outline", container.NewBorder(nil, nil, nil, d.clipSwatch, d.clipEntry)),
		widget.NewFormItem("While dragging", container.NewBorder(nil, nil, nil, d.dragSwatch, d.dragEntry)),
		widget.NewFormItem("While resizing", container.NewBorder(nil, nil, nil, d.resizeSwatch, d.resizeEntry)),
	)

	return container.NewVBox(
		widget.NewCard("Sizes", "", sizesForm),
		widget.NewCard("Interaction", "", container.NewVBox(d.resizableCheck, d.draggableCheck, d.drawableCheck)),
		widget.NewCard("Colours", "#rrggbb or #rrggbbaa", colorsForm),
	)
}

func (d *SettingsDialog) applyChanges() {
	for key, entry := range map[string]*widget.Entry{
		prefs.KeyAnchorSize:    d.anchorEntry,
		prefs.KeyMoveIncrement: d.incrementEntry,
		prefs.KeyLineWidth:     d.lineWidthEntry,
		prefs.KeyImagePadding:  d.paddingEntry,
	} {
		if v, err := strconv.ParseFloat(entry.Text, 64); err == nil && v > 0 {
			d.prefs.SetFloat(key, v)
		}
	}

	d.prefs.SetBool(prefs.KeyResizable, d.resizableCheck.Checked)
	d.prefs.SetBool(prefs.KeyDraggable, d.draggableCheck.Checked)
	d.prefs.SetBool(prefs.KeyDrawable, d.drawableCheck.Checked)

	for key, entry := range map[string]*widget.Entry{
		prefs.KeyClipStroke:   d.clipEntry,
		prefs.KeyDragStroke:   d.dragEntry,
		prefs.KeyResizeStroke: d.resizeEntry,
	} {
		if c, err := prefs.ParseColor(entry.Text); err == nil {
			d.prefs.SetString(key, prefs.FormatColor(c))
		}
	}
}

func floatEntry(v float64) *widget.Entry {
	e := widget.NewEntry()
	e.SetText(fmt.Sprintf("%g", v))
	return e
}

// colorEntry returns an entry holding c and a swatch that follows it.
func colorEntry(c color.NRGBA) (*widget.Entry, *fynecanvas.Rectangle) {
	swatch := fynecanvas.NewRectangle(c)
	swatch.SetMinSize(fyne.NewSize(40, 24))

	e := widget.NewEntry()
	e.SetText(prefs.FormatColor(c))
	e.OnChanged = func(s string) {
		if parsed, err := prefs.ParseColor(s); err == nil {
			swatch.FillColor = parsed
			fynecanvas.Refresh(swatch)
		}
	}
	return e, swatch
}
