package dialogs

import (
	"fmt"
	"image"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"

	pcimage "pancrop/internal/image"
)

// ShowPreview displays a cropped preview with a button to save it.
func ShowPreview(preview image.Image, window fyne.Window, onSaved func(path string)) {
	img := fynecanvas.NewImageFromImage(preview)
	img.FillMode = fynecanvas.ImageFillContain
	img.SetMinSize(fyne.NewSize(320, 320))

	b := preview.Bounds()
	info := widget.NewLabel(sizeLabel(b))

	var dlg dialog.Dialog
	save := widget.NewButton("Save As...", func() {
		fd := dialog.NewFileSave(func(writer fyne.URIWriteCloser, err error) {
			if err != nil || writer == nil {
				return
			}
			writer.Close()
			path := writer.URI().Path()
			if err := pcimage.Save(preview, path); err != nil {
				dialog.ShowError(err, window)
				return
			}
			if onSaved != nil {
				onSaved(path)
			}
			dlg.Hide()
		}, window)
		fd.SetFileName("crop.png")
		fd.SetFilter(storage.NewExtensionFileFilter(pcimage.SupportedFormats()))
		fd.Show()
	})

	content := container.NewBorder(nil, container.NewHBox(info, save), nil, nil, img)
	dlg = dialog.NewCustom("Preview", "Close", content, window)
	dlg.Resize(fyne.NewSize(480, 520))
	dlg.Show()
}

func sizeLabel(b image.Rectangle) string {
	return fmt.Sprintf("%d x %d px", b.Dx(), b.Dy())
}
