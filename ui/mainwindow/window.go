// Package mainwindow provides the main application window.
package mainwindow

import (
	"fmt"
	"math"
	"path/filepath"

	"pancrop/internal/crop"
	"pancrop/internal/detect"
	pcimage "pancrop/internal/image"
	"pancrop/internal/logging"
	"pancrop/internal/version"
	"pancrop/pkg/geometry"
	"pancrop/ui/canvas"
	"pancrop/ui/dialogs"
	"pancrop/ui/prefs"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/widget"
)

const appTitle = "Pancrop"

// MainWindow is the primary application window.
type MainWindow struct {
	fyne.Window
	app       fyne.App
	prefs     *prefs.Prefs
	canvas    *canvas.CropCanvas
	statusBar *widget.Label
	pixelInfo *widget.Label

	source *pcimage.Source

	resizableItem *fyne.MenuItem
	draggableItem *fyne.MenuItem
	drawableItem  *fyne.MenuItem
}

// New creates a new main window.
func New(fyneApp fyne.App, p *prefs.Prefs) *MainWindow {
	win := fyneApp.NewWindow(appTitle)

	mw := &MainWindow{
		Window: win,
		app:    fyneApp,
		prefs:  p,
	}

	mw.setupUI()
	mw.setupMenus()
	mw.SetOnClosed(mw.SavePreferences)

	return mw
}

// setupUI creates the main UI layout.
func (mw *MainWindow) setupUI() {
	mw.canvas = canvas.NewCropCanvas()
	mw.canvas.OnChange(func(s *crop.Session) {
		mw.updateStatus(describe(s))
	})
	mw.canvas.OnRotate(func(degrees float64) {
		mw.canvas.WithSession(func(s *crop.Session) {
			if s.IsAnimating() {
				mw.updateStatus(fmt.Sprintf("Rotating %g°", degrees))
				return
			}
			mw.updateStatus(describe(s))
		})
	})
	mw.canvas.OnHover(func(p geometry.Point2D, onImage bool) {
		if !onImage {
			mw.pixelInfo.SetText("")
			return
		}
		mw.pixelInfo.SetText(fmt.Sprintf("x %d  y %d", int(math.Floor(p.X)), int(math.Floor(p.Y))))
	})

	mw.statusBar = widget.NewLabel("Open an image to start cropping")
	mw.pixelInfo = widget.NewLabel("")

	status := container.NewBorder(nil, nil, nil, mw.pixelInfo, mw.statusBar)

	content := container.NewBorder(
		mw.createToolbar(),         // top
		container.NewPadded(status), // bottom
		nil,                        // left
		nil,                        // right
		mw.canvas,                  // center
	)

	mw.SetContent(content)
	mw.Resize(fyne.NewSize(800, 700))
}

// createToolbar creates the toolbar with rotation and zoom controls.
func (mw *MainWindow) createToolbar() fyne.CanvasObject {
	return container.NewHBox(
		widget.NewButton("Open", mw.onOpenImage),
		widget.NewLabel("Rotate:"),
		widget.NewButton("⟲", mw.canvas.Anticlockwise),
		widget.NewButton("⟳", mw.canvas.Clockwise),
		widget.NewLabel("Zoom:"),
		widget.NewButton("-", mw.canvas.ZoomOut),
		widget.NewButton("+", mw.canvas.ZoomIn),
		widget.NewButton("Fit", mw.onFit),
		widget.NewButton("Auto", mw.onAutoDetect),
		widget.NewButton("Preview", mw.onPreview),
	)
}

// setupMenus creates the application menus.
func (mw *MainWindow) setupMenus() {
	fileMenu := fyne.NewMenu("File",
		fyne.NewMenuItem("Open Image...", mw.onOpenImage),
		fyne.NewMenuItem("Preview Crop...", mw.onPreview),
	)

	mw.resizableItem = fyne.NewMenuItem("Resize from Corners", func() {
		mw.toggle((*crop.Session).Resizable, (*crop.Session).SetResizable)
	})
	mw.draggableItem = fyne.NewMenuItem("Drag to Move", func() {
		mw.toggle((*crop.Session).Draggable, (*crop.Session).SetDraggable)
	})
	mw.drawableItem = fyne.NewMenuItem("Draw New Crop", func() {
		mw.toggle((*crop.Session).Drawable, (*crop.Session).SetDrawable)
	})

	editMenu := fyne.NewMenu("Edit",
		mw.resizableItem,
		mw.draggableItem,
		mw.drawableItem,
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Detect Content Bounds", mw.onAutoDetect),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Settings...", mw.onSettings),
	)

	viewMenu := fyne.NewMenu("View",
		fyne.NewMenuItem("Rotate Clockwise", mw.canvas.Clockwise),
		fyne.NewMenuItem("Rotate Anticlockwise", mw.canvas.Anticlockwise),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Zoom In", mw.canvas.ZoomIn),
		fyne.NewMenuItem("Zoom Out", mw.canvas.ZoomOut),
		fyne.NewMenuItem("Fit Whole Image", mw.onFit),
	)

	helpMenu := fyne.NewMenu("Help",
		fyne.NewMenuItem("About", mw.onAbout),
	)

	mw.SetMainMenu(fyne.NewMainMenu(fileMenu, editMenu, viewMenu, helpMenu))
	mw.syncToggles()
}

// toggle flips one interaction flag on the current session.
func (mw *MainWindow) toggle(get func(*crop.Session) bool, set func(*crop.Session, bool)) {
	if mw.canvas.WithSession(func(s *crop.Session) { set(s, !get(s)) }) {
		mw.syncToggles()
	}
}

func (mw *MainWindow) syncToggles() {
	opts := mw.prefs.CropOptions(crop.DefaultOptions())
	resizable, draggable, drawable := opts.Resizable, opts.Draggable, opts.Drawable
	mw.canvas.WithSession(func(s *crop.Session) {
		resizable, draggable, drawable = s.Resizable(), s.Draggable(), s.Drawable()
	})
	mw.resizableItem.Checked = resizable
	mw.draggableItem.Checked = draggable
	mw.drawableItem.Checked = drawable
	if menu := mw.MainMenu(); menu != nil {
		menu.Refresh()
	}
}

// updateStatus updates the status bar text.
func (mw *MainWindow) updateStatus(text string) {
	mw.statusBar.SetText(text)
}

func describe(s *crop.Session) string {
	v := s.ViewPort().ImageRect()
	return fmt.Sprintf("Crop %d,%d %dx%d  rotation %g°  zoom %.2f",
		v.Min.X, v.Min.Y, v.Dx(), v.Dy(), s.Rotation(), s.ZoomFactor())
}

// getLastDir returns the last used directory as a ListableURI, or nil.
func (mw *MainWindow) getLastDir() fyne.ListableURI {
	path := mw.prefs.String(prefs.KeyLastDir)
	if path == "" {
		return nil
	}
	listable, err := storage.ListerForURI(storage.NewFileURI(path))
	if err != nil {
		return nil
	}
	return listable
}

// LoadImage opens path and starts a new crop session over it.
func (mw *MainWindow) LoadImage(path string) error {
	src, err := pcimage.Load(path)
	if err != nil {
		return err
	}
	return mw.startSession(src, crop.Options{})
}

// startSession begins cropping src. The seed's SourceRect and Rotation
// are kept.
func (mw *MainWindow) startSession(src *pcimage.Source, seed crop.Options) error {
	opts := mw.prefs.CropOptions(crop.DefaultOptions())
	opts.SourceRect = seed.SourceRect
	opts.Rotation = seed.Rotation
	if err := mw.canvas.SetImage(src.Image, opts); err != nil {
		return fmt.Errorf("start crop of %s: %w", src.Path, err)
	}
	mw.source = src
	mw.prefs.SetString(prefs.KeyLastDir, filepath.Dir(src.Path))
	mw.SetTitle(appTitle + " - " + filepath.Base(src.Path))
	mw.canvas.WithSession(func(s *crop.Session) { mw.updateStatus(describe(s)) })
	mw.syncToggles()
	logging.Logger().Info("image loaded", "path", src.Path, "width", src.Width(), "height", src.Height())
	return nil
}

// SavePreferences stores the current session settings.
func (mw *MainWindow) SavePreferences() {
	mw.canvas.WithSession(mw.prefs.StoreSession)
	if err := mw.prefs.Save(); err != nil {
		logging.Logger().Warn("saving preferences failed", "path", mw.prefs.Path(), "error", err)
	}
}

// Menu action handlers

func (mw *MainWindow) onOpenImage() {
	fd := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil || reader == nil {
			return
		}
		reader.Close()
		if err := mw.LoadImage(reader.URI().Path()); err != nil {
			dialog.ShowError(err, mw.Window)
		}
	}, mw.Window)
	fd.SetFilter(storage.NewExtensionFileFilter(pcimage.SupportedFormats()))
	if loc := mw.getLastDir(); loc != nil {
		fd.SetLocation(loc)
	}
	fd.Show()
}

func (mw *MainWindow) onFit() {
	if err := mw.canvas.SetZoom(1); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onAutoDetect() {
	if mw.source == nil {
		return
	}
	var rotation float64
	mw.canvas.WithSession(func(s *crop.Session) { rotation = s.Rotation() })

	bounds, err := detect.RotatedContentBounds(mw.source.Image, rotation, detect.DefaultOptions())
	if err != nil {
		mw.updateStatus("No content found: " + err.Error())
		return
	}
	if err := mw.startSession(mw.source, crop.Options{SourceRect: bounds, Rotation: rotation}); err != nil {
		dialog.ShowError(err, mw.Window)
	}
}

func (mw *MainWindow) onPreview() {
	if mw.source == nil {
		return
	}
	var (
		view     geometry.Rect
		rotation float64
	)
	if !mw.canvas.WithSession(func(s *crop.Session) { view, rotation = s.ViewPort(), s.Rotation() }) {
		return
	}
	preview, err := pcimage.Preview(mw.source.Image, view, rotation, 1)
	if err != nil {
		dialog.ShowError(err, mw.Window)
		return
	}
	dialogs.ShowPreview(preview, mw.Window, func(path string) {
		mw.updateStatus("Saved " + path)
	})
}

func (mw *MainWindow) onSettings() {
	dialogs.NewSettingsDialog(mw.prefs, mw.Window, func() {
		mw.updateStatus("Settings saved; they apply to the next image")
	}).Show()
}

func (mw *MainWindow) onAbout() {
	dialog.ShowInformation("About "+appTitle,
		fmt.Sprintf("%s v%s\n\n"+
			"Rotate, zoom and crop images.\n\n"+
			"Built: %s\n"+
			"Commit: %s",
			appTitle, version.Version, version.BuildTime, version.GitCommit),
		mw.Window)
}
