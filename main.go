// Package main provides the entry point for the Pancrop application.
package main

import (
	"flag"
	"fmt"
	"os"

	"pancrop/internal/app"
	"pancrop/internal/crop"
	"pancrop/internal/logging"
	"pancrop/internal/version"
	"pancrop/ui/mainwindow"
	"pancrop/ui/prefs"

	fyneapp "fyne.io/fyne/v2/app"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [-debug] [image]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	log := logging.Setup(os.Stderr, *debug)
	log.Info("starting", "build", version.String())

	appPrefs := prefs.Load()

	a := fyneapp.NewWithID("io.pancrop")
	a.Settings().SetTheme(app.NewTheme(appPrefs.CropOptions(crop.DefaultOptions()).Style))

	win := mainwindow.New(a, appPrefs)

	if path := flag.Arg(0); path != "" {
		if err := win.LoadImage(path); err != nil {
			log.Error("failed to load image", "path", path, "error", err)
		}
	}

	win.ShowAndRun()
}
