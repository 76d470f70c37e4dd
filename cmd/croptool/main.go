// Command croptool applies a crop, rotation and zoom to an image without the GUI.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"pancrop/internal/crop"
	"pancrop/internal/detect"
	pcimage "pancrop/internal/image"
	"pancrop/internal/logging"
	"pancrop/pkg/geometry"
)

type config struct {
	input    string
	output   string
	rotation float64
	zoom     float64
	scale    float64
	rect     string
	auto     bool
}

func main() {
	var cfg config
	flag.StringVar(&cfg.input, "i", "", "Path to input image")
	flag.StringVar(&cfg.output, "o", "", "Path to output image (format from extension)")
	flag.Float64Var(&cfg.rotation, "rotate", 0, "Clockwise rotation in degrees")
	flag.Float64Var(&cfg.zoom, "zoom", 1, "Zoom factor; 1 keeps the whole image")
	flag.Float64Var(&cfg.scale, "scale", 1, "Resize factor applied to the output")
	flag.StringVar(&cfg.rect, "crop", "", "Crop as x,y,x2,y2 in pixels of the rotated image")
	flag.BoolVar(&cfg.auto, "auto", false, "Detect the content bounds and crop to them")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	if cfg.input == "" || cfg.output == "" {
		fmt.Println("Usage: croptool -i <input> -o <output> [-rotate deg] [-zoom f] [-crop x,y,x2,y2 | -auto] [-scale f]")
		os.Exit(1)
	}

	logging.Setup(os.Stderr, *debug)

	if err := run(cfg, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "croptool: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config, out io.Writer) error {
	if !pcimage.IsSupportedFormat(cfg.output) {
		return fmt.Errorf("cannot write %s: supported formats are %s",
			cfg.output, strings.Join(pcimage.SupportedFormats(), " "))
	}

	src, err := pcimage.Load(cfg.input)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Loaded %s: %dx%d\n", cfg.input, src.Width(), src.Height())

	opts := crop.DefaultOptions()
	opts.Rotation = cfg.rotation
	opts.Zoom = cfg.zoom

	switch {
	case cfg.rect != "" && cfg.auto:
		return errors.New("-crop and -auto are mutually exclusive")
	case cfg.rect != "":
		r, err := parseRect(cfg.rect)
		if err != nil {
			return err
		}
		opts.SourceRect = r
	case cfg.auto:
		r, err := detect.RotatedContentBounds(src.Image, cfg.rotation, detect.DefaultOptions())
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Detected content at %v\n", r)
		opts.SourceRect = r
	}

	s, err := crop.New(src.Extent(), opts)
	if err != nil {
		return err
	}
	view := s.ViewPort()
	fmt.Fprintf(out, "Crop %v at rotation %g\n", view, s.Rotation())

	preview, err := pcimage.Preview(src.Image, view, s.Rotation(), cfg.scale)
	if err != nil {
		return err
	}
	if err := pcimage.Save(preview, cfg.output); err != nil {
		return err
	}
	b := preview.Bounds()
	fmt.Fprintf(out, "Wrote %s: %dx%d\n", cfg.output, b.Dx(), b.Dy())
	return nil
}

// parseRect reads the x,y,x2,y2 form printed by geometry.Rect.
func parseRect(s string) (geometry.Rect, error) {
	var r geometry.Rect
	if _, err := fmt.Sscanf(s, "%g,%g,%g,%g", &r.X, &r.Y, &r.X2, &r.Y2); err != nil {
		return geometry.Rect{}, fmt.Errorf("invalid crop %q: %w", s, err)
	}
	if r.IsEmpty() {
		return geometry.Rect{}, fmt.Errorf("invalid crop %q: no area", s)
	}
	return r, nil
}
