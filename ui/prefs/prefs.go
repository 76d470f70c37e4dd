// Package prefs provides JSON-based application preferences.
package prefs

import (
	"encoding/json"
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"pancrop/internal/crop"
	"pancrop/internal/logging"
)

const prefsFile = "preferences.json"

// Preference keys understood by CropOptions and StoreSession.
const (
	KeyAnchorSize    = "anchorSize"
	KeyMoveIncrement = "moveIncrement"
	KeyLineWidth     = "lineWidth"
	KeyImagePadding  = "imagePadding"
	KeyZoom          = "zoom"
	KeyResizable     = "resizable"
	KeyDraggable     = "draggable"
	KeyDrawable      = "drawable"
	KeyClipStroke    = "clipStroke"
	KeyDragStroke    = "dragStroke"
	KeyResizeStroke  = "resizeStroke"
	KeyLastDir       = "lastDirectory"
)

// Prefs stores application preferences as a key-value map.
type Prefs struct {
	mu     sync.RWMutex
	values map[string]interface{}
	path   string
}

// Load reads preferences from ~/.config/pancrop/preferences.json.
// Returns a Prefs with defaults if the file doesn't exist.
func Load() *Prefs {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return LoadFrom(filepath.Join(configDir, "pancrop", prefsFile))
}

// LoadFrom reads preferences from path. A missing or unreadable file yields
// empty preferences that will be written back to path on Save.
func LoadFrom(path string) *Prefs {
	p := &Prefs{
		values: make(map[string]interface{}),
		path:   path,
	}

	data, err := os.ReadFile(p.path)
	if err != nil {
		return p
	}
	if err := json.Unmarshal(data, &p.values); err != nil {
		logging.Logger().Warn("ignoring malformed preferences", "path", path, "error", err)
		p.values = make(map[string]interface{})
	}
	return p
}

// Path returns the file Save writes to.
func (p *Prefs) Path() string { return p.path }

// Save writes preferences to disk.
func (p *Prefs) Save() error {
	p.mu.RLock()
	data, err := json.MarshalIndent(p.values, "", "  ")
	p.mu.RUnlock()
	if err != nil {
		return fmt.Errorf("encode preferences: %w", err)
	}

	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	return os.WriteFile(p.path, data, 0o644)
}

// FloatWithFallback returns a float64 preference, or fallback if not set.
func (p *Prefs) FloatWithFallback(key string, fallback float64) float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.values[key]; ok {
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		}
	}
	return fallback
}

// SetFloat stores a float64 preference.
func (p *Prefs) SetFloat(key string, val float64) {
	p.mu.Lock()
	p.values[key] = val
	p.mu.Unlock()
}

// String returns a string preference, or "" if not set.
func (p *Prefs) String(key string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.values[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// SetString stores a string preference.
func (p *Prefs) SetString(key string, val string) {
	p.mu.Lock()
	p.values[key] = val
	p.mu.Unlock()
}

// Bool returns a bool preference, or fallback if not set.
func (p *Prefs) Bool(key string, fallback bool) bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if v, ok := p.values[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return fallback
}

// SetBool stores a bool preference.
func (p *Prefs) SetBool(key string, val bool) {
	p.mu.Lock()
	p.values[key] = val
	p.mu.Unlock()
}

// CropOptions overlays the stored preferences on defaults. Values that are
// missing, non-positive or unparseable leave the default in place.
func (p *Prefs) CropOptions(defaults crop.Options) crop.Options {
	opts := defaults

	opts.AnchorSize = p.positive(KeyAnchorSize, opts.AnchorSize)
	opts.MoveIncrement = p.positive(KeyMoveIncrement, opts.MoveIncrement)
	opts.ImagePadding = p.positive(KeyImagePadding, opts.ImagePadding)
	opts.Zoom = p.positive(KeyZoom, opts.Zoom)
	opts.Style.LineWidth = p.positive(KeyLineWidth, opts.Style.LineWidth)

	opts.Resizable = p.Bool(KeyResizable, opts.Resizable)
	opts.Draggable = p.Bool(KeyDraggable, opts.Draggable)
	opts.Drawable = p.Bool(KeyDrawable, opts.Drawable)

	opts.Style.ClipStroke = p.color(KeyClipStroke, opts.Style.ClipStroke)
	opts.Style.DragStroke = p.color(KeyDragStroke, opts.Style.DragStroke)
	opts.Style.ResizeStroke = p.color(KeyResizeStroke, opts.Style.ResizeStroke)

	return opts
}

// StoreSession records the session settings worth restoring next time.
// The crop rectangle itself is not persisted.
func (p *Prefs) StoreSession(s *crop.Session) {
	p.SetFloat(KeyZoom, s.ZoomFactor())
	p.SetBool(KeyResizable, s.Resizable())
	p.SetBool(KeyDraggable, s.Draggable())
	p.SetBool(KeyDrawable, s.Drawable())
}

func (p *Prefs) positive(key string, fallback float64) float64 {
	v := p.FloatWithFallback(key, fallback)
	if v <= 0 {
		return fallback
	}
	return v
}

func (p *Prefs) color(key string, fallback color.NRGBA) color.NRGBA {
	s := p.String(key)
	if s == "" {
		return fallback
	}
	c, err := ParseColor(s)
	if err != nil {
		logging.Logger().Warn("ignoring colour preference", "key", key, "error", err)
		return fallback
	}
	return c
}

// ParseColor parses #rrggbb or #rrggbbaa.
func ParseColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	c := color.NRGBA{A: 0xff}
	var err error
	switch len(hex) {
	case 6:
		_, err = fmt.Sscanf(hex, "%02x%02x%02x", &c.R, &c.G, &c.B)
	case 8:
		_, err = fmt.Sscanf(hex, "%02x%02x%02x%02x", &c.R, &c.G, &c.B, &c.A)
	default:
		return color.NRGBA{}, fmt.Errorf("colour %q: want #rrggbb or #rrggbbaa", s)
	}
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("colour %q: %w", s, err)
	}
	return c, nil
}

// FormatColor is the inverse of ParseColor.
func FormatColor(c color.NRGBA) string {
	if c.A == 0xff {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}
