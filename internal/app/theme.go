// Package app holds application-wide fyne setup.
package app

import (
	"image/color"

	"pancrop/internal/crop"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"
)

// Theme tints the default fyne theme with the crop outline colours.
type Theme struct {
	style crop.Style
}

var _ fyne.Theme = (*Theme)(nil)

// NewTheme returns a theme whose primary and selection colours follow style.
func NewTheme(style crop.Style) *Theme {
	return &Theme{style: style}
}

func (t *Theme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNamePrimary:
		return t.style.ClipStroke
	case theme.ColorNameSelection:
		c := t.style.ResizeStroke
		c.A = 0x80
		return c
	default:
		return theme.DefaultTheme().Color(name, variant)
	}
}

func (t *Theme) Font(style fyne.TextStyle) fyne.Resource {
	return theme.DefaultTheme().Font(style)
}

func (t *Theme) Icon(name fyne.ThemeIconName) fyne.Resource {
	return theme.DefaultTheme().Icon(name)
}

func (t *Theme) Size(name fyne.ThemeSizeName) float32 {
	return theme.DefaultTheme().Size(name)
}
