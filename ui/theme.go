package ui

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/theme"

	"lasertag/game"
)

// DeviceTheme renders the window like the handheld's monochrome LCD: dark
// unlit background, pale green lit pixels.
type DeviceTheme struct {
	fyne.Theme
}

// NewDeviceTheme creates the monochrome device theme.
func NewDeviceTheme() fyne.Theme {
	return &DeviceTheme{Theme: theme.DefaultTheme()}
}

// Color maps the background and foreground to the LCD palette.
func (t *DeviceTheme) Color(name fyne.ThemeColorName, variant fyne.ThemeVariant) color.Color {
	switch name {
	case theme.ColorNameBackground:
		return game.ScreenBackground
	case theme.ColorNameForeground:
		return game.ScreenForeground
	}
	return t.Theme.Color(name, variant)
}
