// Package ui renders the device screen: splash, in-game HUD and game-over
// views. It is a pure presentation sink: it draws snapshots the game loop
// hands it and owns no game logic.
package ui

import (
	"fmt"
	"image/color"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"

	"lasertag/game"
	"lasertag/i18n"
)

const healthBarCells = 10

// Screen is the simulated 128x64 monochrome display.
type Screen struct {
	root *fyne.Container

	splashBox *fyne.Container
	hudBox    *fyne.Container
	overBox   *fyne.Container

	healthText *canvas.Text
	ammoText   *canvas.Text
	timeText   *canvas.Text

	flashRect *canvas.Rectangle
}

// NewScreen builds the screen showing the splash view.
func NewScreen() *Screen {
	s := &Screen{}

	title := canvas.NewText(i18n.T("Laser Tag: Free4All!"), game.ScreenForeground)
	title.TextStyle.Bold = true
	title.TextSize = game.FontSize

	prompt := canvas.NewText(i18n.T("Press OK to start"), game.ScreenForeground)
	prompt.TextSize = game.FontSizeStats

	s.splashBox = container.New(layout.NewVBoxLayout(),
		layout.NewSpacer(),
		container.New(layout.NewCenterLayout(), title),
		container.New(layout.NewCenterLayout(), prompt),
		layout.NewSpacer(),
	)

	s.healthText = canvas.NewText("", game.ScreenForeground)
	s.healthText.TextStyle.Monospace = true
	s.healthText.TextSize = game.FontSizeStats

	s.ammoText = canvas.NewText("", game.ScreenForeground)
	s.ammoText.TextStyle.Monospace = true
	s.ammoText.TextSize = game.FontSizeStats

	s.timeText = canvas.NewText("", game.ScreenForeground)
	s.timeText.TextStyle.Monospace = true
	s.timeText.TextSize = game.FontSizeStats

	s.hudBox = container.New(layout.NewVBoxLayout(),
		layout.NewSpacer(),
		container.New(layout.NewCenterLayout(), s.healthText),
		container.New(layout.NewCenterLayout(), s.ammoText),
		container.New(layout.NewCenterLayout(), s.timeText),
		layout.NewSpacer(),
	)
	s.hudBox.Hide()

	overTitle := canvas.NewText(i18n.T("GAME OVER!"), game.ScreenForeground)
	overTitle.TextStyle.Bold = true
	overTitle.TextSize = game.FontSize

	overPrompt := canvas.NewText(i18n.T("Press OK to Restart"), game.ScreenForeground)
	overPrompt.TextSize = game.FontSizeStats

	s.overBox = container.New(layout.NewVBoxLayout(),
		layout.NewSpacer(),
		container.New(layout.NewCenterLayout(), overTitle),
		container.New(layout.NewCenterLayout(), overPrompt),
		layout.NewSpacer(),
	)
	s.overBox.Hide()

	border := canvas.NewRectangle(color.Transparent)
	border.StrokeColor = game.ScreenForeground
	border.StrokeWidth = 2
	border.SetMinSize(fyne.NewSize(game.ScreenWidth, game.ScreenHeight))

	s.flashRect = canvas.NewRectangle(color.White)
	s.flashRect.Hide()

	s.root = container.NewStack(border, s.splashBox, s.hudBox, s.overBox, s.flashRect)
	return s
}

// Root returns the screen's canvas object for window content.
func (s *Screen) Root() fyne.CanvasObject {
	return s.root
}

// Update redraws the screen from a game state snapshot. Safe to call from
// the game loop goroutine.
func (s *Screen) Update(snap game.Snapshot, phase game.Phase) {
	fyne.Do(func() {
		s.splashBox.Hide()
		s.hudBox.Hide()
		s.overBox.Hide()

		switch phase {
		case game.PhaseSplash:
			s.splashBox.Show()
		case game.PhaseGameOver:
			s.overBox.Show()
		case game.PhasePlaying:
			s.healthText.Text = fmt.Sprintf("%s %3d %s", i18n.T("HP"), snap.Health, healthBar(snap.Health, snap.MaxHealth))
			s.ammoText.Text = fmt.Sprintf("%s %d/%d", i18n.T("AMMO"), snap.Ammo, snap.InitialAmmo)
			s.timeText.Text = game.FormatTime(snap.Elapsed)
			s.healthText.Refresh()
			s.ammoText.Refresh()
			s.timeText.Refresh()
			s.hudBox.Show()
		}
		s.root.Refresh()
	})
}

// FlashWhite lights the whole screen briefly, the fire feedback flash.
func (s *Screen) FlashWhite() {
	fyne.Do(func() {
		s.flashRect.Show()
		s.flashRect.Refresh()
	})
	time.AfterFunc(100*time.Millisecond, func() {
		fyne.Do(func() {
			s.flashRect.Hide()
			s.root.Refresh()
		})
	})
}

func healthBar(health, max int) string {
	if max <= 0 {
		return ""
	}
	filled := health * healthBarCells / max
	return strings.Repeat("#", filled) + strings.Repeat("-", healthBarCells-filled)
}
