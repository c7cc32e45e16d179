package main

import (
	"context"
	"embed"
	"log"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"

	"lasertag/control"
	"lasertag/game"
	"lasertag/i18n"
	"lasertag/infrared"
	"lasertag/notify"
	"lasertag/rfid"
	"lasertag/ui"
)

//go:embed assets/*
var content embed.FS

// sampleTag is the tag the 'T' key presents to the simulated reader: game
// magic, grant-ammo opcode, four rounds.
var sampleTag = []byte{0x13, 0x37, 0x00, rfid.OpGrantAmmo, 0x04}

func main() {
	fyneApp := app.New()
	fyneApp.Settings().SetTheme(ui.NewDeviceTheme())

	cfg := game.LoadConfig(content)
	log.Printf("Starting with %q UI strings", i18n.GetLang())

	screen := ui.NewScreen()
	notifier := notify.NewBeeper(screen.FlashWhite)
	reader := rfid.NewSimReader()

	// Prefer the LAN air so devices tag each other; fall back to a local
	// loopback when the port can't be opened (solo practice mode).
	hub := infrared.NewHub()
	openLink := func() (infrared.Link, error) {
		link, err := infrared.NewUDPLink(cfg.AirPort)
		if err != nil {
			log.Printf("LAN air unavailable, using local loopback: %v", err)
			return hub.NewLink(), nil
		}
		return link, nil
	}

	a := NewLaserTagApp(cfg, screen, notifier, reader, openLink)

	w := fyneApp.NewWindow("Laser Tag: Free4All")
	a.window = w
	w.SetContent(screen.Root())
	w.Resize(fyne.NewSize(game.ScreenWidth, game.ScreenHeight))
	w.SetFixedSize(true)

	w.Canvas().SetOnTypedKey(func(ev *fyne.KeyEvent) {
		switch ev.Name {
		case fyne.KeyReturn, fyne.KeyEnter, fyne.KeySpace:
			a.QueueInput(control.InputEvent{Type: control.TypePress, Key: control.KeyOk})
		case fyne.KeyEscape:
			a.QueueInput(control.InputEvent{Type: control.TypePress, Key: control.KeyBack})
		case fyne.KeyUp:
			a.QueueInput(control.InputEvent{Type: control.TypePress, Key: control.KeyUp})
		case fyne.KeyDown:
			a.QueueInput(control.InputEvent{Type: control.TypePress, Key: control.KeyDown})
		}
	})
	w.Canvas().SetOnTypedRune(func(r rune) {
		// Holding a tag to the reader, simulated.
		if r == 't' || r == 'T' {
			log.Printf("Presenting sample ammo tag to reader")
			reader.InjectTag(sampleTag)
		}
	})

	ctx, cancel := context.WithCancel(context.Background())
	w.SetOnClosed(cancel)

	go a.Run(ctx)

	w.ShowAndRun()
}
