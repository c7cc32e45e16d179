// Package main contains the application wiring and the LaserTagApp which
// coordinates the infrared controller, the game state, the RFID reader and
// the UI. This file centralizes the shared application state and the game
// loop that serializes all state mutations.
//
// Maintenance notes / tips:
//   - Concurrency model: one loop goroutine (see `Run`) owns phase,
//     needRedraw and the controller. Background contexts (the window's key
//     handlers, the one-second ticker, the link's capture goroutine) only
//     communicate with it through the bounded `events` queue, the
//     single-slot `ticks` channel and the worker's capture buffer. The RFID
//     tag callback is the one cross-context writer of game state; it is
//     delivered synchronously from the scan window's polling loop, so it
//     too runs on the loop goroutine.
//   - The loop never blocks indefinitely: the per-tick input wait is
//     bounded (~100ms) so board health checks and redraws keep happening
//     with no input. Transmits and the ~3s scan window block deliberately.
package main

import (
	"context"
	"log"
	"time"

	"fyne.io/fyne/v2"

	"lasertag/control"
	"lasertag/game"
	"lasertag/infrared"
	"lasertag/notify"
	"lasertag/rfid"
)

// inputQueueLen bounds the FIFO of key events awaiting the game loop.
const inputQueueLen = 8

// LaserTagApp is the main application struct, holding all state.
type LaserTagApp struct {
	window   fyne.Window
	screen   Renderer
	cfg      *game.Config
	state    *game.State
	notifier notify.Notifier
	reader   rfid.Reader
	openLink func() (infrared.Link, error)

	events chan control.InputEvent
	ticks  chan struct{}

	// owned by the loop goroutine
	controller *infrared.Controller
	phase      game.Phase
	needRedraw bool
	running    bool
}

// Renderer is the display sink: it draws snapshots, nothing more.
type Renderer interface {
	Update(snap game.Snapshot, phase game.Phase)
}

// NewLaserTagApp wires the application together. The infrared controller is
// not allocated here; it is (re)allocated on every game start so stale
// transmit/hit flags never leak across games.
func NewLaserTagApp(cfg *game.Config, screen Renderer, notifier notify.Notifier, reader rfid.Reader, openLink func() (infrared.Link, error)) *LaserTagApp {
	a := &LaserTagApp{
		screen:     screen,
		cfg:        cfg,
		state:      game.NewState(cfg),
		notifier:   notifier,
		reader:     reader,
		openLink:   openLink,
		events:     make(chan control.InputEvent, inputQueueLen),
		ticks:      make(chan struct{}, 1),
		phase:      game.PhaseSplash,
		needRedraw: true,
	}
	reader.SetTagCallback(a.handleTag)
	return a
}

// QueueInput posts a key event to the game loop's bounded queue, dropping
// it rather than blocking the UI when full.
func (a *LaserTagApp) QueueInput(ev control.InputEvent) {
	select {
	case a.events <- ev:
	default:
		log.Printf("Input queue full, dropping %v", ev.Key)
	}
}

// Run is the game loop. Tick order is fixed: board health check, one
// queued event with a bounded wait, dispatch, hit poll, game-over re-check,
// redraw if dirty, short yield.
func (a *LaserTagApp) Run(ctx context.Context) {
	log.Printf("Laser Tag app starting")
	go a.tickLoop(ctx)

	a.running = true
	for a.running {
		if a.controller != nil {
			a.controller.UpdateBoardStatus()
		}

		select {
		case ev := <-a.events:
			if ev.Type == control.TypePress || ev.Type == control.TypeRepeat {
				a.dispatch(ev)
			}
		case <-a.ticks:
			if a.phase == game.PhasePlaying {
				a.state.UpdateTime(1)
				a.needRedraw = true
			}
		case <-time.After(a.cfg.InputWait()):
		case <-ctx.Done():
			a.running = false
		}

		if a.phase == game.PhasePlaying && a.controller != nil {
			if a.controller.Receive() {
				log.Printf("Hit received, processing")
				a.handleHit()
			}

			if a.phase == game.PhasePlaying && a.state.IsGameOver() {
				log.Printf("Game over, notifying user")
				a.notifier.ErrorTone()
				a.phase = game.PhaseGameOver
				a.needRedraw = true
			}
		}

		if a.needRedraw {
			a.screen.Update(a.state.GetSnapshot(), a.phase)
			a.needRedraw = false
		}

		time.Sleep(a.cfg.TickDelay())
	}

	log.Printf("Laser Tag app exiting")
	if a.controller != nil {
		a.controller.Close()
		a.controller = nil
	}
	if a.window != nil {
		fyne.Do(a.window.Close)
	}
}

// tickLoop fires once per second; the loop applies the tick so elapsed time
// is only ever mutated from one goroutine.
func (a *LaserTagApp) tickLoop(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			select {
			case a.ticks <- struct{}{}:
			default:
			}
		}
	}
}

func (a *LaserTagApp) dispatch(ev control.InputEvent) {
	switch a.phase {
	case game.PhaseSplash:
		switch ev.Key {
		case control.KeyOk:
			log.Printf("Ok pressed, starting")
			if !a.enterGame() {
				a.running = false
			}
		case control.KeyBack:
			log.Printf("Back pressed, exiting")
			a.running = false
		}

	case game.PhaseGameOver:
		if ev.Key == control.KeyOk {
			log.Printf("Ok pressed, restarting game")
			a.state.Reset()
			a.phase = game.PhaseSplash
			a.needRedraw = true
		}

	case game.PhasePlaying:
		if ev.Key == control.KeyDown && a.state.Ammo() == 0 {
			log.Printf("Down pressed, reloading ammo")
			a.state.IncreaseAmmo(a.cfg.InitialAmmo)
			a.needRedraw = true
			return
		}
		switch ev.Key {
		case control.KeyBack:
			log.Printf("Back pressed, exiting")
			a.running = false
		case control.KeyOk:
			a.fire()
		case control.KeyUp:
			a.scanForAmmo()
		}
	}
}

// enterGame transitions Splash -> Playing: resets state and allocates a
// fresh infrared controller, tearing down the previous one first.
func (a *LaserTagApp) enterGame() bool {
	log.Printf("Entering game")
	a.phase = game.PhasePlaying
	a.state.Reset()

	if a.controller != nil {
		a.controller.Close()
		a.controller = nil
	}
	controller, err := infrared.NewController(a.openLink, a.notifier)
	if err != nil {
		log.Printf("Failed to allocate IR controller: %v", err)
		return false
	}
	a.controller = controller
	a.needRedraw = true
	return true
}

// fire transmits the shoot signal and spends one round. A fire while a
// prior transmit is still in flight is a no-op.
func (a *LaserTagApp) fire() {
	if a.controller == nil {
		log.Printf("Fire with no IR controller")
		return
	}
	if a.controller.Sending() {
		log.Printf("Cannot fire, transmission in flight")
		return
	}

	a.controller.Send()
	a.state.DecreaseAmmo(1)

	a.notifier.ShortBeep()
	a.notifier.FlashWhite()
	a.needRedraw = true
}

// handleHit applies an incoming hit: health down, haptic feedback, and the
// one-way transition to game over when health is depleted.
func (a *LaserTagApp) handleHit() {
	a.state.DecreaseHealth(a.cfg.HitDamage)
	a.notifier.Vibrate()

	if a.state.IsGameOver() {
		log.Printf("Game over, switching to Game Over screen")
		a.notifier.ErrorTone()
		a.phase = game.PhaseGameOver
		a.needRedraw = true
	}
}

// scanForAmmo pauses infrared receive, powers the RFID reader for a bounded
// window polled in fixed increments, then restores receive. The window
// deliberately blocks the loop; scan feedback is all the player gets.
func (a *LaserTagApp) scanForAmmo() {
	if a.controller == nil {
		return
	}
	log.Printf("Scanning for ammo tag")
	a.notifier.ShortBeep()

	before := a.state.Ammo()
	a.controller.Pause()
	a.reader.Start()

	steps := a.cfg.ScanWindowMs / a.cfg.ScanPollMs
	for i := 0; i < steps; i++ {
		time.Sleep(a.cfg.ScanPoll())
		a.reader.Poll()
		if a.state.Ammo() != before {
			break
		}
	}

	a.reader.Stop()
	a.controller.Resume()

	if a.state.Ammo() != before {
		a.notifier.SuccessTone()
	} else {
		a.notifier.ErrorTone()
	}
	a.needRedraw = true
}

// handleTag is the RFID tag callback. It runs on the loop goroutine, inside
// the scan window's polling loop.
func (a *LaserTagApp) handleTag(data []byte) {
	maxDelta, ok := rfid.ParseTag(data)
	if !ok {
		return
	}
	delta := a.cfg.InitialAmmo - a.state.Ammo()
	if delta > maxDelta {
		delta = maxDelta
	}
	a.state.IncreaseAmmo(delta)
	log.Printf("Increased ammo by: %d", delta)
}
