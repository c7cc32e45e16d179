// Package notify emits the device's feedback effects: short beeps, the
// vibration buzz, success/error tones and the white screen flash. All
// effects are fire-and-forget; no caller consults a result.
package notify

import (
	"log"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"
)

// Notifier is the symbolic notification sink the game core emits into.
type Notifier interface {
	ShortBeep()
	Vibrate()
	SuccessTone()
	ErrorTone()
	FlashWhite()
}

const sampleRate = beep.SampleRate(44100)

// Beeper plays synthesized tones through the speaker. The handheld's
// vibration motor has no desktop equivalent, so Vibrate renders as a low
// buzz. The white flash is forwarded to the UI.
type Beeper struct {
	mu    sync.Mutex
	ready bool
	flash func()
}

// NewBeeper initializes the speaker. Audio failure is not fatal; the beeper
// degrades to logging only.
func NewBeeper(flash func()) *Beeper {
	b := &Beeper{flash: flash}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		log.Printf("Audio disabled: Failed to initialize speaker: %v", err)
		return b
	}
	b.ready = true
	return b
}

func (b *Beeper) tone(freq float64, d time.Duration) beep.Streamer {
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		log.Printf("Failed to generate %fHz tone: %v", freq, err)
		return beep.Silence(sampleRate.N(d))
	}
	return beep.Take(sampleRate.N(d), sine)
}

func (b *Beeper) play(streamers ...beep.Streamer) {
	if !b.ready {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	speaker.Play(beep.Seq(streamers...))
}

// ShortBeep is the fire feedback click.
func (b *Beeper) ShortBeep() {
	b.play(b.tone(880, 50*time.Millisecond))
}

// Vibrate is the hit feedback buzz.
func (b *Beeper) Vibrate() {
	b.play(b.tone(110, 120*time.Millisecond))
}

// SuccessTone is the ascending scan-succeeded chime.
func (b *Beeper) SuccessTone() {
	b.play(
		b.tone(660, 90*time.Millisecond),
		b.tone(880, 120*time.Millisecond),
	)
}

// ErrorTone is the descending failure tone, also played on game over.
func (b *Beeper) ErrorTone() {
	b.play(
		b.tone(330, 120*time.Millisecond),
		b.tone(196, 180*time.Millisecond),
	)
}

// FlashWhite triggers the white screen flash on the UI.
func (b *Beeper) FlashWhite() {
	if b.flash != nil {
		b.flash()
	}
}

// Nop is a Notifier that does nothing; tests use it.
type Nop struct{}

func (Nop) ShortBeep()   {}
func (Nop) Vibrate()     {}
func (Nop) SuccessTone() {}
func (Nop) ErrorTone()   {}
func (Nop) FlashWhite()  {}
