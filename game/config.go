package game

import (
	"encoding/json"
	"image/color"
	"log"
	"time"
)

// AppContentReader defines the interface for reading content from the embedded file system.
type AppContentReader interface {
	ReadFile(name string) ([]byte, error)
}

// Phase defines the top-level screens of the game state machine.
type Phase int

const (
	PhaseSplash Phase = iota
	PhasePlaying
	PhaseGameOver
)

// String returns the phase name, used in diagnostic logs.
func (p Phase) String() string {
	switch p {
	case PhaseSplash:
		return "Splash"
	case PhasePlaying:
		return "Playing"
	case PhaseGameOver:
		return "GameOver"
	}
	return "Unknown"
}

// UI constants
const (
	FontSize      float32 = 22.0 // Titles
	FontSizeStats float32 = 18.0 // HUD lines

	// The original device has a 128x64 monochrome screen; the window
	// renders it at 3x.
	ScreenWidth  = 384
	ScreenHeight = 192
)

var (
	// ScreenBackground mimics the unlit LCD.
	ScreenBackground = color.NRGBA{R: 0x10, G: 0x12, B: 0x10, A: 0xff}
	// ScreenForeground mimics the lit pixels.
	ScreenForeground = color.NRGBA{R: 0xcf, G: 0xe8, B: 0xcf, A: 0xff}
)

// Config holds the tunable game constants, loaded from assets/game_config.json.
type Config struct {
	MaxHealth   int
	HitDamage   int
	InitialAmmo int

	ScanWindowMs int // total RFID scan window
	ScanPollMs   int // poll interval inside the window
	InputWaitMs  int // per-tick bounded wait for one input event
	TickDelayMs  int // yield between ticks

	AirPort int // UDP port shared by all devices on the LAN
}

// ScanWindow returns the scan window as a duration.
func (c *Config) ScanWindow() time.Duration { return time.Duration(c.ScanWindowMs) * time.Millisecond }

// ScanPoll returns the scan poll interval as a duration.
func (c *Config) ScanPoll() time.Duration { return time.Duration(c.ScanPollMs) * time.Millisecond }

// InputWait returns the bounded input wait as a duration.
func (c *Config) InputWait() time.Duration { return time.Duration(c.InputWaitMs) * time.Millisecond }

// TickDelay returns the end-of-tick yield as a duration.
func (c *Config) TickDelay() time.Duration { return time.Duration(c.TickDelayMs) * time.Millisecond }

// DefaultConfig returns the stock device constants. Tests use it directly;
// the application loads the embedded JSON so the values stay editable
// without recompiling.
func DefaultConfig() *Config {
	return &Config{
		MaxHealth:    100,
		HitDamage:    10,
		InitialAmmo:  10,
		ScanWindowMs: 3000,
		ScanPollMs:   100,
		InputWaitMs:  100,
		TickDelayMs:  10,
		AirPort:      31337,
	}
}

// LoadConfig loads the game configuration from the embedded JSON file.
// Startup configuration failure is fatal; there is no sensible recovery.
func LoadConfig(reader AppContentReader) *Config {
	data, err := reader.ReadFile("assets/game_config.json")
	if err != nil {
		log.Fatalf("Failed to read game config: %v", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		log.Fatalf("Failed to unmarshal game config: %v", err)
	}
	return cfg
}
