// Package game contains the domain logic of a single laser-tag device: the
// game configuration and the authoritative health/ammo/time state.
//
// Maintenance notes:
//   - Mutable fields are accessed by the game loop goroutine and read by the
//     ticker goroutine, so they are protected with a mutex. Prefer mutating
//     through the exported methods; they enforce the clamping invariants.
//   - The UI never reads fields directly; it renders from a Snapshot so it
//     always sees a coherent set of values.
package game

import "sync"

// State represents one device's game state. Health reaching zero is a
// one-way transition to game over until Reset is called.
type State struct {
	mu  sync.RWMutex
	cfg *Config

	health  int
	ammo    int
	elapsed int // seconds since game start
}

// NewState creates a fresh game state with full health and ammo.
func NewState(cfg *Config) *State {
	return &State{
		cfg:    cfg,
		health: cfg.MaxHealth,
		ammo:   cfg.InitialAmmo,
	}
}

// DecreaseHealth lowers health by n, clamped at zero.
func (s *State) DecreaseHealth(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.health -= n
	if s.health < 0 {
		s.health = 0
	}
}

// DecreaseAmmo lowers ammo by n, clamped at zero.
func (s *State) DecreaseAmmo(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ammo -= n
	if s.ammo < 0 {
		s.ammo = 0
	}
}

// IncreaseAmmo raises ammo by n, capped at the initial ammo count.
func (s *State) IncreaseAmmo(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ammo += n
	if s.ammo > s.cfg.InitialAmmo {
		s.ammo = s.cfg.InitialAmmo
	}
}

// UpdateTime advances the elapsed game time by delta seconds.
func (s *State) UpdateTime(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.elapsed += delta
}

// Health returns the current health.
func (s *State) Health() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.health
}

// Ammo returns the current ammo count.
func (s *State) Ammo() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.ammo
}

// Elapsed returns the elapsed game time in seconds.
func (s *State) Elapsed() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.elapsed
}

// IsGameOver reports whether health has been depleted.
func (s *State) IsGameOver() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.health <= 0
}

// Reset restores full health and ammo and rewinds the clock.
func (s *State) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.health = s.cfg.MaxHealth
	s.ammo = s.cfg.InitialAmmo
	s.elapsed = 0
}

// Snapshot is an atomic copy of the fields the UI needs to render a
// consistent view. Obtain it with GetSnapshot.
type Snapshot struct {
	Health      int
	Ammo        int
	Elapsed     int
	MaxHealth   int
	InitialAmmo int
	GameOver    bool
}

// GetSnapshot returns a consistent snapshot of the game state for UI use.
func (s *State) GetSnapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Health:      s.health,
		Ammo:        s.ammo,
		Elapsed:     s.elapsed,
		MaxHealth:   s.cfg.MaxHealth,
		InitialAmmo: s.cfg.InitialAmmo,
		GameOver:    s.health <= 0,
	}
}
