package game

import "testing"

func TestNewStateStartsFull(t *testing.T) {
	cfg := DefaultConfig()
	s := NewState(cfg)

	if s.Health() != cfg.MaxHealth {
		t.Errorf("Expected health %d, got %d", cfg.MaxHealth, s.Health())
	}
	if s.Ammo() != cfg.InitialAmmo {
		t.Errorf("Expected ammo %d, got %d", cfg.InitialAmmo, s.Ammo())
	}
	if s.Elapsed() != 0 {
		t.Errorf("Expected elapsed 0, got %d", s.Elapsed())
	}
	if s.IsGameOver() {
		t.Errorf("Expected fresh state not to be game over")
	}
}

func TestHealthClampsAtZero(t *testing.T) {
	tests := []struct {
		name   string
		deltas []int
		want   int
		over   bool
	}{
		{"Single hit", []int{10}, 90, false},
		{"Down to exactly zero", []int{60, 40}, 0, true},
		{"Overkill clamps", []int{90, 50}, 0, true},
		{"Past zero stays zero", []int{100, 10, 10}, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewState(DefaultConfig())
			for _, d := range tt.deltas {
				s.DecreaseHealth(d)
			}
			if s.Health() != tt.want {
				t.Errorf("Expected health %d, got %d", tt.want, s.Health())
			}
			if s.IsGameOver() != tt.over {
				t.Errorf("Expected game over %v, got %v", tt.over, s.IsGameOver())
			}
		})
	}
}

func TestAmmoClamps(t *testing.T) {
	cfg := DefaultConfig()

	t.Run("Never negative", func(t *testing.T) {
		s := NewState(cfg)
		s.DecreaseAmmo(cfg.InitialAmmo + 5)
		if s.Ammo() != 0 {
			t.Errorf("Expected ammo 0, got %d", s.Ammo())
		}
	})

	t.Run("Never exceeds initial ammo", func(t *testing.T) {
		s := NewState(cfg)
		s.DecreaseAmmo(2)
		s.IncreaseAmmo(1000)
		if s.Ammo() != cfg.InitialAmmo {
			t.Errorf("Expected ammo capped at %d, got %d", cfg.InitialAmmo, s.Ammo())
		}
	})

	t.Run("Reload from empty", func(t *testing.T) {
		s := NewState(cfg)
		s.DecreaseAmmo(cfg.InitialAmmo)
		s.IncreaseAmmo(cfg.InitialAmmo)
		if s.Ammo() != cfg.InitialAmmo {
			t.Errorf("Expected full ammo after reload, got %d", s.Ammo())
		}
	})
}

func TestTenHitsEndTheGame(t *testing.T) {
	cfg := DefaultConfig()
	s := NewState(cfg)

	for i := 0; i < 10; i++ {
		if s.IsGameOver() {
			t.Fatalf("Game over after only %d hits", i)
		}
		s.DecreaseHealth(cfg.HitDamage)
	}
	if !s.IsGameOver() {
		t.Errorf("Expected game over after 10 hits of %d damage", cfg.HitDamage)
	}
}

func TestResetRestoresEverything(t *testing.T) {
	cfg := DefaultConfig()
	s := NewState(cfg)
	s.DecreaseHealth(cfg.MaxHealth)
	s.DecreaseAmmo(3)
	s.UpdateTime(42)

	s.Reset()

	if s.Health() != cfg.MaxHealth || s.Ammo() != cfg.InitialAmmo || s.Elapsed() != 0 {
		t.Errorf("Expected full reset, got health=%d ammo=%d elapsed=%d",
			s.Health(), s.Ammo(), s.Elapsed())
	}
	if s.IsGameOver() {
		t.Errorf("Expected reset to clear game over")
	}
}

func TestTimeIsMonotonic(t *testing.T) {
	s := NewState(DefaultConfig())
	for i := 1; i <= 5; i++ {
		s.UpdateTime(1)
		if s.Elapsed() != i {
			t.Errorf("Expected elapsed %d, got %d", i, s.Elapsed())
		}
	}
}

func TestSnapshotIsConsistent(t *testing.T) {
	cfg := DefaultConfig()
	s := NewState(cfg)
	s.DecreaseHealth(30)
	s.DecreaseAmmo(4)
	s.UpdateTime(7)

	snap := s.GetSnapshot()
	if snap.Health != 70 || snap.Ammo != cfg.InitialAmmo-4 || snap.Elapsed != 7 {
		t.Errorf("Unexpected snapshot %+v", snap)
	}
	if snap.MaxHealth != cfg.MaxHealth || snap.InitialAmmo != cfg.InitialAmmo {
		t.Errorf("Snapshot missing config bounds: %+v", snap)
	}
	if snap.GameOver {
		t.Errorf("Expected snapshot not game over")
	}
}

func TestFormatTime(t *testing.T) {
	tests := []struct {
		name string
		sec  int
		want string
	}{
		{"Zero", 0, "00:00"},
		{"Under a minute", 42, "00:42"},
		{"Exactly a minute", 60, "01:00"},
		{"Minutes and seconds", 125, "02:05"},
		{"Negative clamps", -3, "00:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatTime(tt.sec); got != tt.want {
				t.Errorf("Expected %q, got %q", tt.want, got)
			}
		})
	}
}
