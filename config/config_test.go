package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error: %v", err)
	}

	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"screen width", float64(cfg.Screen.Width), 500},
		{"screen height", float64(cfg.Screen.Height), 800},
		{"jump velocity", cfg.Bird.JumpVelocity, -10.5},
		{"gravity", cfg.Bird.Gravity, 1.5},
		{"terminal displacement", cfg.Bird.TerminalDisplacement, 16},
		{"pipe gap", cfg.Pipe.Gap, 200},
		{"pipe min height", float64(cfg.Pipe.MinHeight), 50},
		{"pipe max height", float64(cfg.Pipe.MaxHeight), 450},
		{"ground y", cfg.Ground.Y, 730},
		{"survival bonus", cfg.Fitness.SurvivalBonus, 0.1},
		{"pass bonus", cfg.Fitness.PassBonus, 5},
		{"collision penalty", cfg.Fitness.CollisionPenalty, 1},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}

	if cfg.Derived.FrameTime != time.Second/30 {
		t.Errorf("FrameTime = %v, want %v", cfg.Derived.FrameTime, time.Second/30)
	}
}

func TestLoadOverridesOnlyPresentFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "override.yaml")
	if err := os.WriteFile(path, []byte("pipe:\n  gap: 150\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if cfg.Pipe.Gap != 150 {
		t.Errorf("pipe.gap = %v, want 150", cfg.Pipe.Gap)
	}
	if cfg.Pipe.Velocity != 5 {
		t.Errorf("pipe.velocity = %v, want default 5", cfg.Pipe.Velocity)
	}
}

func TestLoadRejectsInvalidRange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("pipe:\n  min_height: 400\n  max_height: 300\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for max_height <= min_height")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Training.Generations = 7

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if loaded.Training.Generations != 7 {
		t.Errorf("generations = %d, want 7", loaded.Training.Generations)
	}
}
