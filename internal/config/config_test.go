package config

import "testing"

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if got := cfg.Win(); got != 100 {
		t.Errorf("Win: got %d, want 100", got)
	}
	if got := cfg.Step(); got != 50 {
		t.Errorf("Step: got %d, want 50", got)
	}
}

func TestWinStepInvariants(t *testing.T) {
	tests := []struct {
		name     string
		hz, sec  int
		overlap  float64
		wantWin  int
		wantStep int
	}{
		{"training defaults", 20, 5, 0.5, 100, 50},
		{"no overlap", 20, 5, 0, 100, 100},
		{"quarter overlap", 10, 4, 0.25, 40, 30},
		{"high overlap", 50, 2, 0.9, 100, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			cfg.SamplingRateHz = tt.hz
			cfg.WindowSeconds = tt.sec
			cfg.OverlapFraction = tt.overlap

			if err := cfg.Validate(); err != nil {
				t.Fatalf("unexpected validation error: %v", err)
			}
			if got := cfg.Win(); got != tt.wantWin {
				t.Errorf("Win: got %d, want %d", got, tt.wantWin)
			}
			if got := cfg.Step(); got != tt.wantStep {
				t.Errorf("Step: got %d, want %d", got, tt.wantStep)
			}
			if cfg.Step() <= 0 || cfg.Step() > cfg.Win() {
				t.Errorf("step %d outside (0, %d]", cfg.Step(), cfg.Win())
			}
		})
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero sampling rate", func(c *Config) { c.SamplingRateHz = 0 }},
		{"negative window", func(c *Config) { c.WindowSeconds = -1 }},
		{"overlap one", func(c *Config) { c.OverlapFraction = 1.0 }},
		{"negative overlap", func(c *Config) { c.OverlapFraction = -0.1 }},
		{"negative throttle", func(c *Config) { c.ThrottleMs = -5 }},
		{"zero smoothing", func(c *Config) { c.SmoothingWindowSize = 0 }},
		{"negative grace", func(c *Config) { c.ResetGraceMs = -1 }},
		// overlap so high the step floors to zero
		{"step floors to zero", func(c *Config) {
			c.SamplingRateHz = 1
			c.WindowSeconds = 1
			c.OverlapFraction = 0.5
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Errorf("expected validation error, got nil")
			}
		})
	}
}
