// Package config holds the pipeline configuration shared by the monitor
// components. Values are fixed at startup and read-only thereafter.
package config

import (
	"fmt"
	"math"
	"time"
)

// Config describes the windowing, throttling and smoothing parameters.
// The defaults mirror the parameters the model was trained with (20 Hz,
// 5 s windows, 50% overlap); the timing constants are empirically chosen
// and deliberately kept configurable.
type Config struct {
	SamplingRateHz      int
	WindowSeconds       int
	OverlapFraction     float64
	ThrottleMs          int
	SmoothingWindowSize int
	ResetGraceMs        int
}

// Default returns the stock configuration.
func Default() Config {
	return Config{
		SamplingRateHz:      20,
		WindowSeconds:       5,
		OverlapFraction:     0.5,
		ThrottleMs:          1000,
		SmoothingWindowSize: 3,
		ResetGraceMs:        1500,
	}
}

// Win returns the window length in samples: samplingRateHz × windowSeconds.
func (c Config) Win() int {
	return c.SamplingRateHz * c.WindowSeconds
}

// Step returns the extraction step in samples: floor(WIN × (1 − overlap)).
// The epsilon absorbs float error in the product, so an exact fraction like
// 100 × 0.1 floors to 10, not 9.
func (c Config) Step() int {
	return int(math.Floor(float64(c.Win())*(1-c.OverlapFraction) + 1e-9))
}

// Throttle returns the minimum interval between dispatches.
func (c Config) Throttle() time.Duration {
	return time.Duration(c.ThrottleMs) * time.Millisecond
}

// ResetGrace returns the post-reset dispatch blackout duration.
func (c Config) ResetGrace() time.Duration {
	return time.Duration(c.ResetGraceMs) * time.Millisecond
}

// Validate checks the windowing invariants: WIN > 0 and 0 < STEP ≤ WIN.
func (c Config) Validate() error {
	if c.SamplingRateHz <= 0 {
		return fmt.Errorf("sampling rate must be positive, got %d", c.SamplingRateHz)
	}
	if c.WindowSeconds <= 0 {
		return fmt.Errorf("window seconds must be positive, got %d", c.WindowSeconds)
	}
	if c.OverlapFraction < 0 || c.OverlapFraction >= 1 {
		return fmt.Errorf("overlap fraction must be in [0, 1), got %g", c.OverlapFraction)
	}
	step := c.Step()
	if step <= 0 || step > c.Win() {
		return fmt.Errorf("step %d out of range (0, %d]", step, c.Win())
	}
	if c.ThrottleMs < 0 {
		return fmt.Errorf("throttle must be non-negative, got %dms", c.ThrottleMs)
	}
	if c.SmoothingWindowSize <= 0 {
		return fmt.Errorf("smoothing window size must be positive, got %d", c.SmoothingWindowSize)
	}
	if c.ResetGraceMs < 0 {
		return fmt.Errorf("reset grace must be non-negative, got %dms", c.ResetGraceMs)
	}
	return nil
}
