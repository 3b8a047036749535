package isp

import (
	"time"

	"github.com/tinyavr/go-isp/protocol"
)

// Config holds configuration options for the Programmer.
type Config struct {
	// ProgressCallback is called during programming to report
	// progress. If nil, no progress is reported.
	ProgressCallback ProgressCallback

	// Logger is used for logging operations. If nil, no logging
	// occurs.
	Logger Logger

	// ClockDelay is the pause between clock line transitions. One bit
	// takes three delays, so the serial clock runs at roughly
	// 1/(3*ClockDelay).
	ClockDelay time.Duration

	// Sleep is the function used for every timed pause, from bit
	// delays to erase settling. Tests substitute a no-op.
	Sleep func(d time.Duration)

	// MismatchLimit is the number of verification mismatches recorded
	// before the read-back scan stops.
	MismatchLimit int
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		ClockDelay:    protocol.BitDelay,
		Sleep:         time.Sleep,
		MismatchLimit: 20,
	}
}

// Option is a function that configures the Programmer.
type Option func(*Config)

// WithProgressCallback sets a callback function to report programming
// progress.
//
// Example:
//
//	prog := isp.New(pins, target, isp.WithProgressCallback(func(p isp.Progress) {
//	    fmt.Printf("%s: %.1f%%\n", p.Phase, p.Percentage)
//	}))
func WithProgressCallback(callback ProgressCallback) Option {
	return func(c *Config) {
		c.ProgressCallback = callback
	}
}

// WithLogger sets a logger for programming operations.
//
// Example:
//
//	prog := isp.New(pins, target, isp.WithLogger(myLogger))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithClockDelay sets the pause between clock line transitions. The
// default suits an internal RC oscillator at its factory 1.2 MHz; a
// target running faster tolerates a shorter delay.
//
// Example:
//
//	prog := isp.New(pins, target, isp.WithClockDelay(20*time.Microsecond))
func WithClockDelay(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.ClockDelay = d
		}
	}
}

// WithDelayFunc replaces the sleep function used for timed pauses.
// Simulated targets pass a no-op so runs finish instantly.
//
// Example:
//
//	prog := isp.New(pins, target, isp.WithDelayFunc(func(time.Duration) {}))
func WithDelayFunc(f func(d time.Duration)) Option {
	return func(c *Config) {
		if f != nil {
			c.Sleep = f
		}
	}
}

// WithMismatchLimit sets how many verification mismatches are recorded
// before the read-back scan stops (default 20).
//
// Example:
//
//	prog := isp.New(pins, target, isp.WithMismatchLimit(5))
func WithMismatchLimit(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.MismatchLimit = n
		}
	}
}
