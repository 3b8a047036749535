package isp

import "time"

// Programming phases reported in Progress.Phase, in the order a full
// run visits them.
const (
	// PhaseEntering is reset assertion and programming mode entry.
	PhaseEntering = "entering"
	// PhaseIdentifying is the device signature check.
	PhaseIdentifying = "identifying"
	// PhaseFuses is fuse inspection and programming.
	PhaseFuses = "fuses"
	// PhaseErasing is the chip erase.
	PhaseErasing = "erasing"
	// PhaseProgramming is page-by-page flash programming.
	PhaseProgramming = "programming"
	// PhaseVerifying is the flash read-back comparison.
	PhaseVerifying = "verifying"
	// PhaseComplete is reported once, after every stage has passed.
	PhaseComplete = "complete"
)

// Progress represents the current state of a programming run.
type Progress struct {
	// Phase is the stage the run is in, one of the Phase constants.
	Phase string

	// CurrentPage is the number of flash pages committed so far.
	CurrentPage int

	// TotalPages is the number of pages the image touches.
	TotalPages int

	// Percentage is the overall completion from 0 to 100, weighted so
	// page programming dominates the scale.
	Percentage float64

	// BytesWritten is the number of image bytes clocked into
	// committed pages.
	BytesWritten int

	// ElapsedTime is the time since the run started.
	ElapsedTime time.Duration
}

// ProgressCallback is called during programming to report progress.
// The callback runs on the programming goroutine, so it should return
// quickly; a slow callback stretches the gaps between instructions.
type ProgressCallback func(progress Progress)

// Logger is an interface for logging programming operations.
// Implementations can wrap any structured logging library.
type Logger interface {
	// Debug logs a debug-level message with optional key-value pairs.
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info-level message with optional key-value pairs.
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error-level message with optional key-value pairs.
	Error(msg string, keysAndValues ...interface{})
}
