package isp

import "time"

// Result reports the outcome of one programming run, stage by stage.
// A run stops at the first stage that fails, so every field after the
// failed one keeps its zero value.
type Result struct {
	// Entry reports whether the target acknowledged programming mode.
	Entry bool

	// Identity reports whether the device signature matched.
	Identity bool

	// Fuses reports whether the fuse configuration was applied.
	Fuses bool

	// Flash reports whether every page the image touches was written.
	Flash bool

	// Verify reports whether the flash read back as the image.
	Verify bool

	// Signature is the device signature as read, valid once Entry is
	// true.
	Signature [3]byte

	// PagesWritten counts the flash pages committed.
	PagesWritten int

	// BytesWritten counts the bytes clocked into committed pages,
	// pad bytes included.
	BytesWritten int

	// Mismatches holds the verification differences when Verify is
	// false, capped at the configured limit. Truncated reports
	// whether the scan stopped at that cap.
	Mismatches []Mismatch
	Truncated  bool

	// Elapsed is the total duration of the run.
	Elapsed time.Duration
}

// OK reports whether every stage of the run passed.
func (r *Result) OK() bool {
	return r.Entry && r.Identity && r.Fuses && r.Flash && r.Verify
}
