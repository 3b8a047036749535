package isp

import (
	"errors"
	"fmt"

	"github.com/tinyavr/go-isp/protocol"
)

// ErrClosed is returned when an operation is attempted on a session
// that has already released the target.
var ErrClosed = errors.New("programming session is closed")

// DecodeError indicates the firmware image could not be decoded. No
// hardware line is touched when decoding fails.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("image decode failed: %v", e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// EntryError indicates the target did not acknowledge the Program
// Enable instruction. Echo holds the byte received in the slot that
// should have carried the acknowledgement; on a dead or absent target
// a floating data line usually reads as 0xFF or 0x00.
type EntryError struct {
	Echo byte
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("failed to enter programming mode: echo byte 0x%02X, want 0x%02X",
		e.Echo, protocol.EnableEcho)
}

// WrongDeviceError indicates the device signature did not match the
// chip being programmed.
type WrongDeviceError struct {
	Want [3]byte
	Got  [3]byte
}

func (e *WrongDeviceError) Error() string {
	return fmt.Sprintf("wrong device: signature % 02X, want % 02X", e.Got[:], e.Want[:])
}

// FuseSafetyError indicates a fuse operation was refused by the safety
// screen. Critical marks the case where the fuses already on the chip
// threaten the programming interface itself; a non-critical abort only
// rejects the requested configuration.
type FuseSafetyError struct {
	// Fuse names the offending byte, "low" or "high".
	Fuse string

	// Value is the fuse value that triggered the abort.
	Value byte

	// Reason describes what the screen objected to.
	Reason string

	// Critical is true when the chip's current state, not the
	// request, caused the abort.
	Critical bool
}

func (e *FuseSafetyError) Error() string {
	if e.Critical {
		return fmt.Sprintf("fuse safety abort (critical): %s fuse 0x%02X: %s", e.Fuse, e.Value, e.Reason)
	}
	return fmt.Sprintf("fuse safety abort: %s fuse 0x%02X: %s", e.Fuse, e.Value, e.Reason)
}

// FuseVerifyError indicates a fuse write did not stick: the value read
// back after the write differs from the value written.
type FuseVerifyError struct {
	Fuse  string
	Wrote byte
	Read  byte
}

func (e *FuseVerifyError) Error() string {
	return fmt.Sprintf("%s fuse write failed: wrote 0x%02X, read back 0x%02X", e.Fuse, e.Wrote, e.Read)
}

// ImageRangeError indicates the firmware image addresses memory beyond
// the end of the target's flash.
type ImageRangeError struct {
	// Addr is the highest address the image touches.
	Addr uint16

	// FlashSize is the target's flash size in bytes.
	FlashSize int
}

func (e *ImageRangeError) Error() string {
	return fmt.Sprintf("image touches address 0x%04X, beyond the %d byte flash", e.Addr, e.FlashSize)
}

// Mismatch is one flash address whose read-back differed from the
// image during verification.
type Mismatch struct {
	Addr uint16
	Want byte
	Got  byte
}

// VerifyError indicates the programmed flash did not read back as the
// image. Mismatches holds the differing addresses in ascending order,
// capped at the configured limit; Truncated reports whether the scan
// stopped at that cap with addresses still unchecked.
type VerifyError struct {
	Mismatches []Mismatch
	Truncated  bool
}

func (e *VerifyError) Error() string {
	if e.Truncated {
		return fmt.Sprintf("flash verification failed: %d mismatches (scan stopped at the reporting cap)",
			len(e.Mismatches))
	}
	return fmt.Sprintf("flash verification failed: %d mismatches", len(e.Mismatches))
}
