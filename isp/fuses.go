package isp

import (
	"fmt"

	"github.com/tinyavr/go-isp/chip"
	"github.com/tinyavr/go-isp/protocol"
)

// ReadFuses reads the low fuse, high fuse and lock byte.
func (s *Session) ReadFuses() (chip.Fuses, error) {
	var f chip.Fuses
	if !s.active {
		return f, ErrClosed
	}
	_, f.Low = s.exchange(protocol.BuildReadFuseLowCmd())
	_, f.High = s.exchange(protocol.BuildReadFuseHighCmd())
	_, f.Lock = s.exchange(protocol.BuildReadLockBitsCmd())
	return f, nil
}

// ApplyFuses brings the target's fuses to the requested configuration.
// It is the only fuse-writing path, and it is deliberately one-sided:
//
//  1. The request is screened before any instruction is issued. A high
//     fuse that is not the chip's safe value, or a low fuse without the
//     expected clock selection, is rejected with the lines untouched.
//  2. The low fuse is written only when it differs from the requested
//     value, and the write is read back and verified.
//  3. The high fuse is never written. If the value already on the chip
//     clears a safety bit, the target is one step from unreachable and
//     ApplyFuses aborts rather than attempt a repair; if it merely
//     differs from the safe value, it is kept as is.
func (s *Session) ApplyFuses(cfg chip.FuseConfig) error {
	if !s.active {
		return ErrClosed
	}
	if err := s.screenFuseConfig(cfg); err != nil {
		return err
	}

	_, low := s.exchange(protocol.BuildReadFuseLowCmd())
	_, high := s.exchange(protocol.BuildReadFuseHighCmd())

	if low == cfg.Low {
		s.logDebug("low fuse already set", "value", fmt.Sprintf("0x%02X", low))
	} else {
		s.exchange(protocol.BuildWriteFuseLowCmd(cfg.Low))
		s.sleep(protocol.FuseSettle)

		_, got := s.exchange(protocol.BuildReadFuseLowCmd())
		if got != cfg.Low {
			return &FuseVerifyError{Fuse: "low", Wrote: cfg.Low, Read: got}
		}
		s.logInfo("low fuse written",
			"old", fmt.Sprintf("0x%02X", low),
			"new", fmt.Sprintf("0x%02X", got),
		)
	}

	// The high fuse is read, judged and left alone.
	switch state := s.target.DecodeHigh(high); {
	case high == s.target.SafeHighFuse:
		// Nothing to change.
	case !state.ResetEnabled:
		return &FuseSafetyError{
			Fuse:     "high",
			Value:    high,
			Reason:   "current value disables the reset pin",
			Critical: true,
		}
	case !state.SerialEnabled:
		return &FuseSafetyError{
			Fuse:     "high",
			Value:    high,
			Reason:   "current value disables serial programming",
			Critical: true,
		}
	default:
		s.logInfo("high fuse differs from the safe value, keeping it",
			"value", fmt.Sprintf("0x%02X", high),
			"safe", fmt.Sprintf("0x%02X", s.target.SafeHighFuse),
		)
	}

	return nil
}

// screenFuseConfig rejects a requested fuse configuration without
// issuing a single instruction.
func (s *Session) screenFuseConfig(cfg chip.FuseConfig) error {
	high := s.target.DecodeHigh(cfg.High)
	if !high.ResetEnabled {
		return &FuseSafetyError{
			Fuse:   "high",
			Value:  cfg.High,
			Reason: "requested value would disable the reset pin",
		}
	}
	if !high.SerialEnabled {
		return &FuseSafetyError{
			Fuse:   "high",
			Value:  cfg.High,
			Reason: "requested value would disable serial programming",
		}
	}
	if cfg.High != s.target.SafeHighFuse {
		return &FuseSafetyError{
			Fuse:   "high",
			Value:  cfg.High,
			Reason: fmt.Sprintf("requested value is not the safe value 0x%02X", s.target.SafeHighFuse),
		}
	}
	if cfg.Low&0x0F != s.target.ClockSelect {
		return &FuseSafetyError{
			Fuse:   "low",
			Value:  cfg.Low,
			Reason: fmt.Sprintf("clock select nibble is not the expected 0x%02X", s.target.ClockSelect),
		}
	}
	return nil
}
