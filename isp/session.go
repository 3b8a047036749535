package isp

import (
	"fmt"
	"time"

	"github.com/tinyavr/go-isp/chip"
	"github.com/tinyavr/go-isp/protocol"
)

// Session owns the programming link to one target held in reset.
// Every instruction flows through it; no other type touches the lines.
//
// A Session is created by Programmer.Open and arrives already in
// programming mode. The caller must Close it to release the target
// from reset. A Session is not safe for concurrent use.
type Session struct {
	pins   Pins
	target *chip.Chip
	cfg    *Config
	active bool
}

// openSession drives the lines to their idle levels, asserts reset and
// enters programming mode. On a failed entry the target is released
// again before the error is returned.
func openSession(pins Pins, target *chip.Chip, cfg *Config) (*Session, error) {
	s := &Session{pins: pins, target: target, cfg: cfg}

	// Idle levels first: clock low, data-out low, reset deasserted.
	s.pins.SetSCK(false)
	s.pins.SetMOSI(false)
	s.pins.SetReset(true)
	s.sleep(protocol.PowerSettle)

	// Hold the target in reset for the whole session.
	s.pins.SetReset(false)
	s.sleep(protocol.ResetSettle)

	echo, _ := s.exchange(protocol.BuildProgramEnableCmd())
	if echo != protocol.EnableEcho {
		s.release()
		return nil, &EntryError{Echo: echo}
	}

	s.active = true
	s.logDebug("programming mode entered")
	return s, nil
}

// Close releases the target from reset so it boots into the freshly
// programmed flash. Close is idempotent; only the first call touches
// the lines.
func (s *Session) Close() {
	if !s.active {
		return
	}
	s.active = false
	s.release()
}

func (s *Session) release() {
	s.pins.SetReset(true)
	s.sleep(protocol.ReleaseSettle)
}

// Signature reads the three signature bytes identifying the device.
func (s *Session) Signature() ([3]byte, error) {
	var sig [3]byte
	if !s.active {
		return sig, ErrClosed
	}
	for i := range sig {
		_, sig[i] = s.exchange(protocol.BuildReadSignatureCmd(byte(i)))
	}
	return sig, nil
}

// exchange clocks a full instruction through the link and returns its
// third and fourth reply bytes: the echo slot and the data slot.
func (s *Session) exchange(cmd protocol.Command) (echo, data byte) {
	r1 := s.transferByte(cmd[0])
	r2 := s.transferByte(cmd[1])
	echo = s.transferByte(cmd[2])
	data = s.transferByte(cmd[3])

	if s.cfg.Logger != nil {
		s.cfg.Logger.Debug("instruction",
			"tx", fmt.Sprintf("% 02X", cmd[:]),
			"rx", fmt.Sprintf("% 02X", []byte{r1, r2, echo, data}),
		)
	}
	return echo, data
}

// transferByte shifts one byte out while shifting the reply in, most
// significant bit first. Data-out must be stable before the rising
// clock edge, where the target samples it; the reply bit is read while
// the clock is high.
func (s *Session) transferByte(out byte) byte {
	var in byte
	for i := 0; i < 8; i++ {
		s.pins.SetMOSI((out>>(7-i))&1 == 1)
		s.sleep(s.cfg.ClockDelay)

		s.pins.SetSCK(true)
		s.sleep(s.cfg.ClockDelay)

		in <<= 1
		if s.pins.ReadMISO() {
			in |= 1
		}

		s.pins.SetSCK(false)
		s.sleep(s.cfg.ClockDelay)
	}
	return in
}

func (s *Session) sleep(d time.Duration) {
	s.cfg.Sleep(d)
}

func (s *Session) logDebug(msg string, keysAndValues ...interface{}) {
	if s.cfg.Logger != nil {
		s.cfg.Logger.Debug(msg, keysAndValues...)
	}
}

func (s *Session) logInfo(msg string, keysAndValues ...interface{}) {
	if s.cfg.Logger != nil {
		s.cfg.Logger.Info(msg, keysAndValues...)
	}
}
