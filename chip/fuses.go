package chip

// FuseConfig is a requested pair of fuse values.
type FuseConfig struct {
	// Low is the low fuse byte.
	Low byte `yaml:"low"`

	// High is the high fuse byte.
	High byte `yaml:"high"`
}

// Fuses is one fuse state as read back from a target.
type Fuses struct {
	Low  byte
	High byte
	Lock byte
}

// LowFuse is the decoded clock configuration of a low fuse byte.
// Fuse bits read 0 when programmed, so the boolean fields report the
// feature state rather than the raw bit.
type LowFuse struct {
	// CKSEL is the clock source selection, bits 1:0.
	CKSEL byte

	// SUT is the start-up time selection, bits 3:2.
	SUT byte

	// CKDIV8 reports whether the system clock is divided by 8.
	CKDIV8 bool
}

// DecodeLow decodes the clock fields of a low fuse byte.
func DecodeLow(value byte) LowFuse {
	return LowFuse{
		CKSEL:  value & 0x03,
		SUT:    (value >> 2) & 0x03,
		CKDIV8: value&0x10 == 0,
	}
}

// Frequency returns the resulting CPU clock in hertz, or 0 when the
// selection is not a calibrated internal RC oscillator.
func (f LowFuse) Frequency() uint32 {
	var base uint32
	switch f.CKSEL {
	case 0x02:
		base = 9600000
	case 0x01:
		base = 4800000
	default:
		return 0
	}
	if f.CKDIV8 {
		return base / 8
	}
	return base
}

// Source names the selected clock source.
func (f LowFuse) Source() string {
	switch f.CKSEL {
	case 0x02:
		return "internal RC oscillator (9.6 MHz)"
	case 0x01:
		return "internal RC oscillator (4.8 MHz)"
	case 0x03:
		return "internal 128 kHz oscillator"
	default:
		return "external clock"
	}
}

// HighFuse is the decoded safety state of a high fuse byte.
type HighFuse struct {
	// ResetEnabled reports whether the reset pin still works.
	ResetEnabled bool

	// SerialEnabled reports whether serial programming is still
	// enabled.
	SerialEnabled bool
}

// DecodeHigh decodes the safety fields of a high fuse byte using the
// chip's fuse bit assignment.
func (c *Chip) DecodeHigh(value byte) HighFuse {
	return HighFuse{
		ResetEnabled:  value&c.ResetEnableMask != 0,
		SerialEnabled: value&c.SerialEnableMask != 0,
	}
}

// Dangerous reports whether this state forecloses further serial
// programming.
func (f HighFuse) Dangerous() bool {
	return !f.ResetEnabled || !f.SerialEnabled
}
