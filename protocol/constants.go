package protocol

import "time"

// Instruction opcodes (first instruction byte).
const (
	// OpProgramControl carries program enable, chip erase and fuse
	// writes, selected by the second instruction byte.
	OpProgramControl byte = 0xAC

	// OpReadSignature reads one signature byte.
	OpReadSignature byte = 0x30

	// OpReadFuseLow reads the low fuse byte.
	OpReadFuseLow byte = 0x50

	// OpReadFuseHigh reads the high fuse byte or the lock byte,
	// selected by the second instruction byte.
	OpReadFuseHigh byte = 0x58

	// OpLoadPageLow loads the low byte of one word into the page buffer.
	OpLoadPageLow byte = 0x40

	// OpLoadPageHigh loads the high byte of one word into the page buffer.
	OpLoadPageHigh byte = 0x48

	// OpWritePage commits the page buffer to flash.
	OpWritePage byte = 0x4C

	// OpReadFlashLow reads the low byte of one flash word.
	OpReadFlashLow byte = 0x20

	// OpReadFlashHigh reads the high byte of one flash word.
	OpReadFlashHigh byte = 0x28
)

// Second instruction bytes for OpProgramControl.
const (
	// CtlProgramEnable requests serial programming mode.
	CtlProgramEnable byte = 0x53

	// CtlChipErase erases flash and EEPROM.
	CtlChipErase byte = 0x80

	// CtlWriteFuseLow writes the low fuse byte.
	CtlWriteFuseLow byte = 0xA0

	// CtlWriteFuseHigh writes the high fuse byte.
	CtlWriteFuseHigh byte = 0xA8
)

// Selector bytes for OpReadFuseHigh.
const (
	// SelFuseHigh selects the high fuse byte.
	SelFuseHigh byte = 0x08

	// SelLockBits selects the lock byte.
	SelLockBits byte = 0x00
)

// EnableEcho is the byte the target echoes in the third reply slot of a
// successful program enable instruction.
const EnableEcho byte = 0x53

// Timing constants. The target samples the data-out line on the rising
// clock edge and needs settle time after state-changing instructions.
const (
	// BitDelay is the pause between line transitions within one bit.
	// It keeps the serial clock well below the target's clock/4 limit.
	BitDelay = 50 * time.Microsecond

	// PowerSettle is the pause after the lines reach their idle levels.
	PowerSettle = 10 * time.Millisecond

	// ResetSettle is the pause after asserting reset, before the
	// program enable instruction.
	ResetSettle = 20 * time.Millisecond

	// EraseSettle is the pause after a chip erase instruction.
	EraseSettle = 100 * time.Millisecond

	// PageSettle is the pause after committing a page to flash.
	PageSettle = 50 * time.Millisecond

	// FuseSettle is the pause after writing a fuse byte.
	FuseSettle = 50 * time.Millisecond

	// ReleaseSettle is the pause after releasing the reset line.
	ReleaseSettle = 1 * time.Millisecond
)
