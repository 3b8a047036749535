package protocol

// Command is a single 4-byte serial programming instruction.
//
// The target clocks replies back one byte behind the instruction: while
// instruction byte n is shifted out, the reply to byte n-1 is shifted
// in. Read instructions deliver their payload in the fourth reply byte.
type Command [4]byte

// BuildProgramEnableCmd constructs the Program Enable instruction. It
// must be the first instruction after the reset line is asserted. The
// target acknowledges by echoing CtlProgramEnable in the third reply
// byte (see EnableEcho).
//
// Instruction layout:
//
//	[0xAC][0x53][0x00][0x00]
func BuildProgramEnableCmd() Command {
	return Command{OpProgramControl, CtlProgramEnable, 0x00, 0x00}
}

// BuildChipEraseCmd constructs the Chip Erase instruction. Erasing
// returns every flash byte to 0xFF and requires EraseSettle before the
// next instruction.
//
// Instruction layout:
//
//	[0xAC][0x80][0x00][0x00]
func BuildChipEraseCmd() Command {
	return Command{OpProgramControl, CtlChipErase, 0x00, 0x00}
}

// BuildReadSignatureCmd constructs a Read Signature Byte instruction
// for the given byte index (0 to 2). The signature byte arrives in the
// fourth reply byte.
//
// Instruction layout:
//
//	[0x30][0x00][INDEX][0x00]
func BuildReadSignatureCmd(index byte) Command {
	return Command{OpReadSignature, 0x00, index, 0x00}
}

// BuildReadFuseLowCmd constructs a Read Low Fuse instruction. The fuse
// value arrives in the fourth reply byte.
//
// Instruction layout:
//
//	[0x50][0x00][0x00][0x00]
func BuildReadFuseLowCmd() Command {
	return Command{OpReadFuseLow, 0x00, 0x00, 0x00}
}

// BuildReadFuseHighCmd constructs a Read High Fuse instruction. The
// fuse value arrives in the fourth reply byte.
//
// Instruction layout:
//
//	[0x58][0x08][0x00][0x00]
func BuildReadFuseHighCmd() Command {
	return Command{OpReadFuseHigh, SelFuseHigh, 0x00, 0x00}
}

// BuildReadLockBitsCmd constructs a Read Lock Bits instruction. The
// lock byte arrives in the fourth reply byte.
//
// Instruction layout:
//
//	[0x58][0x00][0x00][0x00]
func BuildReadLockBitsCmd() Command {
	return Command{OpReadFuseHigh, SelLockBits, 0x00, 0x00}
}

// BuildWriteFuseLowCmd constructs a Write Low Fuse instruction. The
// write requires FuseSettle before the next instruction.
//
// Instruction layout:
//
//	[0xAC][0xA0][0x00][VALUE]
func BuildWriteFuseLowCmd(value byte) Command {
	return Command{OpProgramControl, CtlWriteFuseLow, 0x00, value}
}

// BuildWriteFuseHighCmd constructs a Write High Fuse instruction. The
// write requires FuseSettle before the next instruction.
//
// A cleared reset-enable or serial-enable bit in the written value
// permanently locks the target out of serial programming, so callers
// are expected to gate this instruction behind a safety check.
//
// Instruction layout:
//
//	[0xAC][0xA8][0x00][VALUE]
func BuildWriteFuseHighCmd(value byte) Command {
	return Command{OpProgramControl, CtlWriteFuseHigh, 0x00, value}
}

// BuildLoadPageLowCmd constructs a Load Program Memory Page instruction
// for the low byte of the word at the given in-page word index.
//
// Instruction layout:
//
//	[0x40][0x00][WORD][VALUE]
func BuildLoadPageLowCmd(word, value byte) Command {
	return Command{OpLoadPageLow, 0x00, word, value}
}

// BuildLoadPageHighCmd constructs a Load Program Memory Page
// instruction for the high byte of the word at the given in-page word
// index.
//
// Instruction layout:
//
//	[0x48][0x00][WORD][VALUE]
func BuildLoadPageHighCmd(word, value byte) Command {
	return Command{OpLoadPageHigh, 0x00, word, value}
}

// BuildWritePageCmd constructs a Write Program Memory Page instruction
// committing the page buffer to the page containing the given word
// address. The commit requires PageSettle before the next instruction.
//
// Instruction layout:
//
//	[0x4C][ADDR_H][ADDR_L][0x00]
func BuildWritePageCmd(wordAddr uint16) Command {
	return Command{OpWritePage, byte(wordAddr >> 8), byte(wordAddr), 0x00}
}

// BuildReadFlashCmd constructs a Read Program Memory instruction for
// the given byte address. Flash is word addressed, so the opcode
// selects the low or high byte of the word from the address parity.
// The flash byte arrives in the fourth reply byte.
//
// Instruction layout:
//
//	[0x20|0x28][ADDR_H][ADDR_L][0x00]
func BuildReadFlashCmd(byteAddr uint16) Command {
	op := OpReadFlashLow
	if byteAddr&1 == 1 {
		op = OpReadFlashHigh
	}
	word := byteAddr >> 1
	return Command{op, byte(word >> 8), byte(word), 0x00}
}
