// Package protocol implements the AVR serial (in-system) programming
// instruction set.
//
// This package provides functions to build the 4-byte instructions the
// programming engine shifts to the target over the bit-banged serial
// link, plus the opcode and timing constants the instructions depend
// on.
//
// # Protocol Overview
//
// Every instruction is exactly four bytes:
//
//	Instruction: [OPCODE][ARG1][ARG2][ARG3]
//
// The link is full duplex and pipelined: while instruction byte n is
// shifted out on the data-out line, the target shifts the reply to
// byte n-1 back on the data-in line. In practice this means:
//
//   - the third reply byte echoes the second instruction byte, which
//     is how Program Enable is acknowledged (see EnableEcho)
//   - read instructions deliver their payload in the fourth reply byte
//
// Write instructions have no reply payload and no failure indication.
// The target needs settle time after state-changing instructions; the
// *Settle constants carry the required pauses.
//
// # Command Builders
//
// Use the Build* functions to create instructions:
//
//	cmd := protocol.BuildProgramEnableCmd()
//	cmd := protocol.BuildLoadPageLowCmd(word, value)
//	// ... etc
//
// The builders are total: every input produces a valid instruction.
// Range checks against a target's geometry belong to the caller, which
// knows the device being programmed.
//
// # Reference
//
// Instruction encodings follow the serial programming section of the
// Atmel ATtiny13 datasheet (doc2535).
package protocol
