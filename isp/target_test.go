package isp

import (
	"strings"
	"testing"
	"time"

	"github.com/tinyavr/go-isp/chip"
	"github.com/tinyavr/go-isp/ihex"
)

// mockTarget simulates an ATtiny13 behind the four programming lines.
// It implements Pins at the bit level: instructions arrive exactly as
// a real target sees them, most significant bit first, data-out
// sampled on the rising clock edge, with each reply byte echoing the
// instruction byte before it and read data delivered in the fourth
// reply byte.
type mockTarget struct {
	sck   bool
	mosi  bool
	miso  bool
	reset bool // line level, high = released

	shiftIn  byte
	shiftOut byte
	bitCount int
	frame    [4]byte
	frameLen int

	programming bool

	flash     [1024]byte
	pageBuf   [32]byte
	lowFuse   byte
	highFuse  byte
	lockBits  byte
	signature [3]byte

	// Counters observed by tests.
	clockEdges     int
	resetAsserts   int
	instructions   int
	erases         int
	lowFuseWrites  int
	highFuseWrites int
	pageCommits    int

	// Fault injection.
	refuseEntry      bool
	dropLowFuseWrite bool
	corrupt          map[uint16]byte // flash reads see these instead
}

// newMockTarget returns a factory-fresh ATtiny13: erased flash, fuses
// at their shipped values, reset line released.
func newMockTarget() *mockTarget {
	t := &mockTarget{
		reset:     true,
		lowFuse:   0x6A,
		highFuse:  0xFF,
		lockBits:  0xFF,
		signature: [3]byte{0x1E, 0x90, 0x07},
	}
	for i := range t.flash {
		t.flash[i] = 0xFF
	}
	for i := range t.pageBuf {
		t.pageBuf[i] = 0xFF
	}
	return t
}

func (t *mockTarget) SetMOSI(high bool) {
	t.mosi = high
}

func (t *mockTarget) ReadMISO() bool {
	if t.reset {
		// Released target: the line floats high on the pull-up.
		return true
	}
	return t.miso
}

func (t *mockTarget) SetReset(high bool) {
	if high == t.reset {
		return
	}
	t.reset = high
	t.programming = false
	if !high {
		// Reset asserted: the serial interface starts from scratch.
		t.resetAsserts++
		t.bitCount = 0
		t.frameLen = 0
		t.shiftIn = 0
		t.shiftOut = 0
	}
}

func (t *mockTarget) SetSCK(high bool) {
	if high == t.sck {
		return
	}
	t.sck = high
	if !high || t.reset {
		return
	}

	// Rising edge while in reset: shift data-out in, present the next
	// reply bit.
	t.clockEdges++
	t.shiftIn <<= 1
	if t.mosi {
		t.shiftIn |= 1
	}
	t.miso = t.shiftOut&(0x80>>t.bitCount) != 0

	t.bitCount++
	if t.bitCount == 8 {
		t.byteDone()
		t.bitCount = 0
		t.shiftIn = 0
	}
}

// byteDone ingests a completed instruction byte and stages the reply
// byte that will shift out while the next one arrives.
func (t *mockTarget) byteDone() {
	t.frame[t.frameLen] = t.shiftIn
	t.frameLen++

	switch t.frameLen {
	case 1:
		t.shiftOut = t.frame[0]
	case 2:
		t.shiftOut = t.frame[1]
		if t.refuseEntry && t.frame[0] == 0xAC && t.frame[1] == 0x53 {
			t.shiftOut = 0x00
		}
	case 3:
		t.shiftOut = t.replyData()
	case 4:
		t.execute()
		t.shiftOut = t.frame[3]
		t.frameLen = 0
	}
}

// replyData is the fourth reply byte: read data for read instructions,
// the plain echo for everything else.
func (t *mockTarget) replyData() byte {
	if !t.programming {
		return t.frame[2]
	}
	switch t.frame[0] {
	case 0x30:
		return t.signature[int(t.frame[2])%len(t.signature)]
	case 0x50:
		return t.lowFuse
	case 0x58:
		if t.frame[1] == 0x08 {
			return t.highFuse
		}
		return t.lockBits
	case 0x20, 0x28:
		addr := (uint16(t.frame[1])<<8 | uint16(t.frame[2])) * 2
		if t.frame[0] == 0x28 {
			addr++
		}
		return t.readFlash(addr)
	default:
		return t.frame[2]
	}
}

func (t *mockTarget) readFlash(addr uint16) byte {
	if v, ok := t.corrupt[addr]; ok {
		return v
	}
	return t.flash[addr]
}

// execute runs a completed instruction's side effect.
func (t *mockTarget) execute() {
	t.instructions++

	switch t.frame[0] {
	case 0xAC:
		switch {
		case t.frame[1] == 0x53:
			if !t.refuseEntry {
				t.programming = true
			}
		case !t.programming:
			// Control instructions are ignored outside programming
			// mode.
		case t.frame[1] == 0x80:
			for i := range t.flash {
				t.flash[i] = 0xFF
			}
			t.lockBits = 0xFF
			t.erases++
		case t.frame[1] == 0xA0:
			t.lowFuseWrites++
			if !t.dropLowFuseWrite {
				t.lowFuse = t.frame[3]
			}
		case t.frame[1] == 0xA8:
			t.highFuseWrites++
			t.highFuse = t.frame[3]
		}
	case 0x40:
		if t.programming {
			t.pageBuf[2*int(t.frame[2])] = t.frame[3]
		}
	case 0x48:
		if t.programming {
			t.pageBuf[2*int(t.frame[2])+1] = t.frame[3]
		}
	case 0x4C:
		if t.programming {
			wordAddr := uint16(t.frame[1])<<8 | uint16(t.frame[2])
			start := int(wordAddr) * 2
			start -= start % len(t.pageBuf)
			copy(t.flash[start:start+len(t.pageBuf)], t.pageBuf[:])
			t.pageCommits++
		}
	}
}

// mockLogger collects log messages for inspection.
type mockLogger struct {
	debugMessages []string
	infoMessages  []string
	errorMessages []string
}

func (m *mockLogger) Debug(msg string, keysAndValues ...interface{}) {
	m.debugMessages = append(m.debugMessages, msg)
}

func (m *mockLogger) Info(msg string, keysAndValues ...interface{}) {
	m.infoMessages = append(m.infoMessages, msg)
}

func (m *mockLogger) Error(msg string, keysAndValues ...interface{}) {
	m.errorMessages = append(m.errorMessages, msg)
}

// blinkHex is a 72 byte LED blinker touching flash pages 0x00, 0x20
// and 0x40.
const blinkHex = `:1000000009C00EC00DC00CC00BC00BC009C008C099
:1000100007C006C011241FBECFE9CDBF08D012C053
:10002000EFCF459B02C0C49A1895C498FDCFBC9AE7
:10003000B898BB9888E088B980E483B983E087B931
:080040007894FFCFF894FFCF84
:00000001FF
`

// blinkPageHex is the first 16 bytes of the blinker, a single record
// inside the first flash page.
const blinkPageHex = `:1000000009C00EC00DC00CC00BC00BC009C008C099
:00000001FF
`

// newTestProgrammer wires a Programmer to the simulated target with
// timed pauses disabled so runs finish instantly.
func newTestProgrammer(tgt *mockTarget, opts ...Option) *Programmer {
	base := []Option{WithDelayFunc(func(time.Duration) {})}
	return New(tgt, chip.ATtiny13(), append(base, opts...)...)
}

func mustImage(t *testing.T, hexData string) *ihex.Image {
	t.Helper()
	img, err := ihex.ParseReader(strings.NewReader(hexData))
	if err != nil {
		t.Fatalf("ParseReader() error = %v", err)
	}
	return img
}
