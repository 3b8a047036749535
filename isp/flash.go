package isp

import (
	"fmt"

	"github.com/tinyavr/go-isp/protocol"
)

// flashErased is the value every flash byte reads after a chip erase.
const flashErased byte = 0xFF

// EraseChip erases the flash and EEPROM arrays, returning every byte
// to 0xFF. The erase also clears any programmed lock bits.
func (s *Session) EraseChip() error {
	if !s.active {
		return ErrClosed
	}
	s.exchange(protocol.BuildChipEraseCmd())
	s.sleep(protocol.EraseSettle)
	return nil
}

// WritePage loads data into the target's page buffer word by word and
// commits the buffer to the flash page starting at addr. Bytes beyond
// len(data) are loaded as 0xFF, the erased state, so a short page
// programs cleanly. addr must be page aligned and inside the flash.
func (s *Session) WritePage(addr uint16, data []byte) error {
	if !s.active {
		return ErrClosed
	}
	if int(addr)%s.target.PageSize != 0 {
		return fmt.Errorf("address 0x%04X is not aligned to the %d byte page size", addr, s.target.PageSize)
	}
	if len(data) > s.target.PageSize {
		return fmt.Errorf("page data is %d bytes, page size is %d", len(data), s.target.PageSize)
	}
	if int(addr)+s.target.PageSize > s.target.FlashSize {
		return fmt.Errorf("page at 0x%04X runs beyond the %d byte flash", addr, s.target.FlashSize)
	}

	for w := 0; w < s.target.WordsPerPage; w++ {
		lo, hi := flashErased, flashErased
		if i := 2 * w; i < len(data) {
			lo = data[i]
		}
		if i := 2*w + 1; i < len(data) {
			hi = data[i]
		}
		s.exchange(protocol.BuildLoadPageLowCmd(byte(w), lo))
		s.exchange(protocol.BuildLoadPageHighCmd(byte(w), hi))
	}

	s.exchange(protocol.BuildWritePageCmd(addr / 2))
	s.sleep(protocol.PageSettle)
	return nil
}

// ReadFlashByte reads one byte of program memory.
func (s *Session) ReadFlashByte(addr uint16) (byte, error) {
	if !s.active {
		return 0, ErrClosed
	}
	_, data := s.exchange(protocol.BuildReadFlashCmd(addr))
	return data, nil
}
