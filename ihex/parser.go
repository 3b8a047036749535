package ihex

import (
	"bufio"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Record types handled by the parser.
const (
	// RecordData carries data bytes at an absolute 16-bit address.
	RecordData = 0x00

	// RecordEOF terminates the file.
	RecordEOF = 0x01
)

// RecordOverhead is the decoded size of the non-data record fields:
// count(1) + address(2) + type(1) + checksum(1).
const RecordOverhead = 5

// ErrNoData reports a hex file containing no data records.
var ErrNoData = errors.New("no data records found")

// Parse parses an Intel HEX file from the given file path.
// Returns the decoded image or an error if parsing fails.
//
// Example:
//
//	img, err := ihex.Parse("firmware.hex")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("%d bytes\n", img.Len())
func Parse(path string) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ParseReader(f)
}

// ParseReader parses Intel HEX records from any io.Reader.
// This is useful for testing and reading from non-file sources.
//
// Lines that do not begin with the ':' start code are skipped. Records
// after the end-of-file record are never read. Later data records win
// when two records address the same byte.
//
// Example:
//
//	data := strings.NewReader(hexContent)
//	img, err := ihex.ParseReader(data)
func ParseReader(r io.Reader) (*Image, error) {
	scanner := bufio.NewScanner(r)
	img := &Image{data: make(map[uint16]byte)}

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), " \t\r")

		if len(line) == 0 || line[0] != ':' {
			continue
		}

		done, err := parseRecord(line[1:], img.data)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNum, err)
		}
		if done {
			break
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	if len(img.data) == 0 {
		return nil, ErrNoData
	}

	return img, nil
}

// parseRecord decodes one record body (the line minus its start code)
// into data. done reports an end-of-file record.
//
// Record format (hex-encoded):
//
//	[COUNT(1)][ADDR_H][ADDR_L][TYPE(1)][DATA(COUNT)][CHECKSUM(1)]
//
// The checksum is the two's complement of the sum of all preceding
// bytes, so a valid record sums to zero.
func parseRecord(body string, data map[uint16]byte) (done bool, err error) {
	raw, err := hex.DecodeString(body)
	if err != nil {
		return false, fmt.Errorf("invalid hex data: %w", err)
	}

	if len(raw) < RecordOverhead {
		return false, fmt.Errorf("record too short: got %d bytes, minimum is %d", len(raw), RecordOverhead)
	}

	count := int(raw[0])
	if len(raw) != RecordOverhead+count {
		return false, fmt.Errorf("record length mismatch: got %d data bytes, declared %d", len(raw)-RecordOverhead, count)
	}

	checksum := raw[len(raw)-1]
	calculated := calculateRecordChecksum(raw[:len(raw)-1])
	if checksum != calculated {
		return false, fmt.Errorf("checksum mismatch: got 0x%02X, expected 0x%02X", checksum, calculated)
	}

	// Address is big-endian, unlike most of the AVR world.
	addr := uint16(raw[1])<<8 | uint16(raw[2])

	switch raw[3] {
	case RecordEOF:
		return true, nil
	case RecordData:
		if int(addr)+count > 0x10000 {
			return false, fmt.Errorf("record runs past address 0xFFFF: start 0x%04X, length %d", addr, count)
		}
		for i, b := range raw[4 : 4+count] {
			data[addr+uint16(i)] = b
		}
		return false, nil
	default:
		// Extended address and segment records never occur for
		// targets with 16-bit address space.
		return false, nil
	}
}

// calculateRecordChecksum computes the 8-bit record checksum.
// Uses basic summation with 2's complement.
func calculateRecordChecksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum += b
	}
	return ^sum + 1 // 2's complement
}
