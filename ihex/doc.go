// Package ihex provides parsing for Intel HEX firmware files.
//
// # File Format
//
// An Intel HEX file is a text file of records, one per line, each
// starting with a ':' and followed by hex-encoded fields:
//
//	[COUNT(2)][ADDR(4)][TYPE(2)][DATA(2*COUNT)][CHECKSUM(2)]
//
// Example record:
//
//	:1000000009C00EC00DC00CC00BC00BC009C008C099
//	  10 = byte count (16 data bytes)
//	  0000 = load address (big-endian)
//	  00 = record type (data)
//	  09C0...08C0 = data bytes
//	  99 = checksum
//
// The parser handles data records (type 00) and the end-of-file record
// (type 01). Other record types extend the address space beyond 16
// bits and are ignored; the targets this module programs hold at most
// a few kilobytes of flash. Lines not starting with ':' are skipped.
//
// # Usage
//
// Parse a hex file from disk:
//
//	img, err := ihex.Parse("firmware.hex")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("%d bytes\n", img.Len())
//	if lo, hi, ok := img.Span(); ok {
//	    fmt.Printf("address range 0x%04X-0x%04X\n", lo, hi)
//	}
//
// Parse from an io.Reader:
//
//	data := strings.NewReader(hexContent)
//	img, err := ihex.ParseReader(data)
//
// # Error Handling
//
// Parsing fails with detailed errors for invalid files:
//   - Invalid hex encoding
//   - Record length mismatches
//   - Checksum mismatches
//   - Records running past the 16-bit address space
//
// Record errors include the line number. A file without any data
// records fails with ErrNoData.
package ihex
