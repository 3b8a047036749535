// Package chip describes programmable targets as data.
//
// A Chip value carries everything the programming engine needs to know
// about one part: flash geometry, the expected device signature, and
// the fuse values that are safe to request. The ATtiny13 description
// is built in; other family members with the same programming protocol
// can be described in a YAML file and loaded with Load.
//
// Example description:
//
//	name: ATtiny13
//	flash_size: 1024
//	page_size: 32
//	words_per_page: 16
//	signature: [0x1E, 0x90, 0x07]
//	safe_high_fuse: 0xFF
//	clock_select: 0x0A
//	reset_enable_mask: 0x01
//	serial_enable_mask: 0x02
//	default_fuses:
//	  low: 0x7A
//	  high: 0xFF
//	factory_fuses:
//	  low: 0x6A
//	  high: 0xFF
//
// The package also decodes fuse bytes for reporting: DecodeLow splits
// a low fuse into its clock fields, and Chip.DecodeHigh reads the
// safety bits that the fuse guard protects.
package chip
