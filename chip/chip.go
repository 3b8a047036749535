package chip

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Chip describes one programmable target: its flash geometry, its
// identity, and the fuse values that are safe to request. The
// programming engine is generic over this description; nothing about a
// particular part is hardcoded there.
type Chip struct {
	// Name identifies the part, e.g. "ATtiny13".
	Name string `yaml:"name"`

	// FlashSize is the program memory size in bytes.
	FlashSize int `yaml:"flash_size"`

	// PageSize is the flash page size in bytes.
	PageSize int `yaml:"page_size"`

	// WordsPerPage is the number of 16-bit words in one page.
	WordsPerPage int `yaml:"words_per_page"`

	// Signature is the expected 3-byte device signature.
	Signature [3]byte `yaml:"signature"`

	// SafeHighFuse is the only high fuse value the fuse guard accepts
	// as a target. It must keep the ResetEnableMask and
	// SerialEnableMask bits set.
	SafeHighFuse byte `yaml:"safe_high_fuse"`

	// ClockSelect is the low nibble every requested low fuse must
	// carry: the internal oscillator selection.
	ClockSelect byte `yaml:"clock_select"`

	// ResetEnableMask selects the high fuse bit that keeps the reset
	// pin usable. A target that clears it cannot be reached over the
	// serial programming link again.
	ResetEnableMask byte `yaml:"reset_enable_mask"`

	// SerialEnableMask selects the high fuse bit that keeps serial
	// programming enabled.
	SerialEnableMask byte `yaml:"serial_enable_mask"`

	// DefaultFuses is the configuration programmed when the caller
	// does not choose one.
	DefaultFuses FuseConfig `yaml:"default_fuses"`

	// FactoryFuses is the configuration the part ships with.
	FactoryFuses FuseConfig `yaml:"factory_fuses"`
}

// ATtiny13 returns the built-in description of the Atmel ATtiny13,
// with default fuses selecting the undivided 9.6 MHz internal
// oscillator.
func ATtiny13() *Chip {
	return &Chip{
		Name:             "ATtiny13",
		FlashSize:        1024,
		PageSize:         32,
		WordsPerPage:     16,
		Signature:        [3]byte{0x1E, 0x90, 0x07},
		SafeHighFuse:     0xFF,
		ClockSelect:      0x0A,
		ResetEnableMask:  0x01,
		SerialEnableMask: 0x02,
		DefaultFuses:     FuseConfig{Low: 0x7A, High: 0xFF},
		FactoryFuses:     FuseConfig{Low: 0x6A, High: 0xFF},
	}
}

// Pages returns the number of flash pages.
func (c *Chip) Pages() int {
	return c.FlashSize / c.PageSize
}

// Validate checks the description for internal consistency.
func (c *Chip) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("chip name is empty")
	}
	if c.FlashSize <= 0 {
		return fmt.Errorf("flash size must be positive, got %d", c.FlashSize)
	}
	if c.FlashSize > 0x10000 {
		return fmt.Errorf("flash size %d exceeds the 16-bit address space", c.FlashSize)
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("page size must be positive, got %d", c.PageSize)
	}
	if c.PageSize != 2*c.WordsPerPage {
		return fmt.Errorf("page size %d does not hold %d words", c.PageSize, c.WordsPerPage)
	}
	if c.FlashSize%c.PageSize != 0 {
		return fmt.Errorf("flash size %d is not a multiple of the page size %d", c.FlashSize, c.PageSize)
	}
	if c.Signature == ([3]byte{}) {
		return fmt.Errorf("signature is empty")
	}
	if c.ResetEnableMask == 0 {
		return fmt.Errorf("reset enable mask is zero")
	}
	if c.SerialEnableMask == 0 {
		return fmt.Errorf("serial enable mask is zero")
	}
	if c.SafeHighFuse&c.ResetEnableMask == 0 || c.SafeHighFuse&c.SerialEnableMask == 0 {
		return fmt.Errorf("safe high fuse 0x%02X clears a safety bit", c.SafeHighFuse)
	}
	return nil
}

// Load reads a chip description from a YAML file.
//
// Example:
//
//	c, err := chip.Load("attiny13.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
func Load(path string) (*Chip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	c, err := LoadReader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// LoadReader reads a YAML chip description from any io.Reader.
// Unknown fields are rejected so a typo in a description file fails
// loudly instead of leaving a zero value in place.
func LoadReader(r io.Reader) (*Chip, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var c Chip
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("failed to decode chip description: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid chip description: %w", err)
	}
	return &c, nil
}
