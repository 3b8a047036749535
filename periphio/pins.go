// Package periphio connects the programmer to host GPIO through the
// periph.io driver stack, for hosts like the Raspberry Pi whose pin
// header can drive the programming lines directly.
package periphio

import (
	"fmt"

	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"

	"github.com/tinyavr/go-isp/isp"
)

// Pins drives the programming lines through four host GPIO pins.
//
// The isp.Pins interface carries no error returns; on memory-mapped
// GPIO a level write cannot fail once the pin is configured, which
// Open has already done.
type Pins struct {
	sck   gpio.PinOut
	mosi  gpio.PinOut
	miso  gpio.PinIn
	reset gpio.PinOut
}

var _ isp.Pins = (*Pins)(nil)

// Open looks up the four programming lines by name and configures
// them: reset released, clock and data-out low, data-in pulled up.
// Reset reaches its released level before any other line is driven,
// so the target never sees a spurious reset pulse.
//
// Pin names follow the periph registry, e.g. "GPIO8" on a Raspberry
// Pi. The registry is populated by host.Init, which must have been
// called first.
func Open(sck, mosi, miso, reset string) (*Pins, error) {
	p := &Pins{}

	var err error
	if p.reset, err = outputPin(reset, gpio.High); err != nil {
		return nil, err
	}
	if p.sck, err = outputPin(sck, gpio.Low); err != nil {
		return nil, err
	}
	if p.mosi, err = outputPin(mosi, gpio.Low); err != nil {
		return nil, err
	}

	misoPin := gpioreg.ByName(miso)
	if misoPin == nil {
		return nil, fmt.Errorf("unknown pin %q", miso)
	}
	if err := misoPin.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("failed to configure pin %s as input: %w", misoPin, err)
	}
	p.miso = misoPin

	return p, nil
}

// outputPin looks up a pin and drives it to its initial level.
func outputPin(name string, level gpio.Level) (gpio.PinOut, error) {
	pin := gpioreg.ByName(name)
	if pin == nil {
		return nil, fmt.Errorf("unknown pin %q", name)
	}
	if err := pin.Out(level); err != nil {
		return nil, fmt.Errorf("failed to configure pin %s as output: %w", pin, err)
	}
	return pin, nil
}

// SetSCK drives the serial clock line.
func (p *Pins) SetSCK(high bool) {
	_ = p.sck.Out(gpio.Level(high))
}

// SetMOSI drives the data-out line.
func (p *Pins) SetMOSI(high bool) {
	_ = p.mosi.Out(gpio.Level(high))
}

// ReadMISO samples the data-in line.
func (p *Pins) ReadMISO() bool {
	return p.miso.Read() == gpio.High
}

// SetReset drives the reset line.
func (p *Pins) SetReset(high bool) {
	_ = p.reset.Out(gpio.Level(high))
}
