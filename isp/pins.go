package isp

// Pins drives the four hardware lines of the serial programming link.
//
// Implementations connect real GPIO (see the periphio package) or a
// simulated target. Line faults are not detectable at this layer; the
// protocol's write instructions carry no acknowledgement, so every
// method applies its level without reporting an error.
type Pins interface {
	// SetSCK drives the serial clock line.
	SetSCK(high bool)

	// SetMOSI drives the data-out line. The target samples it on the
	// rising clock edge.
	SetMOSI(high bool)

	// ReadMISO samples the data-in line.
	ReadMISO() bool

	// SetReset drives the reset line. The target is held in reset,
	// and programmable, while the line is low.
	SetReset(high bool)
}
