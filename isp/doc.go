// Package isp programs AVR microcontrollers in circuit over the
// four-wire serial programming link, driving the clock and data lines
// directly through a Pins implementation.
//
// # Basic Usage
//
//	pins, err := periphio.Open("GPIO11", "GPIO10", "GPIO9", "GPIO8")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	img, err := ihex.Parse("firmware.hex")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	target := chip.ATtiny13()
//	prog := isp.New(pins, target)
//	res, err := prog.Program(context.Background(), img, target.DefaultFuses)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("wrote %d pages in %v\n", res.PagesWritten, res.Elapsed)
//
// Program runs the full sequence: enter programming mode, verify the
// device signature, apply the fuse configuration, erase, program page
// by page, and verify the flash by reading it back. The Result reports
// each stage separately.
//
// # Fuse Safety
//
// Fuse writes pass through a safety screen that rejects, before any
// instruction is issued, a configuration that would disable the reset
// pin or serial programming. The high fuse is never written: a wrong
// high fuse value can permanently lock the target out of this link,
// so a chip whose high fuse already clears a safety bit aborts the run
// with a FuseSafetyError marked Critical.
//
// # Progress Reporting
//
//	prog := isp.New(pins, target, isp.WithProgressCallback(func(p isp.Progress) {
//	    fmt.Printf("\r%s: %.1f%% (page %d/%d)", p.Phase, p.Percentage,
//	        p.CurrentPage, p.TotalPages)
//	}))
//
// # Logging
//
// The Logger interface accepts any structured logging library. Debug
// level carries every instruction on the wire, byte for byte.
//
//	prog := isp.New(pins, target, isp.WithLogger(myLogger))
//
// # Hardware Independence
//
// The package drives four abstract lines and nothing else. Anything
// that implements Pins works: memory-mapped GPIO, a bit-banging USB
// adapter, or a simulated target in tests. Timing comes from the
// configured delay function, so simulations run instantly.
//
// # Inspection
//
// Open enters programming mode and returns the Session itself, for
// tooling that reads fuses or flash without programming:
//
//	session, err := prog.Open(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer session.Close()
//
//	fuses, err := session.ReadFuses()
//
// # Errors
//
// Failures are reported as typed errors: EntryError when the target
// does not acknowledge programming mode, WrongDeviceError on a
// signature mismatch, FuseSafetyError and FuseVerifyError from the
// fuse path, and VerifyError with the mismatched addresses when the
// read-back differs from the image. Use errors.As to inspect them.
package isp
