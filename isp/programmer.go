package isp

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/tinyavr/go-isp/chip"
	"github.com/tinyavr/go-isp/ihex"
)

// Programmer programs AVR targets over the four-wire serial link.
// It holds the hardware pins, the chip description and the options;
// each call to Program runs one complete flashing sequence.
type Programmer struct {
	pins   Pins
	target *chip.Chip
	config Config
}

// New creates a new Programmer for the given pins and target chip.
//
// Example:
//
//	pins, err := periphio.Open("GPIO11", "GPIO10", "GPIO9", "GPIO8")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	prog := isp.New(pins, chip.ATtiny13(),
//	    isp.WithProgressCallback(func(p isp.Progress) {
//	        fmt.Printf("%s: %.1f%%\n", p.Phase, p.Percentage)
//	    }),
//	)
func New(pins Pins, target *chip.Chip, opts ...Option) *Programmer {
	if pins == nil {
		panic("pins cannot be nil")
	}
	if target == nil {
		panic("target cannot be nil")
	}

	config := defaultConfig()
	for _, opt := range opts {
		opt(&config)
	}

	return &Programmer{
		pins:   pins,
		target: target,
		config: config,
	}
}

// Open enters programming mode and hands the session to the caller,
// who owns it and must Close it. Most callers want Program; Open is
// for inspection tooling that reads fuses, signature or flash without
// programming anything.
func (p *Programmer) Open(ctx context.Context) (*Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("cancelled: %w", err)
	}
	return openSession(p.pins, p.target, &p.config)
}

// Program runs the complete programming sequence:
//
//  1. Check the image fits the target's flash
//  2. Enter programming mode, holding reset low for the whole run
//  3. Verify the device signature
//  4. Apply the fuse configuration through the safety screen
//  5. Erase the chip
//  6. Program every page the image touches, skipping the rest
//  7. Read back and verify every image byte
//
// The target is released from reset when the run ends, whatever the
// outcome. The returned Result is never nil and carries per-stage
// outcomes; Result.OK reports overall success. The run can be
// cancelled between instructions via ctx.
//
// Example:
//
//	img, err := ihex.Parse("firmware.hex")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	res, err := prog.Program(ctx, img, chip.ATtiny13().DefaultFuses)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Printf("wrote %d pages in %v\n", res.PagesWritten, res.Elapsed)
func (p *Programmer) Program(ctx context.Context, img *ihex.Image, fuses chip.FuseConfig) (*Result, error) {
	res := &Result{}
	startTime := time.Now()
	defer func() { res.Elapsed = time.Since(startTime) }()

	// The image is validated in full before the first line is
	// touched.
	if img == nil || img.Len() == 0 {
		return res, &DecodeError{Err: ihex.ErrNoData}
	}
	if _, hi, ok := img.Span(); ok && int(hi) >= p.target.FlashSize {
		return res, &ImageRangeError{Addr: hi, FlashSize: p.target.FlashSize}
	}

	pages := p.pagesToWrite(img)

	p.reportProgress(Progress{
		Phase:      PhaseEntering,
		TotalPages: len(pages),
	})

	session, err := p.Open(ctx)
	if err != nil {
		return res, err
	}
	defer session.Close()
	res.Entry = true

	p.reportProgress(Progress{
		Phase:       PhaseIdentifying,
		TotalPages:  len(pages),
		Percentage:  5,
		ElapsedTime: time.Since(startTime),
	})

	sig, err := session.Signature()
	if err != nil {
		return res, err
	}
	res.Signature = sig
	if sig != p.target.Signature {
		return res, &WrongDeviceError{Want: p.target.Signature, Got: sig}
	}
	res.Identity = true
	p.logDebug("signature verified", "signature", fmt.Sprintf("% 02X", sig[:]))

	p.reportProgress(Progress{
		Phase:       PhaseFuses,
		TotalPages:  len(pages),
		Percentage:  10,
		ElapsedTime: time.Since(startTime),
	})

	before, err := session.ReadFuses()
	if err != nil {
		return res, err
	}
	p.logFuses("fuse state", before)

	if err := session.ApplyFuses(fuses); err != nil {
		return res, err
	}

	after, err := session.ReadFuses()
	if err != nil {
		return res, err
	}
	p.logFuses("fuse state after programming", after)
	res.Fuses = true

	if err := ctx.Err(); err != nil {
		return res, fmt.Errorf("cancelled: %w", err)
	}

	p.reportProgress(Progress{
		Phase:       PhaseErasing,
		TotalPages:  len(pages),
		Percentage:  15,
		ElapsedTime: time.Since(startTime),
	})

	if err := session.EraseChip(); err != nil {
		return res, err
	}
	p.logDebug("chip erased")

	bytesWritten := 0
	for i, start := range pages {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("cancelled: %w", err)
		}

		window, _ := img.Window(start, p.target.PageSize, flashErased)
		if err := session.WritePage(start, window); err != nil {
			return res, fmt.Errorf("write page at 0x%04X: %w", start, err)
		}
		bytesWritten += len(window)

		p.logDebug("page written",
			"page", i+1,
			"pages", len(pages),
			"address", fmt.Sprintf("0x%04X", start),
		)
		p.reportProgress(Progress{
			Phase:        PhaseProgramming,
			CurrentPage:  i + 1,
			TotalPages:   len(pages),
			Percentage:   15 + float64(i+1)/float64(len(pages))*70,
			BytesWritten: bytesWritten,
			ElapsedTime:  time.Since(startTime),
		})
	}
	res.PagesWritten = len(pages)
	res.BytesWritten = bytesWritten
	res.Flash = true

	p.reportProgress(Progress{
		Phase:        PhaseVerifying,
		CurrentPage:  len(pages),
		TotalPages:   len(pages),
		Percentage:   90,
		BytesWritten: bytesWritten,
		ElapsedTime:  time.Since(startTime),
	})

	var mismatches []Mismatch
	truncated := false
	for _, addr := range img.Addresses() {
		if err := ctx.Err(); err != nil {
			return res, fmt.Errorf("cancelled: %w", err)
		}
		if len(mismatches) == p.config.MismatchLimit {
			truncated = true
			break
		}

		want, _ := img.At(addr)
		got, err := session.ReadFlashByte(addr)
		if err != nil {
			return res, err
		}
		if got != want {
			p.logDebug("verify mismatch",
				"address", fmt.Sprintf("0x%04X", addr),
				"want", fmt.Sprintf("0x%02X", want),
				"got", fmt.Sprintf("0x%02X", got),
			)
			mismatches = append(mismatches, Mismatch{Addr: addr, Want: want, Got: got})
		}
	}
	if len(mismatches) > 0 {
		res.Mismatches = mismatches
		res.Truncated = truncated
		return res, &VerifyError{Mismatches: mismatches, Truncated: truncated}
	}
	res.Verify = true

	p.reportProgress(Progress{
		Phase:        PhaseComplete,
		CurrentPage:  len(pages),
		TotalPages:   len(pages),
		Percentage:   100,
		BytesWritten: bytesWritten,
		ElapsedTime:  time.Since(startTime),
	})
	p.logInfo("programming complete",
		"pages", len(pages),
		"bytes", bytesWritten,
		"elapsed", time.Since(startTime).String(),
	)

	return res, nil
}

// ProgramHex decodes Intel HEX records from r and programs the image.
// Decoding happens before any hardware line is touched, so a malformed
// file never leaves the target half programmed.
func (p *Programmer) ProgramHex(ctx context.Context, r io.Reader, fuses chip.FuseConfig) (*Result, error) {
	img, err := ihex.ParseReader(r)
	if err != nil {
		return &Result{}, &DecodeError{Err: err}
	}
	return p.Program(ctx, img, fuses)
}

// pagesToWrite lists, in ascending order, the start address of every
// flash page the image touches. Pages the image skips stay erased and
// are neither loaded nor committed.
func (p *Programmer) pagesToWrite(img *ihex.Image) []uint16 {
	size := uint16(p.target.PageSize)
	var starts []uint16
	for i, addr := range img.Addresses() {
		start := addr - addr%size
		if i == 0 || start != starts[len(starts)-1] {
			starts = append(starts, start)
		}
	}
	return starts
}

// logFuses reports a fuse state together with its decoded meaning.
func (p *Programmer) logFuses(msg string, f chip.Fuses) {
	low := chip.DecodeLow(f.Low)
	high := p.target.DecodeHigh(f.High)
	p.logInfo(msg,
		"low", fmt.Sprintf("0x%02X", f.Low),
		"high", fmt.Sprintf("0x%02X", f.High),
		"lock", fmt.Sprintf("0x%02X", f.Lock),
		"clock", low.Source(),
		"frequency", frequencyString(low.Frequency()),
		"reset_enabled", high.ResetEnabled,
		"serial_enabled", high.SerialEnabled,
	)
	if high.Dangerous() {
		p.logError("high fuse threatens the programming interface",
			"high", fmt.Sprintf("0x%02X", f.High),
			"reset_enabled", high.ResetEnabled,
			"serial_enabled", high.SerialEnabled,
		)
	}
}

// frequencyString renders a clock rate for log output.
func frequencyString(hz uint32) string {
	if hz == 0 {
		return "unknown"
	}
	return fmt.Sprintf("%.1f MHz", float64(hz)/1e6)
}

// reportProgress calls the progress callback if one is set.
func (p *Programmer) reportProgress(progress Progress) {
	if p.config.ProgressCallback != nil {
		p.config.ProgressCallback(progress)
	}
}

// logDebug logs a debug message if a logger is configured.
func (p *Programmer) logDebug(msg string, keysAndValues ...interface{}) {
	if p.config.Logger != nil {
		p.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if a logger is configured.
func (p *Programmer) logInfo(msg string, keysAndValues ...interface{}) {
	if p.config.Logger != nil {
		p.config.Logger.Info(msg, keysAndValues...)
	}
}

// logError logs an error message if a logger is configured.
func (p *Programmer) logError(msg string, keysAndValues ...interface{}) {
	if p.config.Logger != nil {
		p.config.Logger.Error(msg, keysAndValues...)
	}
}
