// Command avrisp programs ATtiny microcontrollers over GPIO from an
// Intel HEX file.
//
// The default pin assignment matches the Raspberry Pi SPI0 header,
// with CE0 repurposed as the reset line:
//
//	avrisp -hex firmware.hex
//	avrisp -hex firmware.hex -v
//	avrisp -show-fuses
//	avrisp -hex firmware.hex -chip mychip.yaml -lfuse 6A
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"periph.io/x/host/v3"

	"github.com/tinyavr/go-isp/chip"
	"github.com/tinyavr/go-isp/ihex"
	"github.com/tinyavr/go-isp/isp"
	"github.com/tinyavr/go-isp/periphio"
	"github.com/tinyavr/go-isp/protocol"
)

func main() {
	var (
		hexPath        = flag.String("hex", "", "Intel HEX firmware file to program")
		chipPath       = flag.String("chip", "", "YAML chip description (default: built-in ATtiny13)")
		lowFuse        = flag.String("lfuse", "", "low fuse byte in hex, e.g. 7A (default: chip default)")
		highFuse       = flag.String("hfuse", "", "high fuse byte in hex, e.g. FF (default: chip default)")
		restoreFactory = flag.Bool("restore-factory", false, "program the factory fuse configuration")
		showFuses      = flag.Bool("show-fuses", false, "read and print signature and fuses, program nothing")
		sckPin         = flag.String("sck", "GPIO11", "serial clock pin name")
		mosiPin        = flag.String("mosi", "GPIO10", "data-out pin name")
		misoPin        = flag.String("miso", "GPIO9", "data-in pin name")
		resetPin       = flag.String("reset", "GPIO8", "reset pin name")
		clockDelay     = flag.Duration("clock-delay", protocol.BitDelay, "pause between clock line transitions")
		verbose        = flag.Bool("v", false, "log every instruction on the wire")
	)
	flag.Parse()

	logger := newLogger(*verbose)

	if *hexPath == "" && !*showFuses {
		flag.Usage()
		os.Exit(2)
	}

	err := run(options{
		hexPath:        *hexPath,
		chipPath:       *chipPath,
		lowFuse:        *lowFuse,
		highFuse:       *highFuse,
		restoreFactory: *restoreFactory,
		showFuses:      *showFuses,
		sck:            *sckPin,
		mosi:           *mosiPin,
		miso:           *misoPin,
		reset:          *resetPin,
		clockDelay:     *clockDelay,
		verbose:        *verbose,
	}, logger)
	if err != nil {
		logger.Error().Err(err).Msg("failed")
		os.Exit(1)
	}
}

type options struct {
	hexPath        string
	chipPath       string
	lowFuse        string
	highFuse       string
	restoreFactory bool
	showFuses      bool
	sck            string
	mosi           string
	miso           string
	reset          string
	clockDelay     time.Duration
	verbose        bool
}

func run(opts options, logger zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	target, err := loadChip(opts.chipPath)
	if err != nil {
		return err
	}

	fuses, err := chooseFuses(target, opts)
	if err != nil {
		return err
	}

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("host initialization failed: %w", err)
	}
	pins, err := periphio.Open(opts.sck, opts.mosi, opts.miso, opts.reset)
	if err != nil {
		return err
	}

	progOpts := []isp.Option{
		isp.WithLogger(&zeroLogger{log: logger}),
		isp.WithClockDelay(opts.clockDelay),
	}
	if !opts.verbose {
		progOpts = append(progOpts, isp.WithProgressCallback(printProgress))
	}
	prog := isp.New(pins, target, progOpts...)

	if opts.showFuses {
		return showFuses(ctx, prog, target)
	}

	img, err := ihex.Parse(opts.hexPath)
	if err != nil {
		return err
	}
	logger.Info().
		Str("file", opts.hexPath).
		Int("bytes", img.Len()).
		Str("chip", target.Name).
		Str("fuses", fmt.Sprintf("low 0x%02X high 0x%02X", fuses.Low, fuses.High)).
		Msg("programming")

	res, err := prog.Program(ctx, img, fuses)
	if !opts.verbose {
		fmt.Fprintln(os.Stderr)
	}
	printResult(res)
	if err != nil {
		var verifyErr *isp.VerifyError
		if errors.As(err, &verifyErr) {
			printMismatches(verifyErr)
		}
		return err
	}
	return nil
}

// loadChip returns the chip description to program against.
func loadChip(path string) (*chip.Chip, error) {
	if path == "" {
		return chip.ATtiny13(), nil
	}
	return chip.Load(path)
}

// chooseFuses resolves the fuse configuration from the flags: chip
// defaults, the factory configuration, or explicit byte overrides.
func chooseFuses(target *chip.Chip, opts options) (chip.FuseConfig, error) {
	fuses := target.DefaultFuses
	if opts.restoreFactory {
		fuses = target.FactoryFuses
	}
	if opts.lowFuse != "" {
		b, err := parseFuseByte(opts.lowFuse)
		if err != nil {
			return fuses, fmt.Errorf("invalid -lfuse: %w", err)
		}
		fuses.Low = b
	}
	if opts.highFuse != "" {
		b, err := parseFuseByte(opts.highFuse)
		if err != nil {
			return fuses, fmt.Errorf("invalid -hfuse: %w", err)
		}
		fuses.High = b
	}
	return fuses, nil
}

func parseFuseByte(s string) (byte, error) {
	s = strings.TrimPrefix(strings.ToLower(s), "0x")
	v, err := strconv.ParseUint(s, 16, 8)
	if err != nil {
		return 0, err
	}
	return byte(v), nil
}

// showFuses reports the signature and fuse state without programming.
func showFuses(ctx context.Context, prog *isp.Programmer, target *chip.Chip) error {
	session, err := prog.Open(ctx)
	if err != nil {
		return err
	}
	defer session.Close()

	sig, err := session.Signature()
	if err != nil {
		return err
	}
	fuses, err := session.ReadFuses()
	if err != nil {
		return err
	}

	name := "unknown device"
	if sig == target.Signature {
		name = target.Name
	}
	low := chip.DecodeLow(fuses.Low)
	high := target.DecodeHigh(fuses.High)

	fmt.Printf("signature: % 02X (%s)\n", sig[:], name)
	fmt.Printf("low fuse:  0x%02X  %s, %s\n", fuses.Low, low.Source(), describeFrequency(low))
	fmt.Printf("high fuse: 0x%02X  reset %s, serial programming %s\n",
		fuses.High, describeEnabled(high.ResetEnabled), describeEnabled(high.SerialEnabled))
	fmt.Printf("lock:      0x%02X\n", fuses.Lock)
	return nil
}

func describeFrequency(low chip.LowFuse) string {
	hz := low.Frequency()
	if hz == 0 {
		return "core frequency unknown"
	}
	return fmt.Sprintf("core at %.1f MHz", float64(hz)/1e6)
}

func describeEnabled(enabled bool) string {
	if enabled {
		return "enabled"
	}
	return "DISABLED"
}

// printProgress renders a single-line progress bar on stderr.
func printProgress(p isp.Progress) {
	fmt.Fprintf(os.Stderr, "\r%-12s %5.1f%%", p.Phase, p.Percentage)
	if p.Phase == isp.PhaseProgramming {
		fmt.Fprintf(os.Stderr, "  page %d/%d", p.CurrentPage, p.TotalPages)
	}
}

// printResult reports the per-stage outcome of a run.
func printResult(res *isp.Result) {
	stage := func(ok bool) string {
		if ok {
			return "ok"
		}
		return "failed"
	}

	fmt.Printf("entry:     %s\n", stage(res.Entry))
	if res.Entry {
		fmt.Printf("identity:  %s (% 02X)\n", stage(res.Identity), res.Signature[:])
	} else {
		fmt.Printf("identity:  %s\n", stage(res.Identity))
	}
	fmt.Printf("fuses:     %s\n", stage(res.Fuses))
	if res.Flash {
		fmt.Printf("flash:     ok (%d pages, %d bytes)\n", res.PagesWritten, res.BytesWritten)
	} else {
		fmt.Printf("flash:     failed\n")
	}
	fmt.Printf("verify:    %s\n", stage(res.Verify))
	if res.OK() {
		fmt.Printf("done in %v\n", res.Elapsed.Round(time.Millisecond))
	}
}

func printMismatches(err *isp.VerifyError) {
	for _, m := range err.Mismatches {
		fmt.Fprintf(os.Stderr, "  0x%04X: want 0x%02X, read 0x%02X\n", m.Addr, m.Want, m.Got)
	}
	if err.Truncated {
		fmt.Fprintln(os.Stderr, "  ... scan stopped at the reporting cap")
	}
}

// newLogger builds a console logger on stderr, debug level when
// verbose.
func newLogger(verbose bool) zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	w := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	return zerolog.New(w).With().Timestamp().Logger().Level(level)
}

// zeroLogger adapts a zerolog.Logger to the isp.Logger interface.
type zeroLogger struct {
	log zerolog.Logger
}

func (z *zeroLogger) Debug(msg string, keysAndValues ...interface{}) {
	z.emit(z.log.Debug(), msg, keysAndValues)
}

func (z *zeroLogger) Info(msg string, keysAndValues ...interface{}) {
	z.emit(z.log.Info(), msg, keysAndValues)
}

func (z *zeroLogger) Error(msg string, keysAndValues ...interface{}) {
	z.emit(z.log.Error(), msg, keysAndValues)
}

func (z *zeroLogger) emit(e *zerolog.Event, msg string, kv []interface{}) {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		e = e.Interface(key, kv[i+1])
	}
	e.Msg(msg)
}
