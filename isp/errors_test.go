package isp

import (
	"errors"
	"strings"
	"testing"

	"github.com/tinyavr/go-isp/ihex"
)

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "decode error",
			err:  &DecodeError{Err: ihex.ErrNoData},
			want: "image decode failed: no data records found",
		},
		{
			name: "entry error",
			err:  &EntryError{Echo: 0xFF},
			want: "failed to enter programming mode: echo byte 0xFF, want 0x53",
		},
		{
			name: "wrong device",
			err: &WrongDeviceError{
				Want: [3]byte{0x1E, 0x90, 0x07},
				Got:  [3]byte{0x1E, 0x91, 0x0B},
			},
			want: "wrong device: signature 1E 91 0B, want 1E 90 07",
		},
		{
			name: "fuse safety abort",
			err: &FuseSafetyError{
				Fuse:   "high",
				Value:  0xFE,
				Reason: "requested value would disable the reset pin",
			},
			want: "fuse safety abort: high fuse 0xFE: requested value would disable the reset pin",
		},
		{
			name: "critical fuse safety abort",
			err: &FuseSafetyError{
				Fuse:     "high",
				Value:    0xFC,
				Reason:   "current value disables serial programming",
				Critical: true,
			},
			want: "fuse safety abort (critical): high fuse 0xFC: current value disables serial programming",
		},
		{
			name: "fuse verify error",
			err:  &FuseVerifyError{Fuse: "low", Wrote: 0x7A, Read: 0x6A},
			want: "low fuse write failed: wrote 0x7A, read back 0x6A",
		},
		{
			name: "image range error",
			err:  &ImageRangeError{Addr: 0x0400, FlashSize: 1024},
			want: "image touches address 0x0400, beyond the 1024 byte flash",
		},
		{
			name: "verify error",
			err:  &VerifyError{Mismatches: make([]Mismatch, 3)},
			want: "flash verification failed: 3 mismatches",
		},
		{
			name: "truncated verify error",
			err:  &VerifyError{Mismatches: make([]Mismatch, 20), Truncated: true},
			want: "flash verification failed: 20 mismatches (scan stopped at the reporting cap)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodeErrorUnwrap(t *testing.T) {
	err := &DecodeError{Err: ihex.ErrNoData}
	if !errors.Is(err, ihex.ErrNoData) {
		t.Error("DecodeError does not unwrap to the parse error")
	}
}

func TestErrClosedMessage(t *testing.T) {
	if !strings.Contains(ErrClosed.Error(), "closed") {
		t.Errorf("ErrClosed = %q, want mention of closed", ErrClosed.Error())
	}
}
