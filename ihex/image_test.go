package ihex

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func mustParse(t *testing.T, input string) *Image {
	t.Helper()
	img, err := ParseReader(strings.NewReader(input))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return img
}

func TestImageAddresses(t *testing.T) {
	img := mustParse(t, ":04006000AABBCCDD8E\n:01000000AA55\n:00000001FF\n")

	want := []uint16{0x0000, 0x0060, 0x0061, 0x0062, 0x0063}
	if diff := cmp.Diff(want, img.Addresses()); diff != "" {
		t.Errorf("Addresses() mismatch (-want +got):\n%s", diff)
	}
}

func TestImageSpan(t *testing.T) {
	img := mustParse(t, ":04006000AABBCCDD8E\n:01000000AA55\n:00000001FF\n")

	lo, hi, ok := img.Span()
	if !ok {
		t.Fatal("Span() reported no data")
	}
	if lo != 0x0000 {
		t.Errorf("lo = 0x%04X, want 0x0000", lo)
	}
	if hi != 0x0063 {
		t.Errorf("hi = 0x%04X, want 0x0063", hi)
	}
}

func TestImageSpanEmpty(t *testing.T) {
	img := &Image{data: map[uint16]byte{}}

	if _, _, ok := img.Span(); ok {
		t.Error("Span() reported data for an empty image")
	}
}

func TestImageWindow(t *testing.T) {
	img := mustParse(t, ":1000000009C00EC00DC00CC00BC00BC009C008C099\n:00000001FF\n")

	tests := []struct {
		name        string
		start       uint16
		size        int
		want        []byte
		wantPresent bool
	}{
		{
			name:        "fully addressed window",
			start:       0x0000,
			size:        8,
			want:        []byte{0x09, 0xC0, 0x0E, 0xC0, 0x0D, 0xC0, 0x0C, 0xC0},
			wantPresent: true,
		},
		{
			name:        "partially addressed window is padded",
			start:       0x0008,
			size:        16,
			want:        []byte{0x0B, 0xC0, 0x0B, 0xC0, 0x09, 0xC0, 0x08, 0xC0, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
			wantPresent: true,
		},
		{
			name:        "window with no addressed bytes",
			start:       0x0020,
			size:        8,
			want:        []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF},
			wantPresent: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, present := img.Window(tt.start, tt.size, 0xFF)

			if present != tt.wantPresent {
				t.Errorf("present = %v, want %v", present, tt.wantPresent)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("window mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestImageBytesIsACopy(t *testing.T) {
	img := mustParse(t, ":01000000AA55\n:00000001FF\n")

	m := img.Bytes()
	m[0x0000] = 0x00

	if b, _ := img.At(0x0000); b != 0xAA {
		t.Errorf("At(0x0000) = 0x%02X after mutating the copy, want 0xAA", b)
	}
}
