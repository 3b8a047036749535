package ihex

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Image is a decoded firmware image: a sparse set of bytes keyed by
// absolute flash address. Addresses never written by the hex file are
// simply absent, which lets a programmer skip untouched pages.
//
// An Image is immutable after parsing. All accessors return copies.
type Image struct {
	data map[uint16]byte
}

// Len returns the number of addressed bytes in the image.
func (img *Image) Len() int {
	return len(img.data)
}

// At returns the byte at the given address and whether the image
// contains that address.
func (img *Image) At(addr uint16) (byte, bool) {
	b, ok := img.data[addr]
	return b, ok
}

// Addresses returns every addressed location in ascending order.
func (img *Image) Addresses() []uint16 {
	addrs := maps.Keys(img.data)
	slices.Sort(addrs)
	return addrs
}

// Span returns the lowest and highest addressed locations. ok is false
// for an image with no data.
func (img *Image) Span() (lo, hi uint16, ok bool) {
	if len(img.data) == 0 {
		return 0, 0, false
	}
	first := true
	for addr := range img.data {
		if first {
			lo, hi = addr, addr
			first = false
			continue
		}
		if addr < lo {
			lo = addr
		}
		if addr > hi {
			hi = addr
		}
	}
	return lo, hi, true
}

// Window copies size bytes starting at start into a fresh slice,
// substituting fill for absent addresses. present reports whether the
// window contains at least one addressed byte.
func (img *Image) Window(start uint16, size int, fill byte) (window []byte, present bool) {
	window = make([]byte, size)
	for i := range window {
		b, ok := img.data[start+uint16(i)]
		if !ok {
			b = fill
		} else {
			present = true
		}
		window[i] = b
	}
	return window, present
}

// Bytes returns a copy of the image contents keyed by address.
func (img *Image) Bytes() map[uint16]byte {
	out := make(map[uint16]byte, len(img.data))
	for addr, b := range img.data {
		out[addr] = b
	}
	return out
}
