// Package words contains the fixed-width word helpers shared by the block
// ciphers: explicit modulo 2^32 arithmetic and big-endian packing.
package words

import (
	"encoding/binary"
	"fmt"
)

// Mod32 is an unsigned 32-bit value whose arithmetic wraps modulo 2^32.
type Mod32 uint32

// Add returns m + o modulo 2^32.
func (m Mod32) Add(o Mod32) Mod32 {
	return m + o
}

// RotL rotates x left by n bits. n is taken modulo 32.
func RotL(x uint32, n uint) uint32 {
	n &= 31
	return x<<n | x>>(32-n)
}

// Pack converts big-endian bytes to words. len(b) must be a multiple of 4.
func Pack(b []byte) ([]uint32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("words.Pack: %d bytes is not a whole number of words", len(b))
	}
	out := make([]uint32, len(b)/4)
	for i := range out {
		out[i] = binary.BigEndian.Uint32(b[i*4:])
	}
	return out, nil
}

// PackInto is like Pack but writes into dst, which must hold len(b)/4 words.
func PackInto(dst []uint32, b []byte) {
	for i := range dst {
		dst[i] = binary.BigEndian.Uint32(b[i*4:])
	}
}

// Unpack converts words to big-endian bytes.
func Unpack(w []uint32) []byte {
	out := make([]byte, len(w)*4)
	UnpackInto(out, w)
	return out
}

// UnpackInto writes the big-endian encoding of w into dst.
func UnpackInto(dst []byte, w []uint32) {
	for i, v := range w {
		binary.BigEndian.PutUint32(dst[i*4:], v)
	}
}

// Clone returns a copy of w that does not share memory with it.
func Clone(w []uint32) []uint32 {
	if w == nil {
		return nil
	}
	out := make([]uint32, len(w))
	copy(out, w)
	return out
}

// Wipe overwrites w with zeros.
func Wipe(w []uint32) {
	for i := range w {
		w[i] = 0
	}
}
