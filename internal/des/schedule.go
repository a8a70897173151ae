package des

import (
	"fmt"

	"github.com/wcrypt/wcrypt/internal/cipherr"
)

// KeyWords is the DES key length in 32-bit words. The parity bits are
// ignored.
const KeyWords = 2

// Schedule holds the 16 round keys, each split into eight 6-bit selectors
// that are XORed into the expanded right half.
type Schedule struct {
	sub     [16][8]uint8
	inverse bool
}

// Inverse reports whether the round keys are in decryption order.
func (s *Schedule) Inverse() bool {
	return s.inverse
}

// Words flattens the schedule to 128 words, one selector per word.
func (s *Schedule) Words() []uint32 {
	out := make([]uint32, 0, 16*8)
	for _, r := range s.sub {
		for _, v := range r {
			out = append(out, uint32(v))
		}
	}
	return out
}

// Expand derives the encryption schedule from a 2-word key.
func Expand(key []uint32) (*Schedule, error) {
	if len(key) != KeyWords {
		return nil, fmt.Errorf("des: %d key words: %w", len(key), cipherr.ErrInvalidKeySize)
	}
	k := uint64(key[0])<<32 | uint64(key[1])
	cd := permute(k, 64, permutedChoice1[:])
	c := uint32(cd >> 28)
	d := uint32(cd & 0x0fffffff)
	s := &Schedule{}
	for n := 0; n < 16; n++ {
		c = rotl28(c, uint(ksRotations[n]))
		d = rotl28(d, uint(ksRotations[n]))
		k48 := permute(uint64(c)<<28|uint64(d), 56, permutedChoice2[:])
		for i := 0; i < 8; i++ {
			s.sub[n][i] = uint8(k48>>(42-6*uint(i))) & 0x3f
		}
	}
	return s, nil
}

// Invert returns the round keys in reverse order.
func Invert(s *Schedule) *Schedule {
	inv := &Schedule{inverse: !s.inverse}
	for n := 0; n < 16; n++ {
		inv.sub[n] = s.sub[15-n]
	}
	return inv
}

// ScheduleFromWords is the inverse of Schedule.Words.
func ScheduleFromWords(w []uint32, inverse bool) (*Schedule, error) {
	if len(w) != 16*8 {
		return nil, fmt.Errorf("des: %d schedule words: %w", len(w), cipherr.ErrInvalidKeySize)
	}
	s := &Schedule{inverse: inverse}
	for i, v := range w {
		if v > 0x3f {
			return nil, fmt.Errorf("des: schedule word %d = %#x is not a 6-bit selector: %w", i, v, cipherr.ErrOutOfBounds)
		}
		s.sub[i/8][i%8] = uint8(v)
	}
	return s, nil
}

func rotl28(x uint32, n uint) uint32 {
	return (x<<n | x>>(28-n)) & 0x0fffffff
}
