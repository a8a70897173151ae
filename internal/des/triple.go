package des

import (
	"fmt"

	"github.com/wcrypt/wcrypt/internal/cipherr"
)

// TripleSchedule holds the schedules of the three EDE keys.
type TripleSchedule struct {
	k [3]*Schedule
}

// Words returns the three 128-word schedules back to back.
func (s *TripleSchedule) Words() []uint32 {
	out := make([]uint32, 0, 3*16*8)
	for _, k := range s.k {
		out = append(out, k.Words()...)
	}
	return out
}

// Inverse reports whether the schedules are in decryption order.
func (s *TripleSchedule) Inverse() bool {
	return s.k[0].inverse
}

// TripleKeyWordsValid reports whether n is a supported Triple-DES key length:
// 2 words (k1=k2=k3), 4 words (k3=k1) or 6 words.
func TripleKeyWordsValid(n int) bool {
	return n == 2 || n == 4 || n == 6
}

// ExpandTriple derives the three encryption schedules.
func ExpandTriple(key []uint32) (*TripleSchedule, error) {
	var k1, k2, k3 []uint32
	switch len(key) {
	case 2:
		k1, k2, k3 = key, key, key
	case 4:
		k1, k2, k3 = key[0:2], key[2:4], key[0:2]
	case 6:
		k1, k2, k3 = key[0:2], key[2:4], key[4:6]
	default:
		return nil, fmt.Errorf("tripledes: %d key words: %w", len(key), cipherr.ErrInvalidKeySize)
	}
	s := &TripleSchedule{}
	for i, k := range [][]uint32{k1, k2, k3} {
		var err error
		s.k[i], err = Expand(k)
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

// InvertTriple inverts each of the three schedules.
func InvertTriple(s *TripleSchedule) *TripleSchedule {
	inv := &TripleSchedule{}
	for i, k := range s.k {
		inv.k[i] = Invert(k)
	}
	return inv
}

// TripleScheduleFromWords is the inverse of TripleSchedule.Words.
func TripleScheduleFromWords(w []uint32, inverse bool) (*TripleSchedule, error) {
	if len(w) != 3*16*8 {
		return nil, fmt.Errorf("tripledes: %d schedule words: %w", len(w), cipherr.ErrInvalidKeySize)
	}
	s := &TripleSchedule{}
	for i := range s.k {
		var err error
		s.k[i], err = ScheduleFromWords(w[i*128:(i+1)*128], inverse)
		if err != nil {
			return nil, err
		}
	}
	return s, nil
}

// TripleCipher is Triple-DES in EDE form.
type TripleCipher struct {
	c [3]*Cipher
}

// NewTripleCipher returns a TripleCipher. When "dec" is nil it is derived
// from "enc".
func NewTripleCipher(t *Tables, enc, dec *TripleSchedule) *TripleCipher {
	tc := &TripleCipher{}
	for i := range tc.c {
		var d *Schedule
		if dec != nil {
			d = dec.k[i]
		}
		tc.c[i] = NewCipher(t, enc.k[i], d)
	}
	return tc
}

// BlockWords returns 2.
func (c *TripleCipher) BlockWords() int {
	return BlockWords
}

// Encrypt computes E(k3, D(k2, E(k1, b))) in place.
func (c *TripleCipher) Encrypt(b []uint32) {
	c.c[0].Encrypt(b)
	c.c[1].Decrypt(b)
	c.c[2].Encrypt(b)
}

// Decrypt computes D(k1, E(k2, D(k3, b))) in place.
func (c *TripleCipher) Decrypt(b []uint32) {
	c.c[2].Decrypt(b)
	c.c[1].Encrypt(b)
	c.c[0].Decrypt(b)
}
