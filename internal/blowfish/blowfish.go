// Package blowfish implements the Blowfish block cipher on pairs of 32-bit
// words, with keys of 1 to 14 words (32 to 448 bits).
package blowfish

import (
	"fmt"

	"github.com/wcrypt/wcrypt/internal/cipherr"
	"github.com/wcrypt/wcrypt/internal/words"
)

const (
	// BlockWords is the Blowfish block size in 32-bit words.
	BlockWords = 2
	// MinKeyWords is the shortest accepted key.
	MinKeyWords = 1
	// MaxKeyWords is the longest accepted key (448 bits).
	MaxKeyWords = 14
	// ScheduleWords is the size of the expanded key: 18 P entries followed
	// by four 256-entry S-boxes.
	ScheduleWords = 18 + 4*256
)

// Tables hold the initial P-array and S-boxes that every key schedule
// starts from.
type Tables struct {
	p [18]uint32
	s [4][256]uint32
}

// NewTables returns the initial tables.
func NewTables() *Tables {
	return &Tables{p: initialP, s: initialS}
}

// Schedule is the key-dependent P-array and S-boxes. The same schedule
// serves both directions: decryption walks P backwards.
type Schedule struct {
	p [18]uint32
	s [4][256]uint32
}

// KeyWordsValid reports whether n is an accepted key length in words.
func KeyWordsValid(n int) bool {
	return n >= MinKeyWords && n <= MaxKeyWords
}

// Expand derives the schedule for "key". The key words are XORed cyclically
// into P, then P and the S-boxes are replaced pairwise by repeatedly
// encrypting a running block that starts at zero.
func (t *Tables) Expand(key []uint32) (*Schedule, error) {
	if !KeyWordsValid(len(key)) {
		return nil, fmt.Errorf("blowfish: %d key words: %w", len(key), cipherr.ErrInvalidKeySize)
	}
	s := &Schedule{s: t.s}
	for i := range s.p {
		s.p[i] = t.p[i] ^ key[i%len(key)]
	}
	var l, r uint32
	for i := 0; i < len(s.p); i += 2 {
		l, r = s.encrypt(l, r)
		s.p[i], s.p[i+1] = l, r
	}
	for k := range s.s {
		for i := 0; i < len(s.s[k]); i += 2 {
			l, r = s.encrypt(l, r)
			s.s[k][i], s.s[k][i+1] = l, r
		}
	}
	return s, nil
}

// Words returns P followed by S0..S3.
func (s *Schedule) Words() []uint32 {
	out := make([]uint32, 0, ScheduleWords)
	out = append(out, s.p[:]...)
	for k := range s.s {
		out = append(out, s.s[k][:]...)
	}
	return out
}

// ScheduleFromWords is the inverse of Schedule.Words.
func ScheduleFromWords(w []uint32) (*Schedule, error) {
	if len(w) != ScheduleWords {
		return nil, fmt.Errorf("blowfish: %d schedule words: %w", len(w), cipherr.ErrInvalidKeySize)
	}
	s := &Schedule{}
	copy(s.p[:], w)
	for k := range s.s {
		copy(s.s[k][:], w[18+256*k:])
	}
	return s, nil
}

// f is the round function ((S0[a] + S1[b]) ^ S2[c]) + S3[d] mod 2^32.
func (s *Schedule) f(x uint32) uint32 {
	h := words.Mod32(s.s[0][x>>24]).Add(words.Mod32(s.s[1][x>>16&0xff]))
	h ^= words.Mod32(s.s[2][x>>8&0xff])
	return uint32(h.Add(words.Mod32(s.s[3][x&0xff])))
}

func (s *Schedule) encrypt(l, r uint32) (uint32, uint32) {
	for i := 0; i < 16; i++ {
		l ^= s.p[i]
		r ^= s.f(l)
		l, r = r, l
	}
	l, r = r, l
	r ^= s.p[16]
	l ^= s.p[17]
	return l, r
}

func (s *Schedule) decrypt(l, r uint32) (uint32, uint32) {
	for i := 17; i > 1; i-- {
		l ^= s.p[i]
		r ^= s.f(l)
		l, r = r, l
	}
	l, r = r, l
	r ^= s.p[1]
	l ^= s.p[0]
	return l, r
}

// Cipher is a Blowfish instance.
type Cipher struct {
	s *Schedule
}

// NewCipher returns a Cipher using schedule "s" for both directions.
func NewCipher(s *Schedule) *Cipher {
	return &Cipher{s: s}
}

// BlockWords returns 2.
func (c *Cipher) BlockWords() int {
	return BlockWords
}

// Encrypt encrypts one 2-word block in place.
func (c *Cipher) Encrypt(b []uint32) {
	b[0], b[1] = c.s.encrypt(b[0], b[1])
}

// Decrypt decrypts one 2-word block in place.
func (c *Cipher) Decrypt(b []uint32) {
	b[0], b[1] = c.s.decrypt(b[0], b[1])
}
