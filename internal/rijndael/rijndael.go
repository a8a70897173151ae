// Package rijndael implements the AES block cipher on 32-bit words with
// precomputed combined SubBytes/MixColumns tables.
package rijndael

import (
	"errors"
	"fmt"
	"sync"

	"github.com/wcrypt/wcrypt/internal/cipherr"
)

// BlockWords is the AES block size in 32-bit words.
const BlockWords = 4

// Cipher is an AES instance that holds both the encryption and the
// decryption schedule.
type Cipher struct {
	t   *Tables
	enc *Schedule

	decOnce sync.Once
	dec     *Schedule
}

// NewCipher returns a Cipher. When "dec" is nil it is derived from "enc"
// on the first Decrypt call.
func NewCipher(t *Tables, enc, dec *Schedule) (*Cipher, error) {
	if enc == nil || enc.inverse {
		return nil, errors.New("rijndael: NewCipher needs an encryption schedule")
	}
	c := &Cipher{t: t, enc: enc}
	if dec != nil {
		if !dec.inverse {
			return nil, errors.New("rijndael: decryption schedule is not inverted")
		}
		if dec.rounds != enc.rounds {
			return nil, fmt.Errorf("rijndael: decryption schedule has %d rounds, encryption schedule %d: %w",
				dec.rounds, enc.rounds, cipherr.ErrInvalidKeySize)
		}
		c.dec = dec
	}
	return c, nil
}

func (c *Cipher) decSchedule() *Schedule {
	c.decOnce.Do(func() {
		if c.dec == nil {
			c.dec = c.t.Invert(c.enc)
		}
	})
	return c.dec
}

// BlockWords returns 4.
func (c *Cipher) BlockWords() int {
	return BlockWords
}

// Encrypt encrypts one 4-word block in place.
func (c *Cipher) Encrypt(b []uint32) {
	cryptBlock(b, c.enc.words, c.enc.rounds, &c.t.SubMix, &c.t.SBox)
}

// Decrypt decrypts one 4-word block in place. The decryption rounds are the
// encryption rounds with the inverse tables and words 1 and 3 swapped.
func (c *Cipher) Decrypt(b []uint32) {
	dec := c.decSchedule()
	b[1], b[3] = b[3], b[1]
	cryptBlock(b, dec.words, dec.rounds, &c.t.InvSubMix, &c.t.InvSBox)
	b[1], b[3] = b[3], b[1]
}

func cryptBlock(b []uint32, ks []uint32, rounds int, sm *[4][256]uint32, sbox *[256]byte) {
	_ = b[3]
	s0 := b[0] ^ ks[0]
	s1 := b[1] ^ ks[1]
	s2 := b[2] ^ ks[2]
	s3 := b[3] ^ ks[3]
	k := 4
	for r := 1; r < rounds; r++ {
		t0 := sm[0][s0>>24] ^ sm[1][s1>>16&0xff] ^ sm[2][s2>>8&0xff] ^ sm[3][s3&0xff] ^ ks[k]
		t1 := sm[0][s1>>24] ^ sm[1][s2>>16&0xff] ^ sm[2][s3>>8&0xff] ^ sm[3][s0&0xff] ^ ks[k+1]
		t2 := sm[0][s2>>24] ^ sm[1][s3>>16&0xff] ^ sm[2][s0>>8&0xff] ^ sm[3][s1&0xff] ^ ks[k+2]
		t3 := sm[0][s3>>24] ^ sm[1][s0>>16&0xff] ^ sm[2][s1>>8&0xff] ^ sm[3][s2&0xff] ^ ks[k+3]
		s0, s1, s2, s3 = t0, t1, t2, t3
		k += 4
	}
	// Last round has no MixColumns
	t0 := (uint32(sbox[s0>>24])<<24 | uint32(sbox[s1>>16&0xff])<<16 | uint32(sbox[s2>>8&0xff])<<8 | uint32(sbox[s3&0xff])) ^ ks[k]
	t1 := (uint32(sbox[s1>>24])<<24 | uint32(sbox[s2>>16&0xff])<<16 | uint32(sbox[s3>>8&0xff])<<8 | uint32(sbox[s0&0xff])) ^ ks[k+1]
	t2 := (uint32(sbox[s2>>24])<<24 | uint32(sbox[s3>>16&0xff])<<16 | uint32(sbox[s0>>8&0xff])<<8 | uint32(sbox[s1&0xff])) ^ ks[k+2]
	t3 := (uint32(sbox[s3>>24])<<24 | uint32(sbox[s0>>16&0xff])<<16 | uint32(sbox[s1>>8&0xff])<<8 | uint32(sbox[s2&0xff])) ^ ks[k+3]
	b[0], b[1], b[2], b[3] = t0, t1, t2, t3
}
