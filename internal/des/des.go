// Package des implements DES and the EDE Triple-DES composition on pairs of
// 32-bit words.
package des

import (
	"log"
	"sync"

	"github.com/wcrypt/wcrypt/internal/words"
)

// BlockWords is the DES block size in 32-bit words.
const BlockWords = 2

// Cipher is a single-DES instance.
type Cipher struct {
	t   *Tables
	enc *Schedule

	decOnce sync.Once
	dec     *Schedule
}

// NewCipher returns a Cipher. When "dec" is nil it is derived from "enc"
// on the first Decrypt call.
func NewCipher(t *Tables, enc, dec *Schedule) *Cipher {
	if enc == nil || enc.inverse {
		log.Panic("des: NewCipher needs an encryption schedule")
	}
	return &Cipher{t: t, enc: enc, dec: dec}
}

// BlockWords returns 2.
func (c *Cipher) BlockWords() int {
	return BlockWords
}

// Encrypt encrypts one 2-word block in place.
func (c *Cipher) Encrypt(b []uint32) {
	c.t.cryptBlock(b, &c.enc.sub)
}

// Decrypt decrypts one 2-word block in place.
func (c *Cipher) Decrypt(b []uint32) {
	c.decOnce.Do(func() {
		if c.dec == nil {
			c.dec = Invert(c.enc)
		}
	})
	c.t.cryptBlock(b, &c.dec.sub)
}

// feistel is the round function. The 48-bit expansion of r is never built:
// selector i is bits 4i-1..4i+4 of r (wrapping), which a rotation brings
// into the low six bits.
func (t *Tables) feistel(r uint32, sk *[8]uint8) uint32 {
	var out uint32
	for i := 0; i < 8; i++ {
		out ^= t.spBox[i][(words.RotL(r, 5+4*uint(i))&0x3f)^uint32(sk[i])]
	}
	return out
}

func (t *Tables) cryptBlock(b []uint32, sub *[16][8]uint8) {
	l, r := b[0], b[1]
	// Initial permutation
	l, r = exchangeLR(l, r, 4, 0x0f0f0f0f)
	l, r = exchangeLR(l, r, 16, 0x0000ffff)
	l, r = exchangeRL(l, r, 2, 0x33333333)
	l, r = exchangeRL(l, r, 8, 0x00ff00ff)
	l, r = exchangeLR(l, r, 1, 0x55555555)

	for n := 0; n < 16; n++ {
		l, r = r, l^t.feistel(r, &sub[n])
	}
	// Undo the last swap
	l, r = r, l

	// Final permutation
	l, r = exchangeLR(l, r, 1, 0x55555555)
	l, r = exchangeRL(l, r, 8, 0x00ff00ff)
	l, r = exchangeRL(l, r, 2, 0x33333333)
	l, r = exchangeLR(l, r, 16, 0x0000ffff)
	l, r = exchangeLR(l, r, 4, 0x0f0f0f0f)
	b[0], b[1] = l, r
}

// exchangeLR swaps the bits of l selected by mask<<off with the bits of r
// selected by mask.
func exchangeLR(l, r uint32, off uint, mask uint32) (uint32, uint32) {
	t := (l>>off ^ r) & mask
	return l ^ t<<off, r ^ t
}

// exchangeRL is exchangeLR with the roles of l and r reversed.
func exchangeRL(l, r uint32, off uint, mask uint32) (uint32, uint32) {
	t := (r>>off ^ l) & mask
	return l ^ t, r ^ t<<off
}
