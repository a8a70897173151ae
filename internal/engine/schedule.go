package engine

import (
	"fmt"

	"github.com/wcrypt/wcrypt/internal/blowfish"
	"github.com/wcrypt/wcrypt/internal/cipherr"
	"github.com/wcrypt/wcrypt/internal/des"
	"github.com/wcrypt/wcrypt/internal/rijndael"
)

// Direction tells whether a KeySchedule is used for encryption (Forward) or
// for the inverse block transform (Inverse).
type Direction int

const (
	// Forward is the encryption direction.
	Forward Direction = iota
	// Inverse is the decryption direction.
	Inverse
)

func (d Direction) String() string {
	if d == Inverse {
		return "inverse"
	}
	return "forward"
}

// KeySchedule is an expanded key for one cipher and direction. It is
// immutable and may be shared by any number of sessions.
type KeySchedule struct {
	cipher Cipher
	dir    Direction

	aes  *rijndael.Schedule
	des  *des.Schedule
	tdes *des.TripleSchedule
	bf   *blowfish.Schedule
}

// Cipher returns the cipher the schedule belongs to.
func (k *KeySchedule) Cipher() Cipher {
	return k.cipher
}

// Direction returns Forward or Inverse.
func (k *KeySchedule) Direction() Direction {
	return k.dir
}

// Words returns a copy of the schedule as words:
// AES 4*(rounds+1) round key words, DES 16*8 selectors, Triple-DES three
// DES schedules, Blowfish P followed by the S-boxes.
func (k *KeySchedule) Words() []uint32 {
	switch k.cipher {
	case AES:
		return k.aes.Words()
	case DES:
		return k.des.Words()
	case TripleDES:
		return k.tdes.Words()
	}
	return k.bf.Words()
}

// DeriveKeySchedule expands "key" into the forward schedule of cipher c.
func (e *Engine) DeriveKeySchedule(c Cipher, key []uint32) (*KeySchedule, error) {
	ks := &KeySchedule{cipher: c, dir: Forward}
	var err error
	switch c {
	case AES:
		ks.aes, err = e.aes.Expand(key)
	case DES:
		ks.des, err = des.Expand(key)
	case TripleDES:
		ks.tdes, err = des.ExpandTriple(key)
	case Blowfish:
		ks.bf, err = e.bf.Expand(key)
	default:
		err = fmt.Errorf("%v: %w", c, cipherr.ErrUnsupportedCipher)
	}
	if err != nil {
		return nil, err
	}
	e.debugf("derived %v schedule from %d key words", c, len(key))
	return ks, nil
}

// DeriveInverseKeySchedule returns the schedule used by the inverse block
// transform. When "fwd" is nil it is first derived from "key"; otherwise
// "key" is not used. Blowfish decrypts with the forward schedule, so its
// inverse schedule carries the same words.
func (e *Engine) DeriveInverseKeySchedule(c Cipher, key []uint32, fwd *KeySchedule) (*KeySchedule, error) {
	if fwd == nil {
		var err error
		fwd, err = e.DeriveKeySchedule(c, key)
		if err != nil {
			return nil, err
		}
	}
	if err := fwd.check(c, Forward); err != nil {
		return nil, err
	}
	inv := &KeySchedule{cipher: c, dir: Inverse}
	switch c {
	case AES:
		inv.aes = e.aes.Invert(fwd.aes)
	case DES:
		inv.des = des.Invert(fwd.des)
	case TripleDES:
		inv.tdes = des.InvertTriple(fwd.tdes)
	case Blowfish:
		inv.bf = fwd.bf
	}
	return inv, nil
}

// ScheduleFromWords rebuilds a KeySchedule from the output of
// KeySchedule.Words.
func ScheduleFromWords(c Cipher, dir Direction, w []uint32) (*KeySchedule, error) {
	ks := &KeySchedule{cipher: c, dir: dir}
	var err error
	switch c {
	case AES:
		ks.aes, err = rijndael.ScheduleFromWords(w, dir == Inverse)
	case DES:
		ks.des, err = des.ScheduleFromWords(w, dir == Inverse)
	case TripleDES:
		ks.tdes, err = des.TripleScheduleFromWords(w, dir == Inverse)
	case Blowfish:
		ks.bf, err = blowfish.ScheduleFromWords(w)
	default:
		err = fmt.Errorf("%v: %w", c, cipherr.ErrUnsupportedCipher)
	}
	if err != nil {
		return nil, err
	}
	return ks, nil
}

func (k *KeySchedule) check(c Cipher, dir Direction) error {
	if k == nil {
		return fmt.Errorf("%v: missing %v schedule", c, dir)
	}
	if k.cipher != c {
		return fmt.Errorf("schedule is for %v, not %v", k.cipher, c)
	}
	if k.dir != dir {
		return fmt.Errorf("%v: got %v schedule, want %v", c, k.dir, dir)
	}
	return nil
}
