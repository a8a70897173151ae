// Package cryptocore binds a cipher, a chaining mode and a key together and
// provides key derivation, randomness and a crypto/cipher.Block view of the
// engine's ciphers.
package cryptocore

import (
	"fmt"

	"github.com/wcrypt/wcrypt/internal/cipherr"
	"github.com/wcrypt/wcrypt/internal/engine"
	"github.com/wcrypt/wcrypt/internal/modes"
	"github.com/wcrypt/wcrypt/internal/words"
)

// MasterKeyLen is the length of the scrypt output that all cipher keys are
// derived from.
const MasterKeyLen = 32

// CryptoCore is the low level crypto implementation. The key schedules are
// derived once in New and shared by every session.
type CryptoCore struct {
	Engine *engine.Engine
	Cipher engine.Cipher
	Mode   modes.Mode
	// BlockLen is the cipher block size in bytes
	BlockLen int
	// Workers is passed to every session, see engine.NewSession
	Workers int

	schedule *engine.KeySchedule
	inverse  *engine.KeySchedule
}

// New expands "key" for cipher "c". "key" must be a valid key length for c
// in whole words.
func New(e *engine.Engine, c engine.Cipher, m modes.Mode, key []byte, workers int) (*CryptoCore, error) {
	kw, err := words.Pack(key)
	if err != nil {
		return nil, fmt.Errorf("%v: %d byte key: %w", c, len(key), cipherr.ErrInvalidKeySize)
	}
	defer words.Wipe(kw)
	fwd, err := e.DeriveKeySchedule(c, kw)
	if err != nil {
		return nil, err
	}
	var inv *engine.KeySchedule
	if m.NeedsInverse() {
		inv, err = e.DeriveInverseKeySchedule(c, nil, fwd)
		if err != nil {
			return nil, err
		}
	}
	return &CryptoCore{
		Engine:   e,
		Cipher:   c,
		Mode:     m,
		BlockLen: c.BlockWords() * 4,
		Workers:  workers,
		schedule: fwd,
		inverse:  inv,
	}, nil
}

// NewSession starts a session in direction "dir" from the byte IV "iv".
func (c *CryptoCore) NewSession(dir engine.Direction, iv []byte) (*engine.Session, error) {
	var ivw []uint32
	if c.Mode != modes.ECB {
		if len(iv) != c.BlockLen {
			return nil, fmt.Errorf("iv has %d bytes, need %d: %w", len(iv), c.BlockLen, cipherr.ErrOutOfBounds)
		}
		ivw, _ = words.Pack(iv)
	}
	return c.Engine.NewScheduleSession(c.Cipher, c.Mode, dir, c.schedule, c.inverse, ivw, c.Workers)
}

// Wipe drops the references to the key schedules.
func (c *CryptoCore) Wipe() {
	c.schedule = nil
	c.inverse = nil
}
