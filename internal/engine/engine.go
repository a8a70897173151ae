// Package engine is the entry point to the block ciphers. An Engine owns
// the constant tables of every cipher, derives key schedules and runs the
// chaining modes over caller supplied word buffers.
package engine

import (
	"github.com/wcrypt/wcrypt/internal/blowfish"
	"github.com/wcrypt/wcrypt/internal/des"
	"github.com/wcrypt/wcrypt/internal/modes"
	"github.com/wcrypt/wcrypt/internal/rijndael"
	"github.com/wcrypt/wcrypt/internal/tlog"
)

// Engine holds the lookup tables. They are built once in New and only read
// afterwards, so an Engine can be used from many goroutines.
type Engine struct {
	aes *rijndael.Tables
	des *des.Tables
	bf  *blowfish.Tables
}

// New builds the tables for all ciphers.
func New() *Engine {
	return &Engine{
		aes: rijndael.NewTables(),
		des: des.NewTables(),
		bf:  blowfish.NewTables(),
	}
}

func (e *Engine) debugf(format string, v ...interface{}) {
	tlog.Debug.Printf("engine: "+format, v...)
}

// newBlock combines a forward and an optional inverse schedule into a
// modes.Block. A nil inverse is derived on first use where the cipher
// needs one, so encrypting never pays for it.
func (e *Engine) newBlock(c Cipher, fwd, inv *KeySchedule) (modes.Block, error) {
	if err := fwd.check(c, Forward); err != nil {
		return nil, err
	}
	if inv != nil {
		if err := inv.check(c, Inverse); err != nil {
			return nil, err
		}
	}
	switch c {
	case AES:
		var dec *rijndael.Schedule
		if inv != nil {
			dec = inv.aes
		}
		return rijndael.NewCipher(e.aes, fwd.aes, dec)
	case DES:
		var dec *des.Schedule
		if inv != nil {
			dec = inv.des
		}
		return des.NewCipher(e.des, fwd.des, dec), nil
	case TripleDES:
		var dec *des.TripleSchedule
		if inv != nil {
			dec = inv.tdes
		}
		return des.NewTripleCipher(e.des, fwd.tdes, dec), nil
	}
	return blowfish.NewCipher(fwd.bf), nil
}

// NewBlock expands "key" and returns a block transform for cipher c that
// supports both directions.
func (e *Engine) NewBlock(c Cipher, key []uint32) (modes.Block, error) {
	fwd, err := e.DeriveKeySchedule(c, key)
	if err != nil {
		return nil, err
	}
	return e.newBlock(c, fwd, nil)
}

// Encrypt encrypts "data" in place with cipher c in mode m and returns the
// chaining state to pass as "iv" to the next call. See modes.Encrypt.
func (e *Engine) Encrypt(c Cipher, m modes.Mode, iv []uint32, schedule *KeySchedule, data []uint32) ([]uint32, error) {
	b, err := e.newBlock(c, schedule, nil)
	if err != nil {
		return nil, err
	}
	return modes.Encrypt(m, b, iv, data)
}

// Decrypt decrypts "data" in place. ECB and CBC use "inverse"; it may be nil
// and is then derived from "schedule". The other modes only use "schedule".
func (e *Engine) Decrypt(c Cipher, m modes.Mode, iv []uint32, schedule, inverse *KeySchedule, data []uint32) ([]uint32, error) {
	b, err := e.newBlock(c, schedule, inverse)
	if err != nil {
		return nil, err
	}
	return modes.Decrypt(m, b, iv, data)
}
