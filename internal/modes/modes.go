// Package modes turns a single-block transform into a stream cipher by
// chaining blocks in ECB, CBC, CFB, OFB or CTR mode. The chaining state is
// returned to the caller after every call so that a message can be processed
// in arbitrary block-aligned pieces.
package modes

import (
	"fmt"
	"strings"

	"github.com/wcrypt/wcrypt/internal/cipherr"
	"github.com/wcrypt/wcrypt/internal/words"
)

// Block is a keyed single-block transform working on big-endian words.
// Encrypt and Decrypt transform exactly BlockWords() words in place.
// Implementations must be safe for concurrent use.
type Block interface {
	BlockWords() int
	Encrypt(b []uint32)
	Decrypt(b []uint32)
}

// Mode is a chaining mode tag.
type Mode int

const (
	// ECB encrypts every block independently.
	ECB Mode = iota
	// CBC XORs each plaintext block with the previous ciphertext block.
	CBC
	// CFB encrypts the previous ciphertext block to get the keystream.
	CFB
	// OFB encrypts the previous keystream block to get the next one.
	OFB
	// CTR encrypts a counter to get the keystream.
	CTR
)

var modeNames = []string{"ecb", "cbc", "cfb", "ofb", "ctr"}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return fmt.Sprintf("Mode(%d)", int(m))
	}
	return modeNames[m]
}

// Parse converts a mode tag like "cbc" or "CBC" to a Mode.
func Parse(tag string) (Mode, error) {
	t := strings.ToLower(tag)
	for i, n := range modeNames {
		if t == n {
			return Mode(i), nil
		}
	}
	return 0, fmt.Errorf("mode %q: %w", tag, cipherr.ErrUnsupportedMode)
}

// NeedsInverse reports whether decryption in mode m uses the inverse
// block transform. CFB, OFB and CTR only ever run the forward transform.
func (m Mode) NeedsInverse() bool {
	return m == ECB || m == CBC
}

// check validates the arguments before any block is touched, so that a
// failing call leaves "data" unmodified.
func check(m Mode, b Block, iv []uint32, data []uint32) (bs int, err error) {
	if m < ECB || m > CTR {
		return 0, fmt.Errorf("%v: %w", m, cipherr.ErrUnsupportedMode)
	}
	bs = b.BlockWords()
	if len(data)%bs != 0 {
		return 0, fmt.Errorf("%d words, block size %d: %w", len(data), bs, cipherr.ErrMisalignedInput)
	}
	if m != ECB && len(iv) < bs {
		return 0, fmt.Errorf("iv has %d words, need %d: %w", len(iv), bs, cipherr.ErrOutOfBounds)
	}
	return bs, nil
}

// Encrypt encrypts "data" in place and returns the updated chaining state:
// the last ciphertext block for CBC and CFB, the last keystream block for
// OFB and the next counter value for CTR. ECB has no chaining state and
// returns nil.
// The IV is copied and never written to.
func Encrypt(m Mode, b Block, iv []uint32, data []uint32) ([]uint32, error) {
	bs, err := check(m, b, iv, data)
	if err != nil {
		return nil, err
	}
	if m == ECB {
		for i := 0; i < len(data); i += bs {
			b.Encrypt(data[i : i+bs])
		}
		return nil, nil
	}
	prev := words.Clone(iv[:bs])
	ks := make([]uint32, bs)
	for i := 0; i < len(data); i += bs {
		blk := data[i : i+bs]
		switch m {
		case CBC:
			xor(blk, prev)
			b.Encrypt(blk)
			copy(prev, blk)
		case CFB:
			copy(ks, prev)
			b.Encrypt(ks)
			xor(blk, ks)
			copy(prev, blk)
		case OFB:
			b.Encrypt(prev)
			xor(blk, prev)
		case CTR:
			copy(ks, prev)
			b.Encrypt(ks)
			xor(blk, ks)
			incCounter(prev, 1)
		}
	}
	return prev, nil
}

// Decrypt is the inverse of Encrypt and returns the chaining state in the
// same form. ECB and CBC call b.Decrypt, all other modes only b.Encrypt.
func Decrypt(m Mode, b Block, iv []uint32, data []uint32) ([]uint32, error) {
	bs, err := check(m, b, iv, data)
	if err != nil {
		return nil, err
	}
	if m == ECB {
		for i := 0; i < len(data); i += bs {
			b.Decrypt(data[i : i+bs])
		}
		return nil, nil
	}
	if m == OFB || m == CTR {
		// Keystream modes are symmetric
		return Encrypt(m, b, iv, data)
	}
	prev := words.Clone(iv[:bs])
	tmp := make([]uint32, bs)
	for i := 0; i < len(data); i += bs {
		blk := data[i : i+bs]
		switch m {
		case CBC:
			// Save the ciphertext before it is overwritten
			copy(tmp, blk)
			b.Decrypt(blk)
			xor(blk, prev)
			copy(prev, tmp)
		case CFB:
			copy(tmp, prev)
			b.Encrypt(tmp)
			copy(prev, blk)
			xor(blk, tmp)
		}
	}
	return prev, nil
}

// incCounter adds n to the last word of the counter modulo 2^32.
// There is no carry into the higher words.
func incCounter(ctr []uint32, n uint32) {
	last := len(ctr) - 1
	ctr[last] = uint32(words.Mod32(ctr[last]).Add(words.Mod32(n)))
}

func xor(dst, src []uint32) {
	for i := range dst {
		dst[i] ^= src[i]
	}
}
