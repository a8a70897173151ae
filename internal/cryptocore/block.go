package cryptocore

import (
	"crypto/cipher"
	"fmt"
	"log"

	"github.com/rfjakob/eme"

	"github.com/wcrypt/wcrypt/internal/cipherr"
	"github.com/wcrypt/wcrypt/internal/engine"
	"github.com/wcrypt/wcrypt/internal/modes"
	"github.com/wcrypt/wcrypt/internal/words"
)

// blockAdapter exposes a modes.Block through the crypto/cipher.Block
// interface, packing bytes into big-endian words.
type blockAdapter struct {
	b  modes.Block
	bs int
}

// NewBlock returns cipher "c" keyed with "key" as a crypto/cipher.Block, so
// it can be used with the standard library modes and with EME.
func NewBlock(e *engine.Engine, c engine.Cipher, key []byte) (cipher.Block, error) {
	kw, err := words.Pack(key)
	if err != nil {
		return nil, fmt.Errorf("%v: %d byte key: %w", c, len(key), cipherr.ErrInvalidKeySize)
	}
	defer words.Wipe(kw)
	b, err := e.NewBlock(c, kw)
	if err != nil {
		return nil, err
	}
	return &blockAdapter{b: b, bs: b.BlockWords() * 4}, nil
}

func (a *blockAdapter) BlockSize() int {
	return a.bs
}

func (a *blockAdapter) Encrypt(dst, src []byte) {
	a.crypt(dst, src, a.b.Encrypt)
}

func (a *blockAdapter) Decrypt(dst, src []byte) {
	a.crypt(dst, src, a.b.Decrypt)
}

func (a *blockAdapter) crypt(dst, src []byte, f func([]uint32)) {
	if len(src) < a.bs || len(dst) < a.bs {
		log.Panicf("blockAdapter: input not full block: src=%d dst=%d", len(src), len(dst))
	}
	var buf [4]uint32
	w := buf[:a.bs/4]
	words.PackInto(w, src)
	f(w)
	words.UnpackInto(dst, w)
}

// NewEME returns an EME wide-block cipher on top of the engine's AES.
// EME needs a 16-byte block, so only AES keys are accepted.
func NewEME(e *engine.Engine, key []byte) (*eme.EMECipher, error) {
	bc, err := NewBlock(e, engine.AES, key)
	if err != nil {
		return nil, err
	}
	return eme.New(bc), nil
}
