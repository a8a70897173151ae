package contentenc

// Per-file header
//
// Format: [ "Version" uint16 big endian ] [ "Cipher" uint8 ] [ "Mode" uint8 ]
//         [ "IV" one cipher block ]

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/wcrypt/wcrypt/internal/cryptocore"
	"github.com/wcrypt/wcrypt/internal/engine"
	"github.com/wcrypt/wcrypt/internal/modes"
)

const (
	// CurrentVersion is the current file format version
	CurrentVersion = 1

	headerVersionLen = 2 // uint16
	headerCipherLen  = 1
	headerModeLen    = 1
	// headerFixedLen is the header length without the IV
	headerFixedLen = headerVersionLen + headerCipherLen + headerModeLen
)

// FileHeader represents the header stored in front of the ciphertext.
type FileHeader struct {
	Version uint16
	Cipher  engine.Cipher
	Mode    modes.Mode
	IV      []byte
}

// HeaderLen returns the total header length for cipher "c".
func HeaderLen(c engine.Cipher) int {
	return headerFixedLen + c.BlockWords()*4
}

// Pack - serialize FileHeader object
func (h *FileHeader) Pack() []byte {
	if len(h.IV) != h.Cipher.BlockWords()*4 || h.Version != CurrentVersion {
		panic("FileHeader object not properly initialized")
	}
	buf := make([]byte, HeaderLen(h.Cipher))
	binary.BigEndian.PutUint16(buf[0:headerVersionLen], h.Version)
	buf[headerVersionLen] = uint8(h.Cipher)
	buf[headerVersionLen+headerCipherLen] = uint8(h.Mode)
	copy(buf[headerFixedLen:], h.IV)
	return buf
}

// ReadHeader reads and parses the header from "r".
func ReadHeader(r io.Reader) (*FileHeader, error) {
	fixed := make([]byte, headerFixedLen)
	if _, err := io.ReadFull(r, fixed); err != nil {
		return nil, fmt.Errorf("ReadHeader: %v: %w", err, ErrBadHeader)
	}
	var h FileHeader
	h.Version = binary.BigEndian.Uint16(fixed[0:headerVersionLen])
	if h.Version != CurrentVersion {
		return nil, fmt.Errorf("ReadHeader: invalid version: got %d, want %d: %w", h.Version, CurrentVersion, ErrBadHeader)
	}
	h.Cipher = engine.Cipher(fixed[headerVersionLen])
	if !validCipher(h.Cipher) {
		return nil, fmt.Errorf("ReadHeader: unknown cipher id %d: %w", h.Cipher, ErrBadHeader)
	}
	h.Mode = modes.Mode(fixed[headerVersionLen+headerCipherLen])
	if h.Mode < modes.ECB || h.Mode > modes.CTR {
		return nil, fmt.Errorf("ReadHeader: unknown mode id %d: %w", h.Mode, ErrBadHeader)
	}
	h.IV = make([]byte, h.Cipher.BlockWords()*4)
	if _, err := io.ReadFull(r, h.IV); err != nil {
		return nil, fmt.Errorf("ReadHeader: short IV: %v: %w", err, ErrBadHeader)
	}
	return &h, nil
}

// RandomHeader - create new FileHeader object with a random IV
func RandomHeader(c engine.Cipher, m modes.Mode) *FileHeader {
	return &FileHeader{
		Version: CurrentVersion,
		Cipher:  c,
		Mode:    m,
		IV:      cryptocore.RandBytes(c.BlockWords() * 4),
	}
}

func validCipher(c engine.Cipher) bool {
	for _, v := range engine.Ciphers {
		if c == v {
			return true
		}
	}
	return false
}
