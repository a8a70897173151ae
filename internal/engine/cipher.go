package engine

import (
	"fmt"
	"strings"

	"github.com/wcrypt/wcrypt/internal/blowfish"
	"github.com/wcrypt/wcrypt/internal/cipherr"
	"github.com/wcrypt/wcrypt/internal/des"
	"github.com/wcrypt/wcrypt/internal/rijndael"
)

// Cipher selects one of the supported block ciphers.
type Cipher int

const (
	// AES is Rijndael with a 128-bit block and 128, 192 or 256 bit keys.
	AES Cipher = iota
	// DES is single DES with a 64-bit key.
	DES
	// TripleDES is DES in EDE form with one, two or three keys.
	TripleDES
	// Blowfish with keys of 32 to 448 bits.
	Blowfish
)

// Ciphers lists all supported ciphers.
var Ciphers = []Cipher{AES, DES, TripleDES, Blowfish}

func (c Cipher) String() string {
	switch c {
	case AES:
		return "aes"
	case DES:
		return "des"
	case TripleDES:
		return "tripledes"
	case Blowfish:
		return "blowfish"
	}
	return fmt.Sprintf("Cipher(%d)", int(c))
}

// ParseCipher converts a cipher name (case-insensitive) to a Cipher.
// "3des" is accepted as an alias for "tripledes".
func ParseCipher(name string) (Cipher, error) {
	switch strings.ToLower(name) {
	case "aes":
		return AES, nil
	case "des":
		return DES, nil
	case "tripledes", "3des":
		return TripleDES, nil
	case "blowfish":
		return Blowfish, nil
	}
	return 0, fmt.Errorf("cipher %q: %w", name, cipherr.ErrUnsupportedCipher)
}

// BlockWords returns the block size in 32-bit words.
func (c Cipher) BlockWords() int {
	if c == AES {
		return rijndael.BlockWords
	}
	return des.BlockWords
}

// KeyWordsValid reports whether a key of n words is accepted by c.
func (c Cipher) KeyWordsValid(n int) bool {
	switch c {
	case AES:
		return rijndael.KeyWordsValid(n)
	case DES:
		return n == des.KeyWords
	case TripleDES:
		return des.TripleKeyWordsValid(n)
	case Blowfish:
		return blowfish.KeyWordsValid(n)
	}
	return false
}

// DefaultKeyWords is the key length used when the caller has no preference.
func (c Cipher) DefaultKeyWords() int {
	switch c {
	case AES:
		return 8
	case DES:
		return des.KeyWords
	case TripleDES:
		return 6
	}
	return 4
}
