// Package cipherr holds the error values returned by the block ciphers and
// the chaining modes. Callers test for them with errors.Is.
package cipherr

import "errors"

var (
	// ErrInvalidKeySize is returned when the key word count is not supported
	// by the selected cipher.
	ErrInvalidKeySize = errors.New("invalid key size")
	// ErrUnsupportedMode is returned for an unknown chaining mode tag.
	ErrUnsupportedMode = errors.New("unsupported mode")
	// ErrUnsupportedCipher is returned for an unknown cipher name.
	ErrUnsupportedCipher = errors.New("unsupported cipher")
	// ErrMisalignedInput is returned when the data length is not a whole
	// number of blocks.
	ErrMisalignedInput = errors.New("input is not a multiple of the block size")
	// ErrOutOfBounds is returned when a caller supplied length exceeds the
	// buffer, or the IV is shorter than one block.
	ErrOutOfBounds = errors.New("length out of bounds")
)
