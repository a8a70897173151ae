// Package contentenc encrypts and decrypts byte streams: it writes a header
// carrying the IV, splits the data into chunks, converts them to words for
// the cipher session and handles the padding of the last block.
package contentenc

import (
	"errors"
	"fmt"
	"io"

	"github.com/wcrypt/wcrypt/internal/cryptocore"
	"github.com/wcrypt/wcrypt/internal/engine"
	"github.com/wcrypt/wcrypt/internal/tlog"
	"github.com/wcrypt/wcrypt/internal/words"
)

// DefaultChunkSize is the number of bytes handed to the cipher per call.
const DefaultChunkSize = 64 * 1024

var (
	// ErrBadHeader is returned when the file header is missing or invalid.
	ErrBadHeader = errors.New("bad file header")
	// ErrTruncated is returned when the ciphertext is not a whole number of
	// blocks.
	ErrTruncated = errors.New("ciphertext truncated")
	// ErrBadPadding is returned when the padding of the last block is
	// invalid. This usually means a wrong key.
	ErrBadPadding = errors.New("bad padding")
	// ErrHeaderMismatch is returned when the header names a different cipher
	// or mode than the one configured.
	ErrHeaderMismatch = errors.New("header does not match configured cipher")
)

// ContentEnc is used to encipher and decipher file content.
type ContentEnc struct {
	// Cryptographic primitives
	cryptoCore *cryptocore.CryptoCore
	// Plaintext bytes per chunk, a multiple of the block size
	chunkSize int
	// Chunk buffers, chunkSize plus one block
	chunkPool *chunkPool
}

// New returns an initialized ContentEnc instance.
func New(cc *cryptocore.CryptoCore, chunkSize int) *ContentEnc {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	// Round down to whole blocks
	chunkSize -= chunkSize % cc.BlockLen
	if chunkSize == 0 {
		chunkSize = cc.BlockLen
	}
	tlog.Debug.Printf("contentenc.New: %v/%v, chunk size %d", cc.Cipher, cc.Mode, chunkSize)
	return &ContentEnc{
		cryptoCore: cc,
		chunkSize:  chunkSize,
		chunkPool:  newChunkPool(chunkSize + cc.BlockLen),
	}
}

// ChunkSize returns the number of plaintext bytes processed per call.
func (be *ContentEnc) ChunkSize() int {
	return be.chunkSize
}

// EncryptStream writes a header with a fresh random IV to "dst", followed by
// the encryption of everything read from "src". The last block is padded.
// It returns the number of plaintext bytes read.
func (be *ContentEnc) EncryptStream(dst io.Writer, src io.Reader) (int64, error) {
	cc := be.cryptoCore
	h := RandomHeader(cc.Cipher, cc.Mode)
	s, err := cc.NewSession(engine.Forward, h.IV)
	if err != nil {
		return 0, err
	}
	if _, err := dst.Write(h.Pack()); err != nil {
		return 0, err
	}
	cb := be.chunkPool.Get()
	defer be.chunkPool.Put(cb)
	buf, wbuf := cb.b, cb.w
	var total int64
	for {
		n, err := io.ReadFull(src, buf[:be.chunkSize])
		total += int64(n)
		last := false
		chunk := buf[:n]
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			chunk = pad(chunk, cc.BlockLen)
			last = true
		} else if err != nil {
			return total, err
		}
		if err := be.process(s, chunk, wbuf); err != nil {
			return total, err
		}
		if _, err := dst.Write(chunk); err != nil {
			return total, err
		}
		if last {
			tlog.Debug.Printf("EncryptStream: %d plaintext bytes", total)
			return total, nil
		}
	}
}

// DecryptStream reads the header from "src", checks it against the
// configured cipher and mode and writes the decrypted, unpadded plaintext to
// "dst". The last block is held back until the end of the input so that the
// padding can be removed. It returns the number of plaintext bytes written.
func (be *ContentEnc) DecryptStream(dst io.Writer, src io.Reader) (int64, error) {
	cc := be.cryptoCore
	h, err := ReadHeader(src)
	if err != nil {
		return 0, err
	}
	if h.Cipher != cc.Cipher || h.Mode != cc.Mode {
		return 0, fmt.Errorf("file is %v/%v, configured is %v/%v: %w",
			h.Cipher, h.Mode, cc.Cipher, cc.Mode, ErrHeaderMismatch)
	}
	s, err := cc.NewSession(engine.Inverse, h.IV)
	if err != nil {
		return 0, err
	}
	cb := be.chunkPool.Get()
	defer be.chunkPool.Put(cb)
	buf, wbuf := cb.b, cb.w
	var total int64
	// Ciphertext bytes carried over at the start of buf
	pending := 0
	for {
		n, err := io.ReadFull(src, buf[pending:])
		have := pending + n
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			if have == 0 || have%cc.BlockLen != 0 {
				return total, fmt.Errorf("DecryptStream: %d trailing bytes: %w", have, ErrTruncated)
			}
			chunk := buf[:have]
			if err := be.process(s, chunk, wbuf); err != nil {
				return total, err
			}
			chunk, err = unpad(chunk, cc.BlockLen)
			if err != nil {
				return total, err
			}
			m, err := dst.Write(chunk)
			total += int64(m)
			if err != nil {
				return total, err
			}
			tlog.Debug.Printf("DecryptStream: %d plaintext bytes", total)
			return total, nil
		} else if err != nil {
			return total, err
		}
		// buf is full. Keep the last block, it may carry the padding.
		ready := have - cc.BlockLen
		chunk := buf[:ready]
		if err := be.process(s, chunk, wbuf); err != nil {
			return total, err
		}
		m, err := dst.Write(chunk)
		total += int64(m)
		if err != nil {
			return total, err
		}
		copy(buf, buf[ready:have])
		pending = cc.BlockLen
	}
}

// process runs the session over "chunk" in place. "wbuf" is scratch space
// for the words.
func (be *ContentEnc) process(s *engine.Session, chunk []byte, wbuf []uint32) error {
	w := wbuf[:len(chunk)/4]
	words.PackInto(w, chunk)
	if err := s.Process(w, len(w)); err != nil {
		return err
	}
	words.UnpackInto(chunk, w)
	return nil
}
