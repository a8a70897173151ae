package engine

import (
	"fmt"

	"github.com/wcrypt/wcrypt/internal/cipherr"
	"github.com/wcrypt/wcrypt/internal/modes"
	"github.com/wcrypt/wcrypt/internal/words"
)

// Session encrypts or decrypts one message in block-aligned pieces. It owns
// its chaining state and must not be used from several goroutines at once.
// Sessions built from the same Engine share its tables.
type Session struct {
	cipher  Cipher
	mode    modes.Mode
	dir     Direction
	block   modes.Block
	chain   []uint32
	workers int
}

// NewSession expands "key" and returns a Session starting from "iv".
// "iv" is ignored in ECB mode. With workers > 1, modes that allow it are
// spread over that many goroutines.
func (e *Engine) NewSession(c Cipher, m modes.Mode, dir Direction, key, iv []uint32, workers int) (*Session, error) {
	b, err := e.NewBlock(c, key)
	if err != nil {
		return nil, err
	}
	return newSession(c, m, dir, b, iv, workers)
}

// NewScheduleSession is like NewSession but starts from already derived
// schedules, so many sessions can share one key expansion. "inverse" may be
// nil.
func (e *Engine) NewScheduleSession(c Cipher, m modes.Mode, dir Direction, schedule, inverse *KeySchedule, iv []uint32, workers int) (*Session, error) {
	b, err := e.newBlock(c, schedule, inverse)
	if err != nil {
		return nil, err
	}
	return newSession(c, m, dir, b, iv, workers)
}

func newSession(c Cipher, m modes.Mode, dir Direction, b modes.Block, iv []uint32, workers int) (*Session, error) {
	if m < modes.ECB || m > modes.CTR {
		return nil, fmt.Errorf("%v: %w", m, cipherr.ErrUnsupportedMode)
	}
	s := &Session{cipher: c, mode: m, dir: dir, block: b, workers: workers}
	if m != modes.ECB {
		bs := b.BlockWords()
		if len(iv) < bs {
			return nil, fmt.Errorf("iv has %d words, need %d: %w", len(iv), bs, cipherr.ErrOutOfBounds)
		}
		s.chain = words.Clone(iv[:bs])
	}
	return s, nil
}

// Process transforms the first "ready" words of "data" in place and advances
// the chaining state. "ready" must be a multiple of the block size.
// On error, "data" and the chaining state are unchanged.
func (s *Session) Process(data []uint32, ready int) error {
	if ready < 0 || ready > len(data) {
		return fmt.Errorf("%d ready words, buffer holds %d: %w", ready, len(data), cipherr.ErrOutOfBounds)
	}
	var chain []uint32
	var err error
	if s.dir == Forward {
		chain, err = modes.EncryptParallel(s.mode, s.block, s.chain, data[:ready], s.workers)
	} else {
		chain, err = modes.DecryptParallel(s.mode, s.block, s.chain, data[:ready], s.workers)
	}
	if err != nil {
		return err
	}
	s.chain = chain
	return nil
}

// ChainState returns a copy of the current chaining state, nil in ECB mode.
func (s *Session) ChainState() []uint32 {
	return words.Clone(s.chain)
}

// BlockWords returns the block size of the session's cipher.
func (s *Session) BlockWords() int {
	return s.block.BlockWords()
}

// Cipher returns the session's cipher.
func (s *Session) Cipher() Cipher {
	return s.cipher
}

// Mode returns the session's chaining mode.
func (s *Session) Mode() modes.Mode {
	return s.mode
}
