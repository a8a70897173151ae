package rijndael

import (
	"fmt"

	"github.com/wcrypt/wcrypt/internal/cipherr"
	"github.com/wcrypt/wcrypt/internal/words"
)

// Schedule is an expanded AES key. It is immutable once created and may be
// shared between goroutines.
type Schedule struct {
	words   []uint32
	rounds  int
	inverse bool
}

// Rounds returns the number of rounds: 10, 12 or 14.
func (s *Schedule) Rounds() int {
	return s.rounds
}

// Inverse reports whether this is a decryption schedule.
func (s *Schedule) Inverse() bool {
	return s.inverse
}

// Words returns a copy of the 4*(rounds+1) round key words.
func (s *Schedule) Words() []uint32 {
	return words.Clone(s.words)
}

// KeyWordsValid reports whether n is a valid AES key length in words.
func KeyWordsValid(n int) bool {
	return n == 4 || n == 6 || n == 8
}

// Expand runs the AES key expansion on a 4, 6 or 8 word key.
func (t *Tables) Expand(key []uint32) (*Schedule, error) {
	nk := len(key)
	if !KeyWordsValid(nk) {
		return nil, fmt.Errorf("aes: %d key words: %w", nk, cipherr.ErrInvalidKeySize)
	}
	rounds := nk + 6
	rows := (rounds + 1) * 4
	ks := make([]uint32, rows)
	copy(ks, key)
	for r := nk; r < rows; r++ {
		v := ks[r-1]
		if r%nk == 0 {
			v = words.RotL(v, 8)
			v = t.subWord(v)
			v ^= rcon[r/nk] << 24
		} else if nk > 6 && r%nk == 4 {
			v = t.subWord(v)
		}
		ks[r] = ks[r-nk] ^ v
	}
	return &Schedule{words: ks, rounds: rounds}, nil
}

// Invert derives the decryption schedule from an encryption schedule.
// The round keys are reversed and all but the first and last pass through
// InvMixColumns.
func (t *Tables) Invert(fwd *Schedule) *Schedule {
	ks := fwd.words
	rows := len(ks)
	inv := make([]uint32, rows)
	for i := 0; i < rows; i++ {
		r := rows - i
		var v uint32
		if i%4 != 0 {
			v = ks[r]
		} else {
			v = ks[r-4]
		}
		if i < 4 || r <= 4 {
			inv[i] = v
		} else {
			inv[i] = t.InvSubMix[0][t.SBox[v>>24]] ^
				t.InvSubMix[1][t.SBox[v>>16&0xff]] ^
				t.InvSubMix[2][t.SBox[v>>8&0xff]] ^
				t.InvSubMix[3][t.SBox[v&0xff]]
		}
	}
	return &Schedule{words: inv, rounds: fwd.rounds, inverse: true}
}

// ScheduleFromWords wraps round key words previously obtained from
// Schedule.Words.
func ScheduleFromWords(w []uint32, inverse bool) (*Schedule, error) {
	for _, rounds := range []int{10, 12, 14} {
		if len(w) == 4*(rounds+1) {
			return &Schedule{words: words.Clone(w), rounds: rounds, inverse: inverse}, nil
		}
	}
	return nil, fmt.Errorf("aes: %d schedule words: %w", len(w), cipherr.ErrInvalidKeySize)
}
