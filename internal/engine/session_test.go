package engine

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wcrypt/wcrypt/internal/cipherr"
	"github.com/wcrypt/wcrypt/internal/modes"
	"github.com/wcrypt/wcrypt/internal/words"
)

// Feeding a session in pieces gives the same result as one Encrypt call
func TestSessionBatches(t *testing.T) {
	for _, c := range Ciphers {
		key := testKey(c)
		bs := c.BlockWords()
		iv := make([]uint32, bs)
		iv[bs-1] = 0xfffffffd
		orig := make([]uint32, bs*300)
		for i := range orig {
			orig[i] = uint32(i) * 0x9e3779b9
		}
		fwd, _ := testEngine.DeriveKeySchedule(c, key)
		for m := modes.ECB; m <= modes.CTR; m++ {
			want := words.Clone(orig)
			wantChain, err := testEngine.Encrypt(c, m, iv, fwd, want)
			if err != nil {
				t.Fatal(err)
			}
			for _, workers := range []int{1, 4} {
				enc, err := testEngine.NewSession(c, m, Forward, key, iv, workers)
				if err != nil {
					t.Fatal(err)
				}
				have := words.Clone(orig)
				pos := 0
				for _, n := range []int{0, 1, 7, 100, 2, 190} {
					if err := enc.Process(have[pos:], n*bs); err != nil {
						t.Fatal(err)
					}
					pos += n * bs
				}
				if d := cmp.Diff(want, have); d != "" {
					t.Errorf("%v/%v/%d workers: data differs", c, m, workers)
				}
				if d := cmp.Diff(wantChain, enc.ChainState()); d != "" {
					t.Errorf("%v/%v/%d workers: chain differs:\n%s", c, m, workers, d)
				}

				dec, err := testEngine.NewSession(c, m, Inverse, key, iv, workers)
				if err != nil {
					t.Fatal(err)
				}
				if err := dec.Process(have[:bs*50], bs*50); err != nil {
					t.Fatal(err)
				}
				if err := dec.Process(have[bs*50:], bs*250); err != nil {
					t.Fatal(err)
				}
				if !cmp.Equal(orig, have) {
					t.Errorf("%v/%v/%d workers: round trip failed", c, m, workers)
				}
			}
		}
	}
}

// Sessions from shared schedules behave like sessions from a raw key
func TestScheduleSession(t *testing.T) {
	c := TripleDES
	key := hexWords(t, "0123456789abcdef23456789abcdef01456789abcdef0123")
	iv := hexWords(t, "1234567890abcdef")
	fwd, _ := testEngine.DeriveKeySchedule(c, key)
	inv, _ := testEngine.DeriveInverseKeySchedule(c, nil, fwd)
	s, err := testEngine.NewScheduleSession(c, modes.CBC, Forward, fwd, nil, iv, 1)
	if err != nil {
		t.Fatal(err)
	}
	data := hexWords(t, "54686520717566636b2062726f776e20")
	if err := s.Process(data, len(data)); err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(hexWords(t, "38413d4ba2325cf1141f707471ac2ced"), data); d != "" {
		t.Error(d)
	}
	dec, err := testEngine.NewScheduleSession(c, modes.CBC, Inverse, fwd, inv, iv, 1)
	if err != nil {
		t.Fatal(err)
	}
	if err := dec.Process(data, len(data)); err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(hexWords(t, "54686520717566636b2062726f776e20"), data); d != "" {
		t.Error(d)
	}
	if _, err := testEngine.NewScheduleSession(c, modes.CBC, Inverse, inv, nil, iv, 1); err == nil {
		t.Error("inverse schedule accepted as forward")
	}
}

// A session keyed with k1,k2,k1 (Triple-DES) equals one keyed with k1,k2
func TestSessionTripleTwoKey(t *testing.T) {
	k12 := hexWords(t, "0123456789abcdef23456789abcdef01")
	k121 := append(words.Clone(k12), k12[:2]...)
	iv := []uint32{0xa5a5a5a5, 0x5a5a5a5a}
	b1 := make([]uint32, 16)
	b2 := make([]uint32, 16)
	for _, x := range []struct {
		key []uint32
		buf []uint32
	}{{k12, b1}, {k121, b2}} {
		s, err := testEngine.NewSession(TripleDES, modes.OFB, Forward, x.key, iv, 1)
		if err != nil {
			t.Fatal(err)
		}
		if err := s.Process(x.buf, len(x.buf)); err != nil {
			t.Fatal(err)
		}
	}
	if d := cmp.Diff(b1, b2); d != "" {
		t.Error(d)
	}
}

func TestSessionErrors(t *testing.T) {
	key := testKey(AES)
	if _, err := testEngine.NewSession(AES, modes.CBC, Forward, key, []uint32{1, 2, 3}, 1); !errors.Is(err, cipherr.ErrOutOfBounds) {
		t.Errorf("short iv: have %v", err)
	}
	if _, err := testEngine.NewSession(AES, modes.ECB, Forward, key, nil, 1); err != nil {
		t.Errorf("ECB without iv: have %v", err)
	}
	if _, err := testEngine.NewSession(AES, modes.Mode(9), Forward, key, nil, 1); !errors.Is(err, cipherr.ErrUnsupportedMode) {
		t.Errorf("have %v", err)
	}
	if _, err := testEngine.NewSession(AES, modes.CBC, Forward, key[:3], make([]uint32, 4), 1); !errors.Is(err, cipherr.ErrInvalidKeySize) {
		t.Errorf("have %v", err)
	}
	if _, err := testEngine.NewSession(Cipher(9), modes.CBC, Forward, key, make([]uint32, 4), 1); !errors.Is(err, cipherr.ErrUnsupportedCipher) {
		t.Errorf("have %v", err)
	}

	iv := []uint32{9, 8, 7, 6}
	s, err := testEngine.NewSession(AES, modes.CBC, Forward, key, iv, 1)
	if err != nil {
		t.Fatal(err)
	}
	data := []uint32{1, 2, 3, 4, 5, 6}
	for _, ready := range []int{-4, 8, 3} {
		if err := s.Process(data, ready); err == nil {
			t.Errorf("ready=%d accepted", ready)
		}
	}
	if err := s.Process(data, 8); !errors.Is(err, cipherr.ErrOutOfBounds) {
		t.Errorf("have %v", err)
	}
	if err := s.Process(data, 3); !errors.Is(err, cipherr.ErrMisalignedInput) {
		t.Errorf("have %v", err)
	}
	if !cmp.Equal([]uint32{1, 2, 3, 4, 5, 6}, data) {
		t.Error("data was modified")
	}
	if !cmp.Equal(iv, s.ChainState()) {
		t.Error("chain state was modified")
	}
	// Only the ready words are touched
	if err := s.Process(data, 4); err != nil {
		t.Fatal(err)
	}
	if !cmp.Equal([]uint32{5, 6}, data[4:]) {
		t.Error("words past ready were modified")
	}
}

func TestSessionAccessors(t *testing.T) {
	iv := []uint32{1, 2}
	s, err := testEngine.NewSession(Blowfish, modes.CFB, Forward, testKey(Blowfish), iv, 0)
	if err != nil {
		t.Fatal(err)
	}
	if s.Cipher() != Blowfish || s.Mode() != modes.CFB || s.BlockWords() != 2 {
		t.Errorf("have %v %v %d", s.Cipher(), s.Mode(), s.BlockWords())
	}
	// The session keeps its own copy of the IV and hands out copies
	iv[0] = 99
	cs := s.ChainState()
	if !cmp.Equal([]uint32{1, 2}, cs) {
		t.Errorf("have %v", cs)
	}
	cs[1] = 99
	if !cmp.Equal([]uint32{1, 2}, s.ChainState()) {
		t.Error("chain state modified through a copy")
	}
	ecb, _ := testEngine.NewSession(Blowfish, modes.ECB, Forward, testKey(Blowfish), nil, 0)
	if ecb.ChainState() != nil {
		t.Error("ECB session has a chain state")
	}
}
