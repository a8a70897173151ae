package rijndael

import (
	"crypto/aes"
	"encoding/hex"
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/wcrypt/wcrypt/internal/cipherr"
	"github.com/wcrypt/wcrypt/internal/words"
)

var testTables = NewTables()

func hexWords(t *testing.T, h string) []uint32 {
	b, err := hex.DecodeString(h)
	if err != nil {
		t.Fatal(err)
	}
	w, err := words.Pack(b)
	if err != nil {
		t.Fatal(err)
	}
	return w
}

func newCipher(t *testing.T, key []uint32) *Cipher {
	s, err := testTables.Expand(key)
	if err != nil {
		t.Fatal(err)
	}
	c, err := NewCipher(testTables, s, nil)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestTables(t *testing.T) {
	tb := testTables
	if tb.SBox[0] != 0x63 || tb.SBox[1] != 0x7c || tb.SBox[0x53] != 0xed {
		t.Errorf("SBox: %#x %#x %#x", tb.SBox[0], tb.SBox[1], tb.SBox[0x53])
	}
	if tb.SubMix[0][0] != 0xc66363a5 || tb.SubMix[0][1] != 0xf87c7c84 {
		t.Errorf("SubMix[0]: %#x %#x", tb.SubMix[0][0], tb.SubMix[0][1])
	}
	if tb.InvSubMix[0][0] != 0x51f4a750 || tb.InvSubMix[0][1] != 0x7e416553 {
		t.Errorf("InvSubMix[0]: %#x %#x", tb.InvSubMix[0][0], tb.InvSubMix[0][1])
	}
	for i := 0; i < 256; i++ {
		if int(tb.InvSBox[tb.SBox[i]]) != i {
			t.Fatalf("InvSBox is not the inverse of SBox at %d", i)
		}
		// The other columns are byte rotations of column 0
		for k := 1; k < 4; k++ {
			if tb.SubMix[k][i] != words.RotL(tb.SubMix[0][i], uint(32-8*k)) {
				t.Fatalf("SubMix[%d][%d] = %#x", k, i, tb.SubMix[k][i])
			}
			if tb.InvSubMix[k][i] != words.RotL(tb.InvSubMix[0][i], uint(32-8*k)) {
				t.Fatalf("InvSubMix[%d][%d] = %#x", k, i, tb.InvSubMix[k][i])
			}
		}
	}
}

// FIPS-197 appendix A.1
func TestExpand128(t *testing.T) {
	s, err := testTables.Expand(hexWords(t, "2b7e151628aed2a6abf7158809cf4f3c"))
	if err != nil {
		t.Fatal(err)
	}
	w := s.Words()
	if len(w) != 44 || s.Rounds() != 10 || s.Inverse() {
		t.Fatalf("len=%d rounds=%d inverse=%v", len(w), s.Rounds(), s.Inverse())
	}
	if w[4] != 0xa0fafe17 || w[43] != 0xb6630ca6 {
		t.Errorf("w[4]=%#x w[43]=%#x", w[4], w[43])
	}
}

// FIPS-197 appendix C plus the all-zero key
func TestKnownAnswer(t *testing.T) {
	testCases := []struct {
		key, plain, cipher string
	}{
		{"00000000000000000000000000000000", "00000000000000000000000000000000", "66e94bd4ef8a2c3b884cfa59ca342b2e"},
		{"000102030405060708090a0b0c0d0e0f", "00112233445566778899aabbccddeeff", "69c4e0d86a7b0430d8cdb78070b4c55a"},
		{"000102030405060708090a0b0c0d0e0f1011121314151617", "00112233445566778899aabbccddeeff", "dda97ca4864cdfe06eaf70a0ec0d7191"},
		{"000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f", "00112233445566778899aabbccddeeff", "8ea2b7ca516745bfeafc49904b496089"},
	}
	for _, tc := range testCases {
		c := newCipher(t, hexWords(t, tc.key))
		b := hexWords(t, tc.plain)
		c.Encrypt(b)
		if d := cmp.Diff(hexWords(t, tc.cipher), b); d != "" {
			t.Errorf("key %s: encrypt mismatch (-want +have):\n%s", tc.key, d)
		}
		c.Decrypt(b)
		if d := cmp.Diff(hexWords(t, tc.plain), b); d != "" {
			t.Errorf("key %s: decrypt mismatch (-want +have):\n%s", tc.key, d)
		}
	}
}

// Compare random keys and blocks against crypto/aes
func TestCompareStdlib(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for _, keyLen := range []int{16, 24, 32} {
		for i := 0; i < 50; i++ {
			key := make([]byte, keyLen)
			rng.Read(key)
			ref, err := aes.NewCipher(key)
			if err != nil {
				t.Fatal(err)
			}
			kw, _ := words.Pack(key)
			c := newCipher(t, kw)
			in := make([]byte, 16)
			rng.Read(in)
			want := make([]byte, 16)
			ref.Encrypt(want, in)
			b, _ := words.Pack(in)
			c.Encrypt(b)
			if have := words.Unpack(b); !cmp.Equal(want, have) {
				t.Fatalf("key %x: encrypt have %x want %x", key, have, want)
			}
			ref.Decrypt(want, in)
			b, _ = words.Pack(in)
			c.Decrypt(b)
			if have := words.Unpack(b); !cmp.Equal(want, have) {
				t.Fatalf("key %x: decrypt have %x want %x", key, have, want)
			}
		}
	}
}

func TestInvert(t *testing.T) {
	fwd, err := testTables.Expand(hexWords(t, "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"))
	if err != nil {
		t.Fatal(err)
	}
	inv := testTables.Invert(fwd)
	if !inv.Inverse() || inv.Rounds() != 14 {
		t.Fatalf("inverse=%v rounds=%d", inv.Inverse(), inv.Rounds())
	}
	f, i := fwd.Words(), inv.Words()
	n := len(f)
	// First and last round keys swap places without InvMixColumns. Words 1
	// and 3 of every round key trade places, matching the swap in Decrypt.
	want := []uint32{f[n-4], f[n-1], f[n-2], f[n-3]}
	if d := cmp.Diff(want, i[:4]); d != "" {
		t.Errorf("first inverse round key:\n%s", d)
	}
	want = []uint32{f[0], f[3], f[2], f[1]}
	if d := cmp.Diff(want, i[n-4:]); d != "" {
		t.Errorf("last inverse round key:\n%s", d)
	}
	// Deterministic
	if d := cmp.Diff(i, testTables.Invert(fwd).Words()); d != "" {
		t.Error(d)
	}
}

func TestScheduleFromWords(t *testing.T) {
	for _, nk := range []int{4, 6, 8} {
		key := make([]uint32, nk)
		for i := range key {
			key[i] = uint32(i) * 0x11111111
		}
		fwd, err := testTables.Expand(key)
		if err != nil {
			t.Fatal(err)
		}
		inv := testTables.Invert(fwd)
		fwd2, err := ScheduleFromWords(fwd.Words(), false)
		if err != nil {
			t.Fatal(err)
		}
		inv2, err := ScheduleFromWords(inv.Words(), true)
		if err != nil {
			t.Fatal(err)
		}
		if fwd2.Rounds() != nk+6 {
			t.Errorf("nk=%d: rounds=%d", nk, fwd2.Rounds())
		}
		c1, err := NewCipher(testTables, fwd, inv)
		if err != nil {
			t.Fatal(err)
		}
		c2, err := NewCipher(testTables, fwd2, inv2)
		if err != nil {
			t.Fatal(err)
		}
		b1 := []uint32{1, 2, 3, 4}
		b2 := []uint32{1, 2, 3, 4}
		c1.Encrypt(b1)
		c2.Encrypt(b2)
		if !cmp.Equal(b1, b2) {
			t.Errorf("nk=%d: encryption differs", nk)
		}
		c2.Decrypt(b2)
		if !cmp.Equal([]uint32{1, 2, 3, 4}, b2) {
			t.Errorf("nk=%d: decryption failed: %x", nk, b2)
		}
	}
	if _, err := ScheduleFromWords(make([]uint32, 43), false); !errors.Is(err, cipherr.ErrInvalidKeySize) {
		t.Errorf("have %v", err)
	}
}

// Words returns a copy
func TestWordsCopy(t *testing.T) {
	s, _ := testTables.Expand(make([]uint32, 4))
	w := s.Words()
	w[0] = 0xdeadbeef
	if s.Words()[0] == 0xdeadbeef {
		t.Error("schedule was modified through Words()")
	}
}

func TestInvalidKeySize(t *testing.T) {
	for _, n := range []int{0, 1, 3, 5, 7, 9, 16} {
		_, err := testTables.Expand(make([]uint32, n))
		if !errors.Is(err, cipherr.ErrInvalidKeySize) {
			t.Errorf("%d words: have %v", n, err)
		}
	}
}

func TestNewCipherMismatch(t *testing.T) {
	fwd128, _ := testTables.Expand(make([]uint32, 4))
	fwd256, _ := testTables.Expand(make([]uint32, 8))
	if _, err := NewCipher(testTables, fwd128, testTables.Invert(fwd256)); !errors.Is(err, cipherr.ErrInvalidKeySize) {
		t.Errorf("mismatched rounds: have %v", err)
	}
	if _, err := NewCipher(testTables, fwd128, fwd128); err == nil {
		t.Error("forward schedule accepted for decryption")
	}
	if _, err := NewCipher(testTables, testTables.Invert(fwd128), nil); err == nil {
		t.Error("inverse schedule accepted for encryption")
	}
	if _, err := NewCipher(testTables, nil, nil); err == nil {
		t.Error("nil schedule accepted")
	}
}

// The inverse schedule is only built once Decrypt is needed and gives the
// same result as an explicit one
func TestLazyInverse(t *testing.T) {
	fwd, _ := testTables.Expand(hexWords(t, "000102030405060708090a0b0c0d0e0f"))
	c, err := NewCipher(testTables, fwd, nil)
	if err != nil {
		t.Fatal(err)
	}
	if c.dec != nil {
		t.Error("inverse schedule built before Decrypt")
	}
	b := hexWords(t, "69c4e0d86a7b0430d8cdb78070b4c55a")
	c.Decrypt(b)
	if d := cmp.Diff(hexWords(t, "00112233445566778899aabbccddeeff"), b); d != "" {
		t.Error(d)
	}
	if d := cmp.Diff(testTables.Invert(fwd).Words(), c.dec.Words()); d != "" {
		t.Error(d)
	}
}

func BenchmarkEncrypt(b *testing.B) {
	s, _ := testTables.Expand(make([]uint32, 8))
	c, _ := NewCipher(testTables, s, nil)
	blk := make([]uint32, 4)
	b.SetBytes(16)
	for i := 0; i < b.N; i++ {
		c.Encrypt(blk)
	}
}
