package contentenc

import (
	"bytes"
	"errors"
	"testing"

	"pgregory.net/rapid"

	"github.com/wcrypt/wcrypt/internal/cryptocore"
	"github.com/wcrypt/wcrypt/internal/engine"
	"github.com/wcrypt/wcrypt/internal/modes"
)

var testEngine = engine.New()

// fataler is satisfied by *testing.T and *rapid.T
type fataler interface {
	Fatal(args ...interface{})
	Fatalf(format string, args ...interface{})
}

func newTestEnc(t fataler, c engine.Cipher, m modes.Mode, key []byte, chunkSize int) *ContentEnc {
	cc, err := cryptocore.New(testEngine, c, m, key, 2)
	if err != nil {
		t.Fatal(err)
	}
	return New(cc, chunkSize)
}

func roundTrip(t fataler, be *ContentEnc, plain []byte) []byte {
	var ct bytes.Buffer
	n, err := be.EncryptStream(&ct, bytes.NewReader(plain))
	if err != nil {
		t.Fatal(err)
	}
	if n != int64(len(plain)) {
		t.Fatalf("EncryptStream read %d bytes, want %d", n, len(plain))
	}
	bs := be.cryptoCore.BlockLen
	wantLen := HeaderLen(be.cryptoCore.Cipher) + (len(plain)/bs+1)*bs
	if ct.Len() != wantLen {
		t.Fatalf("ciphertext length %d, want %d", ct.Len(), wantLen)
	}
	var out bytes.Buffer
	n, err = be.DecryptStream(&out, bytes.NewReader(ct.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	if n != int64(len(plain)) || !bytes.Equal(out.Bytes(), plain) {
		t.Fatalf("round trip mismatch, got %d bytes", n)
	}
	return ct.Bytes()
}

func TestStreamRoundTrip(t *testing.T) {
	lengths := []int{0, 1, 7, 8, 15, 16, 17, 63, 64, 65, 1000, 4096}
	for _, c := range engine.Ciphers {
		for m := modes.ECB; m <= modes.CTR; m++ {
			key := cryptocore.RandBytes(c.DefaultKeyWords() * 4)
			// Tiny chunks so that most lengths cross a chunk boundary
			be := newTestEnc(t, c, m, key, 32)
			t.Run(c.String()+"/"+m.String(), func(t *testing.T) {
				for _, l := range lengths {
					roundTrip(t, be, cryptocore.RandBytes(l))
				}
			})
		}
	}
}

func TestStreamRoundTripProperty(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		c := rapid.SampledFrom(engine.Ciphers).Draw(rt, "cipher")
		m := modes.Mode(rapid.IntRange(int(modes.ECB), int(modes.CTR)).Draw(rt, "mode"))
		chunk := rapid.IntRange(1, 200).Draw(rt, "chunk")
		plain := rapid.SliceOfN(rapid.Byte(), 0, 600).Draw(rt, "plain")
		be := newTestEnc(rt, c, m, cryptocore.RandBytes(c.DefaultKeyWords()*4), chunk)
		roundTrip(rt, be, plain)
	})
}

// Two encryptions of the same plaintext use different IVs
// Chunk sizes are rounded down to whole blocks
func TestChunkSize(t *testing.T) {
	testCases := []struct {
		c        engine.Cipher
		in, want int
	}{
		{engine.AES, 0, DefaultChunkSize},
		{engine.AES, 100, 96},
		{engine.AES, 5, 16},
		{engine.DES, 100, 96},
		{engine.Blowfish, 12, 8},
	}
	for _, tc := range testCases {
		be := newTestEnc(t, tc.c, modes.CBC, cryptocore.RandBytes(tc.c.DefaultKeyWords()*4), tc.in)
		if have := be.ChunkSize(); have != tc.want {
			t.Errorf("%v, %d: have %d, want %d", tc.c, tc.in, have, tc.want)
		}
	}
}

func TestRandomIV(t *testing.T) {
	be := newTestEnc(t, engine.AES, modes.CBC, make([]byte, 32), 0)
	plain := make([]byte, 100)
	a := roundTrip(t, be, plain)
	b := roundTrip(t, be, plain)
	if bytes.Equal(a, b) {
		t.Error("identical ciphertexts")
	}
}

func TestDecryptErrors(t *testing.T) {
	key := cryptocore.RandBytes(32)
	be := newTestEnc(t, engine.AES, modes.CBC, key, 0)
	ct := roundTrip(t, be, []byte("hello world, this is a test"))

	var out bytes.Buffer
	// Truncated by one byte
	_, err := be.DecryptStream(&out, bytes.NewReader(ct[:len(ct)-1]))
	if !errors.Is(err, ErrTruncated) {
		t.Errorf("truncated: have %v", err)
	}
	// Header only
	_, err = be.DecryptStream(&out, bytes.NewReader(ct[:HeaderLen(engine.AES)]))
	if !errors.Is(err, ErrTruncated) {
		t.Errorf("empty body: have %v", err)
	}
	// Short header
	_, err = be.DecryptStream(&out, bytes.NewReader(ct[:3]))
	if !errors.Is(err, ErrBadHeader) {
		t.Errorf("short header: have %v", err)
	}
	// Bad version
	bad := append([]byte{}, ct...)
	bad[0] = 0xff
	_, err = be.DecryptStream(&out, bytes.NewReader(bad))
	if !errors.Is(err, ErrBadHeader) {
		t.Errorf("bad version: have %v", err)
	}
	// Different mode
	other := newTestEnc(t, engine.AES, modes.CTR, key, 0)
	_, err = other.DecryptStream(&out, bytes.NewReader(ct))
	if !errors.Is(err, ErrHeaderMismatch) {
		t.Errorf("mode mismatch: have %v", err)
	}
	// Wrong key garbles the padding. There is a small chance that the
	// garbage happens to end in a valid pad, so try a few keys.
	failures := 0
	for i := 0; i < 8; i++ {
		wrong := newTestEnc(t, engine.AES, modes.CBC, cryptocore.RandBytes(32), 0)
		out.Reset()
		if _, err := wrong.DecryptStream(&out, bytes.NewReader(ct)); errors.Is(err, ErrBadPadding) {
			failures++
		}
	}
	if failures == 0 {
		t.Error("wrong key never produced ErrBadPadding")
	}
}

func TestPadding(t *testing.T) {
	for l := 0; l <= 16; l++ {
		p := pad(make([]byte, l), 8)
		if len(p)%8 != 0 || len(p) <= l {
			t.Errorf("pad(%d) gave %d bytes", l, len(p))
		}
		u, err := unpad(p, 8)
		if err != nil || len(u) != l {
			t.Errorf("unpad(pad(%d)): %d bytes, %v", l, len(u), err)
		}
	}
	if _, err := unpad([]byte{1, 2, 3, 4, 5, 6, 7, 0}, 8); !errors.Is(err, ErrBadPadding) {
		t.Errorf("zero pad byte: %v", err)
	}
	if _, err := unpad([]byte{1, 2, 3, 4, 5, 6, 3, 2}, 8); !errors.Is(err, ErrBadPadding) {
		t.Errorf("inconsistent pad: %v", err)
	}
	if _, err := unpad([]byte{1, 2, 3}, 8); !errors.Is(err, ErrTruncated) {
		t.Errorf("short: %v", err)
	}
}

func TestHeaderPackParse(t *testing.T) {
	h := RandomHeader(engine.Blowfish, modes.OFB)
	buf := h.Pack()
	if len(buf) != HeaderLen(engine.Blowfish) {
		t.Fatalf("length %d", len(buf))
	}
	h2, err := ReadHeader(bytes.NewReader(buf))
	if err != nil {
		t.Fatal(err)
	}
	if h2.Cipher != engine.Blowfish || h2.Mode != modes.OFB || !bytes.Equal(h2.IV, h.IV) {
		t.Errorf("have %+v, want %+v", h2, h)
	}
	buf[2] = 99
	if _, err := ReadHeader(bytes.NewReader(buf)); !errors.Is(err, ErrBadHeader) {
		t.Errorf("unknown cipher: %v", err)
	}
}
