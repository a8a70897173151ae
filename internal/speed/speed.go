// Package speed implements the "-speed" command-line option,
// similar to "openssl speed".
// It benchmarks the table-driven ciphers in every chaining mode next to the
// Go standard library implementations.
package speed

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/des"
	"fmt"
	"runtime"
	"testing"

	"golang.org/x/crypto/blowfish"

	"github.com/wcrypt/wcrypt/internal/cryptocore"
	"github.com/wcrypt/wcrypt/internal/engine"
	"github.com/wcrypt/wcrypt/internal/modes"
)

// Bytes processed per benchmark iteration
const chunkSize = 64 * 1024

type bEntry struct {
	name string
	f    func(*testing.B)
	ref  bool
}

// Run - run the speed the test and print the results.
func Run(workers int) {
	cpuName := cpuModelName()
	if cpuName == "" {
		cpuName = "unknown"
	}
	aesNote := "no"
	if hasAESInstructions() {
		aesNote = "yes"
	}
	fmt.Printf("cpu: %s; cpu AES instructions: %s; %s/%s; workers: %d\n",
		cpuName, aesNote, runtime.GOOS, runtime.GOARCH, workers)

	for _, b := range table(workers) {
		fmt.Printf("%-24s\t", b.name)
		mbs := mbPerSec(testing.Benchmark(b.f))
		if mbs > 0 {
			fmt.Printf("%7.2f MB/s", mbs)
		} else {
			fmt.Printf("    N/A")
		}
		if b.ref {
			fmt.Printf("\t(reference)\n")
		} else {
			fmt.Printf("\t\n")
		}
	}
}

func table(workers int) []bEntry {
	var t []bEntry
	for _, c := range engine.Ciphers {
		for _, m := range []modes.Mode{modes.ECB, modes.CBC, modes.CTR} {
			t = append(t, bEntry{
				name: fmt.Sprintf("%s-%d-%s", c, c.DefaultKeyWords()*32, m),
				f:    bEngine(c, m, engine.Forward, workers),
			})
		}
		t = append(t, bEntry{
			name: fmt.Sprintf("%s-%d-cbc-decrypt", c, c.DefaultKeyWords()*32),
			f:    bEngine(c, modes.CBC, engine.Inverse, workers),
		})
	}
	t = append(t,
		bEntry{name: "aes-256-cbc-Go", f: bStdlibCBC(aesRef, 32), ref: true},
		bEntry{name: "tripledes-192-cbc-Go", f: bStdlibCBC(des.NewTripleDESCipher, 24), ref: true},
		bEntry{name: "blowfish-128-cbc-x/crypto", f: bStdlibCBC(blowfishRef, 16), ref: true},
		bEntry{name: "aes-256-eme", f: bEME},
	)
	return t
}

func aesRef(key []byte) (cipher.Block, error) {
	return aes.NewCipher(key)
}

func blowfishRef(key []byte) (cipher.Block, error) {
	return blowfish.NewCipher(key)
}

func mbPerSec(r testing.BenchmarkResult) float64 {
	if r.Bytes <= 0 || r.T <= 0 || r.N <= 0 {
		return 0
	}
	return (float64(r.Bytes) * float64(r.N) / 1e6) / r.T.Seconds()
}

// Get "n" random bytes from /dev/urandom or panic
func randBytes(n int) []byte {
	return cryptocore.RandBytes(n)
}

var benchEngine = engine.New()

// bEngine benchmarks a session of cipher "c" in mode "m"
func bEngine(c engine.Cipher, m modes.Mode, dir engine.Direction, workers int) func(*testing.B) {
	return func(b *testing.B) {
		key := randBytes(c.DefaultKeyWords() * 4)
		cc, err := cryptocore.New(benchEngine, c, m, key, workers)
		if err != nil {
			b.Fatal(err)
		}
		in := make([]uint32, chunkSize/4)
		b.SetBytes(chunkSize)
		s, err := cc.NewSession(dir, randBytes(cc.BlockLen))
		if err != nil {
			b.Fatal(err)
		}
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if err := s.Process(in, len(in)); err != nil {
				b.Fatal(err)
			}
		}
	}
}

// bStdlibCBC benchmarks crypto/cipher CBC over a reference block cipher
func bStdlibCBC(newBlock func([]byte) (cipher.Block, error), keyLen int) func(*testing.B) {
	return func(b *testing.B) {
		bc, err := newBlock(randBytes(keyLen))
		if err != nil {
			b.Fatal(err)
		}
		in := make([]byte, chunkSize)
		b.SetBytes(chunkSize)
		enc := cipher.NewCBCEncrypter(bc, randBytes(bc.BlockSize()))
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			enc.CryptBlocks(in, in)
		}
	}
}

// bEME benchmarks EME wide-block encryption on top of the engine's AES
func bEME(b *testing.B) {
	e, err := cryptocore.NewEME(benchEngine, randBytes(32))
	if err != nil {
		b.Fatal(err)
	}
	tweak := randBytes(16)
	// EME handles at most 128 blocks per call
	in := make([]byte, 16*128)
	b.SetBytes(int64(len(in)))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e.Encrypt(tweak, in)
	}
}
