package speed

import (
	"strings"
	"testing"

	"github.com/wcrypt/wcrypt/internal/engine"
	"github.com/wcrypt/wcrypt/internal/modes"
)

/*
Make the "-speed" benchmarks also accessible to the standard test system.
Example run:

$ go test -bench .
*/

func BenchmarkAES256CBC(b *testing.B) {
	bEngine(engine.AES, modes.CBC, engine.Forward, 1)(b)
}

func BenchmarkAES256CTR(b *testing.B) {
	bEngine(engine.AES, modes.CTR, engine.Forward, 1)(b)
}

func BenchmarkAES256CTRParallel(b *testing.B) {
	bEngine(engine.AES, modes.CTR, engine.Forward, 4)(b)
}

func BenchmarkDESCBC(b *testing.B) {
	bEngine(engine.DES, modes.CBC, engine.Forward, 1)(b)
}

func BenchmarkTripleDESCBC(b *testing.B) {
	bEngine(engine.TripleDES, modes.CBC, engine.Forward, 1)(b)
}

func BenchmarkBlowfishCBC(b *testing.B) {
	bEngine(engine.Blowfish, modes.CBC, engine.Forward, 1)(b)
}

func BenchmarkGoAES256CBC(b *testing.B) {
	bStdlibCBC(aesRef, 32)(b)
}

func BenchmarkBlowfishCBCXCrypto(b *testing.B) {
	bStdlibCBC(blowfishRef, 16)(b)
}

func BenchmarkEME(b *testing.B) {
	bEME(b)
}

// Every table entry must have a unique name
func TestTableNames(t *testing.T) {
	seen := map[string]bool{}
	for _, e := range table(1) {
		if seen[e.name] {
			t.Errorf("duplicate entry %q", e.name)
		}
		seen[e.name] = true
		if strings.ContainsAny(e.name, " \t") {
			t.Errorf("name %q contains whitespace", e.name)
		}
	}
	if !seen["aes-256-cbc"] || !seen["blowfish-128-ctr"] {
		t.Errorf("missing entries: %v", seen)
	}
}

func TestMbPerSec(t *testing.T) {
	if mbPerSec(testing.BenchmarkResult{}) != 0 {
		t.Error("empty result should give 0")
	}
}
