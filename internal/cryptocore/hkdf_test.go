package cryptocore

import (
	"bytes"
	"encoding/hex"
	"testing"
)

type hkdfTestCase struct {
	masterkey []byte
	info      string
	out       []byte
}

// TestHKDFDerive verifies that we get the expected values from HKDFDerive.
// They must not change because this would change the key derived from a
// config file.
func TestHKDFDerive(t *testing.T) {
	master0 := bytes.Repeat([]byte{0x00}, 32)
	master1 := bytes.Repeat([]byte{0x01}, 32)
	out1, _ := hex.DecodeString("95fe0c5c2e01e90e77e5258c40c341a767d3fa453a59fe6cdc8f71c8161cb80a")
	out2, _ := hex.DecodeString("0adfacd91ab88c2185a64ed84ed6b820b3c34b0be4488247e2f04427f3449273")
	out3, _ := hex.DecodeString("acc93f4d7a8dbe7673af2d0904fb9fe5231c2fb991e16d9ab6cf6441452e0db8")
	out4, _ := hex.DecodeString("d6662070f299ce1ce1d7cf6e174cc3382894a7a46aa3fd26ad528a1232f1fc23")

	testCases := []hkdfTestCase{
		{master0, "wcrypt cipher key", out1},
		{master0, HKDFInfoCipherKey, out1},
		{master0, HKDFInfoKeyCheck, out2},
		{master1, HKDFInfoCipherKey, out3},
		{master1, HKDFInfoKeyCheck, out4},
	}

	for i, v := range testCases {
		out := HKDFDerive(v.masterkey, v.info, 32)
		if !bytes.Equal(out, v.out) {
			want := hex.EncodeToString(v.out)
			have := hex.EncodeToString(out)
			t.Errorf("testcase %d error:\n"+
				"want=%s\n"+
				"have=%s", i, want, have)
		}
	}
	// Shorter outputs are prefixes of longer ones
	if short := HKDFDerive(master1, HKDFInfoCipherKey, 8); !bytes.Equal(short, out3[:8]) {
		t.Errorf("prefix mismatch: %x", short)
	}
}
