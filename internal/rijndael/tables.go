package rijndael

// rcon holds the round constants used by the key expansion.
var rcon = [11]uint32{0x00, 0x01, 0x02, 0x04, 0x08, 0x10, 0x20, 0x40, 0x80, 0x1b, 0x36}

// Tables are the substitution and combined SubBytes/MixColumns lookup
// tables. They are computed by NewTables and never modified afterwards.
type Tables struct {
	SBox    [256]byte
	InvSBox [256]byte
	// SubMix[k][x] is column k of MixColumns applied to SBox[x].
	SubMix [4][256]uint32
	// InvSubMix[k][x] is column k of InvMixColumns applied to x.
	InvSubMix [4][256]uint32
}

// NewTables computes the tables by walking the multiplicative group of
// GF(2^8).
func NewTables() *Tables {
	t := &Tables{}
	// d[i] = i * 2 in GF(2^8)
	var d [256]uint32
	for i := uint32(0); i < 256; i++ {
		if i < 128 {
			d[i] = i << 1
		} else {
			d[i] = i<<1 ^ 0x11b
		}
	}
	var x, xi uint32
	for i := 0; i < 256; i++ {
		// Affine transformation of the inverse
		sx := xi ^ xi<<1 ^ xi<<2 ^ xi<<3 ^ xi<<4
		sx = sx>>8 ^ sx&0xff ^ 0x63
		t.SBox[x] = byte(sx)
		t.InvSBox[sx] = byte(x)

		x2 := d[x]
		x4 := d[x2]
		x8 := d[x4]

		v := d[sx]*0x101 ^ sx*0x1010100
		t.SubMix[0][x] = v<<24 | v>>8
		t.SubMix[1][x] = v<<16 | v>>16
		t.SubMix[2][x] = v<<8 | v>>24
		t.SubMix[3][x] = v

		v = x8*0x1010101 ^ x4*0x10001 ^ x2*0x101 ^ x*0x1010100
		t.InvSubMix[0][sx] = v<<24 | v>>8
		t.InvSubMix[1][sx] = v<<16 | v>>16
		t.InvSubMix[2][sx] = v<<8 | v>>24
		t.InvSubMix[3][sx] = v

		if x == 0 {
			x, xi = 1, 1
		} else {
			x = x2 ^ d[d[d[x8^x2]]]
			xi ^= d[d[xi]]
		}
	}
	return t
}

func (t *Tables) subWord(v uint32) uint32 {
	return uint32(t.SBox[v>>24])<<24 |
		uint32(t.SBox[v>>16&0xff])<<16 |
		uint32(t.SBox[v>>8&0xff])<<8 |
		uint32(t.SBox[v&0xff])
}
