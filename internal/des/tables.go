package des

// Tables hold the Feistel lookup: spBox[i][x] is the output of S-box i
// for the 6-bit selector x, already moved through the P permutation.
// The selector is indexed directly, so a lookup is a single array access.
type Tables struct {
	spBox [8][64]uint32
}

// NewTables computes the Feistel lookup tables.
func NewTables() *Tables {
	t := &Tables{}
	for i := 0; i < 8; i++ {
		for x := 0; x < 64; x++ {
			// Outer bits select the row, inner bits the column
			row := x>>4&2 | x&1
			col := x >> 1 & 0xf
			v := uint64(sBoxes[i][row][col]) << (28 - 4*uint(i))
			t.spBox[i][x] = uint32(permute(v, 32, permutationFunction[:]))
		}
	}
	return t
}

// permute picks bits out of the srcBits-wide value src. Positions in
// "table" are 1-based and counted from the most significant bit.
func permute(src uint64, srcBits uint, table []uint8) uint64 {
	var out uint64
	for _, pos := range table {
		out = out<<1 | src>>(srcBits-uint(pos))&1
	}
	return out
}
