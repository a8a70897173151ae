package contentenc

import (
	"fmt"
)

// pad appends PKCS#7 padding to "b" so that its length becomes a multiple
// of "bs". A full block of padding is added when "b" is already aligned.
func pad(b []byte, bs int) []byte {
	n := bs - len(b)%bs
	for i := 0; i < n; i++ {
		b = append(b, byte(n))
	}
	return b
}

// unpad strips PKCS#7 padding.
func unpad(b []byte, bs int) ([]byte, error) {
	if len(b) == 0 || len(b)%bs != 0 {
		return nil, fmt.Errorf("unpad: length %d: %w", len(b), ErrTruncated)
	}
	n := int(b[len(b)-1])
	if n == 0 || n > bs {
		return nil, fmt.Errorf("unpad: pad byte %d: %w", n, ErrBadPadding)
	}
	for _, v := range b[len(b)-n:] {
		if int(v) != n {
			return nil, fmt.Errorf("unpad: inconsistent padding: %w", ErrBadPadding)
		}
	}
	return b[:len(b)-n], nil
}
