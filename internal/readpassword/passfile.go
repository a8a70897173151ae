package readpassword

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/wcrypt/wcrypt/internal/tlog"
)

// readPassFileConcatenate reads the first line from each file name and
// concatenates the results. The result does not contain any newlines and
// is subject to the same length limit as a single password.
func readPassFileConcatenate(passfileSlice []string) (result []byte, err error) {
	for _, e := range passfileSlice {
		add, err := readPassFile(e)
		if err != nil {
			return nil, err
		}
		result = append(result, add...)
		for i := range add {
			add[i] = 0
		}
	}
	if len(result) > maxPasswordLen {
		return nil, fmt.Errorf("passfile: %d files: %w", len(passfileSlice), ErrTooLong)
	}
	return result, nil
}

// readPassFile returns the first line of "passfile". Anything after the
// first newline is ignored with a warning.
func readPassFile(passfile string) ([]byte, error) {
	tlog.Info.Printf("passfile: reading from file %q", passfile)
	f, err := os.Open(passfile)
	if err != nil {
		return nil, fmt.Errorf("passfile: %w", err)
	}
	defer f.Close()
	// A password, its newline and one more byte show that the limit is
	// exceeded.
	buf, err := io.ReadAll(io.LimitReader(f, maxPasswordLen+2))
	if err != nil {
		return nil, fmt.Errorf("passfile: could not read from %q: %w", passfile, err)
	}
	line, rest, found := bytes.Cut(buf, []byte("\n"))
	if len(line) == 0 {
		return nil, fmt.Errorf("passfile: first line of %q: %w", passfile, ErrEmpty)
	}
	if len(line) > maxPasswordLen {
		return nil, fmt.Errorf("passfile %q: %w", passfile, ErrTooLong)
	}
	if found && len(rest) > 0 {
		tlog.Warn.Printf("passfile: ignoring trailing garbage after first line of %q", passfile)
	}
	return line, nil
}
