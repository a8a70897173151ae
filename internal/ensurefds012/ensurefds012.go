// Package ensurefds012 makes sure that file descriptors 0, 1 and 2 are open
// by filling the gaps with /dev/null.
//
// Without it, running wcrypt with a closed stdout lets the output file land
// on fd 1, where any stray print ends up inside the ciphertext.
//
// Use like this from the alphabetically first source file of package main:
//
//	import _ "github.com/wcrypt/wcrypt/internal/ensurefds012"
//
// Check with
//
//	$ ./wcrypt -speed 0<&- 1>&- 2>&-
//	$ ls -l /proc/$(pgrep wcrypt)/fd
package ensurefds012

import (
	"os"

	"golang.org/x/sys/unix"

	"github.com/wcrypt/wcrypt/internal/exitcodes"
)

func init() {
	fd, err := unix.Open("/dev/null", unix.O_RDWR, 0)
	if err != nil {
		os.Exit(exitcodes.DevNull)
	}
	for fd <= 2 {
		fd, err = unix.Dup(fd)
		if err != nil {
			os.Exit(exitcodes.DevNull)
		}
	}
	// The last one is a spare (usually fd 3)
	unix.Close(fd)
}
