// Package readpassword reads a password from the terminal, from stdin, from
// a password file or from an external program.
package readpassword

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"golang.org/x/crypto/ssh/terminal"

	"github.com/wcrypt/wcrypt/internal/exitcodes"
	"github.com/wcrypt/wcrypt/internal/tlog"
)

const (
	// 2kB limit like EncFS
	maxPasswordLen = 2048
)

var (
	// ErrEmpty is returned when a password source yields an empty password.
	ErrEmpty = errors.New("password is empty")
	// ErrTooLong is returned for passwords above maxPasswordLen.
	ErrTooLong = fmt.Errorf("maximum password length of %d bytes exceeded", maxPasswordLen)
	// ErrMismatch is returned when the repeated terminal entry differs.
	ErrMismatch = errors.New("passwords do not match")
)

// withExitCode tags "err" with exitcodes.PasswordEmpty or
// exitcodes.ReadPassword.
func withExitCode(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrEmpty) {
		return exitcodes.Wrap(err, exitcodes.PasswordEmpty)
	}
	return exitcodes.Wrap(err, exitcodes.ReadPassword)
}

// Once tries to get a password from the user, either from the terminal,
// extpass, passfile or stdin. Leave "prompt" empty to use the default
// "Password: " prompt.
// Errors carry exitcodes.PasswordEmpty or exitcodes.ReadPassword.
func Once(extpass []string, passfile []string, prompt string) ([]byte, error) {
	pw, err := once(extpass, passfile, prompt)
	return pw, withExitCode(err)
}

func once(extpass []string, passfile []string, prompt string) ([]byte, error) {
	if len(passfile) != 0 {
		return readPassFileConcatenate(passfile)
	}
	if len(extpass) != 0 {
		return readPasswordExtpass(extpass)
	}
	if prompt == "" {
		prompt = "Password"
	}
	if !terminal.IsTerminal(int(os.Stdin.Fd())) {
		return readPasswordStdin(os.Stdin, prompt)
	}
	return readPasswordTerminal(prompt + ": ")
}

// Twice is the same as Once but will prompt twice if we get the password from
// the terminal.
func Twice(extpass []string, passfile []string) ([]byte, error) {
	pw, err := twice(extpass, passfile)
	return pw, withExitCode(err)
}

func twice(extpass []string, passfile []string) ([]byte, error) {
	if len(passfile) != 0 {
		return readPassFileConcatenate(passfile)
	}
	if len(extpass) != 0 {
		return readPasswordExtpass(extpass)
	}
	if !terminal.IsTerminal(int(os.Stdin.Fd())) {
		return readPasswordStdin(os.Stdin, "Password")
	}
	p1, err := readPasswordTerminal("Password: ")
	if err != nil {
		return nil, err
	}
	p2, err := readPasswordTerminal("Repeat: ")
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(p1, p2) {
		return nil, ErrMismatch
	}
	// Wipe the password duplicate from memory
	for i := range p2 {
		p2[i] = 0
	}
	return p1, nil
}

// readPasswordTerminal reads a line from the terminal.
// Exits on read error or empty result.
func readPasswordTerminal(prompt string) ([]byte, error) {
	fd := int(os.Stdin.Fd())
	fmt.Fprintf(os.Stderr, prompt)
	// terminal.ReadPassword removes the trailing newline
	p, err := terminal.ReadPassword(fd)
	if err != nil {
		return nil, fmt.Errorf("could not read password from terminal: %v", err)
	}
	fmt.Fprintf(os.Stderr, "\n")
	if len(p) == 0 {
		return nil, ErrEmpty
	}
	return p, nil
}

// readPasswordStdin reads a line from "r", normally stdin.
// It returns an error on read error or empty result.
func readPasswordStdin(r io.Reader, prompt string) ([]byte, error) {
	tlog.Info.Printf("Reading %s from stdin", prompt)
	p, err := readLineUnbuffered(r)
	if err != nil {
		return nil, fmt.Errorf("stdin: %w", err)
	}
	if len(p) == 0 {
		return nil, fmt.Errorf("stdin: %s: %w", prompt, ErrEmpty)
	}
	return p, nil
}

// readPasswordExtpass executes the "extpass" program and returns the first line
// of the output.
// If extpass has only one element, it is split on spaces.
func readPasswordExtpass(extpass []string) ([]byte, error) {
	args := extpass
	if len(args) == 1 {
		args = strings.Split(args[0], " ")
	}
	tlog.Info.Printf("Reading password from extpass program %q, arguments: %q\n", args[0], args[1:])
	cmd := exec.Command(args[0], args[1:]...)
	cmd.Stderr = os.Stderr
	pipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("extpass pipe setup failed: %v", err)
	}
	err = cmd.Start()
	if err != nil {
		return nil, fmt.Errorf("extpass cmd start failed: %v", err)
	}
	p, err := readLineUnbuffered(pipe)
	if err != nil {
		return nil, err
	}
	pipe.Close()
	err = cmd.Wait()
	if err != nil {
		return nil, fmt.Errorf("extpass program returned an error: %v", err)
	}
	if len(p) == 0 {
		return nil, fmt.Errorf("extpass: %w", ErrEmpty)
	}
	return p, nil
}

// readLineUnbuffered reads single bytes from "r" util it gets "\n" or EOF.
// The returned string does NOT contain the trailing "\n".
func readLineUnbuffered(r io.Reader) (l []byte, err error) {
	b := make([]byte, 1)
	for {
		if len(l) > maxPasswordLen {
			return nil, ErrTooLong
		}
		n, err := r.Read(b)
		if err == io.EOF {
			return l, nil
		}
		if err != nil {
			return nil, fmt.Errorf("readLineUnbuffered: %w", err)
		}
		if n == 0 {
			continue
		}
		if b[0] == '\n' {
			return l, nil
		}
		l = append(l, b...)
	}
}
