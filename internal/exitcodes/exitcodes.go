// Package exitcodes contains all well-defined exit codes that wcrypt
// can return.
package exitcodes

import (
	"errors"
	"fmt"
	"os"
)

const (
	// Usage - usage error like wrong cli syntax, wrong number of parameters.
	Usage = 1
	// 2 is reserved because it is used by Go panic

	// Init is an error while creating a new config file
	Init = 7
	// LoadConf is an error while loading the config file
	LoadConf = 8
	// ReadPassword means something went wrong reading the password
	ReadPassword = 9
	// Other error - please inspect the message
	Other = 11
	// PasswordIncorrect - the password did not match the config file
	PasswordIncorrect = 12
	// ScryptParams means that scrypt was called with invalid parameters
	ScryptParams = 13
	// PasswordEmpty - we received an empty password
	PasswordEmpty = 22
	// OpenConf - the was an error opening the config file for reading
	OpenConf = 23
	// WriteConf - could not write the config file
	WriteConf = 24
	// InputFile - the input file could not be opened or read
	InputFile = 31
	// OutputFile - the output file could not be created or written
	OutputFile = 32
	// Decrypt - the ciphertext is corrupt, truncated or was encrypted with
	// a different key
	Decrypt = 33
	// Cipher - unsupported cipher, mode or key size
	Cipher = 34
	// DevNull means that /dev/null could not be opened
	DevNull = 35
)

// Err wraps an error with an associated numeric exit code
type Err struct {
	error
	code int
}

// NewErr returns an error containing "msg" and the exit code "code".
func NewErr(msg string, code int) Err {
	return Err{
		error: errors.New(msg),
		code:  code,
	}
}

// Wrap attaches the exit code "code" to "err".
func Wrap(err error, code int) Err {
	return Err{
		error: err,
		code:  code,
	}
}

// Unwrap allows errors.Is and errors.As to see the wrapped error.
func (e Err) Unwrap() error {
	return e.error
}

// Code returns the numeric exit code.
func (e Err) Code() int {
	return e.code
}

// Exit extracts the numeric exit code from "err" (if available) and exits the
// application.
func Exit(err error) {
	var err2 Err
	if !errors.As(err, &err2) {
		os.Exit(Other)
	}
	os.Exit(err2.code)
}

// Errorf is NewErr with a format string.
func Errorf(code int, format string, v ...interface{}) Err {
	return Wrap(fmt.Errorf(format, v...), code)
}
