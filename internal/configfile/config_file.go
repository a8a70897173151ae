// Package configfile reads and writes the JSON config file that records the
// cipher, the chaining mode and the scrypt parameters, and derives the
// cipher key from the password.
package configfile

import (
	"crypto/subtle"
	"encoding/json"
	"os"

	"github.com/wcrypt/wcrypt/internal/contentenc"
	"github.com/wcrypt/wcrypt/internal/cryptocore"
	"github.com/wcrypt/wcrypt/internal/engine"
	"github.com/wcrypt/wcrypt/internal/exitcodes"
	"github.com/wcrypt/wcrypt/internal/modes"
	"github.com/wcrypt/wcrypt/internal/tlog"
)

const (
	// ConfDefaultName is the default configuration file name.
	ConfDefaultName = "wcrypt.conf"
	// keyCheckLen is the length of the password check value.
	keyCheckLen = 16
)

// ConfFile is the content of a config file.
type ConfFile struct {
	// Creator is the wcrypt version string.
	// This only documents the config file for humans who look at it.
	Creator string
	// Version is the file format version the config belongs to
	Version uint16
	// Cipher is the block cipher name, see engine.ParseCipher
	Cipher string
	// Mode is the chaining mode tag, see modes.Parse
	Mode string
	// KeyBits is the cipher key length
	KeyBits int
	// KeyCheck is derived from the scrypt hash and lets us reject a wrong
	// password before any data is decrypted
	KeyCheck []byte
	// ScryptObject stores parameters for scrypt hashing (key derivation)
	ScryptObject ScryptKDF
	// Filename is the name of the config file. Not exported to JSON.
	filename string
}

// Create - create a new config for cipher "c" in mode "m" with a "keyBits"
// key protected by "password" and write it to "filename".
// Uses scrypt with cost parameter logN.
func Create(filename string, password []byte, c engine.Cipher, m modes.Mode, keyBits int, logN int, creator string) error {
	var cf ConfFile
	cf.filename = filename
	cf.Creator = creator
	cf.Version = contentenc.CurrentVersion
	cf.Cipher = c.String()
	cf.Mode = m.String()
	cf.KeyBits = keyBits
	cf.ScryptObject = NewScryptKDF(logN)
	if err := cf.Validate(); err != nil {
		return exitcodes.Wrap(err, exitcodes.Init)
	}
	master, err := cf.ScryptObject.DeriveKey(password)
	if err != nil {
		return err
	}
	cf.KeyCheck = cryptocore.HKDFDerive(master, cryptocore.HKDFInfoKeyCheck, keyCheckLen)
	for i := range master {
		master[i] = 0
	}
	// Write file to disk
	return cf.WriteFile()
}

// Load - read config file from disk and derive the cipher key using
// "password".
// Returns the cipher key and the ConfFile object
//
// If "password" is empty, the config file is read
// but no key is derived (returns nil in its place).
func Load(filename string, password []byte) ([]byte, *ConfFile, error) {
	var cf ConfFile
	cf.filename = filename

	// Read from disk
	js, err := os.ReadFile(filename)
	if err != nil {
		return nil, nil, exitcodes.Wrap(err, exitcodes.OpenConf)
	}

	// Unmarshal
	err = json.Unmarshal(js, &cf)
	if err != nil {
		tlog.Warn.Printf("Failed to unmarshal config file")
		return nil, nil, exitcodes.Wrap(err, exitcodes.LoadConf)
	}
	if err := cf.Validate(); err != nil {
		return nil, nil, exitcodes.Wrap(err, exitcodes.LoadConf)
	}
	if len(password) == 0 {
		// We have validated the config file, but without a password we cannot
		// derive the key. Return only the parsed config.
		return nil, &cf, nil
	}
	master, err := cf.ScryptObject.DeriveKey(password)
	if err != nil {
		return nil, nil, err
	}
	defer func() {
		for i := range master {
			master[i] = 0
		}
	}()
	check := cryptocore.HKDFDerive(master, cryptocore.HKDFInfoKeyCheck, keyCheckLen)
	if subtle.ConstantTimeCompare(check, cf.KeyCheck) != 1 {
		tlog.Warn.Printf("key check value mismatch")
		return nil, nil, exitcodes.NewErr("Password incorrect.", exitcodes.PasswordIncorrect)
	}
	key := cryptocore.HKDFDerive(master, cryptocore.HKDFInfoCipherKey, cf.KeyBits/8)
	return key, &cf, nil
}

// ParsedCipher returns the cipher and mode named in the config. They have
// been checked by Validate.
func (cf *ConfFile) ParsedCipher() (engine.Cipher, modes.Mode) {
	c, _ := engine.ParseCipher(cf.Cipher)
	m, _ := modes.Parse(cf.Mode)
	return c, m
}

// WriteFile - write out config in JSON format to file "filename.tmp"
// then rename over "filename".
// This way an existing config is replaced atomically.
func (cf *ConfFile) WriteFile() error {
	tmp := cf.filename + ".tmp"
	// 0400 permissions: the config should be kept secret and never be written to.
	fd, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0400)
	if err != nil {
		return exitcodes.Wrap(err, exitcodes.WriteConf)
	}
	js, err := json.MarshalIndent(cf, "", "\t")
	if err != nil {
		return err
	}
	// For convenience for the user, add a newline at the end.
	js = append(js, '\n')
	_, err = fd.Write(js)
	if err != nil {
		return exitcodes.Wrap(err, exitcodes.WriteConf)
	}
	err = fd.Sync()
	if err != nil {
		return exitcodes.Wrap(err, exitcodes.WriteConf)
	}
	err = fd.Close()
	if err != nil {
		return exitcodes.Wrap(err, exitcodes.WriteConf)
	}
	err = os.Rename(tmp, cf.filename)
	if err != nil {
		return exitcodes.Wrap(err, exitcodes.WriteConf)
	}
	return nil
}
