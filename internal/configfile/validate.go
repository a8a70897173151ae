package configfile

import (
	"fmt"

	"github.com/wcrypt/wcrypt/internal/contentenc"
	"github.com/wcrypt/wcrypt/internal/engine"
	"github.com/wcrypt/wcrypt/internal/modes"
)

// Validate that the combination of settings makes sense and is supported
func (cf *ConfFile) Validate() error {
	if cf.Version != contentenc.CurrentVersion {
		return fmt.Errorf("Unsupported file format %d", cf.Version)
	}
	// scrypt params ok?
	if err := cf.ScryptObject.validateParams(); err != nil {
		return err
	}
	c, err := engine.ParseCipher(cf.Cipher)
	if err != nil {
		return err
	}
	if _, err := modes.Parse(cf.Mode); err != nil {
		return err
	}
	if cf.KeyBits <= 0 || cf.KeyBits%32 != 0 || !c.KeyWordsValid(cf.KeyBits/32) {
		return fmt.Errorf("%d-bit keys are not supported by %v", cf.KeyBits, c)
	}
	// KeyCheck is only absent while the config is being created
	if cf.KeyCheck != nil && len(cf.KeyCheck) != keyCheckLen {
		return fmt.Errorf("KeyCheck has length %d, want %d", len(cf.KeyCheck), keyCheckLen)
	}
	return nil
}
