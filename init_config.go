package main

import (
	"fmt"
	"os"

	"github.com/wcrypt/wcrypt/internal/configfile"
	"github.com/wcrypt/wcrypt/internal/exitcodes"
	"github.com/wcrypt/wcrypt/internal/modes"
	"github.com/wcrypt/wcrypt/internal/readpassword"
	"github.com/wcrypt/wcrypt/internal/tlog"
)

// initConfig creates a new config file at args.config that protects a
// freshly derived key for args._cipher/args._mode with a password.
// This is called when you pass the "-init" option.
func initConfig(args *argContainer) error {
	if _, err := os.Stat(args.config); err == nil {
		return exitcodes.Errorf(exitcodes.Init, "Config file %q already exists", args.config)
	}
	if args._mode == modes.ECB {
		tlog.Warn.Printf("ECB mode leaks patterns in the plaintext, consider -mode cbc or ctr")
	}
	if len(args.extpass) == 0 && len(args.passfile) == 0 {
		tlog.Info.Printf("Choose a password for protecting your files.")
	} else {
		tlog.Info.Printf("Using password provided via -extpass or -passfile.")
	}
	password, err := readpassword.Twice(args.extpass, args.passfile)
	if err != nil {
		return err
	}
	creator := tlog.ProgramName + " " + GitVersion
	err = configfile.Create(args.config, password, args._cipher, args._mode, args.keybits, args.scryptn, creator)
	for i := range password {
		password[i] = 0
	}
	if err != nil {
		return err
	}
	tlog.Info.Printf(tlog.ColorGreen+"Created %s: %s-%d in %s mode."+tlog.ColorReset,
		args.config, args._cipher, args.keybits, args._mode)
	tlog.Info.Printf(tlog.ColorGrey+"You can now encrypt files using: %s -encrypt -config %s IN OUT"+tlog.ColorReset,
		tlog.ProgramName, args.config)
	return nil
}

// info pretty-prints the contents of the config file at "filename" for human
// consumption, stripping out sensitive data.
// This is called when you pass the "-info" option.
func info(filename string) error {
	_, cf, err := configfile.Load(filename, nil)
	if err != nil {
		return err
	}
	s := cf.ScryptObject
	c, m := cf.ParsedCipher()
	// Pretty-print
	fmt.Printf("Creator:      %s\n", cf.Creator)
	fmt.Printf("Version:      %d\n", cf.Version)
	fmt.Printf("Cipher:       %s-%d (%d-byte blocks)\n", c, cf.KeyBits, c.BlockWords()*4)
	fmt.Printf("Mode:         %s\n", m)
	fmt.Printf("KeyCheck:     %dB\n", len(cf.KeyCheck))
	fmt.Printf("ScryptObject: Salt=%dB N=%d R=%d P=%d KeyLen=%d\n",
		len(s.Salt), s.N, s.R, s.P, s.KeyLen)
	return nil
}
