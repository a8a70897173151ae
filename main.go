package main

import (
	"fmt"
	"os"

	"github.com/wcrypt/wcrypt/internal/configfile"
	"github.com/wcrypt/wcrypt/internal/exitcodes"
	"github.com/wcrypt/wcrypt/internal/readpassword"
	"github.com/wcrypt/wcrypt/internal/speed"
	"github.com/wcrypt/wcrypt/internal/tlog"
)

// loadConfig loads the config file `args.config` and derives the cipher key,
// prompting the user for the password.
func loadConfig(args *argContainer) (key []byte, cf *configfile.ConfFile, err error) {
	// Check if the file can be opened at all before prompting for a password
	fd, err := os.Open(args.config)
	if err != nil {
		return nil, nil, exitcodes.Wrap(fmt.Errorf("cannot open config file: %v", err), exitcodes.OpenConf)
	}
	fd.Close()
	pw, err := readpassword.Once(args.extpass, args.passfile, "")
	if err != nil {
		return nil, nil, err
	}
	tlog.Info.Println("Decrypting cipher key")
	key, cf, err = configfile.Load(args.config, pw)
	for i := range pw {
		pw[i] = 0
	}
	if err != nil {
		return nil, nil, err
	}
	return key, cf, nil
}

// run executes the operation selected on the command line.
func run(args *argContainer) error {
	if args.debug {
		tlog.Debug.Enabled = true
	}
	// "-q"
	if args.quiet {
		tlog.Info.Enabled = false
	}
	if args.wpanic {
		tlog.Warn.Wpanic = true
		tlog.Debug.Printf("Panicing on warnings")
	}
	if args._explicitScryptn && !args.init {
		tlog.Warn.Printf("-scryptn is only used together with -init")
	}
	switch {
	case args.help:
		helpShort()
	case args.version:
		printVersion()
	case args.speed:
		speed.Run(args.workers)
	case args.init:
		return initConfig(args)
	case args.info:
		return info(args.config)
	case args.encrypt:
		return encryptFile(args)
	case args.decrypt:
		return decryptFile(args)
	}
	return nil
}

func main() {
	// No arguments at all: show help
	if len(os.Args) == 1 {
		helpShort()
		os.Exit(exitcodes.Usage)
	}
	args, err := parseCliOpts(os.Args)
	if err != nil {
		tlog.Fatal.Println(err)
		exitcodes.Exit(err)
	}
	if err = run(&args); err != nil {
		tlog.Fatal.Println(err)
		exitcodes.Exit(err)
	}
}
