package main

// Should be initialized before anything else.
// This import line MUST be in the alphabitcally first source code file of
// package main!
import (
	_ "github.com/wcrypt/wcrypt/internal/ensurefds012"

	"fmt"
	"os"
	"runtime"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/wcrypt/wcrypt/internal/configfile"
	"github.com/wcrypt/wcrypt/internal/engine"
	"github.com/wcrypt/wcrypt/internal/exitcodes"
	"github.com/wcrypt/wcrypt/internal/modes"
	"github.com/wcrypt/wcrypt/internal/tlog"
)

// argContainer stores the parsed CLI options and arguments
type argContainer struct {
	debug, init, encrypt, decrypt, info, speed, version, quiet, wpanic,
	help bool
	cipher, mode, config      string
	keybits, scryptn, workers int
	// -extpass, -passfile can be passed multiple times
	extpass, passfile []string
	// Positional arguments
	in, out string
	// Helper variables that are NOT cli options all start with an underscore
	// _cipher and _mode are the parsed -cipher and -mode values
	_cipher engine.Cipher
	_mode   modes.Mode
	// _explicitScryptn is true then the user passed "-scryptn=xyz"
	_explicitScryptn bool
}

var flagSet *flag.FlagSet

// convertToDoubleDash converts args like "-debug" (Go stdlib `flag` style)
// into "--debug" (spf13/pflag style), so both spellings work.
func convertToDoubleDash(args []string) (out []string) {
	if args == nil {
		return nil
	}
	out = append(out, args...)
	for i, v := range out {
		// Leave "--" alone
		if v == "--" {
			break
		}
		// Leave "-h" and a lone "-" alone
		if len(v) <= 2 {
			continue
		}
		if v[0] == '-' && v[1] != '-' {
			out[i] = "-" + out[i]
		}
	}
	return out
}

// parseCliOpts - parse command line options (i.e. arguments that start with "-")
func parseCliOpts(osArgs []string) (args argContainer, err error) {
	pArgs := convertToDoubleDash(osArgs)

	flagSet = flag.NewFlagSet(tlog.ProgramName, flag.ContinueOnError)
	flagSet.Usage = func() {}
	flagSet.SetOutput(os.Stderr)
	flagSet.SortFlags = false

	flagSet.BoolVarP(&args.debug, "debug", "d", false, "Enable debug output")
	flagSet.BoolVarP(&args.help, "help", "h", false, "Show this help text")
	flagSet.BoolVar(&args.init, "init", false, "Create a new config file")
	flagSet.BoolVar(&args.encrypt, "encrypt", false, "Encrypt IN to OUT")
	flagSet.BoolVar(&args.decrypt, "decrypt", false, "Decrypt IN to OUT")
	flagSet.BoolVar(&args.info, "info", false, "Display information about a config file")
	flagSet.BoolVar(&args.speed, "speed", false, "Run crypto speed test")
	flagSet.BoolVar(&args.version, "version", false, "Print version and exit")
	flagSet.BoolVarP(&args.quiet, "quiet", "q", false, "Quiet - silence informational messages")
	flagSet.BoolVar(&args.wpanic, "wpanic", false, "When encountering a warning, panic and exit immediately")

	flagSet.StringVar(&args.cipher, "cipher", engine.AES.String(), "Block cipher for -init: aes, des, tripledes, blowfish")
	flagSet.StringVar(&args.mode, "mode", modes.CBC.String(), "Chaining mode for -init: ecb, cbc, cfb, ofb, ctr")
	flagSet.StringVar(&args.config, "config", "", "Use specified config file")

	// multipleStrings options ([]string)
	flagSet.StringArrayVar(&args.extpass, "extpass", nil, "Use external program for the password prompt")
	flagSet.StringArrayVar(&args.passfile, "passfile", nil, "Read password from file")

	flagSet.IntVar(&args.keybits, "keybits", 0, "Key length in bits for -init (default depends on the cipher)")
	flagSet.IntVar(&args.workers, "workers", runtime.NumCPU(), "Number of parallel workers for ECB, CTR and CBC/CFB decryption")
	flagSet.IntVar(&args.scryptn, "scryptn", configfile.ScryptDefaultLogN, "scrypt cost parameter logN. Possible values: 10-28. "+
		"A lower value speeds up unlocking and reduces its memory needs, but makes the password susceptible to brute-force attacks")

	// Actual parsing
	if err = flagSet.Parse(pArgs[1:]); err != nil {
		return args, exitcodes.Errorf(exitcodes.Usage, "Invalid command line: %s: %v. Try '%s -help'.",
			prettyArgs(osArgs), err, tlog.ProgramName)
	}
	// We want to know if -scryptn was passed explicitly
	args._explicitScryptn = flagSet.Changed("scryptn")
	if args.workers < 1 {
		return args, exitcodes.Errorf(exitcodes.Usage, "-workers must be at least 1, got %d", args.workers)
	}
	if args.help || args.version || args.speed {
		return args, nil
	}
	if n := countOpFlags(&args); n != 1 {
		return args, exitcodes.Errorf(exitcodes.Usage, "Exactly one of -init, -encrypt, -decrypt, -info must be given (got %d)", n)
	}
	if len(args.extpass) > 0 && len(args.passfile) != 0 {
		return args, exitcodes.NewErr("The options -extpass and -passfile cannot be used at the same time", exitcodes.Usage)
	}
	switch {
	case args.init, args.info:
		// The config file may be passed positionally
		if args.config == "" && flagSet.NArg() == 1 {
			args.config = flagSet.Arg(0)
		} else if flagSet.NArg() != 0 {
			return args, exitcodes.Errorf(exitcodes.Usage, "Wrong number of arguments (have %d, want 1)", flagSet.NArg())
		}
		if args.config == "" {
			return args, exitcodes.NewErr("Missing config file argument", exitcodes.Usage)
		}
	case args.encrypt, args.decrypt:
		if flagSet.NArg() != 2 {
			return args, exitcodes.Errorf(exitcodes.Usage, "Wrong number of arguments (have %d, want 2: IN OUT)", flagSet.NArg())
		}
		args.in = flagSet.Arg(0)
		args.out = flagSet.Arg(1)
		if args.config == "" {
			args.config = configfile.ConfDefaultName
		}
	}
	if args.init {
		if err = parseInitOpts(&args); err != nil {
			return args, err
		}
	}
	return args, nil
}

// parseInitOpts checks -cipher, -mode and -keybits and fills in the default
// key length for the cipher.
func parseInitOpts(args *argContainer) (err error) {
	args._cipher, err = engine.ParseCipher(args.cipher)
	if err != nil {
		return exitcodes.Wrap(err, exitcodes.Cipher)
	}
	args._mode, err = modes.Parse(args.mode)
	if err != nil {
		return exitcodes.Wrap(err, exitcodes.Cipher)
	}
	if args.keybits == 0 {
		args.keybits = args._cipher.DefaultKeyWords() * 32
	}
	if args.keybits%32 != 0 || !args._cipher.KeyWordsValid(args.keybits/32) {
		return exitcodes.Errorf(exitcodes.Cipher, "-keybits=%d is not valid for %s", args.keybits, args._cipher)
	}
	return nil
}

// prettyArgs pretty-prints the command-line arguments.
func prettyArgs(osArgs []string) string {
	pa := fmt.Sprintf("%q", osArgs)
	// Get rid of "[" and "]"
	pa = pa[1 : len(pa)-1]
	return strings.TrimSpace(pa)
}

// countOpFlags counts the number of operation flags we were passed.
func countOpFlags(args *argContainer) int {
	var count int
	for _, f := range []bool{args.init, args.encrypt, args.decrypt, args.info} {
		if f {
			count++
		}
	}
	return count
}
