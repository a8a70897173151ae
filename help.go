package main

import (
	"fmt"

	"github.com/wcrypt/wcrypt/internal/tlog"
)

const tUsage = "" +
	"Usage: " + tlog.ProgramName + " -init|-info [OPTIONS] CONFIG\n" +
	"  or   " + tlog.ProgramName + " -encrypt|-decrypt [-config CONFIG] [OPTIONS] IN OUT\n" +
	"  or   " + tlog.ProgramName + " -speed|-version\n"

// helpShort is what gets displayed when passed "-h" or on syntax error.
func helpShort() {
	printVersion()
	fmt.Printf("\n")
	fmt.Printf(tUsage)
	fmt.Printf(`
Options:
  -cipher            Block cipher: aes, des, tripledes, blowfish (with -init)
  -config            Path to config file (default wcrypt.conf)
  -d, -debug         Enable debug output
  -decrypt           Decrypt IN to OUT
  -encrypt           Encrypt IN to OUT
  -extpass           Call external program to prompt for the password
  -h, -help          This short help text
  -init              Create a new config file
  -info              Display information about a config file
  -keybits           Key length in bits (with -init)
  -mode              Chaining mode: ecb, cbc, cfb, ofb, ctr (with -init)
  -passfile          Read password from plain text file(s)
  -q, -quiet         Silence informational messages
  -scryptn           scrypt cost parameter logN (with -init)
  -speed             Run crypto speed test
  -version           Print version information
  -workers           Number of parallel workers
  -wpanic            Panic on warnings
  --                 Stop option parsing

Notes: All options can equivalently use "-" (single dash) or "--" (double dash).
`)
}
