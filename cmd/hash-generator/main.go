// Command hash-generator prints bcrypt hashes of client keys for the
// auth.client_key_hashes setting.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/phrazzld/anyapi/internal/service/auth"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("hash-generator", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cost := fs.Int("cost", 0, "bcrypt cost (0 uses the bcrypt default)")
	fs.Usage = func() {
		fmt.Fprintln(stderr, "usage: hash-generator [-cost n] <client-key>...")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return 2
	}

	status := 0
	for _, key := range fs.Args() {
		hash, err := auth.HashClientKey(key, *cost)
		if err != nil {
			fmt.Fprintf(stderr, "Error generating hash: %v\n", err)
			status = 1
			continue
		}
		fmt.Fprintln(stdout, hash)
	}
	return status
}
