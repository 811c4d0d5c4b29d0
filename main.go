package main

import (
	"fmt"
	"os"

	"github.com/bnema/zoompan/cmd"
)

// Set by the release build
var (
	version = "0.1.0-dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.Version, cmd.Commit, cmd.Date = version, commit, date
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
