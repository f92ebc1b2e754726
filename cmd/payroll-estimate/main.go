package main

import (
	"errors"
	"fmt"
	"os"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// usageError marks failures to parse the command line.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }

func (e *usageError) Unwrap() error { return e.err }

// exitCode maps a command error onto the process exit status: 2 for
// command-line parsing failures, 1 for everything else.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var uerr *usageError
	if errors.As(err, &uerr) {
		return 2
	}
	return 1
}

func main() {
	root := newRootCommand()
	cmd, err := root.ExecuteC()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if exitCode(err) == 2 {
			fmt.Fprint(os.Stderr, cmd.UsageString())
		}
	}
	os.Exit(exitCode(err))
}
