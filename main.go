package main

import (
	stderrors "errors"
	"fmt"
	"os"

	"github.com/mcncl/typedjson/internal/cli"
	"github.com/mcncl/typedjson/internal/errors"
)

func main() {
	os.Exit(run(os.Args[1:], cli.StdStreams()))
}

// run executes the command line and returns the process exit code
func run(args []string, streams cli.Streams) int {
	exitCode := -1
	err := cli.Execute(args, streams, func(code int) { exitCode = code })
	if exitCode >= 0 {
		return exitCode
	}
	if err == nil {
		return 0
	}

	// diff reports a difference through its exit code only
	if stderrors.Is(err, errors.ErrNotEqual) {
		return 1
	}

	fmt.Fprintf(streams.Err, "%s\n", errors.UserFriendlyError(err))
	fmt.Fprintf(streams.Err, "\nFor help, run: typedjson --help\n")
	return 1
}
