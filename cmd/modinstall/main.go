package main

import (
	"fmt"
	"os"

	"github.com/sims4tools/modinstall/pkg/errors"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(errors.ExitCode(err))
	}
}
