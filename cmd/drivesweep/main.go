// Package main is the entry point for the drivesweep CLI.
package main

import (
	"fmt"
	"os"

	"github.com/drivesweep/drivesweep/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
