// Package main is the entry point for the digirp CLI/TUI.
package main

import (
	"os"

	"github.com/digirp/digirp/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
