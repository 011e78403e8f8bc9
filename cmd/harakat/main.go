// Package main is the entry point for the harakat CLI.
package main

import (
	"os"

	"github.com/f3rmion/harakat/cmd/harakat/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
