// Package main is the entry point for the kousei CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/kousei/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
