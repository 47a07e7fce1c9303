// Package main provides the synkit CLI.
package main

import (
	"os"

	"github.com/leapstack-labs/synkit/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(cli.ExitCode(err))
	}
}
