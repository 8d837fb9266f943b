// Copyright 2026 The Stele Authors
// SPDX-License-Identifier: Apache-2.0

// The stele tool inspects and converts framed archive files.
package main

import (
	"fmt"
	"os"

	"github.com/stele-foundation/stele/cmd/stele/cli"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	return root().Execute(os.Args[1:])
}

func root() *cli.Command {
	return &cli.Command{
		Name:        "stele",
		Summary:     "Work with framed stele archives",
		Description: "stele inspects, verifies, and converts framed archive files.",
		Subcommands: []*cli.Command{
			inspectCommand(),
			verifyCommand(),
			packCommand(),
			unpackCommand(),
		},
	}
}
