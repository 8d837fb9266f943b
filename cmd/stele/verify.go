// Copyright 2026 The Stele Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"

	"github.com/spf13/pflag"

	"github.com/stele-foundation/stele/cmd/stele/cli"
	"github.com/stele-foundation/stele/lib/frame"
)

func verifyCommand() *cli.Command {
	var verbose bool

	return &cli.Command{
		Name:    "verify",
		Summary: "Unpack a framed archive and verify its checksum",
		Usage:   "stele verify [flags] <file>",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("verify", pflag.ContinueOnError)
			flags.BoolVarP(&verbose, "verbose", "v", false, "debug-level diagnostics")
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one file argument")
			}
			logger := cli.NewCommandLogger(verbose).With("command", "verify", "file", args[0])

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			f, err := frame.Unpack(data)
			if err != nil {
				return fmt.Errorf("verifying %s: %w", args[0], err)
			}
			logger.Debug("frame unpacked",
				"compression", f.Header.Compression.String(),
				"stored_size", f.StoredSize,
				"payload_size", len(f.Payload),
				"root_size", f.Header.RootSize,
				"checksum", f.Checksum.String())

			fmt.Printf("%s: OK (%s, %d byte payload, checksum %s)\n",
				args[0], f.Header.Compression, len(f.Payload), f.Checksum)
			return nil
		},
	}
}
