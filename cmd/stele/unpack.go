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

func unpackCommand() *cli.Command {
	var verbose bool

	return &cli.Command{
		Name:    "unpack",
		Summary: "Extract the raw archive buffer from a frame",
		Usage:   "stele unpack [flags] <input> <output>",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("unpack", pflag.ContinueOnError)
			flags.BoolVarP(&verbose, "verbose", "v", false, "debug-level diagnostics")
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("expected input and output file arguments")
			}
			logger := cli.NewCommandLogger(verbose).With("command", "unpack", "input", args[0])

			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			f, err := frame.Unpack(data)
			if err != nil {
				return fmt.Errorf("unpacking %s: %w", args[0], err)
			}
			logger.Debug("frame unpacked",
				"payload_size", len(f.Payload),
				"compression", f.Header.Compression.String())

			return os.WriteFile(args[1], f.Payload, 0o644)
		},
	}
}
