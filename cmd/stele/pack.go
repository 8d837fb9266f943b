// Copyright 2026 The Stele Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/stele-foundation/stele/cmd/stele/cli"
	"github.com/stele-foundation/stele/lib/frame"
)

func packCommand() *cli.Command {
	var (
		compression string
		rootSize    int
		metaPairs   []string
		verbose     bool
	)

	return &cli.Command{
		Name:    "pack",
		Summary: "Wrap a raw archive buffer in a frame",
		Usage:   "stele pack [flags] <input> <output>",
		Examples: []cli.Example{
			{Description: "Frame an archive with zstd compression", Command: "stele pack --root-size 24 --compression zstd raw.bin snapshot.stele"},
			{Description: "Attach metadata", Command: "stele pack --root-size 24 --meta schema=note raw.bin snapshot.stele"},
		},
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("pack", pflag.ContinueOnError)
			flags.StringVar(&compression, "compression", "lz4", "payload compression: none, lz4, zstd")
			flags.IntVar(&rootSize, "root-size", 0, "size in bytes of the archive's root record")
			flags.StringArrayVar(&metaPairs, "meta", nil, "metadata entry as key=value, repeatable")
			flags.BoolVarP(&verbose, "verbose", "v", false, "debug-level diagnostics")
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 2 {
				return fmt.Errorf("expected input and output file arguments")
			}
			if rootSize <= 0 {
				return fmt.Errorf("--root-size is required and must be positive")
			}
			tag, err := frame.ParseCompressionTag(compression)
			if err != nil {
				return err
			}

			var metadata map[string]any
			if len(metaPairs) > 0 {
				metadata = make(map[string]any, len(metaPairs))
				for _, pair := range metaPairs {
					key, value, ok := strings.Cut(pair, "=")
					if !ok {
						return fmt.Errorf("metadata entry %q is not key=value", pair)
					}
					metadata[key] = value
				}
			}

			logger := cli.NewCommandLogger(verbose).With("command", "pack", "input", args[0])

			payload, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var meta any
			if metadata != nil {
				meta = metadata
			}
			framed, err := frame.Pack(payload, rootSize, tag, meta)
			if err != nil {
				return fmt.Errorf("framing %s: %w", args[0], err)
			}
			logger.Debug("frame packed",
				"payload_size", len(payload),
				"frame_size", len(framed),
				"compression", tag.String())

			return os.WriteFile(args[1], framed, 0o644)
		},
	}
}
