// Copyright 2026 The Stele Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/stele-foundation/stele/cmd/stele/cli"
	"github.com/stele-foundation/stele/lib/frame"
)

func inspectCommand() *cli.Command {
	return &cli.Command{
		Name:    "inspect",
		Summary: "Print a framed archive's header, sizes, and metadata",
		Usage:   "stele inspect <file>",
		Examples: []cli.Example{
			{Description: "Show what a frame contains without unpacking it", Command: "stele inspect snapshot.stele"},
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one file argument")
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			f, err := frame.Inspect(data)
			if err != nil {
				return fmt.Errorf("parsing %s: %w", args[0], err)
			}

			tw := tabwriter.NewWriter(os.Stdout, 2, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "version:\t%d\n", f.Header.Version)
			fmt.Fprintf(tw, "compression:\t%s\n", f.Header.Compression)
			fmt.Fprintf(tw, "root size:\t%d\n", f.Header.RootSize)
			fmt.Fprintf(tw, "stored size:\t%d\n", f.StoredSize)
			fmt.Fprintf(tw, "frame size:\t%d\n", len(data))
			fmt.Fprintf(tw, "checksum:\t%s\n", f.Checksum)
			if f.Metadata != nil {
				var metadata map[string]any
				if err := frame.UnmarshalMetadata(f.Metadata, &metadata); err != nil {
					return fmt.Errorf("decoding metadata: %w", err)
				}
				keys := make([]string, 0, len(metadata))
				for key := range metadata {
					keys = append(keys, key)
				}
				sort.Strings(keys)
				for _, key := range keys {
					fmt.Fprintf(tw, "metadata.%s:\t%v\n", key, metadata[key])
				}
			}
			return tw.Flush()
		},
	}
}
