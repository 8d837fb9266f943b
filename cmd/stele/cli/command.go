// Copyright 2026 The Stele Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli implements the small command framework the stele tool
// is built on: a tree of named commands with pflag flag sets,
// structured help output, and typo suggestions for unknown
// subcommands.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/pflag"
)

// Command is one CLI command or subcommand.
type Command struct {
	// Name is the command name as typed by the user.
	Name string

	// Summary is a one-line description shown in the parent's help
	// listing.
	Summary string

	// Description is a multi-line description shown in the command's
	// own help output.
	Description string

	// Usage is the usage line. If empty, it is synthesized from the
	// command path.
	Usage string

	// Examples are shown in help output after the flags.
	Examples []Example

	// Flags returns the command's flag set. Called lazily; nil means
	// the command accepts no flags.
	Flags func() *pflag.FlagSet

	// Subcommands are dispatched by the first positional argument.
	Subcommands []*Command

	// Run executes the command with the post-flag-parse arguments.
	Run func(args []string) error

	// parent is set during dispatch to build the full command path.
	parent *Command
}

// Example is a usage example shown in help output.
type Example struct {
	Description string
	Command     string
}

// Execute parses args and dispatches to a subcommand or the Run
// function.
func (c *Command) Execute(args []string) error {
	if len(args) > 0 && isHelpFlag(args[0]) {
		c.PrintHelp(os.Stderr)
		return nil
	}

	if len(c.Subcommands) > 0 && len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		name := args[0]
		for _, sub := range c.Subcommands {
			if sub.Name == name {
				sub.parent = c
				return sub.Execute(args[1:])
			}
		}
		if suggestion := suggest(name, c.Subcommands); suggestion != "" {
			return fmt.Errorf("unknown command %q (did you mean %q?)\n\nRun '%s --help' for usage.",
				name, suggestion, c.fullName())
		}
		return fmt.Errorf("unknown command %q\n\nRun '%s --help' for usage.", name, c.fullName())
	}

	if len(c.Subcommands) > 0 && c.Run == nil {
		c.PrintHelp(os.Stderr)
		if len(args) > 0 && isHelpFlag(args[0]) {
			return nil
		}
		return fmt.Errorf("subcommand required")
	}

	if c.Flags != nil {
		flagSet := c.Flags()
		// The default pflag error output duplicates what we print
		// ourselves.
		flagSet.SetOutput(io.Discard)
		if err := flagSet.Parse(args); err != nil {
			return fmt.Errorf("%s\n\nRun '%s --help' for usage.", err, c.fullName())
		}
		args = flagSet.Args()
	}

	if c.Run != nil {
		return c.Run(args)
	}
	c.PrintHelp(os.Stderr)
	return fmt.Errorf("no action defined for %q", c.fullName())
}

// PrintHelp writes structured help output to w.
func (c *Command) PrintHelp(w io.Writer) {
	name := c.fullName()

	if c.Description != "" {
		fmt.Fprintf(w, "%s\n\n", c.Description)
	} else if c.Summary != "" {
		fmt.Fprintf(w, "%s\n\n", c.Summary)
	}

	switch {
	case c.Usage != "":
		fmt.Fprintf(w, "Usage:\n  %s\n", c.Usage)
	case len(c.Subcommands) > 0:
		fmt.Fprintf(w, "Usage:\n  %s <command> [flags]\n", name)
	default:
		fmt.Fprintf(w, "Usage:\n  %s [flags]\n", name)
	}

	if len(c.Subcommands) > 0 {
		fmt.Fprintf(w, "\nCommands:\n")
		tw := tabwriter.NewWriter(w, 2, 0, 3, ' ', 0)
		for _, sub := range c.Subcommands {
			fmt.Fprintf(tw, "  %s\t%s\n", sub.Name, sub.Summary)
		}
		tw.Flush()
	}

	if c.Flags != nil {
		flagSet := c.Flags()
		var flagHelp strings.Builder
		flagSet.SetOutput(&flagHelp)
		flagSet.PrintDefaults()
		if flagHelp.Len() > 0 {
			fmt.Fprintf(w, "\nFlags:\n%s", flagHelp.String())
		}
	}

	if len(c.Examples) > 0 {
		fmt.Fprintf(w, "\nExamples:\n")
		for _, example := range c.Examples {
			if example.Description != "" {
				fmt.Fprintf(w, "  # %s\n", example.Description)
			}
			fmt.Fprintf(w, "  %s\n", example.Command)
		}
	}

	if len(c.Subcommands) > 0 {
		fmt.Fprintf(w, "\nRun '%s <command> --help' for more information on a command.\n", name)
	}
}

func (c *Command) fullName() string {
	if c.parent == nil {
		return c.Name
	}
	return c.parent.fullName() + " " + c.Name
}

func isHelpFlag(arg string) bool {
	return arg == "-h" || arg == "--help" || arg == "help"
}

// suggest returns the subcommand name closest to unknown, or "" when
// nothing is within edit distance 3.
func suggest(unknown string, commands []*Command) string {
	bestName := ""
	bestDistance := 4
	for _, command := range commands {
		if distance := levenshtein(unknown, command.Name); distance < bestDistance {
			bestDistance = distance
			bestName = command.Name
		}
	}
	return bestName
}

// levenshtein computes the edit distance between two strings with
// the classic two-row dynamic program.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	previous := make([]int, len(b)+1)
	current := make([]int, len(b)+1)
	for j := range previous {
		previous[j] = j
	}
	for i := 1; i <= len(a); i++ {
		current[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			current[j] = min(previous[j]+1, current[j-1]+1, previous[j-1]+cost)
		}
		previous, current = current, previous
	}
	return previous[len(b)]
}
