// Copyright 2026 The Stele Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestExecuteDispatchesSubcommand(t *testing.T) {
	var ran []string
	root := &Command{
		Name: "stele",
		Subcommands: []*Command{
			{Name: "inspect", Run: func(args []string) error {
				ran = append(ran, "inspect")
				ran = append(ran, args...)
				return nil
			}},
		},
	}
	if err := root.Execute([]string{"inspect", "file.stele"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if len(ran) != 2 || ran[0] != "inspect" || ran[1] != "file.stele" {
		t.Errorf("ran = %v", ran)
	}
}

func TestExecuteSuggestsForTypo(t *testing.T) {
	root := &Command{
		Name: "stele",
		Subcommands: []*Command{
			{Name: "inspect", Run: func([]string) error { return nil }},
			{Name: "verify", Run: func([]string) error { return nil }},
		},
	}
	err := root.Execute([]string{"veriy"})
	if err == nil {
		t.Fatal("unknown command accepted")
	}
	if !strings.Contains(err.Error(), `"verify"`) {
		t.Errorf("error %q does not suggest verify", err)
	}
}

func TestExecuteParsesFlags(t *testing.T) {
	var verbose bool
	var got []string
	command := &Command{
		Name: "verify",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("verify", pflag.ContinueOnError)
			flags.BoolVarP(&verbose, "verbose", "v", false, "")
			return flags
		},
		Run: func(args []string) error {
			got = args
			return nil
		},
	}
	if err := command.Execute([]string{"--verbose", "file.stele"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !verbose {
		t.Error("--verbose not parsed")
	}
	if len(got) != 1 || got[0] != "file.stele" {
		t.Errorf("args = %v", got)
	}
}

func TestExecuteRequiresSubcommand(t *testing.T) {
	root := &Command{
		Name:        "stele",
		Subcommands: []*Command{{Name: "inspect", Run: func([]string) error { return nil }}},
	}
	if err := root.Execute(nil); err == nil {
		t.Error("missing subcommand accepted")
	}
}

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"verify", "verify", 0},
		{"veriy", "verify", 1},
		{"inspcet", "inspect", 2},
		{"pack", "unpack", 2},
		{"abc", "", 3},
	}
	for _, c := range cases {
		if got := levenshtein(c.a, c.b); got != c.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}
