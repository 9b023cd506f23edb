// Copyright 2026 The Trible Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"strings"
	"testing"

	"github.com/spf13/pflag"
)

func TestDispatchToSubcommand(t *testing.T) {
	ran := false
	root := &Command{
		Name: "tool",
		Subcommands: []*Command{{
			Name: "go",
			Run: func(args []string) error {
				ran = true
				return nil
			},
		}},
	}

	if err := root.Execute([]string{"go"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !ran {
		t.Fatal("subcommand did not run")
	}
}

func TestUnknownSubcommandFails(t *testing.T) {
	root := &Command{
		Name:        "tool",
		Subcommands: []*Command{{Name: "real", Run: func([]string) error { return nil }}},
	}
	err := root.Execute([]string{"bogus"})
	if err == nil || !strings.Contains(err.Error(), "bogus") {
		t.Fatalf("error = %v, want mention of the unknown command", err)
	}
}

func TestFlagsParseBeforeRun(t *testing.T) {
	var level string
	var got []string
	cmd := &Command{
		Name: "run",
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("run", pflag.ContinueOnError)
			flags.StringVar(&level, "level", "info", "")
			return flags
		},
		Run: func(args []string) error {
			got = args
			return nil
		},
	}

	if err := cmd.Execute([]string{"--level", "debug", "positional"}); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if level != "debug" {
		t.Fatalf("level = %q", level)
	}
	if len(got) != 1 || got[0] != "positional" {
		t.Fatalf("args = %v", got)
	}
}

func TestUnknownFlagFails(t *testing.T) {
	cmd := &Command{
		Name: "run",
		Flags: func() *pflag.FlagSet {
			return pflag.NewFlagSet("run", pflag.ContinueOnError)
		},
		Run: func([]string) error { return nil },
	}
	if err := cmd.Execute([]string{"--nonsense"}); err == nil {
		t.Fatal("unknown flag accepted")
	}
}

func TestSubcommandRequiredWithoutArgs(t *testing.T) {
	root := &Command{
		Name:        "tool",
		Subcommands: []*Command{{Name: "sub", Run: func([]string) error { return nil }}},
	}
	if err := root.Execute(nil); err == nil {
		t.Fatal("missing subcommand accepted")
	}
}

func TestHelpOutputListsSubcommands(t *testing.T) {
	root := &Command{
		Name:    "tool",
		Summary: "does things",
		Subcommands: []*Command{
			{Name: "alpha", Summary: "first thing"},
			{Name: "beta", Summary: "second thing"},
		},
	}

	var out strings.Builder
	root.PrintHelp(&out)
	help := out.String()
	for _, expect := range []string{"alpha", "first thing", "beta", "second thing", "tool <command>"} {
		if !strings.Contains(help, expect) {
			t.Errorf("help output missing %q:\n%s", expect, help)
		}
	}
}
