// Copyright 2026 The Trible Authors
// SPDX-License-Identifier: Apache-2.0

// Command trible is the command-line tool for working with trible
// stores: importing JSON documents as facts, inspecting archived fact
// sets, and moving raw blobs in and out of a store.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/pflag"

	"github.com/trible-foundation/trible/cmd/trible/cli"
	"github.com/trible-foundation/trible/lib/config"
)

func main() {
	root := &cli.Command{
		Name:    "trible",
		Summary: "content-addressed fact store tool",
		Description: "trible manages content-addressed fact stores: import JSON\n" +
			"documents as facts, inspect archived fact sets, and store or\n" +
			"retrieve raw blobs.",
		Subcommands: []*cli.Command{
			importCommand(),
			inspectCommand(),
			putCommand(),
			getCommand(),
		},
	}

	if err := root.Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "trible: %v\n", err)
		os.Exit(1)
	}
}

// commonFlags are shared by every subcommand.
type commonFlags struct {
	configPath string
	verbose    bool
}

func (f *commonFlags) register(flags *pflag.FlagSet) {
	flags.StringVar(&f.configPath, "config", "", "config file path (default: $TRIBLE_CONFIG, else built-in defaults)")
	flags.BoolVarP(&f.verbose, "verbose", "v", false, "enable debug logging")
}

// setup configures logging and loads configuration. A missing config
// file is not an error for the CLI: the built-in defaults describe a
// usable per-user store.
func (f *commonFlags) setup() (*config.Config, error) {
	level := slog.LevelInfo
	if f.verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))

	var cfg *config.Config
	var err error
	switch {
	case f.configPath != "":
		cfg, err = config.LoadFile(f.configPath)
	case os.Getenv("TRIBLE_CONFIG") != "":
		cfg, err = config.Load()
	default:
		cfg = config.Default()
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// readInput reads a file argument, with "-" meaning stdin.
func readInput(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func importCommand() *cli.Command {
	var common commonFlags
	return &cli.Command{
		Name:    "import",
		Summary: "import a JSON document as facts",
		Usage:   "trible import [flags] <file>",
		Description: "Import parses a JSON or JSONC document, derives entity\n" +
			"identifiers from content, and stores the resulting facts as an\n" +
			"archive blob. Prints the archive digest and the root entities.",
		Examples: []cli.Example{
			{Description: "import a document from a file", Command: "trible import record.json"},
			{Description: "import from stdin", Command: "cat record.json | trible import -"},
		},
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("import", pflag.ContinueOnError)
			common.register(flags)
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one input file, got %d arguments", len(args))
			}
			cfg, err := common.setup()
			if err != nil {
				return err
			}
			s, err := openSession(cfg)
			if err != nil {
				return err
			}
			document, err := readInput(args[0])
			if err != nil {
				return err
			}
			digest, roots, err := s.Import(document)
			if err != nil {
				return err
			}
			fmt.Println(digest)
			for _, root := range roots {
				fmt.Printf("root %s\n", root)
			}
			return nil
		},
	}
}

func inspectCommand() *cli.Command {
	var common commonFlags
	return &cli.Command{
		Name:    "inspect",
		Summary: "print the facts of an archived fact set",
		Usage:   "trible inspect [flags] <digest>",
		Description: "Inspect decodes the archive blob stored under the given\n" +
			"digest and prints one fact per line in canonical order.",
		Examples: []cli.Example{
			{Command: "trible inspect blake3:4f1e..."},
		},
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("inspect", pflag.ContinueOnError)
			common.register(flags)
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one digest, got %d arguments", len(args))
			}
			cfg, err := common.setup()
			if err != nil {
				return err
			}
			s, err := openSession(cfg)
			if err != nil {
				return err
			}
			return s.Inspect(args[0], os.Stdout)
		},
	}
}

func putCommand() *cli.Command {
	var common commonFlags
	return &cli.Command{
		Name:    "put",
		Summary: "store raw bytes as a blob",
		Usage:   "trible put [flags] <file>",
		Description: "Put stores the file's bytes under their digest and prints\n" +
			"the digest reference. Storing the same content twice is a no-op.",
		Examples: []cli.Example{
			{Command: "trible put notes.txt"},
		},
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("put", pflag.ContinueOnError)
			common.register(flags)
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one input file, got %d arguments", len(args))
			}
			cfg, err := common.setup()
			if err != nil {
				return err
			}
			s, err := openSession(cfg)
			if err != nil {
				return err
			}
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			digest, err := s.Put(data)
			if err != nil {
				return err
			}
			fmt.Println(digest)
			return nil
		},
	}
}

func getCommand() *cli.Command {
	var common commonFlags
	var output string
	return &cli.Command{
		Name:    "get",
		Summary: "retrieve a blob's bytes",
		Usage:   "trible get [flags] <digest>",
		Description: "Get reads the blob stored under the given digest and writes\n" +
			"its bytes to stdout or to --output.",
		Examples: []cli.Example{
			{Command: "trible get blake3:4f1e... --output notes.txt"},
		},
		Flags: func() *pflag.FlagSet {
			flags := pflag.NewFlagSet("get", pflag.ContinueOnError)
			common.register(flags)
			flags.StringVarP(&output, "output", "o", "", "write to file instead of stdout")
			return flags
		},
		Run: func(args []string) error {
			if len(args) != 1 {
				return fmt.Errorf("expected exactly one digest, got %d arguments", len(args))
			}
			cfg, err := common.setup()
			if err != nil {
				return err
			}
			s, err := openSession(cfg)
			if err != nil {
				return err
			}
			data, err := s.Get(args[0])
			if err != nil {
				return err
			}
			if output == "" {
				_, err = os.Stdout.Write(data)
				return err
			}
			return os.WriteFile(output, data, 0o644)
		},
	}
}
