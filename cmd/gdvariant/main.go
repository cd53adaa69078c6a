// gdvariant inspects and produces Godot Variant binary buffers.
//
// Binary input comes from a file named as the last argument or from stdin;
// --hex accepts hex text instead. Subcommands:
//
//	decode    binary -> yaml, json, cbor, cbor-diag or hex
//	encode    YAML documents -> binary
//	diag      offset/type/length listing of every value and nested entry
//	validate  check that re-encoding reproduces the input byte for byte
//	types     list the type codes of the selected protocol
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/anirudhraja/gdvariant"
	"github.com/anirudhraja/gdvariant/internal/config"
	"github.com/anirudhraja/gdvariant/internal/logging"
	"github.com/anirudhraja/gdvariant/registry"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// app carries what every subcommand needs
type app struct {
	cfg    config.Config
	codec  *gdvariant.Codec
	logger zerolog.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

type command struct {
	summary string
	run     func(a *app, args []string) error
}

var commands = map[string]command{
	"decode":   {"decode a Variant buffer into a readable format", runDecode},
	"encode":   {"encode YAML documents into a Variant buffer", runEncode},
	"diag":     {"list offset, type and length of every value", runDiag},
	"validate": {"check that a buffer re-encodes byte for byte", runValidate},
	"types":    {"list the type codes of the selected protocol", runTypes},
}

var commandOrder = []string{"decode", "encode", "diag", "validate", "types"}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	var protocolFlag, configPath, logLevel string

	flagSet := pflag.NewFlagSet("gdvariant", pflag.ContinueOnError)
	flagSet.SetOutput(stderr)
	flagSet.SetInterspersed(false)
	flagSet.StringVarP(&protocolFlag, "protocol", "p", "", "type numbering: godot3 (default) or godot4")
	flagSet.StringVarP(&configPath, "config", "c", "", "path to a TOML config file")
	flagSet.StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error, off")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			printHelp(stderr, flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(stderr, flagSet)
		return nil
	}

	rest := flagSet.Args()
	if len(rest) == 0 {
		printHelp(stderr, flagSet)
		return fmt.Errorf("missing command")
	}
	cmd, ok := commands[rest[0]]
	if !ok {
		return fmt.Errorf("unknown command %q", rest[0])
	}

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if flagSet.Changed("protocol") {
		p, err := registry.ParseProtocol(protocolFlag)
		if err != nil {
			return err
		}
		cfg.Protocol = p
	}
	if flagSet.Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	logCfg := logging.DefaultConfig(logging.ProfileRuntime)
	if cfg.LogLevel != "" {
		level, ok := logging.ParseLevel(cfg.LogLevel)
		if !ok {
			return fmt.Errorf("unknown log level %q", cfg.LogLevel)
		}
		logCfg.Level = level
	}
	logger := logging.New(stderr, logCfg).With().Str("command", rest[0]).Logger()

	a := &app{
		cfg:    cfg,
		codec:  gdvariant.NewWithProtocol(cfg.Protocol).WithConfig(cfg.WireConfig(logger)),
		logger: logger,
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}
	logger.Debug().
		Str("protocol", cfg.Protocol.String()).
		Int("max_depth", cfg.MaxDepth).
		Bool("strict_padding", cfg.StrictPadding).
		Msg("configured")

	return cmd.run(a, rest[1:])
}

func printHelp(w io.Writer, flagSet *pflag.FlagSet) {
	fmt.Fprintf(w, `gdvariant: inspect and produce Godot Variant binary buffers.

Usage:
  gdvariant [global flags] <command> [flags] [file]

Commands:
`)
	for _, name := range commandOrder {
		fmt.Fprintf(w, "  %-9s %s\n", name, commands[name].summary)
	}
	fmt.Fprintf(w, "\nGlobal flags:\n%s", flagSet.FlagUsages())
}

func newCommandFlags(name string) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("gdvariant "+name, pflag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	return flagSet
}

// parseCommandFlags parses a subcommand's flags. The returned done is true
// when help was requested and printed.
func (a *app) parseCommandFlags(flagSet *pflag.FlagSet, args []string) (done bool, err error) {
	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			fmt.Fprintf(a.stderr, "Usage of %s:\n%s", flagSet.Name(), flagSet.FlagUsages())
			return true, nil
		}
		return false, err
	}
	return false, nil
}
