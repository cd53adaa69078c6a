package main

import (
	"bytes"
	"fmt"

	"github.com/anirudhraja/gdvariant/bridge"
)

// runEncode reads a YAML stream and writes one Variant per document
func runEncode(a *app, args []string) error {
	var hexOutput bool

	flagSet := newCommandFlags("encode")
	flagSet.BoolVarP(&hexOutput, "hex", "x", false, "write hex text instead of binary")
	if done, err := a.parseCommandFlags(flagSet, args); done || err != nil {
		return err
	}

	text, remainingArgs, err := readInput(flagSet.Args(), a.stdin, false)
	if err != nil {
		return err
	}
	if len(remainingArgs) > 0 {
		return fmt.Errorf("encode takes no positional arguments besides an optional file path, got %q", remainingArgs[0])
	}

	values, err := bridge.UnmarshalYAMLStream(bytes.NewReader(text))
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return fmt.Errorf("empty input: expected at least one YAML document")
	}

	data, err := a.codec.EncodeAll(values...)
	if err != nil {
		return err
	}
	a.logger.Debug().Int("values", len(values)).Int("bytes", len(data)).Msg("encoded")

	if hexOutput {
		return writeHex(a.stdout, data)
	}
	_, err = a.stdout.Write(data)
	return err
}
