package main

import (
	"fmt"
	"io"

	"github.com/anirudhraja/gdvariant/bridge"
	"github.com/anirudhraja/gdvariant/internal/config"
	"github.com/anirudhraja/gdvariant/variant"
)

func runDecode(a *app, args []string) error {
	var hexInput, all bool
	var output string
	indent := a.cfg.IndentJSON

	flagSet := newCommandFlags("decode")
	flagSet.BoolVarP(&hexInput, "hex", "x", false, "treat input as hex text")
	flagSet.BoolVarP(&all, "all", "a", false, "decode every value packed back to back")
	flagSet.StringVarP(&output, "output", "o", a.cfg.Output, "output format: yaml, json, cbor, cbor-diag, hex")
	flagSet.BoolVar(&indent, "indent", indent, "indent JSON output")
	if done, err := a.parseCommandFlags(flagSet, args); done || err != nil {
		return err
	}
	if err := config.ValidateOutput(output); err != nil {
		return err
	}

	data, err := a.readBinary("decode", flagSet.Args(), hexInput)
	if err != nil {
		return err
	}

	var values []variant.Value
	if all {
		values, err = a.codec.DecodeAll(data)
		if err != nil {
			return err
		}
	} else {
		value, consumed, err := a.codec.Decode(data)
		if err != nil {
			return err
		}
		if consumed != len(data) {
			return fmt.Errorf("%d trailing bytes after %s at offset %d (use --all for packed values)",
				len(data)-consumed, value.Kind(), consumed)
		}
		values = []variant.Value{value}
	}
	a.logger.Debug().Int("values", len(values)).Str("output", output).Msg("decoded")

	return a.writeValues(values, output, indent)
}

// writeValues renders decoded values in the requested format
func (a *app) writeValues(values []variant.Value, format string, indent bool) error {
	w := a.stdout
	switch format {
	case "yaml":
		return bridge.WriteYAMLStream(w, values)

	case "json":
		for i, v := range values {
			data, err := bridge.MarshalJSON(v, indent)
			if err != nil {
				return fmt.Errorf("value %d: %w", i, err)
			}
			if _, err := fmt.Fprintf(w, "%s\n", data); err != nil {
				return err
			}
		}
		return nil

	case "cbor", "cbor-diag":
		var sequence []byte
		for i, v := range values {
			data, err := bridge.ToCBOR(v)
			if err != nil {
				return fmt.Errorf("value %d: %w", i, err)
			}
			sequence = append(sequence, data...)
		}
		if format == "cbor" {
			_, err := w.Write(sequence)
			return err
		}
		notation, err := bridge.DiagnoseCBOR(sequence)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, notation)
		return err

	case "hex":
		for _, v := range values {
			data, err := a.codec.Encode(v)
			if err != nil {
				return err
			}
			if err := writeHex(w, data); err != nil {
				return err
			}
		}
		return nil
	}
	return config.ValidateOutput(format)
}
