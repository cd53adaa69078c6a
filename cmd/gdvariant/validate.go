package main

import (
	"bytes"
	"fmt"

	"github.com/anirudhraja/gdvariant/variant"
)

// runValidate decodes the input, re-encodes it and compares the bytes.
// Inputs written with a wider flag than a value needs, or with non-zero
// string padding, decode fine but do not re-encode identically.
func runValidate(a *app, args []string) error {
	var hexInput, all bool

	flagSet := newCommandFlags("validate")
	flagSet.BoolVarP(&hexInput, "hex", "x", false, "treat input as hex text")
	flagSet.BoolVarP(&all, "all", "a", false, "validate every value packed back to back")
	if done, err := a.parseCommandFlags(flagSet, args); done || err != nil {
		return err
	}

	data, err := a.readBinary("validate", flagSet.Args(), hexInput)
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
			a.logger.Warn().Int("trailing", len(data)-consumed).Msg("ignoring bytes after the first value")
			data = data[:consumed]
		}
		values = []variant.Value{value}
	}

	reencoded, err := a.codec.EncodeAll(values...)
	if err != nil {
		return fmt.Errorf("re-encode: %w", err)
	}

	if bytes.Equal(data, reencoded) {
		fmt.Fprintln(a.stdout, "valid")
		return nil
	}
	return describeMismatch(data, reencoded)
}

func describeMismatch(original, reencoded []byte) error {
	offset := 0
	minLength := len(original)
	if len(reencoded) < minLength {
		minLength = len(reencoded)
	}
	for offset < minLength {
		if original[offset] != reencoded[offset] {
			break
		}
		offset++
	}

	return fmt.Errorf("not canonical: first difference at byte %d (original %d bytes, re-encoded %d bytes)",
		offset, len(original), len(reencoded))
}
