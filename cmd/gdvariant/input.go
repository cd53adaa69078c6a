package main

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"unicode"
)

// readInput returns the contents of the file named by the last element of
// args when it is a regular file, otherwise everything on stdin. With
// hexMode the data is hex text and is decoded to binary. The args left after
// removing a consumed file path are returned for the caller to check.
func readInput(args []string, stdin io.Reader, hexMode bool) ([]byte, []string, error) {
	var data []byte
	remainingArgs := args

	if length := len(args); length > 0 {
		candidate := args[length-1]
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			data, err = os.ReadFile(candidate)
			if err != nil {
				return nil, nil, fmt.Errorf("read %s: %w", candidate, err)
			}
			remainingArgs = args[:length-1]
		}
	}

	if data == nil {
		var err error
		data, err = io.ReadAll(stdin)
		if err != nil {
			return nil, nil, fmt.Errorf("read stdin: %w", err)
		}
	}

	if hexMode {
		decoded, err := decodeHexInput(data)
		if err != nil {
			return nil, nil, err
		}
		data = decoded
	}

	return data, remainingArgs, nil
}

// decodeHexInput strips whitespace from hex text and decodes it, so both
// "02 00 00 00" and "02000000" are accepted.
func decodeHexInput(data []byte) ([]byte, error) {
	cleaned := bytes.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, data)

	if len(cleaned) == 0 {
		return nil, fmt.Errorf("empty input after stripping whitespace from hex")
	}

	decoded := make([]byte, hex.DecodedLen(len(cleaned)))
	count, err := hex.Decode(decoded, cleaned)
	if err != nil {
		return nil, fmt.Errorf("decode hex: %w", err)
	}
	return decoded[:count], nil
}

// readBinary reads Variant input and rejects stray positional arguments
func (a *app) readBinary(command string, args []string, hexMode bool) ([]byte, error) {
	data, remainingArgs, err := readInput(args, a.stdin, hexMode)
	if err != nil {
		return nil, err
	}
	if len(remainingArgs) > 0 {
		return nil, fmt.Errorf("%s takes no positional arguments besides an optional file path, got %q", command, remainingArgs[0])
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty input: expected Variant data")
	}
	a.logger.Debug().Int("bytes", len(data)).Bool("hex", hexMode).Msg("read input")
	return data, nil
}

// writeHex writes data as one line of lowercase hex
func writeHex(w io.Writer, data []byte) error {
	_, err := fmt.Fprintln(w, hex.EncodeToString(data))
	return err
}
