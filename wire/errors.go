package wire

import (
	"errors"
	"fmt"

	"github.com/anirudhraja/gdvariant/registry"
)

// Decoding/encoding errors, matched with errors.Is
var (
	ErrTruncatedBuffer    = errors.New("wire: truncated buffer")
	ErrUnsupportedType    = errors.New("wire: unsupported type")
	ErrInvalidText        = errors.New("wire: invalid UTF-8 text")
	ErrUnsupportedVariant = errors.New("wire: unsupported variant")
	ErrMaxDepth           = errors.New("wire: maximum nesting depth exceeded")
	ErrInvalidPadding     = errors.New("wire: non-zero string padding")
)

var errEmptyBuffer = fmt.Errorf("%w: empty buffer", ErrTruncatedBuffer)

func truncated(need, have int, what string) error {
	return fmt.Errorf("%w: need %d bytes for %s, have %d", ErrTruncatedBuffer, need, what, have)
}

func unsupportedCode(err error) error {
	return fmt.Errorf("%w: %w", ErrUnsupportedType, err)
}

func unsupportedInfo(info registry.TypeInfo) error {
	return fmt.Errorf("%w: %s (code %d)", ErrUnsupportedType, info.Name, info.Code)
}

// DecodeError carries the position of a decoding failure.
type DecodeError struct {
	Offset int      // offset of the failing value from the start of the buffer
	Path   []string // entry path from the outermost dictionary, e.g. ["[2].value", "[0].key"]
	Err    error    // underlying error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("decode at offset %d: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("decode %s at offset %d: %v", FormatPath(e.Path), e.Offset, e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// EncodeError carries the entry path of an encoding failure.
type EncodeError struct {
	Path []string
	Err  error
}

// Error implements the error interface.
func (e *EncodeError) Error() string {
	if len(e.Path) == 0 {
		return fmt.Sprintf("encode: %v", e.Err)
	}
	return fmt.Sprintf("encode %s: %v", FormatPath(e.Path), e.Err)
}

// Unwrap returns the underlying error.
func (e *EncodeError) Unwrap() error {
	return e.Err
}

// wrapDecodePath prefixes an entry segment onto a decode error's path
func wrapDecodePath(err error, segment string) error {
	if err == nil {
		return nil
	}

	var de *DecodeError
	if errors.As(err, &de) {
		return &DecodeError{
			Offset: de.Offset,
			Path:   append([]string{segment}, de.Path...),
			Err:    de.Err,
		}
	}

	return &DecodeError{
		Path: []string{segment},
		Err:  err,
	}
}

// wrapEncodePath prefixes an entry segment onto an encode error's path
func wrapEncodePath(err error, segment string) error {
	if err == nil {
		return nil
	}

	var ee *EncodeError
	if errors.As(err, &ee) {
		return &EncodeError{
			Path: append([]string{segment}, ee.Path...),
			Err:  ee.Err,
		}
	}

	return &EncodeError{
		Path: []string{segment},
		Err:  err,
	}
}

func entrySegment(index int, part string) string {
	return fmt.Sprintf("[%d].%s", index, part)
}
