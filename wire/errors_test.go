package wire

import (
	"errors"
	"fmt"
	"testing"
)

func TestDecodeError(t *testing.T) {
	tests := []struct {
		name     string
		err      *DecodeError
		expected string
	}{
		{
			name:     "no path",
			err:      &DecodeError{Offset: 0, Err: errEmptyBuffer},
			expected: "decode at offset 0: wire: truncated buffer: empty buffer",
		},
		{
			name:     "nested path",
			err:      &DecodeError{Offset: 20, Path: []string{"[2].value", "[0].key"}, Err: ErrInvalidText},
			expected: "decode [2].value[0].key at offset 20: wire: invalid UTF-8 text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestEncodeError(t *testing.T) {
	err := &EncodeError{Path: []string{"[1].key"}, Err: ErrUnsupportedVariant}
	if got, want := err.Error(), "encode [1].key: wire: unsupported variant"; got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
	if !errors.Is(err, ErrUnsupportedVariant) {
		t.Error("expected EncodeError to unwrap to its sentinel")
	}
}

func TestWrapDecodePath(t *testing.T) {
	if wrapDecodePath(nil, "[0].key") != nil {
		t.Error("wrapping nil must return nil")
	}

	base := &DecodeError{Offset: 12, Path: []string{"[0].key"}, Err: ErrTruncatedBuffer}
	wrapped := wrapDecodePath(base, "[3].value")

	var de *DecodeError
	if !errors.As(wrapped, &de) {
		t.Fatalf("expected *DecodeError, got %T", wrapped)
	}
	if got := FormatPath(de.Path); got != "[3].value[0].key" {
		t.Errorf("expected [3].value[0].key, got %s", got)
	}
	if de.Offset != 12 {
		t.Errorf("offset must be preserved, got %d", de.Offset)
	}
	if len(base.Path) != 1 {
		t.Error("wrapping must not modify the original path")
	}

	plain := wrapDecodePath(fmt.Errorf("%w: detail", ErrMaxDepth), "[0].value")
	if !errors.Is(plain, ErrMaxDepth) {
		t.Errorf("expected ErrMaxDepth, got %v", plain)
	}
}

func TestWrapEncodePath(t *testing.T) {
	wrapped := wrapEncodePath(wrapEncodePath(ErrInvalidText, "[0].value"), "[5].key")

	var ee *EncodeError
	if !errors.As(wrapped, &ee) {
		t.Fatalf("expected *EncodeError, got %T", wrapped)
	}
	if got := FormatPath(ee.Path); got != "[5].key[0].value" {
		t.Errorf("expected [5].key[0].value, got %s", got)
	}
	if !errors.Is(wrapped, ErrInvalidText) {
		t.Error("expected ErrInvalidText in chain")
	}
}

func TestSentinelsAreDistinct(t *testing.T) {
	sentinels := []error{
		ErrTruncatedBuffer,
		ErrUnsupportedType,
		ErrInvalidText,
		ErrUnsupportedVariant,
		ErrMaxDepth,
		ErrInvalidPadding,
	}
	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j && errors.Is(a, b) {
				t.Errorf("%v must not match %v", a, b)
			}
		}
	}
}
