package wire

import (
	"github.com/anirudhraja/gdvariant/registry"
	"github.com/anirudhraja/gdvariant/variant"
)

// Decoder reads Variant values from a byte buffer
type Decoder struct {
	buf      []byte
	pos      int
	depth    int
	registry *registry.Registry
	config   Config
}

// NewDecoder creates a decoder using the Godot3 type table
func NewDecoder(data []byte) *Decoder {
	return NewDecoderWithRegistry(data, registry.Default())
}

// NewDecoderWithRegistry creates a decoder for the given protocol registry
func NewDecoderWithRegistry(data []byte, reg *registry.Registry) *Decoder {
	if reg == nil {
		reg = registry.Default()
	}
	return &Decoder{
		buf:      data,
		pos:      0,
		registry: reg,
		config:   DefaultConfig(),
	}
}

// WithConfig replaces the decoder's configuration
func (d *Decoder) WithConfig(c Config) *Decoder {
	d.config = c
	return d
}

// Decode decodes the value at the start of data and reports how many bytes it consumed.
// Trailing bytes are not an error.
func Decode(data []byte) (variant.Value, int, error) {
	return NewDecoder(data).decodeTop()
}

// DecodeWithRegistry is Decode for an explicit protocol registry
func DecodeWithRegistry(data []byte, reg *registry.Registry) (variant.Value, int, error) {
	return NewDecoderWithRegistry(data, reg).decodeTop()
}

// DecodeWithConfig is Decode with explicit registry and configuration
func DecodeWithConfig(data []byte, reg *registry.Registry, c Config) (variant.Value, int, error) {
	return NewDecoderWithRegistry(data, reg).WithConfig(c).decodeTop()
}

func (d *Decoder) decodeTop() (variant.Value, int, error) {
	v, err := d.Next()
	if err != nil {
		return nil, 0, err
	}
	return v, d.pos, nil
}

// Next decodes the value at the current position and advances past it.
// On error the position is left where the value started.
func (d *Decoder) Next() (variant.Value, error) {
	start := d.pos
	d.depth = 0
	v, err := d.decodeValue()
	if err != nil {
		d.pos = start
		return nil, err
	}
	return v, nil
}

// More reports whether unread bytes remain
func (d *Decoder) More() bool {
	return d.pos < len(d.buf)
}

// Pos returns the current read offset
func (d *Decoder) Pos() int {
	return d.pos
}

// Remaining returns the number of unread bytes
func (d *Decoder) Remaining() int {
	return len(d.buf) - d.pos
}

// decodeValue dispatches on the header at d.pos
func (d *Decoder) decodeValue() (variant.Value, error) {
	start := d.pos
	if start >= len(d.buf) {
		return nil, &DecodeError{Offset: start, Err: errEmptyBuffer}
	}
	if err := d.need(HeaderSize, "header"); err != nil {
		return nil, &DecodeError{Offset: start, Err: err}
	}

	info, flag, err := d.registry.ResolveHeader(d.buf[d.pos:])
	if err != nil {
		return nil, &DecodeError{Offset: start, Err: unsupportedCode(err)}
	}
	if !info.Tag.Supported() {
		return nil, &DecodeError{Offset: start, Err: unsupportedInfo(info)}
	}
	d.pos += HeaderSize

	fixed := NewFixedDecoder(d)
	var v variant.Value
	switch info.Tag {
	case registry.TagNull:
		v = variant.Nil
	case registry.TagBool:
		v, err = fixed.DecodeBool()
	case registry.TagInteger:
		v, err = fixed.DecodeInteger(flag)
	case registry.TagFloat:
		v, err = fixed.DecodeFloat(flag)
	case registry.TagString:
		v, err = NewStringDecoder(d).DecodeString()
	case registry.TagVector2:
		v, err = fixed.DecodeVector2()
	case registry.TagVector3:
		v, err = fixed.DecodeVector3()
	case registry.TagDictionary:
		v, err = NewDictionaryDecoder(d).DecodeDictionary(start)
	default:
		err = unsupportedInfo(info)
	}
	if err != nil {
		if _, ok := err.(*DecodeError); ok {
			return nil, err
		}
		return nil, &DecodeError{Offset: start, Err: err}
	}
	return v, nil
}

// need checks that n more bytes are available at d.pos
func (d *Decoder) need(n int, what string) error {
	if n <= len(d.buf)-d.pos {
		return nil
	}
	return truncated(n, len(d.buf)-d.pos, what)
}
