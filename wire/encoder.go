package wire

import (
	"fmt"

	"github.com/anirudhraja/gdvariant/registry"
	"github.com/anirudhraja/gdvariant/variant"
)

// Encoder appends Variant values to a byte buffer
type Encoder struct {
	buf      []byte
	depth    int
	registry *registry.Registry
	config   Config
}

// NewEncoder creates an encoder using the Godot3 type table
func NewEncoder() *Encoder {
	return NewEncoderWithRegistry(registry.Default())
}

// NewEncoderWithRegistry creates an encoder for the given protocol registry
func NewEncoderWithRegistry(reg *registry.Registry) *Encoder {
	if reg == nil {
		reg = registry.Default()
	}
	return &Encoder{
		buf:      make([]byte, 0),
		registry: reg,
		config:   DefaultConfig(),
	}
}

// WithConfig replaces the encoder's configuration
func (e *Encoder) WithConfig(c Config) *Encoder {
	e.config = c
	return e
}

// Bytes returns the encoded bytes
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Reset clears the encoder buffer
func (e *Encoder) Reset() {
	e.buf = e.buf[:0]
}

// Encode serializes v using the Godot3 type table
func Encode(v variant.Value) ([]byte, error) {
	return EncodeWithRegistry(v, registry.Default())
}

// EncodeWithRegistry serializes v for the given protocol registry
func EncodeWithRegistry(v variant.Value, reg *registry.Registry) ([]byte, error) {
	encoder := NewEncoderWithRegistry(reg)
	if err := encoder.Encode(v); err != nil {
		return nil, err
	}
	return encoder.Bytes(), nil
}

// AppendEncode appends the encoding of v to dst
func AppendEncode(dst []byte, v variant.Value) ([]byte, error) {
	encoder := NewEncoder()
	encoder.buf = dst
	if err := encoder.Encode(v); err != nil {
		return dst, err
	}
	return encoder.Bytes(), nil
}

// Encode appends v to the buffer. On error the buffer is left unchanged.
func (e *Encoder) Encode(v variant.Value) error {
	start := len(e.buf)
	e.depth = 0
	if err := e.encodeValue(v); err != nil {
		e.buf = e.buf[:start]
		if _, ok := err.(*EncodeError); ok {
			return err
		}
		return &EncodeError{Err: err}
	}
	return nil
}

// encodeValue writes header and payload of one value
func (e *Encoder) encodeValue(v variant.Value) error {
	fixed := NewFixedEncoder(e)

	switch t := v.(type) {
	case nil:
		return fmt.Errorf("%w: nil value", ErrUnsupportedVariant)
	case variant.Null:
		return e.writeHeader(registry.TagNull, registry.FlagDefault)
	case variant.Bool:
		if err := e.writeHeader(registry.TagBool, registry.FlagDefault); err != nil {
			return err
		}
		fixed.EncodeBool(t)
	case variant.Integer:
		if err := e.writeHeader(registry.TagInteger, integerFlag(t)); err != nil {
			return err
		}
		fixed.EncodeInteger(t)
	case variant.Float:
		if err := e.writeHeader(registry.TagFloat, floatFlag(t)); err != nil {
			return err
		}
		fixed.EncodeFloat(t)
	case variant.String:
		if err := e.writeHeader(registry.TagString, registry.FlagDefault); err != nil {
			return err
		}
		return NewStringEncoder(e).EncodeString(t)
	case variant.Vector2:
		if err := e.writeHeader(registry.TagVector2, registry.FlagDefault); err != nil {
			return err
		}
		fixed.EncodeVector2(t)
	case variant.Vector3:
		if err := e.writeHeader(registry.TagVector3, registry.FlagDefault); err != nil {
			return err
		}
		fixed.EncodeVector3(t)
	case *variant.Dictionary:
		if t == nil {
			return fmt.Errorf("%w: nil dictionary", ErrUnsupportedVariant)
		}
		if err := e.writeHeader(registry.TagDictionary, registry.FlagDefault); err != nil {
			return err
		}
		return NewDictionaryEncoder(e).EncodeDictionary(t)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupportedVariant, v)
	}
	return nil
}

func (e *Encoder) writeHeader(tag registry.TypeTag, flag registry.WidthFlag) error {
	code, err := e.registry.Code(tag)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnsupportedVariant, err)
	}
	h := MakeHeader(code, flag)
	e.buf = append(e.buf, h[:]...)
	return nil
}
