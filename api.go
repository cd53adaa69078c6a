// Package gdvariant encodes and decodes Godot engine Variant binary buffers.
//
// The codec supports the Null, Bool, Integer, Float, String, Vector2, Vector3
// and Dictionary kinds. Every other type code in the protocol is reported as
// unsupported. Values are modeled by package variant; the byte-level codec
// lives in package wire.
package gdvariant

import (
	"fmt"

	"github.com/anirudhraja/gdvariant/registry"
	"github.com/anirudhraja/gdvariant/variant"
	"github.com/anirudhraja/gdvariant/wire"
)

// ===== CODEC API =====

// Codec bundles a protocol registry and codec configuration.
// A Codec is immutable and safe for concurrent use.
type Codec struct {
	registry *registry.Registry
	config   wire.Config
}

// New creates a Codec for the Godot 3.x numbering with default configuration
func New() *Codec {
	return NewWithProtocol(registry.Godot3)
}

// NewWithProtocol creates a Codec for the given protocol numbering
func NewWithProtocol(p registry.Protocol) *Codec {
	return &Codec{
		registry: registry.New(p),
		config:   wire.DefaultConfig(),
	}
}

// WithConfig returns a copy of the Codec using cfg
func (c *Codec) WithConfig(cfg wire.Config) *Codec {
	return &Codec{
		registry: c.registry,
		config:   cfg,
	}
}

// Decode decodes the value at the start of data and reports the bytes consumed
func (c *Codec) Decode(data []byte) (variant.Value, int, error) {
	return wire.DecodeWithConfig(data, c.registry, c.config)
}

// DecodeAll decodes every value packed back to back in data
func (c *Codec) DecodeAll(data []byte) ([]variant.Value, error) {
	decoder := wire.NewDecoderWithRegistry(data, c.registry).WithConfig(c.config)
	return wire.NewMessageDecoder(decoder).DecodeMessage()
}

// Encode serializes one value
func (c *Codec) Encode(v variant.Value) ([]byte, error) {
	encoder := c.encoder()
	if err := encoder.Encode(v); err != nil {
		return nil, err
	}
	return encoder.Bytes(), nil
}

// EncodeAll packs values back to back
func (c *Codec) EncodeAll(values ...variant.Value) ([]byte, error) {
	encoder := c.encoder()
	if err := wire.NewMessageEncoder(encoder).EncodeMessage(values); err != nil {
		return nil, err
	}
	return encoder.Bytes(), nil
}

// Marshal converts a native Go value with variant.From and encodes it
func (c *Codec) Marshal(v interface{}) ([]byte, error) {
	value, err := variant.From(v)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	return c.Encode(value)
}

// Unmarshal decodes the value at the start of data into native Go values
// (see variant.ToNative). Trailing bytes are an error.
func (c *Codec) Unmarshal(data []byte) (interface{}, error) {
	value, n, err := c.Decode(data)
	if err != nil {
		return nil, err
	}
	if n != len(data) {
		return nil, fmt.Errorf("unmarshal: %d trailing bytes after %s", len(data)-n, value.Kind())
	}
	return variant.ToNative(value), nil
}

// Peek resolves the header of the value at the start of data
func (c *Codec) Peek(data []byte) (wire.Header, error) {
	return wire.PeekHeaderWithRegistry(data, c.registry)
}

func (c *Codec) encoder() *wire.Encoder {
	return wire.NewEncoderWithRegistry(c.registry).WithConfig(c.config)
}

// ===== REGISTRY ACCESS =====

func (c *Codec) GetRegistry() *registry.Registry { return c.registry }
func (c *Codec) Protocol() registry.Protocol     { return c.registry.Protocol() }
func (c *Codec) ListTypes() []registry.TypeInfo  { return c.registry.ListTypes() }
func (c *Codec) Config() wire.Config             { return c.config }
