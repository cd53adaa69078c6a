package wire

import (
	"fmt"

	"github.com/anirudhraja/gdvariant/registry"
	"github.com/anirudhraja/gdvariant/variant"
)

// A message is several values packed back to back in one transmission.
// There is no outer framing: each value's consumed length locates the next header.

// MessageDecoder splits a transmission into its values
type MessageDecoder struct {
	decoder *Decoder
}

// MessageEncoder packs values into one transmission
type MessageEncoder struct {
	encoder *Encoder
}

// NewMessageDecoder creates a new message decoder
func NewMessageDecoder(d *Decoder) *MessageDecoder {
	return &MessageDecoder{decoder: d}
}

// NewMessageEncoder creates a new message encoder
func NewMessageEncoder(e *Encoder) *MessageEncoder {
	return &MessageEncoder{encoder: e}
}

// DECODER METHODS

// DecodeMessage decodes values until the buffer is exhausted
func (md *MessageDecoder) DecodeMessage() ([]variant.Value, error) {
	d := md.decoder
	var values []variant.Value
	for d.More() {
		v, err := d.Next()
		if err != nil {
			return values, wrapDecodePath(err, fmt.Sprintf("message[%d]", len(values)))
		}
		values = append(values, v)
	}
	return values, nil
}

// DecodeAll decodes every value packed in data using the Godot3 type table
func DecodeAll(data []byte) ([]variant.Value, error) {
	return DecodeAllWithRegistry(data, registry.Default())
}

// DecodeAllWithRegistry decodes every value packed in data
func DecodeAllWithRegistry(data []byte, reg *registry.Registry) ([]variant.Value, error) {
	return NewMessageDecoder(NewDecoderWithRegistry(data, reg)).DecodeMessage()
}

// ENCODER METHODS

// EncodeMessage appends each value in order. On error nothing is appended.
func (me *MessageEncoder) EncodeMessage(values []variant.Value) error {
	e := me.encoder
	start := len(e.buf)
	for i, v := range values {
		if err := e.Encode(v); err != nil {
			e.buf = e.buf[:start]
			return wrapEncodePath(err, fmt.Sprintf("message[%d]", i))
		}
	}
	return nil
}

// EncodeAll packs values back to back using the Godot3 type table
func EncodeAll(values ...variant.Value) ([]byte, error) {
	return EncodeAllWithRegistry(registry.Default(), values...)
}

// EncodeAllWithRegistry packs values back to back
func EncodeAllWithRegistry(reg *registry.Registry, values ...variant.Value) ([]byte, error) {
	encoder := NewEncoderWithRegistry(reg)
	if err := NewMessageEncoder(encoder).EncodeMessage(values); err != nil {
		return nil, err
	}
	return encoder.Bytes(), nil
}
