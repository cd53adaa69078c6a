package wire

import (
	"encoding/binary"
	"math"

	"github.com/anirudhraja/gdvariant/registry"
	"github.com/anirudhraja/gdvariant/variant"
)

// FixedDecoder handles fixed-width payloads: Bool, Integer, Float and vectors
type FixedDecoder struct {
	decoder *Decoder
}

// FixedEncoder handles fixed-width payloads
type FixedEncoder struct {
	encoder *Encoder
}

// NewFixedDecoder creates a new fixed decoder
func NewFixedDecoder(d *Decoder) *FixedDecoder {
	return &FixedDecoder{decoder: d}
}

// NewFixedEncoder creates a new fixed encoder
func NewFixedEncoder(e *Encoder) *FixedEncoder {
	return &FixedEncoder{encoder: e}
}

// DECODER METHODS

// DecodeFixed32 decodes a little-endian 32-bit word
func (fd *FixedDecoder) DecodeFixed32() (uint32, error) {
	d := fd.decoder
	if err := d.need(4, "fixed32"); err != nil {
		return 0, err
	}

	value := binary.LittleEndian.Uint32(d.buf[d.pos:])
	d.pos += 4
	return value, nil
}

// DecodeFixed64 decodes a little-endian 64-bit word
func (fd *FixedDecoder) DecodeFixed64() (uint64, error) {
	d := fd.decoder
	if err := d.need(8, "fixed64"); err != nil {
		return 0, err
	}

	value := binary.LittleEndian.Uint64(d.buf[d.pos:])
	d.pos += 8
	return value, nil
}

// DecodeBool decodes a 32-bit boolean; only 1 is true
func (fd *FixedDecoder) DecodeBool() (variant.Bool, error) {
	if err := fd.decoder.need(4, "Bool"); err != nil {
		return variant.Bool{}, err
	}
	v, _ := fd.DecodeFixed32()
	return variant.NewBool(int32(v) == 1), nil
}

// DecodeInteger decodes a signed integer whose width follows the header flag
func (fd *FixedDecoder) DecodeInteger(flag registry.WidthFlag) (variant.Integer, error) {
	if flag == registry.FlagWide {
		if err := fd.decoder.need(8, "Integer"); err != nil {
			return variant.Integer{}, err
		}
		v, _ := fd.DecodeFixed64()
		return variant.NewInteger64(int64(v)), nil
	}

	if err := fd.decoder.need(4, "Integer"); err != nil {
		return variant.Integer{}, err
	}
	v, _ := fd.DecodeFixed32()
	return variant.NewInteger32(int32(v)), nil
}

// DecodeFloat decodes an IEEE-754 float whose width follows the header flag
func (fd *FixedDecoder) DecodeFloat(flag registry.WidthFlag) (variant.Float, error) {
	if flag == registry.FlagWide {
		if err := fd.decoder.need(8, "Float"); err != nil {
			return variant.Float{}, err
		}
		v, _ := fd.DecodeFixed64()
		return variant.NewFloat64(math.Float64frombits(v)), nil
	}

	if err := fd.decoder.need(4, "Float"); err != nil {
		return variant.Float{}, err
	}
	v, _ := fd.DecodeFixed32()
	return variant.NewFloat32(math.Float32frombits(v)), nil
}

// DecodeVector2 decodes two 32-bit float components
func (fd *FixedDecoder) DecodeVector2() (variant.Vector2, error) {
	if err := fd.decoder.need(8, "Vector2"); err != nil {
		return variant.Vector2{}, err
	}
	x, _ := fd.DecodeFixed32()
	y, _ := fd.DecodeFixed32()
	return variant.NewVector2(math.Float32frombits(x), math.Float32frombits(y)), nil
}

// DecodeVector3 decodes three 32-bit float components
func (fd *FixedDecoder) DecodeVector3() (variant.Vector3, error) {
	if err := fd.decoder.need(12, "Vector3"); err != nil {
		return variant.Vector3{}, err
	}
	x, _ := fd.DecodeFixed32()
	y, _ := fd.DecodeFixed32()
	z, _ := fd.DecodeFixed32()
	return variant.NewVector3(math.Float32frombits(x), math.Float32frombits(y), math.Float32frombits(z)), nil
}

// ENCODER METHODS

// EncodeFixed32 appends a little-endian 32-bit word
func (fe *FixedEncoder) EncodeFixed32(value uint32) {
	fe.encoder.buf = binary.LittleEndian.AppendUint32(fe.encoder.buf, value)
}

// EncodeFixed64 appends a little-endian 64-bit word
func (fe *FixedEncoder) EncodeFixed64(value uint64) {
	fe.encoder.buf = binary.LittleEndian.AppendUint64(fe.encoder.buf, value)
}

// EncodeBool writes 1 or 0 as a 32-bit word
func (fe *FixedEncoder) EncodeBool(v variant.Bool) {
	if v.Value() {
		fe.EncodeFixed32(1)
		return
	}
	fe.EncodeFixed32(0)
}

// EncodeInteger writes the payload for the width chosen by magnitude
func (fe *FixedEncoder) EncodeInteger(v variant.Integer) {
	if variant.FitsInt32(v.Value()) {
		fe.EncodeFixed32(uint32(int32(v.Value())))
		return
	}
	fe.EncodeFixed64(uint64(v.Value()))
}

// EncodeFloat writes the payload for the float's recorded width
func (fe *FixedEncoder) EncodeFloat(v variant.Float) {
	if v.Wide() {
		fe.EncodeFixed64(math.Float64bits(v.Value()))
		return
	}
	fe.EncodeFixed32(math.Float32bits(float32(v.Value())))
}

// EncodeVector2 writes x then y
func (fe *FixedEncoder) EncodeVector2(v variant.Vector2) {
	fe.EncodeFixed32(math.Float32bits(v.X))
	fe.EncodeFixed32(math.Float32bits(v.Y))
}

// EncodeVector3 writes x, y and z in order
func (fe *FixedEncoder) EncodeVector3(v variant.Vector3) {
	fe.EncodeFixed32(math.Float32bits(v.X))
	fe.EncodeFixed32(math.Float32bits(v.Y))
	fe.EncodeFixed32(math.Float32bits(v.Z))
}

// integerFlag returns the header flag matching EncodeInteger's width
func integerFlag(v variant.Integer) registry.WidthFlag {
	if variant.FitsInt32(v.Value()) {
		return registry.FlagDefault
	}
	return registry.FlagWide
}

// floatFlag returns the header flag matching EncodeFloat's width
func floatFlag(v variant.Float) registry.WidthFlag {
	if v.Wide() {
		return registry.FlagWide
	}
	return registry.FlagDefault
}
