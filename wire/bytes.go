package wire

import (
	"encoding/binary"
	"fmt"
	"unicode/utf8"

	"github.com/anirudhraja/gdvariant/variant"
)

// StringDecoder handles length-prefixed, 4-byte padded UTF-8 payloads
type StringDecoder struct {
	decoder *Decoder
}

// StringEncoder handles String payloads
type StringEncoder struct {
	encoder *Encoder
}

// NewStringDecoder creates a new string decoder
func NewStringDecoder(d *Decoder) *StringDecoder {
	return &StringDecoder{decoder: d}
}

// NewStringEncoder creates a new string encoder
func NewStringEncoder(e *Encoder) *StringEncoder {
	return &StringEncoder{encoder: e}
}

// DecodeString decodes a u32 length, the text bytes and their zero padding
func (sd *StringDecoder) DecodeString() (variant.String, error) {
	d := sd.decoder
	if err := d.need(4, "String length"); err != nil {
		return variant.String{}, err
	}
	length := uint64(binary.LittleEndian.Uint32(d.buf[d.pos:]))
	pad := uint64(variant.StringPadding(int(length % 4)))

	remaining := uint64(len(d.buf) - d.pos - 4)
	if length+pad > remaining {
		return variant.String{}, fmt.Errorf("%w: need %d bytes for String of length %d, have %d",
			ErrTruncatedBuffer, 4+length+pad, length, remaining+4)
	}
	d.pos += 4

	text := d.buf[d.pos : d.pos+int(length)]
	if !utf8.Valid(text) {
		return variant.String{}, fmt.Errorf("%w: String of length %d", ErrInvalidText, length)
	}
	d.pos += int(length)

	if d.config.StrictPadding {
		for _, b := range d.buf[d.pos : d.pos+int(pad)] {
			if b != 0 {
				return variant.String{}, fmt.Errorf("%w: found 0x%02x", ErrInvalidPadding, b)
			}
		}
	}
	d.pos += int(pad)

	return variant.NewString(string(text)), nil
}

// EncodeString appends length, text and zero padding
func (se *StringEncoder) EncodeString(s variant.String) error {
	text := s.Value()
	if !utf8.ValidString(text) {
		return fmt.Errorf("%w: String of length %d", ErrInvalidText, len(text))
	}
	if uint64(len(text)) > uint64(^uint32(0)) {
		return fmt.Errorf("%w: String of length %d exceeds u32 prefix", ErrUnsupportedVariant, len(text))
	}

	e := se.encoder
	e.buf = binary.LittleEndian.AppendUint32(e.buf, uint32(len(text)))
	e.buf = append(e.buf, text...)
	for i := 0; i < variant.StringPadding(len(text)); i++ {
		e.buf = append(e.buf, 0)
	}
	return nil
}
