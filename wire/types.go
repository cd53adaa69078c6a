package wire

import (
	"encoding/binary"

	"github.com/anirudhraja/gdvariant/registry"
)

// ===== VARIANT WIRE FORMAT TYPES =====

// HeaderSize is the size of the (type, flag) header that starts every value
const HeaderSize = registry.HeaderSize

// Header is the decoded 4-byte header of one value
type Header struct {
	TypeCode uint16             // raw little-endian type code
	FlagCode uint16             // raw little-endian flag code
	Type     registry.TypeInfo  // resolved type
	Flag     registry.WidthFlag // resolved width, unknown codes degrade to default
}

// MakeHeader creates a header from type code and width flag
func MakeHeader(typeCode uint16, flag registry.WidthFlag) [HeaderSize]byte {
	var h [HeaderSize]byte
	binary.LittleEndian.PutUint16(h[0:2], typeCode)
	binary.LittleEndian.PutUint16(h[2:4], uint16(flag))
	return h
}

// ParseHeader splits the first 4 bytes of b into raw type and flag codes.
// b must hold at least HeaderSize bytes.
func ParseHeader(b []byte) (typeCode, flagCode uint16) {
	return binary.LittleEndian.Uint16(b[0:2]), binary.LittleEndian.Uint16(b[2:4])
}

// PeekHeader resolves the header at the start of data using the Godot3 registry
func PeekHeader(data []byte) (Header, error) {
	return PeekHeaderWithRegistry(data, registry.Default())
}

// PeekHeaderWithRegistry resolves the header at the start of data without decoding the payload
func PeekHeaderWithRegistry(data []byte, reg *registry.Registry) (Header, error) {
	if len(data) == 0 {
		return Header{}, &DecodeError{Err: errEmptyBuffer}
	}
	if len(data) < HeaderSize {
		return Header{}, &DecodeError{Err: truncated(HeaderSize, len(data), "header")}
	}
	typeCode, flagCode := ParseHeader(data)
	info, flag, err := reg.ResolveHeader(data)
	if err != nil {
		return Header{TypeCode: typeCode, FlagCode: flagCode}, &DecodeError{Err: unsupportedCode(err)}
	}
	return Header{TypeCode: typeCode, FlagCode: flagCode, Type: info, Flag: flag}, nil
}
