package registry

import "fmt"

// ===== VARIANT TYPE ENUMERATIONS =====

// HeaderSize is the size of the (type, flag) header that starts every encoded value
const HeaderSize = 4

// TypeTag is the closed set of value kinds the codec implements
type TypeTag uint8

const (
	TagNull        TypeTag = iota // no payload
	TagBool                       // i32 payload, true iff 1
	TagInteger                    // i32 or i64 payload depending on the width flag
	TagFloat                      // f32 or f64 payload depending on the width flag
	TagString                     // u32 length + UTF-8 bytes + zero padding
	TagVector2                    // two f32
	TagVector3                    // three f32
	TagDictionary                 // u32 count + key/value pairs
	TagUnsupported                // known to the protocol, not implemented here
)

var tagNames = [...]string{
	TagNull:        "Null",
	TagBool:        "Bool",
	TagInteger:     "Integer",
	TagFloat:       "Float",
	TagString:      "String",
	TagVector2:     "Vector2",
	TagVector3:     "Vector3",
	TagDictionary:  "Dictionary",
	TagUnsupported: "Unsupported",
}

// String returns the kind name
func (t TypeTag) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	return fmt.Sprintf("TypeTag(%d)", uint8(t))
}

// Supported reports whether the codec can decode and encode this kind
func (t TypeTag) Supported() bool {
	return t < TagUnsupported
}

// WidthFlag selects the payload width of Integer and Float values
type WidthFlag uint16

const (
	FlagDefault WidthFlag = 0 // 32-bit payload
	FlagWide    WidthFlag = 1 // 64-bit payload
)

// String returns a short description of the flag
func (f WidthFlag) String() string {
	switch f {
	case FlagWide:
		return "wide"
	default:
		return "default"
	}
}

// Protocol selects the type code numbering of the target engine version
type Protocol int

const (
	Godot3 Protocol = iota // Vector3=7, Dictionary=18
	Godot4                 // Vector3=9, Dictionary=27
)

// String returns the canonical protocol name
func (p Protocol) String() string {
	switch p {
	case Godot3:
		return "godot3"
	case Godot4:
		return "godot4"
	default:
		return fmt.Sprintf("Protocol(%d)", int(p))
	}
}

// TypeInfo describes one wire type code of a protocol
type TypeInfo struct {
	Code uint16  // wire type code
	Name string  // protocol name for the code, e.g. "Rect2"
	Tag  TypeTag // TagUnsupported for codes the codec does not implement
}
