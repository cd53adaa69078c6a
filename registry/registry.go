package registry

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUnknownTypeCode = errors.New("registry: unknown type code")
	ErrShortHeader     = errors.New("registry: header shorter than 4 bytes")
	ErrUnknownProtocol = errors.New("registry: unknown protocol")
)

// Registry maps wire type codes and width flags of one protocol version to the
// codec's enumerations. Registries are immutable and shared.
type Registry struct {
	protocol Protocol
	types    []TypeInfo          // indexed by wire code
	codes    [TagUnsupported]int // TypeTag -> wire code
}

// godot3Types is the Variant::Type table of the 3.x engine.
var godot3Types = []TypeInfo{
	{0, "Nil", TagNull},
	{1, "Bool", TagBool},
	{2, "Int", TagInteger},
	{3, "Real", TagFloat},
	{4, "String", TagString},
	{5, "Vector2", TagVector2},
	{6, "Rect2", TagUnsupported},
	{7, "Vector3", TagVector3},
	{8, "Transform2D", TagUnsupported},
	{9, "Plane", TagUnsupported},
	{10, "Quat", TagUnsupported},
	{11, "AABB", TagUnsupported},
	{12, "Basis", TagUnsupported},
	{13, "Transform", TagUnsupported},
	{14, "Color", TagUnsupported},
	{15, "NodePath", TagUnsupported},
	{16, "RID", TagUnsupported},
	{17, "Object", TagUnsupported},
	{18, "Dictionary", TagDictionary},
	{19, "Array", TagUnsupported},
	{20, "PoolByteArray", TagUnsupported},
	{21, "PoolIntArray", TagUnsupported},
	{22, "PoolRealArray", TagUnsupported},
	{23, "PoolStringArray", TagUnsupported},
	{24, "PoolVector2Array", TagUnsupported},
	{25, "PoolVector3Array", TagUnsupported},
	{26, "PoolColorArray", TagUnsupported},
}

// godot4Types is the Variant::Type table of the 4.x engine.
var godot4Types = []TypeInfo{
	{0, "Nil", TagNull},
	{1, "Bool", TagBool},
	{2, "Int", TagInteger},
	{3, "Float", TagFloat},
	{4, "String", TagString},
	{5, "Vector2", TagVector2},
	{6, "Vector2i", TagUnsupported},
	{7, "Rect2", TagUnsupported},
	{8, "Rect2i", TagUnsupported},
	{9, "Vector3", TagVector3},
	{10, "Vector3i", TagUnsupported},
	{11, "Transform2D", TagUnsupported},
	{12, "Vector4", TagUnsupported},
	{13, "Vector4i", TagUnsupported},
	{14, "Plane", TagUnsupported},
	{15, "Quaternion", TagUnsupported},
	{16, "AABB", TagUnsupported},
	{17, "Basis", TagUnsupported},
	{18, "Transform3D", TagUnsupported},
	{19, "Projection", TagUnsupported},
	{20, "Color", TagUnsupported},
	{21, "StringName", TagUnsupported},
	{22, "NodePath", TagUnsupported},
	{23, "RID", TagUnsupported},
	{24, "Object", TagUnsupported},
	{25, "Callable", TagUnsupported},
	{26, "Signal", TagUnsupported},
	{27, "Dictionary", TagDictionary},
	{28, "Array", TagUnsupported},
	{29, "PackedByteArray", TagUnsupported},
	{30, "PackedInt32Array", TagUnsupported},
	{31, "PackedInt64Array", TagUnsupported},
	{32, "PackedFloat32Array", TagUnsupported},
	{33, "PackedFloat64Array", TagUnsupported},
	{34, "PackedStringArray", TagUnsupported},
	{35, "PackedVector2Array", TagUnsupported},
	{36, "PackedVector3Array", TagUnsupported},
	{37, "PackedColorArray", TagUnsupported},
	{38, "PackedVector4Array", TagUnsupported},
}

var registries = [...]*Registry{
	Godot3: build(Godot3, godot3Types),
	Godot4: build(Godot4, godot4Types),
}

func build(p Protocol, types []TypeInfo) *Registry {
	r := &Registry{protocol: p, types: types}
	for i := range r.codes {
		r.codes[i] = -1
	}
	for i, info := range types {
		if int(info.Code) != i {
			panic(fmt.Sprintf("registry: %s table out of order at code %d", p, i))
		}
		if info.Tag.Supported() {
			r.codes[info.Tag] = i
		}
	}
	for tag, code := range r.codes {
		if code < 0 {
			panic(fmt.Sprintf("registry: %s table has no code for %s", p, TypeTag(tag)))
		}
	}
	return r
}

// New returns the registry for the given protocol. Unknown protocols fall back to Godot3.
func New(p Protocol) *Registry {
	if p < 0 || int(p) >= len(registries) {
		return registries[Godot3]
	}
	return registries[p]
}

// Default returns the Godot3 registry
func Default() *Registry {
	return registries[Godot3]
}

// ParseProtocol parses a protocol name such as "godot3" or "4"
func ParseProtocol(s string) (Protocol, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "godot3", "3", "gd3":
		return Godot3, nil
	case "godot4", "4", "gd4":
		return Godot4, nil
	default:
		return Godot3, fmt.Errorf("%w: %q", ErrUnknownProtocol, s)
	}
}

// Protocol returns the numbering scheme this registry implements
func (r *Registry) Protocol() Protocol {
	return r.protocol
}

// ResolveType maps a wire type code to its TypeInfo
func (r *Registry) ResolveType(code uint16) (TypeInfo, error) {
	if int(code) >= len(r.types) {
		return TypeInfo{}, fmt.Errorf("%w %d for protocol %s", ErrUnknownTypeCode, code, r.protocol)
	}
	return r.types[code], nil
}

// ResolveFlag maps a wire flag code to a WidthFlag. Unknown flags degrade to FlagDefault.
func (r *Registry) ResolveFlag(code uint16) WidthFlag {
	if WidthFlag(code) == FlagWide {
		return FlagWide
	}
	return FlagDefault
}

// ResolveHeader reads the 4-byte header at the start of b
func (r *Registry) ResolveHeader(b []byte) (TypeInfo, WidthFlag, error) {
	if len(b) < HeaderSize {
		return TypeInfo{}, FlagDefault, ErrShortHeader
	}
	info, err := r.ResolveType(binary.LittleEndian.Uint16(b[0:2]))
	if err != nil {
		return TypeInfo{}, FlagDefault, err
	}
	return info, r.ResolveFlag(binary.LittleEndian.Uint16(b[2:4])), nil
}

// Code returns the wire type code of a supported kind
func (r *Registry) Code(tag TypeTag) (uint16, error) {
	if !tag.Supported() {
		return 0, fmt.Errorf("registry: %s has no wire code", tag)
	}
	return uint16(r.codes[tag]), nil
}

// ListTypes returns every type code the protocol defines
func (r *Registry) ListTypes() []TypeInfo {
	out := make([]TypeInfo, len(r.types))
	copy(out, r.types)
	return out
}
