// Package variant holds the in-memory model of Godot Variant values.
//
// Value is a sealed interface over the closed kind set the codec supports:
// Null, Bool, Integer, Float, String, Vector2, Vector3 and *Dictionary.
// Equality and hashing are both derived from Canonical, so two values that
// compare equal always hash the same.
package variant

import (
	"bytes"
	"fmt"
	"math"
	"strconv"

	"github.com/anirudhraja/gdvariant/registry"
)

// Encoded sizes of the fixed-width kinds, header included
const (
	headerSize  = registry.HeaderSize
	size32      = headerSize + 4
	size64      = headerSize + 8
	sizeVector2 = headerSize + 8
	sizeVector3 = headerSize + 12
	sizeString  = headerSize + 4 // header + u32 length, before payload
	sizeDict    = headerSize + 4 // header + u32 count, before entries
)

// Value is a decoded or caller-built Variant
type Value interface {
	// Kind returns the wire kind of the value
	Kind() registry.TypeTag
	// ByteLength returns the encoded length; for decoded values, the bytes consumed
	ByteLength() int
	// Canonical returns the width-independent byte form used by Equal and Hash
	Canonical() []byte
	// Equal reports value equality within the same kind
	Equal(other Value) bool
	// Hash returns the content hash of Canonical
	Hash() Hash
	String() string

	isVariant()
}

func equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return bytes.Equal(a.Canonical(), b.Canonical())
}

// Equal reports whether two values are equal. Nil interfaces are only equal to each other.
func Equal(a, b Value) bool {
	return equal(a, b)
}

// ===== NULL =====

// Null is the Nil variant
type Null struct{}

// Nil is the shared Null value
var Nil = Null{}

func (Null) Kind() registry.TypeTag   { return registry.TagNull }
func (Null) ByteLength() int          { return headerSize }
func (n Null) Canonical() []byte      { return canonicalNull() }
func (n Null) Equal(other Value) bool { return equal(n, other) }
func (n Null) Hash() Hash             { return hashOf(n) }
func (Null) String() string           { return "null" }
func (Null) isVariant()               {}

// ===== BOOL =====

// Bool is a boolean variant
type Bool struct {
	value bool
}

// NewBool creates a Bool
func NewBool(v bool) Bool {
	return Bool{value: v}
}

// Value returns the boolean
func (b Bool) Value() bool { return b.value }

func (Bool) Kind() registry.TypeTag   { return registry.TagBool }
func (Bool) ByteLength() int          { return size32 }
func (b Bool) Canonical() []byte      { return canonicalBool(b.value) }
func (b Bool) Equal(other Value) bool { return equal(b, other) }
func (b Bool) Hash() Hash             { return hashOf(b) }
func (b Bool) String() string         { return strconv.FormatBool(b.value) }
func (Bool) isVariant()               {}

// ===== INTEGER =====

// Integer is a signed integer variant. The value is always held as int64; size
// records the width it was decoded or constructed with.
type Integer struct {
	value int64
	size  int
}

// NewInteger creates an Integer whose width follows its magnitude
func NewInteger(v int64) Integer {
	if FitsInt32(v) {
		return Integer{value: v, size: size32}
	}
	return Integer{value: v, size: size64}
}

// NewInteger32 creates an Integer recorded with a 32-bit payload
func NewInteger32(v int32) Integer {
	return Integer{value: int64(v), size: size32}
}

// NewInteger64 creates an Integer recorded with a 64-bit payload
func NewInteger64(v int64) Integer {
	return Integer{value: v, size: size64}
}

// widthOrNarrow maps the zero value's unset size to the 32-bit width
func widthOrNarrow(size int) int {
	if size == 0 {
		return size32
	}
	return size
}

// FitsInt32 reports whether v can be carried in a 32-bit payload
func FitsInt32(v int64) bool {
	return v >= math.MinInt32 && v <= math.MaxInt32
}

// Value returns the integer
func (i Integer) Value() int64 { return i.value }

// Wide reports whether the recorded width is 64-bit
func (i Integer) Wide() bool { return i.size == size64 }

func (Integer) Kind() registry.TypeTag   { return registry.TagInteger }
func (i Integer) ByteLength() int        { return widthOrNarrow(i.size) }
func (i Integer) Canonical() []byte      { return canonicalInteger(i.value) }
func (i Integer) Equal(other Value) bool { return equal(i, other) }
func (i Integer) Hash() Hash             { return hashOf(i) }
func (i Integer) String() string         { return strconv.FormatInt(i.value, 10) }
func (Integer) isVariant()               {}

// ===== FLOAT =====

// Float is a floating point variant. The value is always held as float64; size
// records the width, which the encoder reuses.
type Float struct {
	value float64
	size  int
}

// NewFloat32 creates a Float recorded with a 32-bit payload
func NewFloat32(v float32) Float {
	return Float{value: float64(v), size: size32}
}

// NewFloat64 creates a Float recorded with a 64-bit payload
func NewFloat64(v float64) Float {
	return Float{value: v, size: size64}
}

// Value returns the float
func (f Float) Value() float64 { return f.value }

// Wide reports whether the recorded width is 64-bit
func (f Float) Wide() bool { return f.size == size64 }

func (Float) Kind() registry.TypeTag   { return registry.TagFloat }
func (f Float) ByteLength() int        { return widthOrNarrow(f.size) }
func (f Float) Canonical() []byte      { return canonicalFloat(f.value) }
func (f Float) Equal(other Value) bool { return equal(f, other) }
func (f Float) Hash() Hash             { return hashOf(f) }
func (Float) isVariant()               {}

func (f Float) String() string {
	bits := 64
	if !f.Wide() {
		bits = 32
	}
	return strconv.FormatFloat(f.value, 'g', -1, bits)
}

// ===== STRING =====

// String is a UTF-8 text variant
type String struct {
	value string
}

// NewString creates a String
func NewString(s string) String {
	return String{value: s}
}

// Value returns the text
func (s String) Value() string { return s.value }

// StringPadding returns the zero padding that follows a string payload of n bytes
func StringPadding(n int) int {
	return (4 - n%4) % 4
}

func (String) Kind() registry.TypeTag { return registry.TagString }
func (s String) ByteLength() int {
	n := len(s.value)
	return sizeString + n + StringPadding(n)
}
func (s String) Canonical() []byte      { return canonicalString(s.value) }
func (s String) Equal(other Value) bool { return equal(s, other) }
func (s String) Hash() Hash             { return hashOf(s) }
func (s String) String() string         { return strconv.Quote(s.value) }
func (String) isVariant()               {}

// ===== VECTORS =====

// Vector2 is a 2D vector of 32-bit floats
type Vector2 struct {
	X, Y float32
}

// NewVector2 creates a Vector2
func NewVector2(x, y float32) Vector2 {
	return Vector2{X: x, Y: y}
}

func (Vector2) Kind() registry.TypeTag   { return registry.TagVector2 }
func (Vector2) ByteLength() int          { return sizeVector2 }
func (v Vector2) Canonical() []byte      { return canonicalVector(registry.TagVector2, v.X, v.Y) }
func (v Vector2) Equal(other Value) bool { return equal(v, other) }
func (v Vector2) Hash() Hash             { return hashOf(v) }
func (v Vector2) String() string         { return fmt.Sprintf("(%s, %s)", f32(v.X), f32(v.Y)) }
func (Vector2) isVariant()               {}

// Vector3 is a 3D vector of 32-bit floats
type Vector3 struct {
	X, Y, Z float32
}

// NewVector3 creates a Vector3
func NewVector3(x, y, z float32) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

func (Vector3) Kind() registry.TypeTag   { return registry.TagVector3 }
func (Vector3) ByteLength() int          { return sizeVector3 }
func (v Vector3) Canonical() []byte      { return canonicalVector(registry.TagVector3, v.X, v.Y, v.Z) }
func (v Vector3) Equal(other Value) bool { return equal(v, other) }
func (v Vector3) Hash() Hash             { return hashOf(v) }
func (Vector3) isVariant()               {}

func (v Vector3) String() string {
	return fmt.Sprintf("(%s, %s, %s)", f32(v.X), f32(v.Y), f32(v.Z))
}

func f32(v float32) string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}
