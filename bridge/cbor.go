package bridge

import (
	"encoding/binary"
	"fmt"

	"github.com/fxamacker/cbor/v2"

	"github.com/anirudhraja/gdvariant/variant"
)

// cborEncMode encodes scalars with Core Deterministic Encoding (RFC 8949 §4.2):
// smallest integer and float encodings, no indefinite-length items.
// Maps are written by hand so dictionary order survives.
var cborEncMode cbor.EncMode

func init() {
	var err error
	cborEncMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("bridge: CBOR encoder initialization failed: " + err.Error())
	}
}

// ToCBOR renders v as a single CBOR data item.
// Vectors become arrays of floats; dictionaries become maps in insertion order.
func ToCBOR(v variant.Value) ([]byte, error) {
	return appendCBOR(nil, v)
}

func appendCBOR(dst []byte, v variant.Value) ([]byte, error) {
	var item interface{}
	switch t := v.(type) {
	case nil, variant.Null:
		item = nil
	case variant.Bool:
		item = t.Value()
	case variant.Integer:
		item = t.Value()
	case variant.Float:
		if t.Wide() {
			item = t.Value()
		} else {
			item = float32(t.Value())
		}
	case variant.String:
		item = t.Value()
	case variant.Vector2:
		item = []float32{t.X, t.Y}
	case variant.Vector3:
		item = []float32{t.X, t.Y, t.Z}
	case *variant.Dictionary:
		if t == nil {
			break
		}
		return appendCBORMap(dst, t)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnrepresentable, v)
	}

	b, err := cborEncMode.Marshal(item)
	if err != nil {
		return nil, fmt.Errorf("bridge: encode CBOR %s: %w", v.Kind(), err)
	}
	return append(dst, b...), nil
}

// cborMajorMap is major type 5 in the initial byte
const cborMajorMap = 0xa0

func appendCBORMap(dst []byte, d *variant.Dictionary) ([]byte, error) {
	dst = appendCBORHead(dst, cborMajorMap, uint64(d.Len()))

	var err error
	d.Range(func(key, value variant.Value) bool {
		if dst, err = appendCBOR(dst, key); err != nil {
			return false
		}
		dst, err = appendCBOR(dst, value)
		return err == nil
	})
	if err != nil {
		return nil, err
	}
	return dst, nil
}

// appendCBORHead writes an initial byte with the shortest argument encoding
func appendCBORHead(dst []byte, major byte, n uint64) []byte {
	switch {
	case n < 24:
		return append(dst, major|byte(n))
	case n <= 0xff:
		return append(dst, major|24, byte(n))
	case n <= 0xffff:
		return binary.BigEndian.AppendUint16(append(dst, major|25), uint16(n))
	case n <= 0xffffffff:
		return binary.BigEndian.AppendUint32(append(dst, major|26), uint32(n))
	default:
		return binary.BigEndian.AppendUint64(append(dst, major|27), n)
	}
}

// DiagnoseCBOR renders CBOR data in RFC 8949 diagnostic notation, one line per item
func DiagnoseCBOR(data []byte) (string, error) {
	var out []byte
	remaining := data
	for len(remaining) > 0 {
		notation, rest, err := cbor.DiagnoseFirst(remaining)
		if err != nil {
			return "", fmt.Errorf("bridge: diagnose CBOR at byte %d: %w", len(data)-len(remaining), err)
		}
		out = append(out, notation...)
		out = append(out, '\n')
		remaining = rest
	}
	return string(out), nil
}
