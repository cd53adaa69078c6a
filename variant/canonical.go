package variant

import (
	"bytes"
	"encoding/binary"
	"encoding/hex"
	"math"
	"sort"

	"github.com/zeebo/blake3"

	"github.com/anirudhraja/gdvariant/registry"
)

// Canonical form: one kind byte, then a width-independent payload.
//
//	Null        -
//	Bool        1 byte
//	Integer     8-byte i64
//	Float       8-byte f64 bits, -0 folded into +0, NaNs folded into one
//	String      u32 length + bytes
//	Vector2/3   4-byte f32 bits per component, folded like Float
//	Dictionary  u32 count + entries sorted by key, each key and value u32-length prefixed
//
// All integers are little-endian.

const (
	canonicalNaN64 = 0x7ff8000000000001
	canonicalNaN32 = 0x7fc00000
)

func canonicalNull() []byte {
	return []byte{byte(registry.TagNull)}
}

func canonicalBool(v bool) []byte {
	b := []byte{byte(registry.TagBool), 0}
	if v {
		b[1] = 1
	}
	return b
}

func canonicalInteger(v int64) []byte {
	b := make([]byte, 9)
	b[0] = byte(registry.TagInteger)
	binary.LittleEndian.PutUint64(b[1:], uint64(v))
	return b
}

func canonicalFloat(v float64) []byte {
	b := make([]byte, 9)
	b[0] = byte(registry.TagFloat)
	binary.LittleEndian.PutUint64(b[1:], float64Bits(v))
	return b
}

func canonicalString(s string) []byte {
	b := make([]byte, 5, 5+len(s))
	b[0] = byte(registry.TagString)
	binary.LittleEndian.PutUint32(b[1:], uint32(len(s)))
	return append(b, s...)
}

func canonicalVector(tag registry.TypeTag, components ...float32) []byte {
	b := make([]byte, 1+4*len(components))
	b[0] = byte(tag)
	for i, c := range components {
		binary.LittleEndian.PutUint32(b[1+4*i:], float32Bits(c))
	}
	return b
}

func canonicalDictionary(entries []Entry) []byte {
	type pair struct{ key, value []byte }
	pairs := make([]pair, len(entries))
	for i, e := range entries {
		pairs[i] = pair{key: e.Key.Canonical(), value: e.Value.Canonical()}
	}
	sort.Slice(pairs, func(i, j int) bool {
		return bytes.Compare(pairs[i].key, pairs[j].key) < 0
	})

	b := make([]byte, 5)
	b[0] = byte(registry.TagDictionary)
	binary.LittleEndian.PutUint32(b[1:], uint32(len(pairs)))
	for _, p := range pairs {
		b = appendPrefixed(b, p.key)
		b = appendPrefixed(b, p.value)
	}
	return b
}

func appendPrefixed(dst, data []byte) []byte {
	dst = binary.LittleEndian.AppendUint32(dst, uint32(len(data)))
	return append(dst, data...)
}

func float64Bits(v float64) uint64 {
	switch {
	case v == 0:
		return 0
	case math.IsNaN(v):
		return canonicalNaN64
	}
	return math.Float64bits(v)
}

func float32Bits(v float32) uint32 {
	switch {
	case v == 0:
		return 0
	case math.IsNaN(float64(v)):
		return canonicalNaN32
	}
	return math.Float32bits(v)
}

// ===== CONTENT HASH =====

// Hash is a 32-byte BLAKE3 digest of a value's canonical form
type Hash [32]byte

// String returns the hex form of the hash
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// hashDomainKey separates value hashes from any other BLAKE3 use of the same bytes.
var hashDomainKey = [32]byte{
	'g', 'd', 'v', 'a', 'r', 'i', 'a', 'n', 't', '.', 'v', 'a', 'l', 'u', 'e',
}

func hashOf(v Value) Hash {
	return HashBytes(v.Canonical())
}

// HashBytes returns the keyed BLAKE3 hash of canonical bytes
func HashBytes(canonical []byte) Hash {
	// NewKeyed only fails for keys that are not 32 bytes long.
	hasher, err := blake3.NewKeyed(hashDomainKey[:])
	if err != nil {
		panic("variant: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(canonical)
	var h Hash
	copy(h[:], hasher.Sum(nil))
	return h
}
