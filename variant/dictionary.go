package variant

import (
	"strings"

	"github.com/anirudhraja/gdvariant/registry"
)

// Entry is one key/value pair of a Dictionary
type Entry struct {
	Key   Value
	Value Value
}

// Dictionary is an insertion-ordered map of Value to Value. Keys are matched by
// canonical bytes, so Integer(1) decoded at 64 bits finds Integer(1) built at 32.
//
// A Dictionary must not contain itself, and keys must not be mutated after insertion.
type Dictionary struct {
	entries  []Entry
	index    map[string]int // canonical key -> position in entries
	consumed int            // bytes consumed when decoded, 0 once mutated
}

// NewDictionary creates an empty Dictionary
func NewDictionary() *Dictionary {
	return &Dictionary{index: make(map[string]int)}
}

// NewDictionaryWithCapacity creates an empty Dictionary sized for n entries
func NewDictionaryWithCapacity(n int) *Dictionary {
	return &Dictionary{
		entries: make([]Entry, 0, n),
		index:   make(map[string]int, n),
	}
}

// Insert sets key to value. An existing key keeps its position. Nil interfaces are stored as Nil.
func (d *Dictionary) Insert(key, value Value) {
	if key == nil {
		key = Nil
	}
	if value == nil {
		value = Nil
	}
	if d.index == nil {
		d.index = make(map[string]int)
	}
	d.consumed = 0

	k := string(key.Canonical())
	if pos, ok := d.index[k]; ok {
		d.entries[pos].Value = value
		return
	}
	d.index[k] = len(d.entries)
	d.entries = append(d.entries, Entry{Key: key, Value: value})
}

// Get returns the value stored under key
func (d *Dictionary) Get(key Value) (Value, bool) {
	if d == nil || key == nil {
		return nil, false
	}
	pos, ok := d.index[string(key.Canonical())]
	if !ok {
		return nil, false
	}
	return d.entries[pos].Value, true
}

// Has reports whether key is present
func (d *Dictionary) Has(key Value) bool {
	_, ok := d.Get(key)
	return ok
}

// Delete removes key and keeps the order of the remaining entries
func (d *Dictionary) Delete(key Value) bool {
	if d == nil || key == nil {
		return false
	}
	k := string(key.Canonical())
	pos, ok := d.index[k]
	if !ok {
		return false
	}
	d.consumed = 0
	delete(d.index, k)
	d.entries = append(d.entries[:pos], d.entries[pos+1:]...)
	for i := pos; i < len(d.entries); i++ {
		d.index[string(d.entries[i].Key.Canonical())] = i
	}
	return true
}

// Len returns the number of entries
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Keys returns the keys in insertion order
func (d *Dictionary) Keys() []Value {
	keys := make([]Value, 0, d.Len())
	for _, e := range d.Entries() {
		keys = append(keys, e.Key)
	}
	return keys
}

// Entries returns a copy of the entries in insertion order
func (d *Dictionary) Entries() []Entry {
	if d == nil {
		return nil
	}
	out := make([]Entry, len(d.entries))
	copy(out, d.entries)
	return out
}

// Range calls fn for every entry in insertion order until fn returns false
func (d *Dictionary) Range(fn func(key, value Value) bool) {
	if d == nil {
		return
	}
	for _, e := range d.entries {
		if !fn(e.Key, e.Value) {
			return
		}
	}
}

// Clone returns a deep copy; nested dictionaries are cloned too
func (d *Dictionary) Clone() *Dictionary {
	out := NewDictionaryWithCapacity(d.Len())
	d.Range(func(key, value Value) bool {
		out.Insert(cloneValue(key), cloneValue(value))
		return true
	})
	return out
}

func cloneValue(v Value) Value {
	if nested, ok := v.(*Dictionary); ok {
		return nested.Clone()
	}
	return v
}

// RecordByteLength stores the number of bytes a decoder consumed for this dictionary.
// Any later Insert or Delete clears it.
func (d *Dictionary) RecordByteLength(n int) {
	d.consumed = n
}

// Kind returns TagDictionary
func (*Dictionary) Kind() registry.TypeTag { return registry.TagDictionary }

// ByteLength returns the consumed length of a decoded dictionary, or the length
// the encoder will produce for one built or mutated by the caller.
func (d *Dictionary) ByteLength() int {
	if d == nil {
		return sizeDict
	}
	if d.consumed > 0 {
		return d.consumed
	}
	return encodedLength(d)
}

// encodedLength follows the encoder's width rules: integers by magnitude,
// everything else by recorded size.
func encodedLength(v Value) int {
	switch t := v.(type) {
	case nil:
		return headerSize
	case Integer:
		if FitsInt32(t.value) {
			return size32
		}
		return size64
	case *Dictionary:
		if t == nil {
			return sizeDict
		}
		n := sizeDict
		for _, e := range t.entries {
			n += encodedLength(e.Key) + encodedLength(e.Value)
		}
		return n
	}
	return v.ByteLength()
}

// Canonical is independent of insertion order
func (d *Dictionary) Canonical() []byte {
	if d == nil {
		return canonicalDictionary(nil)
	}
	return canonicalDictionary(d.entries)
}

// Equal holds when both dictionaries have the same keys and each key maps to an equal value
func (d *Dictionary) Equal(other Value) bool { return equal(d, other) }

func (d *Dictionary) Hash() Hash { return hashOf(d) }

func (d *Dictionary) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	i := 0
	d.Range(func(key, value Value) bool {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(key.String())
		sb.WriteString(": ")
		sb.WriteString(value.String())
		i++
		return true
	})
	sb.WriteByte('}')
	return sb.String()
}

func (*Dictionary) isVariant() {}

// Lookup returns the value under key if it is present and of type T
func Lookup[T Value](d *Dictionary, key Value) (T, bool) {
	var zero T
	v, ok := d.Get(key)
	if !ok {
		return zero, false
	}
	typed, ok := v.(T)
	return typed, ok
}
