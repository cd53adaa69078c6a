package variant

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ErrUnsupportedNative is returned by From for Go values with no Variant kind
var ErrUnsupportedNative = errors.New("variant: unsupported native type")

// From converts a Go value into a Value. Maps are inserted in sorted key order
// since Go map iteration order is random.
func From(v interface{}) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Nil, nil
	case Value:
		return t, nil
	case bool:
		return NewBool(t), nil
	case int:
		return NewInteger(int64(t)), nil
	case int8:
		return NewInteger(int64(t)), nil
	case int16:
		return NewInteger(int64(t)), nil
	case int32:
		return NewInteger(int64(t)), nil
	case int64:
		return NewInteger(t), nil
	case uint8:
		return NewInteger(int64(t)), nil
	case uint16:
		return NewInteger(int64(t)), nil
	case uint32:
		return NewInteger(int64(t)), nil
	case uint:
		return fromUint64(uint64(t))
	case uint64:
		return fromUint64(t)
	case float32:
		return NewFloat32(t), nil
	case float64:
		return NewFloat64(t), nil
	case string:
		return NewString(t), nil
	case json.Number:
		return fromNumber(t)
	case [2]float32:
		return NewVector2(t[0], t[1]), nil
	case [3]float32:
		return NewVector3(t[0], t[1], t[2]), nil
	case map[string]interface{}:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		d := NewDictionaryWithCapacity(len(keys))
		for _, k := range keys {
			value, err := From(t[k])
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}
			d.Insert(NewString(k), value)
		}
		return d, nil
	case map[interface{}]interface{}:
		entries := make([]Entry, 0, len(t))
		for k, raw := range t {
			key, err := From(k)
			if err != nil {
				return nil, fmt.Errorf("key %v: %w", k, err)
			}
			value, err := From(raw)
			if err != nil {
				return nil, fmt.Errorf("key %v: %w", k, err)
			}
			entries = append(entries, Entry{Key: key, Value: value})
		}
		sort.Slice(entries, func(i, j int) bool {
			return bytes.Compare(entries[i].Key.Canonical(), entries[j].Key.Canonical()) < 0
		})
		d := NewDictionaryWithCapacity(len(entries))
		for _, e := range entries {
			d.Insert(e.Key, e.Value)
		}
		return d, nil
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnsupportedNative, v)
	}
}

func fromUint64(v uint64) (Value, error) {
	if v > math.MaxInt64 {
		return nil, fmt.Errorf("%w: %d overflows int64", ErrUnsupportedNative, v)
	}
	return NewInteger(int64(v)), nil
}

// fromNumber keeps integral numbers as Integer, accepting exponent forms like 1e3
func fromNumber(n json.Number) (Value, error) {
	if iv, err := n.Int64(); err == nil {
		return NewInteger(iv), nil
	}
	f, err := strconv.ParseFloat(n.String(), 64)
	if err != nil {
		return nil, fmt.Errorf("%w: number %q: %v", ErrUnsupportedNative, n.String(), err)
	}
	if f == math.Trunc(f) && !strings.ContainsAny(n.String(), ".") && f >= math.MinInt64 && f < math.MaxInt64 {
		return NewInteger(int64(f)), nil
	}
	return NewFloat64(f), nil
}

// ToNative converts a Value into plain Go values: nil, bool, int64, float64,
// string, [2]float32, [3]float32, and maps. A Dictionary with only String keys
// becomes map[string]interface{}, any other becomes map[interface{}]interface{};
// Dictionary keys that are themselves dictionaries are keyed by their String form.
func ToNative(v Value) interface{} {
	switch t := v.(type) {
	case nil, Null:
		return nil
	case Bool:
		return t.Value()
	case Integer:
		return t.Value()
	case Float:
		return t.Value()
	case String:
		return t.Value()
	case Vector2:
		return [2]float32{t.X, t.Y}
	case Vector3:
		return [3]float32{t.X, t.Y, t.Z}
	case *Dictionary:
		return dictionaryToNative(t)
	default:
		return nil
	}
}

func dictionaryToNative(d *Dictionary) interface{} {
	stringKeys := true
	d.Range(func(key, _ Value) bool {
		_, stringKeys = key.(String)
		return stringKeys
	})

	if stringKeys {
		out := make(map[string]interface{}, d.Len())
		d.Range(func(key, value Value) bool {
			out[key.(String).Value()] = ToNative(value)
			return true
		})
		return out
	}

	out := make(map[interface{}]interface{}, d.Len())
	d.Range(func(key, value Value) bool {
		var k interface{}
		if nested, ok := key.(*Dictionary); ok {
			k = nested.String()
		} else {
			k = ToNative(key)
		}
		out[k] = ToNative(value)
		return true
	})
	return out
}
