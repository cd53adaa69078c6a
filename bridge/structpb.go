// Package bridge converts Variant values to and from other data formats:
// protobuf structpb values and their JSON form, YAML node trees, and CBOR.
package bridge

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/anirudhraja/gdvariant/variant"
)

// ErrUnrepresentable is returned when a value has no faithful form in the target format
var ErrUnrepresentable = errors.New("bridge: value not representable in target format")

// maxSafeInteger is the largest magnitude a float64 holds without losing integer precision
const maxSafeInteger = 1 << 53

// ===== STRUCTPB =====

// ToStructValue converts v into a google.protobuf.Value.
// Dictionaries need String keys; their order is not kept.
func ToStructValue(v variant.Value) (*structpb.Value, error) {
	switch t := v.(type) {
	case nil, variant.Null:
		return structpb.NewNullValue(), nil
	case variant.Bool:
		return structpb.NewBoolValue(t.Value()), nil
	case variant.Integer:
		if t.Value() > maxSafeInteger || t.Value() < -maxSafeInteger {
			return nil, fmt.Errorf("%w: integer %d exceeds 2^53", ErrUnrepresentable, t.Value())
		}
		return structpb.NewNumberValue(float64(t.Value())), nil
	case variant.Float:
		if math.IsNaN(t.Value()) || math.IsInf(t.Value(), 0) {
			return nil, fmt.Errorf("%w: float %s", ErrUnrepresentable, t)
		}
		return structpb.NewNumberValue(t.Value()), nil
	case variant.String:
		return structpb.NewStringValue(t.Value()), nil
	case variant.Vector2:
		return numberList(t.X, t.Y)
	case variant.Vector3:
		return numberList(t.X, t.Y, t.Z)
	case *variant.Dictionary:
		if t == nil {
			return structpb.NewNullValue(), nil
		}
		return dictionaryToStruct(t)
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnrepresentable, v)
	}
}

func numberList(components ...float32) (*structpb.Value, error) {
	values := make([]*structpb.Value, len(components))
	for i, c := range components {
		f := float64(c)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w: vector component %v", ErrUnrepresentable, c)
		}
		values[i] = structpb.NewNumberValue(f)
	}
	return structpb.NewListValue(&structpb.ListValue{Values: values}), nil
}

func dictionaryToStruct(d *variant.Dictionary) (*structpb.Value, error) {
	fields := make(map[string]*structpb.Value, d.Len())
	var err error
	d.Range(func(key, value variant.Value) bool {
		s, ok := key.(variant.String)
		if !ok {
			err = fmt.Errorf("%w: %s key %s", ErrUnrepresentable, key.Kind(), key)
			return false
		}
		var pv *structpb.Value
		if pv, err = ToStructValue(value); err != nil {
			err = fmt.Errorf("key %q: %w", s.Value(), err)
			return false
		}
		fields[s.Value()] = pv
		return true
	})
	if err != nil {
		return nil, err
	}
	return structpb.NewStructValue(&structpb.Struct{Fields: fields}), nil
}

// FromStructValue converts a google.protobuf.Value into a Variant.
// Integral numbers become Integer, other numbers 64-bit Float, lists of
// two or three numbers become vectors. Struct keys are inserted in sorted order.
func FromStructValue(pv *structpb.Value) (variant.Value, error) {
	if pv == nil {
		return variant.Nil, nil
	}

	switch k := pv.GetKind().(type) {
	case nil, *structpb.Value_NullValue:
		return variant.Nil, nil
	case *structpb.Value_BoolValue:
		return variant.NewBool(k.BoolValue), nil
	case *structpb.Value_NumberValue:
		return fromNumber(k.NumberValue), nil
	case *structpb.Value_StringValue:
		return variant.NewString(k.StringValue), nil
	case *structpb.Value_ListValue:
		return fromList(k.ListValue.GetValues())
	case *structpb.Value_StructValue:
		fields := k.StructValue.GetFields()
		keys := make([]string, 0, len(fields))
		for key := range fields {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		d := variant.NewDictionaryWithCapacity(len(keys))
		for _, key := range keys {
			value, err := FromStructValue(fields[key])
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", key, err)
			}
			d.Insert(variant.NewString(key), value)
		}
		return d, nil
	default:
		return nil, fmt.Errorf("%w: structpb kind %T", ErrUnrepresentable, k)
	}
}

func fromNumber(f float64) variant.Value {
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return variant.NewInteger(int64(f))
	}
	return variant.NewFloat64(f)
}

func fromList(values []*structpb.Value) (variant.Value, error) {
	if len(values) != 2 && len(values) != 3 {
		return nil, fmt.Errorf("%w: list of %d elements", ErrUnrepresentable, len(values))
	}
	components := make([]float32, len(values))
	for i, v := range values {
		n, ok := v.GetKind().(*structpb.Value_NumberValue)
		if !ok {
			return nil, fmt.Errorf("%w: non-numeric vector component %d", ErrUnrepresentable, i)
		}
		components[i] = float32(n.NumberValue)
	}
	if len(components) == 2 {
		return variant.NewVector2(components[0], components[1]), nil
	}
	return variant.NewVector3(components[0], components[1], components[2]), nil
}

// ===== JSON =====

// MarshalJSON renders v as JSON through its structpb form
func MarshalJSON(v variant.Value, indent bool) ([]byte, error) {
	pv, err := ToStructValue(v)
	if err != nil {
		return nil, err
	}
	opts := protojson.MarshalOptions{}
	if indent {
		opts.Multiline = true
		opts.Indent = "  "
	}
	return opts.Marshal(pv)
}

// UnmarshalJSON parses JSON into a Variant via structpb
func UnmarshalJSON(data []byte) (variant.Value, error) {
	var pv structpb.Value
	if err := protojson.Unmarshal(data, &pv); err != nil {
		return nil, fmt.Errorf("bridge: parse JSON: %w", err)
	}
	return FromStructValue(&pv)
}
