package wire

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/anirudhraja/gdvariant/registry"
	"github.com/anirudhraja/gdvariant/variant"
)

func TestEncoder_PrimitiveTypes(t *testing.T) {
	dict := variant.NewDictionary()
	dict.Insert(variant.NewString("position"), variant.NewVector3(0.52, 502, 68))
	dict.Insert(variant.NewString("id"), variant.NewInteger(693))

	tests := []struct {
		name  string
		value variant.Value
		want  []byte
	}{
		{"null", variant.Nil, []byte{0, 0, 0, 0}},
		{"bool true", variant.NewBool(true), []byte{1, 0, 0, 0, 1, 0, 0, 0}},
		{"bool false", variant.NewBool(false), []byte{1, 0, 0, 0, 0, 0, 0, 0}},
		{"int32", variant.NewInteger(592), []byte{2, 0, 0, 0, 80, 2, 0, 0}},
		{"int64", variant.NewInteger(59243245345643), []byte{2, 0, 1, 0, 107, 27, 152, 164, 225, 53, 0, 0}},
		{"float32", variant.NewFloat32(-2.25), []byte{3, 0, 0, 0, 0, 0, 16, 192}},
		{"float64", variant.NewFloat64(0.59243245345643), []byte{3, 0, 1, 0, 174, 230, 149, 231, 52, 245, 226, 63}},
		{"string", variant.NewString("bananaBlox"), []byte{4, 0, 0, 0, 10, 0, 0, 0, 98, 97, 110, 97, 110, 97, 66, 108, 111, 120, 0, 0}},
		{"vector2", variant.NewVector2(52, 68421), []byte{5, 0, 0, 0, 0, 0, 80, 66, 128, 162, 133, 71}},
		{"vector3", variant.NewVector3(52, 68421, 582382), []byte{7, 0, 0, 0, 0, 0, 80, 66, 128, 162, 133, 71, 224, 46, 14, 73}},
		{"dictionary", dict, []byte{
			18, 0, 0, 0, 2, 0, 0, 0,
			4, 0, 0, 0, 8, 0, 0, 0, 112, 111, 115, 105, 116, 105, 111, 110,
			7, 0, 0, 0, 184, 30, 5, 63, 0, 0, 251, 67, 0, 0, 136, 66,
			4, 0, 0, 0, 2, 0, 0, 0, 105, 100, 0, 0,
			2, 0, 0, 0, 181, 2, 0, 0,
		}},
		{"empty dictionary", variant.NewDictionary(), []byte{18, 0, 0, 0, 0, 0, 0, 0}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := Encode(test.value)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if !bytes.Equal(got, test.want) {
				t.Errorf("expected %v, got %v", test.want, got)
			}
			if len(got) != test.value.ByteLength() {
				t.Errorf("ByteLength %d does not match encoded %d", test.value.ByteLength(), len(got))
			}
		})
	}
}

func TestEncoder_IntegerWidth(t *testing.T) {
	tests := []struct {
		value int64
		want  []byte
	}{
		{math.MaxInt32, []byte{2, 0, 0, 0, 255, 255, 255, 127}},
		{math.MaxInt32 + 1, []byte{2, 0, 1, 0, 0, 0, 0, 128, 0, 0, 0, 0}},
		{math.MinInt32, []byte{2, 0, 0, 0, 0, 0, 0, 128}},
		{math.MinInt32 - 1, []byte{2, 0, 1, 0, 255, 255, 255, 127, 255, 255, 255, 255}},
		{-1, []byte{2, 0, 0, 0, 255, 255, 255, 255}},
	}

	for _, test := range tests {
		got, err := Encode(variant.NewInteger(test.value))
		if err != nil {
			t.Fatalf("Encode(%d) failed: %v", test.value, err)
		}
		if !bytes.Equal(got, test.want) {
			t.Errorf("Encode(%d): expected %v, got %v", test.value, test.want, got)
		}
	}

	// width is chosen by magnitude, not by the recorded size
	got, err := Encode(variant.NewInteger64(5))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(got) != 8 {
		t.Errorf("expected 8 bytes for small wide integer, got %d", len(got))
	}
}

func TestEncoder_FloatWidth(t *testing.T) {
	got, err := Encode(variant.NewFloat32(1.5))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if !bytes.Equal(got, []byte{3, 0, 0, 0, 0, 0, 192, 63}) {
		t.Errorf("unexpected float32 encoding %v", got)
	}

	got, err = Encode(variant.NewFloat64(1.5))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if len(got) != 12 || got[2] != 1 {
		t.Errorf("expected wide float encoding, got %v", got)
	}
}

func TestEncoder_RoundTrip(t *testing.T) {
	inner := variant.NewDictionary()
	inner.Insert(variant.NewInteger(1), variant.NewBool(true))
	inner.Insert(variant.NewVector2(1, 2), variant.NewFloat64(math.Pi))

	outer := variant.NewDictionary()
	outer.Insert(variant.NewString("name"), variant.NewString("héllo wörld"))
	outer.Insert(variant.NewString("inner"), inner)
	outer.Insert(variant.NewString("big"), variant.NewInteger(math.MaxInt64))
	outer.Insert(variant.NewString("small"), variant.NewInteger(math.MinInt64))
	outer.Insert(variant.NewString("none"), variant.Nil)
	outer.Insert(inner.Clone(), variant.NewVector3(-1, 0, 1))

	values := []variant.Value{
		variant.Nil,
		variant.NewBool(true),
		variant.NewInteger(0),
		variant.NewInteger(-59243245345643),
		variant.NewFloat32(float32(math.Inf(1))),
		variant.NewFloat64(math.SmallestNonzeroFloat64),
		variant.NewString(""),
		variant.NewString("日本語"),
		variant.NewVector2(0, -0.5),
		variant.NewVector3(1e-30, 1e30, 3),
		outer,
	}

	for _, v := range values {
		encoded, err := Encode(v)
		if err != nil {
			t.Fatalf("Encode(%s) failed: %v", v, err)
		}
		if len(encoded) != v.ByteLength() {
			t.Errorf("%s: ByteLength %d does not match encoded %d", v, v.ByteLength(), len(encoded))
		}

		decoded, consumed, err := Decode(encoded)
		if err != nil {
			t.Fatalf("Decode(%s) failed: %v", v, err)
		}
		if consumed != len(encoded) {
			t.Errorf("%s: expected %d bytes consumed, got %d", v, len(encoded), consumed)
		}
		if !decoded.Equal(v) {
			t.Errorf("expected %s, got %s", v, decoded)
		}

		reencoded, err := Encode(decoded)
		if err != nil {
			t.Fatalf("re-Encode(%s) failed: %v", v, err)
		}
		if !bytes.Equal(reencoded, encoded) {
			t.Errorf("%s: re-encoding differs", v)
		}
	}
}

func TestEncoder_NaNRoundTrip(t *testing.T) {
	encoded, err := Encode(variant.NewFloat64(math.NaN()))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	decoded, _, err := Decode(encoded)
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !math.IsNaN(decoded.(variant.Float).Value()) {
		t.Errorf("expected NaN, got %s", decoded)
	}
}

func TestEncoder_ConsumedLength(t *testing.T) {
	dict := variant.NewDictionary()
	dict.Insert(variant.NewString("hp"), variant.NewInteger(100))

	pairs := [][2]variant.Value{
		{variant.NewString("abc"), variant.NewInteger(7)},
		{dict, variant.NewVector3(1, 2, 3)},
		{variant.NewFloat64(0.64), variant.Nil},
		{variant.NewInteger(math.MaxInt64), dict},
	}

	for _, pair := range pairs {
		a, _ := Encode(pair[0])
		b, _ := Encode(pair[1])
		data := append(append([]byte{}, a...), b...)

		first, n, err := Decode(data)
		if err != nil {
			t.Fatalf("Decode first failed: %v", err)
		}
		second, m, err := Decode(data[n:])
		if err != nil {
			t.Fatalf("Decode second failed: %v", err)
		}
		if n+m != len(data) {
			t.Errorf("expected %d bytes total, got %d", len(data), n+m)
		}
		if !first.Equal(pair[0]) || !second.Equal(pair[1]) {
			t.Errorf("expected (%s, %s), got (%s, %s)", pair[0], pair[1], first, second)
		}
	}
}

type customValue struct {
	variant.Null
}

func TestEncoder_Errors(t *testing.T) {
	tests := []struct {
		name    string
		value   variant.Value
		wantErr error
	}{
		{"nil value", nil, ErrUnsupportedVariant},
		{"nil dictionary", (*variant.Dictionary)(nil), ErrUnsupportedVariant},
		{"foreign value", customValue{}, ErrUnsupportedVariant},
		{"invalid utf8", variant.NewString(string([]byte{0xff, 0xfe})), ErrInvalidText},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Encode(test.value)
			if !errors.Is(err, test.wantErr) {
				t.Fatalf("expected %v, got %v", test.wantErr, err)
			}
			var ee *EncodeError
			if !errors.As(err, &ee) {
				t.Errorf("expected *EncodeError, got %T", err)
			}
		})
	}
}

func TestEncoder_ErrorPath(t *testing.T) {
	inner := variant.NewDictionary()
	inner.Insert(variant.NewString("bad"), variant.NewString("\xff"))
	outer := variant.NewDictionary()
	outer.Insert(variant.NewString("ok"), variant.NewInteger(1))
	outer.Insert(variant.NewString("inner"), inner)

	e := NewEncoder()
	if err := e.Encode(variant.NewInteger(1)); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	before := append([]byte{}, e.Bytes()...)

	err := e.Encode(outer)
	var ee *EncodeError
	if !errors.As(err, &ee) {
		t.Fatalf("expected *EncodeError, got %v", err)
	}
	if got := FormatPath(ee.Path); got != "[1].value[0].value" {
		t.Errorf("expected path [1].value[0].value, got %s", got)
	}
	if !errors.Is(err, ErrInvalidText) {
		t.Errorf("expected ErrInvalidText, got %v", err)
	}
	if !bytes.Equal(e.Bytes(), before) {
		t.Errorf("failed Encode must leave the buffer unchanged")
	}
}

func TestEncoder_MaxDepth(t *testing.T) {
	nested := variant.NewDictionary()
	for i := 0; i < 3; i++ {
		outer := variant.NewDictionary()
		outer.Insert(variant.NewInteger(int64(i)), nested)
		nested = outer
	}

	e := NewEncoder().WithConfig(Config{MaxDepth: 3})
	if err := e.Encode(nested); !errors.Is(err, ErrMaxDepth) {
		t.Errorf("expected ErrMaxDepth, got %v", err)
	}
	e = NewEncoder().WithConfig(Config{MaxDepth: 4})
	if err := e.Encode(nested); err != nil {
		t.Errorf("expected depth 4 to encode, got %v", err)
	}
}

func TestEncoder_Godot4(t *testing.T) {
	dict := variant.NewDictionary()
	dict.Insert(variant.NewString("v"), variant.NewVector3(52, 68421, 582382))

	got, err := EncodeWithRegistry(dict, registry.New(registry.Godot4))
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if got[0] != 27 {
		t.Errorf("expected dictionary code 27, got %d", got[0])
	}
	// 8 bytes of dictionary header, 12 bytes of key
	if got[20] != 9 {
		t.Errorf("expected Vector3 code 9, got %d", got[20])
	}

	decoded, _, err := DecodeWithRegistry(got, registry.New(registry.Godot4))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if !decoded.Equal(dict) {
		t.Errorf("expected %s, got %s", dict, decoded)
	}
}

func TestEncoder_ResetAndAppend(t *testing.T) {
	e := NewEncoder()
	if err := e.Encode(variant.NewBool(true)); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	e.Reset()
	if len(e.Bytes()) != 0 {
		t.Errorf("expected empty buffer after Reset, got %v", e.Bytes())
	}

	dst := []byte{0xaa}
	out, err := AppendEncode(dst, variant.NewInteger(592))
	if err != nil {
		t.Fatalf("AppendEncode failed: %v", err)
	}
	if !bytes.Equal(out, []byte{0xaa, 2, 0, 0, 0, 80, 2, 0, 0}) {
		t.Errorf("unexpected append result %v", out)
	}

	out, err = AppendEncode(dst, nil)
	if err == nil || !bytes.Equal(out, dst) {
		t.Errorf("expected error and unchanged dst, got %v %v", out, err)
	}
}
