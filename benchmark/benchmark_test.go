package benchmark

import (
	"testing"

	"github.com/fxamacker/cbor/v2"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/anirudhraja/gdvariant"
	"github.com/anirudhraja/gdvariant/bridge"
	"github.com/anirudhraja/gdvariant/variant"
	"github.com/anirudhraja/gdvariant/wire"
)

// Global test data, one game state per encoding
var (
	codec = gdvariant.New()

	// Simple payload (flat player record)
	simpleState   variant.Value
	simplePayload []byte
	simpleStruct  []byte
	simpleCBOR    []byte

	// Complex payload (nested dictionaries and vectors)
	complexState   variant.Value
	complexPayload []byte
	complexStruct  []byte
	complexCBOR    []byte
)

func init() {
	simpleState = createSimpleState()
	simplePayload, simpleStruct, simpleCBOR = encodeAll(simpleState)

	complexState = createComplexState()
	complexPayload, complexStruct, complexCBOR = encodeAll(complexState)
}

func createSimpleState() variant.Value {
	player := variant.NewDictionary()
	player.Insert(variant.NewString("id"), variant.NewInteger(693))
	player.Insert(variant.NewString("name"), variant.NewString("bananaBlox"))
	player.Insert(variant.NewString("alive"), variant.NewBool(true))
	player.Insert(variant.NewString("hp"), variant.NewFloat32(87.5))
	player.Insert(variant.NewString("pos"), variant.NewVector2(9560, 4823))
	return player
}

func createComplexState() variant.Value {
	players := variant.NewDictionary()
	for i := 0; i < 32; i++ {
		inventory := variant.NewDictionary()
		inventory.Insert(variant.NewString("gold"), variant.NewInteger(int64(i*100)))
		inventory.Insert(variant.NewString("potions"), variant.NewInteger(int64(i%5)))
		inventory.Insert(variant.NewString("weapon"), variant.NewString("sword"))

		player := variant.NewDictionary()
		player.Insert(variant.NewString("id"), variant.NewInteger(int64(1000+i)))
		player.Insert(variant.NewString("pos"), variant.NewVector3(float32(i), 0, float32(-i)))
		player.Insert(variant.NewString("speed"), variant.NewFloat64(5.25))
		player.Insert(variant.NewString("inventory"), inventory)

		players.Insert(variant.NewString("player_"+string(rune('a'+i%26))+string(rune('0'+i/26))), player)
	}

	state := variant.NewDictionary()
	state.Insert(variant.NewString("tick"), variant.NewInteger(1<<40))
	state.Insert(variant.NewString("map"), variant.NewString("arena_03"))
	state.Insert(variant.NewString("players"), players)
	return state
}

func encodeAll(v variant.Value) (payload, structBytes, cborBytes []byte) {
	payload, err := codec.Encode(v)
	if err != nil {
		panic("Failed to create Variant payload: " + err.Error())
	}
	pv, err := bridge.ToStructValue(v)
	if err != nil {
		panic("Failed to convert to structpb: " + err.Error())
	}
	structBytes, err = proto.Marshal(pv)
	if err != nil {
		panic("Failed to create structpb payload: " + err.Error())
	}
	cborBytes, err = bridge.ToCBOR(v)
	if err != nil {
		panic("Failed to create CBOR payload: " + err.Error())
	}
	return payload, structBytes, cborBytes
}

// ===== SIMPLE PAYLOAD BENCHMARKS =====

func BenchmarkSimple_Decode(b *testing.B) {
	benchmarkDecode(b, simplePayload)
}

func BenchmarkSimple_Structpb(b *testing.B) {
	benchmarkStructpb(b, simpleStruct)
}

func BenchmarkSimple_CBOR(b *testing.B) {
	benchmarkCBOR(b, simpleCBOR)
}

func BenchmarkSimple_Encode(b *testing.B) {
	benchmarkEncode(b, simpleState)
}

// ===== COMPLEX PAYLOAD BENCHMARKS =====

func BenchmarkComplex_Decode(b *testing.B) {
	benchmarkDecode(b, complexPayload)
}

func BenchmarkComplex_Structpb(b *testing.B) {
	benchmarkStructpb(b, complexStruct)
}

func BenchmarkComplex_CBOR(b *testing.B) {
	benchmarkCBOR(b, complexCBOR)
}

func BenchmarkComplex_Encode(b *testing.B) {
	benchmarkEncode(b, complexState)
}

func BenchmarkComplex_Hash(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = complexState.Hash()
	}
}

func benchmarkDecode(b *testing.B, payload []byte) {
	b.ReportMetric(float64(len(payload)), "payload_bytes")
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		value, _, err := codec.Decode(payload)
		if err != nil {
			b.Fatal(err)
		}
		_ = value
	}
}

func benchmarkStructpb(b *testing.B, payload []byte) {
	b.ReportMetric(float64(len(payload)), "payload_bytes")
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		message := &structpb.Value{}
		if err := proto.Unmarshal(payload, message); err != nil {
			b.Fatal(err)
		}
		_ = message
	}
}

func benchmarkCBOR(b *testing.B, payload []byte) {
	b.ReportMetric(float64(len(payload)), "payload_bytes")
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		var value any
		if err := cbor.Unmarshal(payload, &value); err != nil {
			b.Fatal(err)
		}
		_ = value
	}
}

func benchmarkEncode(b *testing.B, v variant.Value) {
	b.ReportAllocs()
	buf := make([]byte, 0, 4096)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		out, err := wire.AppendEncode(buf[:0], v)
		if err != nil {
			b.Fatal(err)
		}
		buf = out
	}
}

func TestBenchmarkVerification(t *testing.T) {
	t.Logf("Simple payload: %d bytes (structpb %d, CBOR %d)", len(simplePayload), len(simpleStruct), len(simpleCBOR))
	t.Logf("Complex payload: %d bytes (structpb %d, CBOR %d)", len(complexPayload), len(complexStruct), len(complexCBOR))

	for _, tc := range []struct {
		name    string
		state   variant.Value
		payload []byte
		structs []byte
	}{
		{"simple", simpleState, simplePayload, simpleStruct},
		{"complex", complexState, complexPayload, complexStruct},
	} {
		decoded, n, err := codec.Decode(tc.payload)
		if err != nil {
			t.Fatalf("%s: decode failed: %v", tc.name, err)
		}
		if n != len(tc.payload) || !decoded.Equal(tc.state) {
			t.Errorf("%s: decoded value differs from the benchmark state", tc.name)
		}

		message := &structpb.Value{}
		if err := proto.Unmarshal(tc.structs, message); err != nil {
			t.Fatalf("%s: structpb unmarshal failed: %v", tc.name, err)
		}
		fromStruct, err := bridge.FromStructValue(message)
		if err != nil {
			t.Fatalf("%s: FromStructValue failed: %v", tc.name, err)
		}
		if fromStruct.Kind() != tc.state.Kind() {
			t.Errorf("%s: expected %s, got %s", tc.name, tc.state.Kind(), fromStruct.Kind())
		}
	}
}
