package main

import (
	"encoding/hex"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/anirudhraja/gdvariant"
	"github.com/anirudhraja/gdvariant/bridge"
	"github.com/anirudhraja/gdvariant/internal/logging"
	"github.com/anirudhraja/gdvariant/registry"
	"github.com/anirudhraja/gdvariant/variant"
	"github.com/anirudhraja/gdvariant/wire"
)

func main() {
	logger := logging.New(os.Stderr, logging.DefaultConfig(logging.ProfileRuntime))
	cfg := wire.DefaultConfig()
	cfg.Logger = logger
	codec := gdvariant.New().WithConfig(cfg)

	fmt.Println("gdvariant sample app: a multiplayer state update")
	fmt.Println(strings.Repeat("=", 60))

	// Build the state by hand so key order and widths are explicit
	state := createGameState()
	fmt.Printf("State: %s\n", state)

	data, err := codec.Encode(state)
	if err != nil {
		log.Fatalf("Failed to encode state: %v", err)
	}
	fmt.Printf("Encoded %d bytes: %s\n", len(data), hex.EncodeToString(data))

	decoded, consumed, err := codec.Decode(data)
	if err != nil {
		log.Fatalf("Failed to decode state: %v", err)
	}
	fmt.Printf("Decoded %d bytes, equal to original: %v\n", consumed, decoded.Equal(state))
	fmt.Printf("Content hash: %s\n", decoded.Hash())

	showLookups(decoded.(*variant.Dictionary))

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("Native Go values")
	fmt.Println(strings.Repeat("=", 60))
	demonstrateNative(codec)

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("Packed values and protocol versions")
	fmt.Println(strings.Repeat("=", 60))
	demonstratePacked(codec)
	demonstrateProtocols(state)

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("Readable forms")
	fmt.Println(strings.Repeat("=", 60))
	demonstrateBridges(state)

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("Malformed input")
	fmt.Println(strings.Repeat("=", 60))
	demonstrateErrors(codec, data)
}

func createGameState() *variant.Dictionary {
	inventory := variant.NewDictionary()
	inventory.Insert(variant.NewString("gold"), variant.NewInteger(1250))
	inventory.Insert(variant.NewString("potions"), variant.NewInteger(3))

	player := variant.NewDictionary()
	player.Insert(variant.NewString("name"), variant.NewString("bananaBlox"))
	player.Insert(variant.NewString("alive"), variant.NewBool(true))
	player.Insert(variant.NewString("hp"), variant.NewFloat32(87.5))
	player.Insert(variant.NewString("pos"), variant.NewVector2(9560, 4823))
	player.Insert(variant.NewString("look"), variant.NewVector3(0, 90, 0))
	player.Insert(variant.NewString("inventory"), inventory)

	state := variant.NewDictionary()
	state.Insert(variant.NewString("tick"), variant.NewInteger(1<<40))
	state.Insert(variant.NewString("gravity"), variant.NewFloat64(9.80665))
	state.Insert(variant.NewInteger(693), player)
	state.Insert(variant.NewString("target"), variant.Nil)
	return state
}

func showLookups(state *variant.Dictionary) {
	fmt.Println("\nLookups:")

	tick, ok := variant.Lookup[variant.Integer](state, variant.NewString("tick"))
	fmt.Printf("  tick = %d (wide: %v, found: %v)\n", tick.Value(), tick.Wide(), ok)

	player, ok := variant.Lookup[*variant.Dictionary](state, variant.NewInteger(693))
	if !ok {
		fmt.Println("  player 693 missing")
		return
	}
	pos, _ := variant.Lookup[variant.Vector2](player, variant.NewString("pos"))
	fmt.Printf("  player 693 at %s, %d bytes on the wire\n", pos, player.ByteLength())

	player.Range(func(key, value variant.Value) bool {
		fmt.Printf("    %-10s %-10s %s\n", key, value.Kind(), value)
		return true
	})
}

func demonstrateNative(codec *gdvariant.Codec) {
	// Go maps have no order, so keys are sorted
	native := map[string]interface{}{
		"score":   int64(4200),
		"ratio":   0.75,
		"nick":    "JohnnyDev",
		"spawn":   [2]float32{12, 34},
		"premium": false,
	}

	data, err := codec.Marshal(native)
	if err != nil {
		log.Fatalf("Failed to marshal native map: %v", err)
	}
	fmt.Printf("Marshaled %d bytes\n", len(data))

	back, err := codec.Unmarshal(data)
	if err != nil {
		log.Fatalf("Failed to unmarshal: %v", err)
	}
	fmt.Printf("Unmarshaled: %v\n", back)
}

func demonstratePacked(codec *gdvariant.Codec) {
	data, err := codec.EncodeAll(
		variant.NewString("spawn"),
		variant.NewInteger(693),
		variant.NewVector3(1, 2, 3),
	)
	if err != nil {
		log.Fatalf("Failed to pack values: %v", err)
	}

	header, err := codec.Peek(data)
	if err != nil {
		log.Fatalf("Failed to peek: %v", err)
	}
	fmt.Printf("Packed %d bytes, first value is a %s (code %d)\n", len(data), header.Type.Name, header.TypeCode)

	values, err := codec.DecodeAll(data)
	if err != nil {
		log.Fatalf("Failed to unpack: %v", err)
	}
	for i, v := range values {
		fmt.Printf("  [%d] %-8s %s\n", i, v.Kind(), v)
	}
}

func demonstrateProtocols(state variant.Value) {
	for _, p := range []registry.Protocol{registry.Godot3, registry.Godot4} {
		data, err := gdvariant.NewWithProtocol(p).Encode(state)
		if err != nil {
			log.Fatalf("Failed to encode for %s: %v", p, err)
		}
		fmt.Printf("%s: outer type code %d, %d bytes\n", p, data[0], len(data))
	}
}

func demonstrateBridges(state variant.Value) {
	out, err := bridge.MarshalYAML(state)
	if err != nil {
		log.Fatalf("Failed to render YAML: %v", err)
	}
	fmt.Printf("YAML:\n%s", out)

	cborData, err := bridge.ToCBOR(state)
	if err != nil {
		log.Fatalf("Failed to render CBOR: %v", err)
	}
	diag, err := bridge.DiagnoseCBOR(cborData)
	if err != nil {
		log.Fatalf("Failed to diagnose CBOR: %v", err)
	}
	fmt.Printf("CBOR (%d bytes): %s", len(cborData), diag)

	// JSON needs string keys, so the integer player key is rejected
	if _, err := bridge.MarshalJSON(state, false); err != nil {
		fmt.Printf("JSON: %v\n", err)
	}
}

func demonstrateErrors(codec *gdvariant.Codec, data []byte) {
	inputs := map[string][]byte{
		"truncated":   data[:len(data)-3],
		"unsupported": {6, 0, 0, 0},
		"empty":       {},
	}
	for _, name := range []string{"truncated", "unsupported", "empty"} {
		_, _, err := codec.Decode(inputs[name])
		fmt.Printf("  %-12s %v\n", name, err)
	}
}
