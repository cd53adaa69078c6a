package wire

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"

	"github.com/anirudhraja/gdvariant/registry"
	"github.com/anirudhraja/gdvariant/variant"
)

// DictionaryDecoder handles Dictionary payloads: a count followed by key/value pairs
type DictionaryDecoder struct {
	decoder *Decoder
}

// DictionaryEncoder handles Dictionary payloads
type DictionaryEncoder struct {
	encoder *Encoder
}

// NewDictionaryDecoder creates a new dictionary decoder
func NewDictionaryDecoder(d *Decoder) *DictionaryDecoder {
	return &DictionaryDecoder{decoder: d}
}

// NewDictionaryEncoder creates a new dictionary encoder
func NewDictionaryEncoder(e *Encoder) *DictionaryEncoder {
	return &DictionaryEncoder{encoder: e}
}

// DECODER METHODS

// DecodeDictionary decodes the payload of a dictionary whose header started at start.
// Entries with a Null key are dropped; the cursor still moves past their value.
func (dd *DictionaryDecoder) DecodeDictionary(start int) (*variant.Dictionary, error) {
	d := dd.decoder
	if d.depth >= d.config.maxDepth() {
		return nil, fmt.Errorf("%w: limit %d", ErrMaxDepth, d.config.maxDepth())
	}
	d.depth++
	defer func() { d.depth-- }()

	if err := d.need(4, "Dictionary count"); err != nil {
		return nil, err
	}
	count := int(binary.LittleEndian.Uint32(d.buf[d.pos:]))
	d.pos += 4

	// every pair takes at least two headers
	capacity := count
	if maxPairs := d.Remaining() / (2 * HeaderSize); capacity > maxPairs {
		capacity = maxPairs
	}
	dict := variant.NewDictionaryWithCapacity(capacity)

	for i := 0; i < count; i++ {
		keyOffset := d.pos
		key, err := d.decodeValue()
		if err != nil {
			return nil, wrapDecodePath(err, entrySegment(i, "key"))
		}
		value, err := d.decodeValue()
		if err != nil {
			return nil, wrapDecodePath(err, entrySegment(i, "value"))
		}

		if key.Kind() == registry.TagNull {
			d.config.Logger.Debug().
				Int("offset", keyOffset).
				Int("entry", i).
				Str("value_kind", value.Kind().String()).
				Msg("dropping dictionary entry with null key")
			continue
		}
		dict.Insert(key, value)
	}

	dict.RecordByteLength(d.pos - start)
	return dict, nil
}

// ENCODER METHODS

// EncodeDictionary writes the entry count and each key/value pair in insertion order
func (de *DictionaryEncoder) EncodeDictionary(dict *variant.Dictionary) error {
	e := de.encoder
	if e.depth >= e.config.maxDepth() {
		return fmt.Errorf("%w: limit %d", ErrMaxDepth, e.config.maxDepth())
	}
	if dict.Len() > math.MaxInt32 {
		return fmt.Errorf("%w: dictionary with %d entries", ErrUnsupportedVariant, dict.Len())
	}
	e.depth++
	defer func() { e.depth-- }()

	e.buf = binary.LittleEndian.AppendUint32(e.buf, uint32(dict.Len()))

	var err error
	i := 0
	dict.Range(func(key, value variant.Value) bool {
		if err = e.encodeValue(key); err != nil {
			err = wrapEncodePath(err, entrySegment(i, "key"))
			return false
		}
		if err = e.encodeValue(value); err != nil {
			err = wrapEncodePath(err, entrySegment(i, "value"))
			return false
		}
		i++
		return true
	})
	return err
}

// FormatPath renders an error path such as "[2].value[0].key"
func FormatPath(path []string) string {
	return strings.Join(path, "")
}
