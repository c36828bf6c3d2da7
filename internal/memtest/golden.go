package memtest

import (
	"bytes"
	"fmt"
	"io"

	"github.com/tetratelabs/wabin/leb128"
)

// LayoutEntry is one row of a checkpointed argument-struct layout:
// the (offset, size, alignment) triple the layout engine assigned to
// one entity, in insertion order.
type LayoutEntry struct {
	Offset, Size, Alignment uint32
}

// EncodeLayout serializes entries as a sequence of LEB128-varint
// triples, the same LEB128 varint encoding wasm itself uses for its
// own local-variable-count prefixes.
func EncodeLayout(entries []LayoutEntry) []byte {
	var buf bytes.Buffer
	buf.Write(leb128.EncodeUint32(uint32(len(entries))))
	for _, e := range entries {
		buf.Write(leb128.EncodeUint32(e.Offset))
		buf.Write(leb128.EncodeUint32(e.Size))
		buf.Write(leb128.EncodeUint32(e.Alignment))
	}
	return buf.Bytes()
}

// DecodeLayout parses the encoding EncodeLayout produces.
func DecodeLayout(data []byte) ([]LayoutEntry, error) {
	r := bytes.NewReader(data)

	count, _, err := leb128.DecodeUint32(r)
	if err != nil {
		return nil, fmt.Errorf("memtest: decode layout count: %w", err)
	}

	entries := make([]LayoutEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		e, err := decodeTriple(r)
		if err != nil {
			return nil, fmt.Errorf("memtest: decode layout entry %d: %w", i, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func decodeTriple(r io.ByteReader) (LayoutEntry, error) {
	offset, _, err := leb128.DecodeUint32(r)
	if err != nil {
		return LayoutEntry{}, err
	}
	size, _, err := leb128.DecodeUint32(r)
	if err != nil {
		return LayoutEntry{}, err
	}
	align, _, err := leb128.DecodeUint32(r)
	if err != nil {
		return LayoutEntry{}, err
	}
	return LayoutEntry{Offset: offset, Size: size, Alignment: align}, nil
}
