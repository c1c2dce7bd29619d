package wire

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"fmt"
	"io"
)

// CompressedTag is the magic "DAVE" tag clients use to recognize a
// compressed frame header.
const CompressedTag = 0x44415645

// customTag has no meaning to this server; it is carried through to match
// the wire format the client expects.
const customTag = 0x12345678

// compressedHeaderSize is the length of the header in front of the
// compressed payload: tag, compressedLen, originalLen, customTag.
const compressedHeaderSize = 4 * 4

// Compress wraps a raw data frame in the DAVE-tagged compression header,
// compressing the payload with RFC 1950 zlib at best-speed.
func Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := zlib.NewWriterLevel(&buf, zlib.BestSpeed)
	if err != nil {
		return nil, fmt.Errorf("wire: creating zlib writer: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return nil, fmt.Errorf("wire: compressing frame: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("wire: flushing compressed frame: %w", err)
	}
	compressed := buf.Bytes()

	out := make([]byte, compressedHeaderSize+len(compressed))
	binary.LittleEndian.PutUint32(out[0:4], CompressedTag)
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(compressed)))
	binary.LittleEndian.PutUint32(out[8:12], uint32(len(data)))
	binary.LittleEndian.PutUint32(out[12:16], customTag)
	copy(out[compressedHeaderSize:], compressed)
	return out, nil
}

// Decompress reverses Compress, returning the original uncompressed data
// frame. Used by tests to verify the framing round-trip.
func Decompress(frame []byte) ([]byte, error) {
	if len(frame) < compressedHeaderSize {
		return nil, fmt.Errorf("wire: compressed frame too short: got %d bytes", len(frame))
	}
	tag := binary.LittleEndian.Uint32(frame[0:4])
	if tag != CompressedTag {
		return nil, fmt.Errorf("wire: bad compressed frame tag 0x%08X", tag)
	}
	compressedLen := binary.LittleEndian.Uint32(frame[4:8])
	originalLen := binary.LittleEndian.Uint32(frame[8:12])

	payload := frame[compressedHeaderSize:]
	if uint32(len(payload)) < compressedLen {
		return nil, fmt.Errorf("wire: compressed frame truncated: want %d bytes, got %d", compressedLen, len(payload))
	}

	r, err := zlib.NewReader(bytes.NewReader(payload[:compressedLen]))
	if err != nil {
		return nil, fmt.Errorf("wire: opening zlib reader: %w", err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("wire: decompressing frame: %w", err)
	}
	if uint32(len(out)) != originalLen {
		return nil, fmt.Errorf("wire: decompressed length mismatch: want %d, got %d", originalLen, len(out))
	}
	return out, nil
}
