// Package wire implements the binary protocol spoken with LED display
// clients: the data frame header, the DAVE-tagged compression envelope,
// and the ClientResponse status struct clients send back.
package wire

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Response is the status record a client returns after receiving frames.
// The wire struct is little-endian and packed; Go's encoding/binary
// decodes it field-by-field so no host-endianness handling is needed here
// (unlike the original C++ client, which only byte-swaps on big-endian
// hosts because it memcpy's the wire bytes directly onto a native struct).
type Response struct {
	Size          uint32
	Sequence      uint64
	FlashVersion  uint32
	CurrentClock  float64
	OldestPacket  float64
	NewestPacket  float64
	Brightness    float64
	WifiSignal    float64
	BufferSize    uint32
	BufferPos     uint32
	FPSDrawing    uint32
	Watts         uint32
}

const (
	// ResponseSize is the encoded length of the current Response struct.
	ResponseSize = 72
	// LegacyResponseSize is the encoded length of the pre-Sequence struct
	// some older clients still send.
	LegacyResponseSize = 64
)

// Encode serializes r in the current 72-byte wire layout. Used by tests and
// by fakes that stand in for a client.
func Encode(r Response) []byte {
	buf := make([]byte, ResponseSize)
	binary.LittleEndian.PutUint32(buf[0:4], r.Size)
	binary.LittleEndian.PutUint64(buf[4:12], r.Sequence)
	binary.LittleEndian.PutUint32(buf[12:16], r.FlashVersion)
	binary.LittleEndian.PutUint64(buf[16:24], math.Float64bits(r.CurrentClock))
	binary.LittleEndian.PutUint64(buf[24:32], math.Float64bits(r.OldestPacket))
	binary.LittleEndian.PutUint64(buf[32:40], math.Float64bits(r.NewestPacket))
	binary.LittleEndian.PutUint64(buf[40:48], math.Float64bits(r.Brightness))
	binary.LittleEndian.PutUint64(buf[48:56], math.Float64bits(r.WifiSignal))
	binary.LittleEndian.PutUint32(buf[56:60], r.BufferSize)
	binary.LittleEndian.PutUint32(buf[60:64], r.BufferPos)
	binary.LittleEndian.PutUint32(buf[64:68], r.FPSDrawing)
	binary.LittleEndian.PutUint32(buf[68:72], r.Watts)
	return buf
}

// Decode parses a current-layout 72-byte Response.
func Decode(buf []byte) (Response, error) {
	if len(buf) < ResponseSize {
		return Response{}, fmt.Errorf("wire: response too short: got %d bytes, need %d", len(buf), ResponseSize)
	}
	return Response{
		Size:         binary.LittleEndian.Uint32(buf[0:4]),
		Sequence:     binary.LittleEndian.Uint64(buf[4:12]),
		FlashVersion: binary.LittleEndian.Uint32(buf[12:16]),
		CurrentClock: math.Float64frombits(binary.LittleEndian.Uint64(buf[16:24])),
		OldestPacket: math.Float64frombits(binary.LittleEndian.Uint64(buf[24:32])),
		NewestPacket: math.Float64frombits(binary.LittleEndian.Uint64(buf[32:40])),
		Brightness:   math.Float64frombits(binary.LittleEndian.Uint64(buf[40:48])),
		WifiSignal:   math.Float64frombits(binary.LittleEndian.Uint64(buf[48:56])),
		BufferSize:   binary.LittleEndian.Uint32(buf[56:60]),
		BufferPos:    binary.LittleEndian.Uint32(buf[60:64]),
		FPSDrawing:   binary.LittleEndian.Uint32(buf[64:68]),
		Watts:        binary.LittleEndian.Uint32(buf[68:72]),
	}, nil
}

// DecodeLegacy parses the pre-Sequence 64-byte layout and maps it onto a
// Response with Sequence left at zero, matching the original firmware's
// OldClientResponse -> ClientResponse assignment.
func DecodeLegacy(buf []byte) (Response, error) {
	if len(buf) < LegacyResponseSize {
		return Response{}, fmt.Errorf("wire: legacy response too short: got %d bytes, need %d", len(buf), LegacyResponseSize)
	}
	return Response{
		Size:         binary.LittleEndian.Uint32(buf[0:4]),
		Sequence:     0,
		FlashVersion: binary.LittleEndian.Uint32(buf[4:8]),
		CurrentClock: math.Float64frombits(binary.LittleEndian.Uint64(buf[8:16])),
		OldestPacket: math.Float64frombits(binary.LittleEndian.Uint64(buf[16:24])),
		NewestPacket: math.Float64frombits(binary.LittleEndian.Uint64(buf[24:32])),
		Brightness:   math.Float64frombits(binary.LittleEndian.Uint64(buf[32:40])),
		WifiSignal:   math.Float64frombits(binary.LittleEndian.Uint64(buf[40:48])),
		BufferSize:   binary.LittleEndian.Uint32(buf[48:52]),
		BufferPos:    binary.LittleEndian.Uint32(buf[52:56]),
		FPSDrawing:   binary.LittleEndian.Uint32(buf[56:60]),
		Watts:        binary.LittleEndian.Uint32(buf[60:64]),
	}, nil
}
