package wire

import (
	"encoding/binary"
	"time"

	"ledserver/internal/pixel"
)

// CommandPixelData64 is the WIFI_COMMAND_PIXELDATA64 command tag: the only
// data frame command this server emits.
const CommandPixelData64 = 3

// HeaderSize is the encoded length of a data frame header, before pixels.
const HeaderSize = 2 + 2 + 4 + 8 + 8

// DefaultScheduleLead is the default buffering lead applied to a frame's
// timestamp when the client hasn't reported its buffer geometry.
const DefaultScheduleLead = 2 * time.Second

// BuildDataFrame assembles header||pixelBytes for one feature at one tick.
// capturedAt is the server's wall-clock instant the frame was produced;
// lead is added to the frame's displayed-at timestamp so the client has
// time to buffer before the wall-clock moment arrives.
func BuildDataFrame(channel uint16, pixels []pixel.CRGB, redGreenSwap, reversed bool, capturedAt time.Time, lead time.Duration) []byte {
	payload := SerializePixels(pixels, redGreenSwap, reversed)

	nowUS := capturedAt.UnixMicro()
	leadUS := lead.Microseconds()
	displayUS := nowUS + leadUS

	seconds := uint64(displayUS / 1_000_000)
	microseconds := uint64(displayUS % 1_000_000)

	frame := make([]byte, HeaderSize+len(payload))
	binary.LittleEndian.PutUint16(frame[0:2], CommandPixelData64)
	binary.LittleEndian.PutUint16(frame[2:4], channel)
	binary.LittleEndian.PutUint32(frame[4:8], uint32(len(pixels)))
	binary.LittleEndian.PutUint64(frame[8:16], seconds)
	binary.LittleEndian.PutUint64(frame[16:24], microseconds)
	copy(frame[HeaderSize:], payload)
	return frame
}

// SerializePixels emits three bytes per pixel (RGB, or GRB when
// redGreenSwap), reversing pixel order first when reversed is set.
func SerializePixels(pixels []pixel.CRGB, redGreenSwap, reversed bool) []byte {
	out := make([]byte, 0, len(pixels)*3)
	n := len(pixels)
	for i := 0; i < n; i++ {
		idx := i
		if reversed {
			idx = n - 1 - i
		}
		p := pixels[idx]
		if redGreenSwap {
			out = append(out, p.G, p.R, p.B)
		} else {
			out = append(out, p.R, p.G, p.B)
		}
	}
	return out
}

// ScheduleLead computes the buffering lead for a feature. When
// framesPerBuffer is zero (the client never reported its buffer
// geometry), DefaultScheduleLead is used; otherwise the lead is derived
// from the reported buffer depth and the fraction of it to keep full.
func ScheduleLead(framesPerBuffer int, percentBufferUse float64, fps float64) time.Duration {
	if framesPerBuffer <= 0 || fps <= 0 {
		return DefaultScheduleLead
	}
	seconds := float64(framesPerBuffer) * percentBufferUse / fps
	return time.Duration(seconds * float64(time.Second))
}

// Header is the decoded fixed header portion of a raw data frame, used
// primarily by tests verifying the framing round-trip.
type Header struct {
	Command      uint16
	Channel      uint16
	PixelCount   uint32
	Seconds      uint64
	Microseconds uint64
}

// ParseHeader reads the header prefix of a raw (uncompressed) data frame.
func ParseHeader(frame []byte) Header {
	return Header{
		Command:      binary.LittleEndian.Uint16(frame[0:2]),
		Channel:      binary.LittleEndian.Uint16(frame[2:4]),
		PixelCount:   binary.LittleEndian.Uint32(frame[4:8]),
		Seconds:      binary.LittleEndian.Uint64(frame[8:16]),
		Microseconds: binary.LittleEndian.Uint64(frame[16:24]),
	}
}
