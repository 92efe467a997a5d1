// Package ump models Universal MIDI Packet messages: the 32-bit words
// that the MIDI 2.0 transports carry, the sixteen message-type
// categories that select how many words a message occupies, and typed,
// builder-style views over the channel-voice, system, utility and
// SysEx-framing message kinds that the rest of this module produces and
// consumes.
package ump

import "github.com/laenzlinger/go-midi2/bitfield"

// Word is a single 32-bit element of a UMP message.
type Word = uint32

// MessageType is the top nibble of a UMP message's first word. It
// selects the message's category and, with it, how many words the
// message occupies.
type MessageType uint8

// The eight defined message-type categories (MT) of the MIDI 2.0
// Universal MIDI Packet format. MTs not listed here are reserved.
const (
	MTUtility   MessageType = 0x0
	MTSystem    MessageType = 0x1
	MTM1CVM     MessageType = 0x2
	MTData64    MessageType = 0x3
	MTM2CVM     MessageType = 0x4
	MTData128   MessageType = 0x5
	MTFlexData  MessageType = 0xD
	MTUMPStream MessageType = 0xF
)

// MessageSize returns the number of 32-bit words a message of the given
// type occupies, including reserved message types whose length is fixed
// by the UMP format even though their content is not interpreted.
func MessageSize(mt MessageType) int {
	switch mt {
	case 0x0, 0x1, 0x2, 0x6, 0x7:
		return 1
	case 0x3, 0x4, 0x8, 0x9, 0xA:
		return 2
	case 0xB, 0xC:
		return 3
	case 0x5, 0xD, 0xE, 0xF:
		return 4
	default:
		return 1
	}
}

// TypeOf extracts the message type from a message's first word.
func TypeOf(w0 Word) MessageType {
	return MessageType(bitfield.Get(w0, 28, 4))
}

// Group returns the 4-bit group field (bits 24..27) carried in w0. It is
// meaningful for every message type except UMP stream, utility and
// flex-data common-notification messages.
func Group(w0 Word) uint8 {
	return uint8(bitfield.Get(w0, 24, 4))
}

// WithGroup returns w0 with its group field set to g (0..15).
func WithGroup(w0 Word, g uint8) Word {
	return bitfield.Set(w0, 24, 4, uint32(g))
}

// Channel returns the 4-bit channel field (bits 16..19) carried in a
// channel-voice message's first word.
func Channel(w0 Word) uint8 {
	return uint8(bitfield.Get(w0, 16, 4))
}

// WithChannel returns w0 with its channel field set to c (0..15).
func WithChannel(w0 Word, c uint8) Word {
	return bitfield.Set(w0, 16, 4, uint32(c))
}

// StatusNibble returns the 4-bit channel-voice status (bits 20..23) of a
// MIDI-1 or MIDI-2 channel-voice message's first word.
func StatusNibble(w0 Word) uint8 {
	return uint8(bitfield.Get(w0, 20, 4))
}

// WithStatusNibble returns w0 with its channel-voice status field set.
func WithStatusNibble(w0 Word, status uint8) Word {
	return bitfield.Set(w0, 20, 4, uint32(status))
}

// SystemStatus returns the 8-bit status byte (bits 16..23) of a MT-1
// system message's first word — the same value a MIDI-1 byte stream's
// status byte would carry.
func SystemStatus(w0 Word) uint8 {
	return uint8(bitfield.Get(w0, 16, 8))
}

// WithSystemStatus returns w0 with its system status byte set.
func WithSystemStatus(w0 Word, status uint8) Word {
	return bitfield.Set(w0, 16, 8, uint32(status))
}
