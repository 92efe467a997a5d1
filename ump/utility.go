package ump

import "github.com/laenzlinger/go-midi2/bitfield"

// UtilityStatus is the MT-0 (Utility) message kind, carried in bits
// 20..23 of the single message word.
type UtilityStatus uint8

const (
	UtilityNOOP            UtilityStatus = 0x0
	UtilityJRClock         UtilityStatus = 0x1
	UtilityJRTimestamp     UtilityStatus = 0x2
	UtilityDeltaClockTicks UtilityStatus = 0x3 // delta-clockstamp ticks per quarter note
	UtilityDeltaClockstamp UtilityStatus = 0x4
)

// Utility is a single-word MT-0 message: NOOP, JR clock, JR timestamp or
// delta-clockstamp.
type Utility struct {
	w Word
}

// NewUtility builds a Utility message of the given kind carrying a
// 16-bit data value (bits 0..15).
func NewUtility(status UtilityStatus, data uint16) Utility {
	w := WithStatusNibble(0, uint8(status))
	w = bitfield.Set(w, 0, 16, uint32(data))
	return Utility{w: WithGroup(w, 0)}.withMessageType()
}

func (u Utility) withMessageType() Utility {
	u.w = bitfield.Set(u.w, 28, 4, uint32(MTUtility))
	return u
}

// WithGroup returns u with its group field set.
func (u Utility) WithGroup(g uint8) Utility { u.w = WithGroup(u.w, g); return u }

// Group returns u's group field.
func (u Utility) Group() uint8 { return Group(u.w) }

// Status returns the utility message kind.
func (u Utility) Status() UtilityStatus { return UtilityStatus(StatusNibble(u.w)) }

// Data returns the 16-bit data payload.
func (u Utility) Data() uint16 { return uint16(bitfield.Get(u.w, 0, 16)) }

// Word returns the message's single raw word.
func (u Utility) Word() Word { return u.w }

// UtilityFromWord parses a raw MT-0 word into a Utility view.
func UtilityFromWord(w0 Word) Utility { return Utility{w: w0} }
