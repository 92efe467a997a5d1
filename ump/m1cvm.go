package ump

import "github.com/laenzlinger/go-midi2/bitfield"

// M1CVMStatus is the MT-2 (MIDI-1 channel voice) status nibble.
type M1CVMStatus uint8

const (
	M1NoteOff         M1CVMStatus = 0x8
	M1NoteOn          M1CVMStatus = 0x9
	M1PolyPressure    M1CVMStatus = 0xA
	M1ControlChange   M1CVMStatus = 0xB
	M1ProgramChange   M1CVMStatus = 0xC
	M1ChannelPressure M1CVMStatus = 0xD
	M1PitchBend       M1CVMStatus = 0xE
)

// M1CVM is a single-word MT-2 message carrying the MIDI-1 channel-voice
// status, channel, and up to two 7-bit data bytes.
type M1CVM struct {
	w Word
}

// NewM1CVM builds an M1CVM message. data2 is ignored (left zero) for
// the one-data-byte statuses (program change, channel pressure).
func NewM1CVM(channel uint8, status M1CVMStatus, data1, data2 byte) M1CVM {
	w := WithChannel(0, channel)
	w = WithStatusNibble(w, uint8(status))
	w = bitfield.Set(w, 8, 8, uint32(data1))
	if status != M1ProgramChange && status != M1ChannelPressure {
		w = bitfield.Set(w, 0, 8, uint32(data2))
	}
	w = bitfield.Set(w, 28, 4, uint32(MTM1CVM))
	return M1CVM{w: w}
}

func (m M1CVM) WithGroup(g uint8) M1CVM   { m.w = WithGroup(m.w, g); return m }
func (m M1CVM) Group() uint8              { return Group(m.w) }
func (m M1CVM) Channel() uint8            { return Channel(m.w) }
func (m M1CVM) Status() M1CVMStatus       { return M1CVMStatus(StatusNibble(m.w)) }
func (m M1CVM) Data1() byte               { return byte(bitfield.Get(m.w, 8, 8)) }
func (m M1CVM) Data2() byte               { return byte(bitfield.Get(m.w, 0, 8)) }
func (m M1CVM) Word() Word                { return m.w }

// M1CVMFromWord parses a raw MT-2 word into an M1CVM view.
func M1CVMFromWord(w0 Word) M1CVM { return M1CVM{w: w0} }
