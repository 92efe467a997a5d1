package ump

import "github.com/laenzlinger/go-midi2/bitfield"

// M2CVMStatus is the MT-4 (MIDI-2 channel voice) status nibble. Only
// the subset with a MIDI-1 equivalent is modeled: per-note, relative
// (N)RPN and per-note-management statuses are out of scope (see C9/C10).
type M2CVMStatus uint8

const (
	M2RPN             M2CVMStatus = 0x2
	M2NRPN            M2CVMStatus = 0x3
	M2NoteOff         M2CVMStatus = 0x8
	M2NoteOn          M2CVMStatus = 0x9
	M2PolyPressure    M2CVMStatus = 0xA
	M2ControlChange   M2CVMStatus = 0xB
	M2ProgramChange   M2CVMStatus = 0xC
	M2ChannelPressure M2CVMStatus = 0xD
	M2PitchBend       M2CVMStatus = 0xE
)

// BankValidBit is set in word 0 of a program-change message when the
// pair of program-change words carries a valid bank number.
const BankValidBit = 0x1

// M2CVM is a two-word MT-4 message.
type M2CVM struct {
	w0, w1 Word
}

func newM2CVM(channel uint8, status M2CVMStatus) M2CVM {
	w0 := WithChannel(0, channel)
	w0 = WithStatusNibble(w0, uint8(status))
	w0 = bitfield.Set(w0, 28, 4, uint32(MTM2CVM))
	return M2CVM{w0: w0}
}

// NewM2NoteOnOff builds a note-on or note-off message with a 16-bit
// velocity.
func NewM2NoteOnOff(channel uint8, on bool, note byte, velocity16 uint16) M2CVM {
	status := M2NoteOff
	if on {
		status = M2NoteOn
	}
	m := newM2CVM(channel, status)
	m.w0 = bitfield.Set(m.w0, 8, 8, uint32(note))
	m.w1 = bitfield.Set(m.w1, 16, 16, uint32(velocity16))
	return m
}

// NewM2PolyPressure builds a poly (per-key) pressure message with a
// 32-bit pressure value.
func NewM2PolyPressure(channel uint8, note byte, pressure32 uint32) M2CVM {
	m := newM2CVM(channel, M2PolyPressure)
	m.w0 = bitfield.Set(m.w0, 8, 8, uint32(note))
	m.w1 = pressure32
	return m
}

// NewM2ControlChange builds a control-change message with a 32-bit
// value.
func NewM2ControlChange(channel uint8, index byte, value32 uint32) M2CVM {
	m := newM2CVM(channel, M2ControlChange)
	m.w0 = bitfield.Set(m.w0, 8, 8, uint32(index))
	m.w1 = value32
	return m
}

// NewM2ProgramChange builds a program-change message. bankValid
// indicates whether bankMSB/bankLSB should be carried with the
// bank-valid bit set.
func NewM2ProgramChange(channel uint8, program byte, bankValid bool, bankMSB, bankLSB byte) M2CVM {
	m := newM2CVM(channel, M2ProgramChange)
	if bankValid {
		m.w0 = bitfield.Set(m.w0, 0, 1, BankValidBit)
	}
	m.w1 = bitfield.Set(m.w1, 24, 8, uint32(program))
	m.w1 = bitfield.Set(m.w1, 8, 8, uint32(bankMSB))
	m.w1 = bitfield.Set(m.w1, 0, 8, uint32(bankLSB))
	return m
}

// NewM2ChannelPressure builds a channel-pressure message with a 32-bit
// pressure value.
func NewM2ChannelPressure(channel uint8, pressure32 uint32) M2CVM {
	m := newM2CVM(channel, M2ChannelPressure)
	m.w1 = pressure32
	return m
}

// NewM2PitchBend builds a pitch-bend message with a 32-bit value.
func NewM2PitchBend(channel uint8, value32 uint32) M2CVM {
	m := newM2CVM(channel, M2PitchBend)
	m.w1 = value32
	return m
}

// NewM2ParameterNumber builds an RPN or NRPN controller message
// carrying the 7-bit parameter MSB/LSB and a 32-bit data value.
func NewM2ParameterNumber(channel uint8, rpn bool, paramMSB, paramLSB byte, value32 uint32) M2CVM {
	status := M2NRPN
	if rpn {
		status = M2RPN
	}
	m := newM2CVM(channel, status)
	m.w0 = bitfield.Set(m.w0, 8, 8, uint32(paramMSB))
	m.w0 = bitfield.Set(m.w0, 0, 8, uint32(paramLSB))
	m.w1 = value32
	return m
}

func (m M2CVM) WithGroup(g uint8) M2CVM { m.w0 = WithGroup(m.w0, g); return m }
func (m M2CVM) Group() uint8            { return Group(m.w0) }
func (m M2CVM) Channel() uint8          { return Channel(m.w0) }
func (m M2CVM) Status() M2CVMStatus     { return M2CVMStatus(StatusNibble(m.w0)) }

// Note returns the note/key number carried in bits 8..15 of word 0 for
// note-on, note-off and poly-pressure messages.
func (m M2CVM) Note() byte { return byte(bitfield.Get(m.w0, 8, 8)) }

// Velocity16 returns the 16-bit velocity of a note-on/note-off message.
func (m M2CVM) Velocity16() uint16 { return uint16(bitfield.Get(m.w1, 16, 16)) }

// Value32 returns the 32-bit data value carried in word 1 for
// poly-pressure, control-change, channel-pressure, pitch-bend and
// parameter-number messages.
func (m M2CVM) Value32() uint32 { return m.w1 }

// ControlIndex returns the controller index of a control-change message.
func (m M2CVM) ControlIndex() byte { return byte(bitfield.Get(m.w0, 8, 8)) }

// BankValid reports whether a program-change message carries a valid
// bank number.
func (m M2CVM) BankValid() bool { return bitfield.Get(m.w0, 0, 1) != 0 }

// Program returns the program number of a program-change message.
func (m M2CVM) Program() byte { return byte(bitfield.Get(m.w1, 24, 8)) }

// BankMSB/BankLSB return the bank bytes of a program-change message.
func (m M2CVM) BankMSB() byte { return byte(bitfield.Get(m.w1, 8, 8)) }
func (m M2CVM) BankLSB() byte { return byte(bitfield.Get(m.w1, 0, 8)) }

// ParamMSB/ParamLSB return the parameter-number bytes of an RPN/NRPN
// controller message.
func (m M2CVM) ParamMSB() byte { return byte(bitfield.Get(m.w0, 8, 8)) }
func (m M2CVM) ParamLSB() byte { return byte(bitfield.Get(m.w0, 0, 8)) }

// Words returns the message's two raw words.
func (m M2CVM) Words() [2]Word { return [2]Word{m.w0, m.w1} }

// M2CVMFromWords parses a raw MT-4 word pair into an M2CVM view.
func M2CVMFromWords(w0, w1 Word) M2CVM { return M2CVM{w0: w0, w1: w1} }
