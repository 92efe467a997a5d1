// Package bytestream translates between a MIDI-1 byte stream and
// Universal MIDI Packet words in both directions.
package bytestream

import (
	"github.com/laenzlinger/go-midi2/fifo"
	"github.com/laenzlinger/go-midi2/scale"
	"github.com/laenzlinger/go-midi2/ump"
)

// MIDI-1 status bytes relevant to the translators, matching the values
// a byte stream actually carries.
const (
	statusNoteOff         = 0x80
	statusNoteOn          = 0x90
	statusPolyPressure    = 0xA0
	statusControlChange   = 0xB0
	statusProgramChange   = 0xC0
	statusChannelPressure = 0xD0
	statusPitchBend       = 0xE0

	statusSysExStart = 0xF0
	statusMTC        = 0xF1
	statusSongPos    = 0xF2
	statusSongSelect = 0xF3
	statusReserved1  = 0xF4
	statusReserved2  = 0xF5
	statusTuneReq    = 0xF6
	statusSysExStop  = 0xF7
	statusClock      = 0xF8
	statusReserved3  = 0xF9
	statusStart      = 0xFA
	statusContinue   = 0xFB
	statusStop       = 0xFC
	statusReserved4  = 0xFD
	statusActiveSens = 0xFE
	statusReset      = 0xFF
)

const (
	ccBankSelectMSB = 0
	ccBankSelectLSB = 32
	ccDataEntryMSB  = 6
	ccDataEntryLSB  = 38
	ccNRPNLSB       = 98
	ccNRPNMSB       = 99
	ccRPNLSB        = 100
	ccRPNMSB        = 101
)

const unsetByte = 0xFF

// channelState tracks the per-channel bank-select and parameter-number
// state described in spec.md §3.
type channelState struct {
	bankMSB, bankLSB byte // unsetByte means "not yet received"

	isRPN         bool // mode flag: true selects RPN, false NRPN
	numberMSB     byte // unsetByte means "not yet received"
	numberLSB     byte
	valueMSBValid bool
	valueMSB      byte
}

func newChannelState() channelState {
	return channelState{bankMSB: unsetByte, bankLSB: unsetByte, isRPN: true, numberMSB: unsetByte, numberLSB: unsetByte}
}

func isRealTimeOrTuneRequest(status byte) bool {
	switch status {
	case statusClock, statusStart, statusContinue, statusStop, statusActiveSens, statusReset, statusTuneReq:
		return true
	default:
		return false
	}
}

// isOneDataByteMessage reports whether status takes a single data byte:
// program change, channel pressure, MTC quarter frame and song select.
func isOneDataByteMessage(status byte) bool {
	topNibble := status & 0xF0
	return topNibble == statusProgramChange || topNibble == statusChannelPressure ||
		status == statusMTC || status == statusSongSelect
}

// ToUMP converts a MIDI-1 byte stream, fed one byte at a time, into
// Universal MIDI Packet words.
type ToUMP struct {
	outputMIDI2  bool
	defaultGroup uint8
	channels     [16]channelState

	d0    byte // current running-status byte, 0 if none seen yet
	d1    byte
	haveD1 bool

	sysexState sysexStatus
	sysexBytes [6]byte
	sysexPos   int

	out *fifo.Fifo[ump.Word]
}

type sysexStatus uint8

const (
	sysexSingle sysexStatus = iota
	sysexStart
	sysexContinue
	sysexEnd
)

// NewToUMP constructs a translator. defaultGroup (0..15) is stamped on
// every word produced. outputMIDI2 selects MT-4 output for
// channel-voice messages; otherwise MT-2 is produced verbatim.
func NewToUMP(outputMIDI2 bool, defaultGroup uint8) *ToUMP {
	if defaultGroup > 0xF {
		panic("bytestream: defaultGroup must be a 4-bit value")
	}
	t := &ToUMP{outputMIDI2: outputMIDI2, defaultGroup: defaultGroup, out: fifo.New[ump.Word](64)}
	for i := range t.channels {
		t.channels[i] = newChannelState()
	}
	return t
}

// SetOutputMIDI2 toggles between MT-2 and MT-4 channel-voice output.
func (t *ToUMP) SetOutputMIDI2(enabled bool) { t.outputMIDI2 = enabled }

// Available reports whether a word is ready to be popped.
func (t *ToUMP) Available() bool { return !t.out.Empty() }

// PopWord removes and returns the next produced word.
func (t *ToUMP) PopWord() ump.Word { return t.out.PopFront() }

func (t *ToUMP) push(w ump.Word) { t.out.PushBack(w) }

// PushByte feeds a single MIDI-1 byte stream byte to the translator.
func (t *ToUMP) PushByte(b byte) {
	isStatus := b&0x80 != 0

	if isStatus {
		if b == statusTuneReq || isRealTimeOrTuneRequest(b) {
			t.emitChannelOrSystem(b, 0, 0)
			return
		}

		t.d0 = b
		t.haveD1 = false

		switch b {
		case statusSysExStart:
			t.sysexState = sysexStart
			t.sysexPos = 0
		case statusSysExStop:
			t.flushSysEx(true)
		}
		return
	}

	switch {
	case t.sysexState == sysexStart || t.sysexState == sysexContinue || t.sysexState == sysexEnd:
		if t.sysexPos != 0 && t.sysexPos%6 == 0 {
			t.flushSysEx(false)
			t.sysexState = sysexContinue
			t.sysexPos = 0
		}
		t.sysexBytes[t.sysexPos] = b
		t.sysexPos++

	case t.haveD1:
		t.emitChannelOrSystem(t.d0, t.d1, b)
		t.haveD1 = false

	case t.d0 != 0:
		if isOneDataByteMessage(t.d0) {
			t.emitChannelOrSystem(t.d0, b, 0)
		} else if t.d0 < statusSysExStart || t.d0 == statusSongPos {
			t.d1 = b
			t.haveD1 = true
		}
	}
}

func (t *ToUMP) flushSysEx(final bool) {
	n := uint8(t.sysexPos)
	var status ump.Data64Status
	switch {
	case t.sysexState == sysexStart && final:
		status = ump.Data64Complete
	case t.sysexState == sysexStart:
		status = ump.Data64Start
	case final:
		status = ump.Data64End
	default:
		status = ump.Data64Continue
	}
	msg := ump.NewData64(status, n, t.sysexBytes).WithGroup(t.defaultGroup)
	words := msg.Words()
	t.push(words[0])
	t.push(words[1])
	t.sysexBytes = [6]byte{}
	if final {
		t.sysexState = sysexSingle
		t.sysexPos = 0
	}
}

// emitChannelOrSystem implements the bsToUMP/controllerToUMP logic: b0
// is the status byte (with channel in its low nibble for channel-voice
// statuses), b1/b2 its data bytes.
func (t *ToUMP) emitChannelOrSystem(b0, b1, b2 byte) {
	if b0 >= statusMTC {
		t.push(ump.NewSystem(ump.SystemStatusByte(b0), b1, b2).WithGroup(t.defaultGroup).Word())
		return
	}

	status := b0 & 0xF0
	channel := b0 & 0x0F
	if status < statusNoteOff || status > statusPitchBend {
		return
	}

	if !t.outputMIDI2 {
		t.push(ump.NewM1CVM(channel, ump.M1CVMStatus(status>>4), b1, b2).WithGroup(t.defaultGroup).Word())
		return
	}

	if status == statusNoteOn && b2 == 0 {
		status = statusNoteOff
		b2 = 0x40
	}

	switch status {
	case statusNoteOn, statusNoteOff, statusPolyPressure:
		v16 := scale.Up(uint32(b2), 7, 16)
		var m ump.M2CVM
		switch status {
		case statusNoteOn:
			m = ump.NewM2NoteOnOff(channel, true, b1, uint16(v16))
		case statusNoteOff:
			m = ump.NewM2NoteOnOff(channel, false, b1, uint16(v16))
		default:
			m = ump.NewM2PolyPressure(channel, b1, scale.Up(uint32(b2), 7, 32))
		}
		t.pushM2(m)
	case statusPitchBend:
		value14 := (uint32(b2) << 7) | uint32(b1)
		t.pushM2(ump.NewM2PitchBend(channel, scale.Up(value14, 14, 32)))
	case statusProgramChange:
		c := &t.channels[channel]
		bankValid := c.bankMSB != unsetByte && c.bankLSB != unsetByte
		bankMSB, bankLSB := byte(0), byte(0)
		if bankValid {
			bankMSB, bankLSB = c.bankMSB, c.bankLSB
		}
		t.pushM2(ump.NewM2ProgramChange(channel, b1, bankValid, bankMSB, bankLSB))
	case statusChannelPressure:
		t.pushM2(ump.NewM2ChannelPressure(channel, scale.Up(uint32(b1), 7, 32)))
	case statusControlChange:
		t.controllerToUMP(channel, b1, b2)
	}
}

func (t *ToUMP) pushM2(m ump.M2CVM) {
	words := m.WithGroup(t.defaultGroup).Words()
	t.push(words[0])
	t.push(words[1])
}

func (t *ToUMP) controllerToUMP(channel, index, value byte) {
	c := &t.channels[channel]
	switch index {
	case ccBankSelectMSB:
		c.bankMSB = value
	case ccBankSelectLSB:
		c.bankLSB = value
	case ccDataEntryMSB:
		if c.numberMSB != unsetByte && c.numberLSB != unsetByte {
			c.valueMSB = value
			c.valueMSBValid = true
		}
	case ccDataEntryLSB:
		if c.numberMSB != unsetByte && c.numberLSB != unsetByte && c.valueMSBValid {
			value14 := (uint32(c.valueMSB) << 7) | uint32(value)
			t.pushM2(ump.NewM2ParameterNumber(channel, c.isRPN, c.numberMSB, c.numberLSB, scale.Up(value14, 14, 32)))
		}
	case ccNRPNMSB:
		c.isRPN = false
		c.numberMSB = value
	case ccNRPNLSB:
		c.isRPN = false
		c.numberLSB = value
	case ccRPNMSB:
		c.isRPN = true
		c.numberMSB = value
	case ccRPNLSB:
		// Setting RPN to 7FH,7FH disables the data entry controllers
		// until a new RPN or NRPN is selected.
		if c.isRPN && c.numberMSB == 0x7F && value == 0x7F {
			c.numberMSB = unsetByte
			c.numberLSB = unsetByte
		} else {
			c.isRPN = true
			c.numberLSB = value
		}
	default:
		t.pushM2(ump.NewM2ControlChange(channel, index, scale.Up(uint32(value), 7, 32)))
	}
}
