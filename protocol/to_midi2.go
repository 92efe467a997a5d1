package protocol

import (
	"github.com/laenzlinger/go-midi2/fifo"
	"github.com/laenzlinger/go-midi2/scale"
	"github.com/laenzlinger/go-midi2/ump"
)

// bankState is the per group/channel bank-select accumulator.
type bankState struct {
	msbValid, lsbValid bool
	msb, lsb           byte
}

func (b bankState) valid() bool { return b.msbValid && b.lsbValid }

// paramState is the per group/channel parameter-number accumulator.
// It mirrors bytestream's channelState, using explicit validity flags
// in place of an "unset" sentinel byte, and stages the data-entry MSB
// until the data-entry LSB completes the 14-bit value.
type paramState struct {
	isRPN bool

	msbValid, lsbValid bool
	msb, lsb           byte

	valueMSBValid bool
	valueMSB      byte
}

func (p *paramState) resetNumber() {
	p.msbValid, p.lsbValid = false, false
	p.msb, p.lsb = 0, 0
}

// ToMIDI2 upgrades MIDI-1 (MT-2) channel-voice messages to MIDI-2
// (MT-4) equivalents carried over UMP transport; system, utility,
// data64, data128, flex-data and stream messages pass through
// unchanged. Bank-select and RPN/NRPN control changes are folded into
// the richer MIDI-2 program-change and parameter-number messages they
// describe, rather than forwarded as raw control changes.
type ToMIDI2 struct {
	banks  [16][16]bankState
	params [16][16]paramState

	out *fifo.Fifo[ump.Word]
}

// NewToMIDI2 constructs a translator.
func NewToMIDI2() *ToMIDI2 {
	return &ToMIDI2{out: fifo.New[ump.Word](64)}
}

// Available reports whether a word is ready to be popped.
func (t *ToMIDI2) Available() bool { return !t.out.Empty() }

// PopWord removes and returns the next produced word.
func (t *ToMIDI2) PopWord() ump.Word { return t.out.PopFront() }

func (t *ToMIDI2) pushM2(m ump.M2CVM) {
	words := m.Words()
	t.out.PushBack(words[0])
	t.out.PushBack(words[1])
}

// PushWords feeds a complete UMP message (1, 2 or 4 words, per
// ump.MessageSize) to the translator.
func (t *ToMIDI2) PushWords(words []ump.Word) {
	mt := ump.TypeOf(words[0])
	switch mt {
	case ump.MTM1CVM:
		t.convertM1CVM(ump.M1CVMFromWord(words[0]))
	default:
		for _, w := range words {
			t.out.PushBack(w)
		}
	}
}

func (t *ToMIDI2) convertM1CVM(m ump.M1CVM) {
	group, channel := m.Group(), m.Channel()
	switch m.Status() {
	case ump.M1NoteOn, ump.M1NoteOff:
		on := m.Status() == ump.M1NoteOn
		velocity16 := scale.Up(uint32(m.Data2()), 7, 16)
		t.pushM2(ump.NewM2NoteOnOff(channel, on, m.Data1(), uint16(velocity16)).WithGroup(group))
	case ump.M1PolyPressure:
		t.pushM2(ump.NewM2PolyPressure(channel, m.Data1(), scale.Up(uint32(m.Data2()), 7, 32)).WithGroup(group))
	case ump.M1ProgramChange:
		b := &t.banks[group][channel]
		t.pushM2(ump.NewM2ProgramChange(channel, m.Data1(), b.valid(), b.msb, b.lsb).WithGroup(group))
	case ump.M1ChannelPressure:
		t.pushM2(ump.NewM2ChannelPressure(channel, scale.Up(uint32(m.Data1()), 7, 32)).WithGroup(group))
	case ump.M1PitchBend:
		value14 := (uint32(m.Data2()) << 7) | uint32(m.Data1())
		t.pushM2(ump.NewM2PitchBend(channel, scale.Up(value14, 14, 32)).WithGroup(group))
	case ump.M1ControlChange:
		t.convertControlChange(group, channel, m.Data1(), m.Data2())
	}
}

func (t *ToMIDI2) convertControlChange(group, channel, index, value byte) {
	switch index {
	case ctrlBankSelectMSB:
		t.banks[group][channel].msb = value
		t.banks[group][channel].msbValid = true
	case ctrlBankSelectLSB:
		t.banks[group][channel].lsb = value
		t.banks[group][channel].lsbValid = true

	case ctrlNRPNMSB:
		p := &t.params[group][channel]
		p.isRPN = false
		p.msb, p.msbValid = value, true
	case ctrlNRPNLSB:
		p := &t.params[group][channel]
		p.isRPN = false
		p.lsb, p.lsbValid = value, true

	case ctrlRPNMSB:
		p := &t.params[group][channel]
		p.isRPN = true
		p.msb, p.msbValid = value, true
	case ctrlRPNLSB:
		p := &t.params[group][channel]
		// Setting RPN to 7FH,7FH disables the data entry controllers
		// until a new RPN or NRPN is selected.
		if p.isRPN && p.msbValid && p.msb == 0x7F && value == 0x7F {
			p.resetNumber()
		} else {
			p.isRPN = true
			p.lsb, p.lsbValid = value, true
		}

	case ctrlDataEntryMSB:
		p := &t.params[group][channel]
		p.valueMSB, p.valueMSBValid = value, true

	case ctrlDataEntryLSB:
		p := &t.params[group][channel]
		if p.msbValid && p.lsbValid && p.valueMSBValid {
			value14 := (uint32(p.valueMSB) << 7) | uint32(value)
			t.pushM2(ump.NewM2ParameterNumber(channel, p.isRPN, p.msb, p.lsb, scale.Up(value14, 14, 32)).WithGroup(group))
		}

	case ctrlResetAllControllers:
		t.params[group][channel].resetNumber()
		t.pushM2(ump.NewM2ControlChange(channel, index, scale.Up(uint32(value), 7, 32)).WithGroup(group))

	default:
		t.pushM2(ump.NewM2ControlChange(channel, index, scale.Up(uint32(value), 7, 32)).WithGroup(group))
	}
}
