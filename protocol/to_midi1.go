// Package protocol translates Universal MIDI Packet channel-voice
// messages between the MIDI-1 and MIDI-2 protocols carried over UMP
// transport (MT-2 and MT-4), as distinct from bytestream's translation
// to and from the MIDI-1 byte stream wire format.
package protocol

import (
	"github.com/laenzlinger/go-midi2/fifo"
	"github.com/laenzlinger/go-midi2/plru"
	"github.com/laenzlinger/go-midi2/scale"
	"github.com/laenzlinger/go-midi2/ump"
)

const (
	ctrlBankSelectMSB = 0
	ctrlBankSelectLSB = 32
	ctrlDataEntryMSB  = 6
	ctrlDataEntryLSB  = 38
	ctrlNRPNLSB       = 98
	ctrlNRPNMSB       = 99
	ctrlRPNLSB        = 100
	ctrlRPNMSB        = 101

	ctrlResetAllControllers = 121
)

// paramNumber is the cached (msb, lsb) pair of a parameter-number
// controller, keyed by group/channel/is_rpn.
type paramNumber struct {
	msb, lsb byte
}

func paramCacheKey(group, channel uint8, isRPN bool) uint16 {
	rpnBit := uint16(0)
	if isRPN {
		rpnBit = 1
	}
	return uint16(group)<<5 | uint16(channel)<<1 | rpnBit
}

// ToMIDI1 downgrades MIDI-2 (MT-4) channel-voice messages to MIDI-1 (MT-2)
// equivalents carried over UMP transport; system, utility, data64,
// data128, flex-data and stream messages pass through unchanged.
// RPN/NRPN controllers are folded to 7-bit MIDI-1 control changes, with
// the controller-number pair (101/100 or 99/98) suppressed on repeated
// writes to the same parameter number via a tree-PLRU cache, matching
// the behavior of the wider channel-voice pipeline this package models.
type ToMIDI1 struct {
	cache *plru.Cache[uint16, paramNumber]
	out   *fifo.Fifo[ump.Word]
}

// NewToMIDI1 constructs a translator with a 4-set, 4-way parameter
// number cache (16 entries), enough to track every group/channel/is_rpn
// combination actively in use without needing one entry per channel.
func NewToMIDI1() *ToMIDI1 {
	return &ToMIDI1{
		cache: plru.New[uint16, paramNumber](4, 4),
		out:   fifo.New[ump.Word](64),
	}
}

// Available reports whether a word is ready to be popped.
func (t *ToMIDI1) Available() bool { return !t.out.Empty() }

// PopWord removes and returns the next produced word.
func (t *ToMIDI1) PopWord() ump.Word { return t.out.PopFront() }

func (t *ToMIDI1) push(w ump.Word) { t.out.PushBack(w) }

func (t *ToMIDI1) pushCC(group, channel, index, value uint8) {
	t.push(ump.NewM1CVM(channel, ump.M1ControlChange, index, value).WithGroup(group).Word())
}

// PushWords feeds a complete UMP message (1, 2 or 4 words, per
// ump.MessageSize) to the translator.
func (t *ToMIDI1) PushWords(words []ump.Word) {
	mt := ump.TypeOf(words[0])
	switch mt {
	case ump.MTM2CVM:
		t.convertM2CVM(ump.M2CVMFromWords(words[0], words[1]))
	default:
		for _, w := range words {
			t.push(w)
		}
	}
}

func (t *ToMIDI1) convertM2CVM(m ump.M2CVM) {
	group, channel := m.Group(), m.Channel()
	switch m.Status() {
	case ump.M2NoteOn, ump.M2NoteOff:
		status := ump.M1NoteOn
		if m.Status() == ump.M2NoteOff {
			status = ump.M1NoteOff
		}
		t.push(ump.NewM1CVM(channel, status, m.Note(), byte(scale.Down(uint32(m.Velocity16()), 16, 7))).WithGroup(group).Word())
	case ump.M2PolyPressure:
		t.push(ump.NewM1CVM(channel, ump.M1PolyPressure, m.Note(), byte(scale.Down(m.Value32(), 32, 7))).WithGroup(group).Word())
	case ump.M2ControlChange:
		t.pushCC(group, channel, m.ControlIndex(), byte(scale.Down(m.Value32(), 32, 7)))
	case ump.M2ProgramChange:
		if m.BankValid() {
			t.pushCC(group, channel, ctrlBankSelectMSB, m.BankMSB())
			t.pushCC(group, channel, ctrlBankSelectLSB, m.BankLSB())
		}
		t.push(ump.NewM1CVM(channel, ump.M1ProgramChange, m.Program(), 0).WithGroup(group).Word())
	case ump.M2ChannelPressure:
		t.push(ump.NewM1CVM(channel, ump.M1ChannelPressure, byte(scale.Down(m.Value32(), 32, 7)), 0).WithGroup(group).Word())
	case ump.M2PitchBend:
		value14 := scale.Down(m.Value32(), 32, 14)
		t.push(ump.NewM1CVM(channel, ump.M1PitchBend, byte(value14&0x7F), byte((value14>>7)&0x7F)).WithGroup(group).Word())
	case ump.M2RPN, ump.M2NRPN:
		t.convertParamNumber(group, channel, m)
	}
}

func (t *ToMIDI1) convertParamNumber(group, channel uint8, m ump.M2CVM) {
	isRPN := m.Status() == ump.M2RPN
	key := paramCacheKey(group, channel, isRPN)
	want := paramNumber{msb: m.ParamMSB(), lsb: m.ParamLSB()}

	changed := false
	cached := t.cache.Access(key, func() paramNumber {
		changed = true
		return want
	})
	if *cached != want {
		changed = true
		*cached = want
	}

	if changed {
		numberMSB, numberLSB := uint8(ctrlRPNMSB), uint8(ctrlRPNLSB)
		if !isRPN {
			numberMSB, numberLSB = ctrlNRPNMSB, ctrlNRPNLSB
		}
		t.pushCC(group, channel, numberMSB, m.ParamMSB())
		t.pushCC(group, channel, numberLSB, m.ParamLSB())
	}

	value14 := scale.Down(m.Value32(), 32, 14)
	t.pushCC(group, channel, ctrlDataEntryMSB, byte((value14>>7)&0x7F))
	t.pushCC(group, channel, ctrlDataEntryLSB, byte(value14&0x7F))
}
