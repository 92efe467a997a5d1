package protocol_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/laenzlinger/go-midi2/protocol"
	"github.com/laenzlinger/go-midi2/scale"
	"github.com/laenzlinger/go-midi2/ump"
)

// plainControlIndexes are control-change indices that ToMIDI2 does not
// treat specially. The round trip below draws only from them, avoiding
// bank select, (N)RPN number, data entry and reset all controllers,
// which ToMIDI2 folds into program-change or parameter-number state
// and which are covered separately by the TestToMIDI1RPN*/TestToMIDI2*
// tests in protocol_test.go.
var plainControlIndexes = []byte{1, 2, 3, 4, 5, 7, 10, 11, 64, 65, 70, 80, 90, 120}

// genM2CVM builds a MIDI-2 channel-voice message whose data value is
// itself the image of scale.Up at the MIDI-1 bit depth ToMIDI1 would
// truncate it to, so that scale.Down(scale.Up(v)) == v: the down-then-up
// round trip through MIDI-1 is exact rather than merely close.
func genM2CVM(rt *rapid.T) ump.M2CVM {
	group := uint8(rapid.IntRange(0, 15).Draw(rt, "group"))
	channel := uint8(rapid.IntRange(0, 15).Draw(rt, "channel"))
	kind := rapid.IntRange(0, 5).Draw(rt, "kind")

	switch kind {
	case 0, 1: // note on, note off
		note := byte(rapid.IntRange(0, 127).Draw(rt, "note"))
		v7 := uint32(rapid.IntRange(0, 127).Draw(rt, "v7"))
		return ump.NewM2NoteOnOff(channel, kind == 0, note, uint16(scale.Up(v7, 7, 16))).WithGroup(group)
	case 2: // poly pressure
		note := byte(rapid.IntRange(0, 127).Draw(rt, "note"))
		v7 := uint32(rapid.IntRange(0, 127).Draw(rt, "v7"))
		return ump.NewM2PolyPressure(channel, note, scale.Up(v7, 7, 32)).WithGroup(group)
	case 3: // control change, a non-special index
		index := rapid.SampledFrom(plainControlIndexes).Draw(rt, "index")
		v7 := uint32(rapid.IntRange(0, 127).Draw(rt, "v7"))
		return ump.NewM2ControlChange(channel, index, scale.Up(v7, 7, 32)).WithGroup(group)
	case 4: // channel pressure
		v7 := uint32(rapid.IntRange(0, 127).Draw(rt, "v7"))
		return ump.NewM2ChannelPressure(channel, scale.Up(v7, 7, 32)).WithGroup(group)
	default: // pitch bend
		v14 := uint32(rapid.IntRange(0, 0x3FFF).Draw(rt, "v14"))
		return ump.NewM2PitchBend(channel, scale.Up(v14, 14, 32)).WithGroup(group)
	}
}

// TestRoundTripMIDI2ToMIDI1ToMIDI2 checks property 2 from spec.md §8:
// a MIDI-2-in-UMP message with a MIDI-1 equivalent survives
// ump_to_midi1 -> ump_to_midi2 unchanged. Parameter-number messages are
// excluded (their round trip is modulo expansion/contraction, already
// covered by TestToMIDI1RPN*/TestToMIDI2RPN* in protocol_test.go) and data values are
// drawn from scale.Up's image so the intermediate 7/14-bit truncation
// is lossless.
func TestRoundTripMIDI2ToMIDI1ToMIDI2(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		want := genM2CVM(rt)

		toM1 := protocol.NewToMIDI1()
		words := want.Words()
		toM1.PushWords(words[:])

		toM2 := protocol.NewToMIDI2()
		for toM1.Available() {
			toM2.PushWords([]ump.Word{toM1.PopWord()})
		}

		var out []ump.Word
		for toM2.Available() {
			out = append(out, toM2.PopWord())
		}
		require.Len(t, out, 2)
		got := ump.M2CVMFromWords(out[0], out[1])

		require.Equal(t, want.Status(), got.Status())
		require.Equal(t, want.Group(), got.Group())
		require.Equal(t, want.Channel(), got.Channel())
		switch want.Status() {
		case ump.M2NoteOn, ump.M2NoteOff:
			require.Equal(t, want.Note(), got.Note())
			require.Equal(t, want.Velocity16(), got.Velocity16())
		case ump.M2PolyPressure:
			require.Equal(t, want.Note(), got.Note())
			require.Equal(t, want.Value32(), got.Value32())
		case ump.M2ControlChange:
			require.Equal(t, want.ControlIndex(), got.ControlIndex())
			require.Equal(t, want.Value32(), got.Value32())
		case ump.M2ChannelPressure, ump.M2PitchBend:
			require.Equal(t, want.Value32(), got.Value32())
		}
	})
}
