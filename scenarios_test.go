package midi2_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/laenzlinger/go-midi2/bytestream"
	"github.com/laenzlinger/go-midi2/protocol"
	"github.com/laenzlinger/go-midi2/scale"
	"github.com/laenzlinger/go-midi2/ump"
)

func pushAll(t *bytestream.ToUMP, bytes ...byte) {
	for _, b := range bytes {
		t.PushByte(b)
	}
}

func drainWords(t *bytestream.ToUMP) []ump.Word {
	var out []ump.Word
	for t.Available() {
		out = append(out, t.PopWord())
	}
	return out
}

// S1: a channel-voice message followed by a second one under running
// status produces one MT-2 word per message, the second reusing the
// first's status byte.
func TestScenarioRunningStatusProducesTwoMIDI1Words(t *testing.T) {
	tr := bytestream.NewToUMP(false, 0)
	pushAll(tr, 0x81, 0x60, 0x50, 0x70, 0x70)
	words := drainWords(tr)
	require.Equal(t, []ump.Word{0x20816050, 0x20817070}, words)
}

// S2: a channel-voice message converted to MT-4 upscales its velocity
// with the min-centre-max scaler.
func TestScenarioMIDI1ToMIDI2UpscalesVelocity(t *testing.T) {
	tr := bytestream.NewToUMP(true, 0)
	pushAll(tr, 0x91, 0x60, 0x50)
	words := drainWords(tr)
	require.Len(t, words, 2)
	n := ump.M2CVMFromWords(words[0], words[1])
	require.Equal(t, ump.M2NoteOn, n.Status())
	require.Equal(t, uint8(0), n.Group())
	require.Equal(t, uint8(1), n.Channel())
	require.Equal(t, byte(0x60), n.Note())
	require.Equal(t, uint16(scale.Up(0x50, 7, 16)), n.Velocity16())
}

// S3: bank-select CCs followed by a program change produce a single
// MT-4 program-change word with bank-valid set.
func TestScenarioProgramChangeWithBankSelect(t *testing.T) {
	tr := bytestream.NewToUMP(true, 0)
	pushAll(tr, 0xBF, 0x00, 0x51, 0xBF, 0x20, 0x01, 0xCF, 0x42)
	words := drainWords(tr)
	require.Len(t, words, 2)
	m := ump.M2CVMFromWords(words[0], words[1])
	require.Equal(t, ump.M2ProgramChange, m.Status())
	require.Equal(t, uint8(0xF), m.Channel())
	require.Equal(t, byte(0x42), m.Program())
	require.True(t, m.BankValid())
	require.Equal(t, byte(0x51), m.BankMSB())
	require.Equal(t, byte(0x01), m.BankLSB())
}

// S4: a 30-byte SysEx7 message is framed into five Data-64 groups:
// start, continue, continue, continue, end.
func TestScenarioSysExFramingIntoFiveGroups(t *testing.T) {
	tr := bytestream.NewToUMP(false, 0)
	tr.PushByte(0xF0)
	data := make([]byte, 30)
	for i := range data {
		data[i] = byte(i + 1)
	}
	pushAll(tr, data...)
	tr.PushByte(0xF7)

	words := drainWords(tr)
	require.Len(t, words, 10) // 5 groups * 2 words

	wantStatus := []ump.Data64Status{
		ump.Data64Start, ump.Data64Continue, ump.Data64Continue, ump.Data64Continue, ump.Data64End,
	}
	for i, want := range wantStatus {
		d := ump.Data64FromWords(words[2*i], words[2*i+1])
		require.Equal(t, want, d.Status(), "group %d", i)
		require.Equal(t, uint8(6), d.NumBytes(), "group %d", i)
		b := d.Bytes()
		require.Equal(t, data[i*6:i*6+6], b[:], "group %d", i)
	}
}

// S5: a single MT-4 RPN update expands to four MT-2 control-change
// words: the RPN number pair, then the data-entry pair.
func TestScenarioRPNExpandsToFourControlChanges(t *testing.T) {
	tr := protocol.NewToMIDI1()
	m := ump.NewM2ParameterNumber(3, true, 60, 21, 0x12345678).WithGroup(1)
	words := m.Words()
	tr.PushWords(words[:])

	var out []ump.Word
	for tr.Available() {
		out = append(out, tr.PopWord())
	}
	require.Len(t, out, 4)
	cc := func(i int) ump.M1CVM { return ump.M1CVMFromWord(out[i]) }
	require.Equal(t, byte(101), cc(0).Data1())
	require.Equal(t, byte(60), cc(0).Data2())
	require.Equal(t, byte(100), cc(1).Data1())
	require.Equal(t, byte(21), cc(1).Data2())
	require.Equal(t, byte(6), cc(2).Data1())
	require.Equal(t, byte(38), cc(3).Data1())
}

// S6: two RPN updates to the same bank/index emit the number CCs only
// once, but the data-entry CCs on every update.
func TestScenarioRepeatedRPNSuppressesNumberCCsOnly(t *testing.T) {
	tr := protocol.NewToMIDI1()
	first := ump.NewM2ParameterNumber(3, true, 60, 21, 0x12345678).WithGroup(1)
	second := ump.NewM2ParameterNumber(3, true, 60, 21, 0x11112222).WithGroup(1)
	w1 := first.Words()
	w2 := second.Words()
	tr.PushWords(w1[:])
	tr.PushWords(w2[:])

	var out []ump.Word
	for tr.Available() {
		out = append(out, tr.PopWord())
	}
	require.Len(t, out, 6)
	for _, i := range []int{0, 1} {
		cc := ump.M1CVMFromWord(out[i])
		require.Contains(t, []byte{100, 101}, cc.Data1())
	}
	for _, i := range []int{2, 3, 4, 5} {
		cc := ump.M1CVMFromWord(out[i])
		require.Contains(t, []byte{6, 38}, cc.Data1())
	}
}

// S7: a reserved status byte and its two data bytes are swallowed
// without disturbing the messages before and after it.
func TestScenarioReservedStatusByteIsSwallowed(t *testing.T) {
	tr := bytestream.NewToUMP(false, 0)
	pushAll(tr, 0x91, 0x3C, 0x7F, 0xF4, 0x01, 0x02, 0x81, 0x3C, 0x7F)
	words := drainWords(tr)
	require.Len(t, words, 2)
	on := ump.M1CVMFromWord(words[0])
	off := ump.M1CVMFromWord(words[1])
	require.Equal(t, ump.M1NoteOn, on.Status())
	require.Equal(t, ump.M1NoteOff, off.Status())
}
