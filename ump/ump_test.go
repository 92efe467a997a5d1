package ump_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/laenzlinger/go-midi2/ump"
)

func TestMessageSizeTable(t *testing.T) {
	cases := map[ump.MessageType]int{
		ump.MTUtility:   1,
		ump.MTSystem:    1,
		ump.MTM1CVM:     1,
		ump.MTData64:    2,
		ump.MTM2CVM:     2,
		ump.MTData128:   4,
		ump.MTFlexData:  4,
		ump.MTUMPStream: 4,
	}
	for mt, size := range cases {
		require.Equal(t, size, ump.MessageSize(mt), "mt %#x", mt)
	}
	// Reserved types still have an inferred length.
	require.Equal(t, 1, ump.MessageSize(0x6))
	require.Equal(t, 2, ump.MessageSize(0x8))
	require.Equal(t, 3, ump.MessageSize(0xB))
	require.Equal(t, 4, ump.MessageSize(0xE))
}

func TestM1CVMRoundTrip(t *testing.T) {
	m := ump.NewM1CVM(3, ump.M1NoteOn, 64, 100).WithGroup(5)
	require.Equal(t, uint8(5), m.Group())
	require.Equal(t, uint8(3), m.Channel())
	require.Equal(t, ump.M1NoteOn, m.Status())
	require.Equal(t, byte(64), m.Data1())
	require.Equal(t, byte(100), m.Data2())
	require.Equal(t, ump.MTM1CVM, ump.TypeOf(m.Word()))

	parsed := ump.M1CVMFromWord(m.Word())
	require.Equal(t, m, parsed)
}

func TestM2CVMNoteOnRoundTrip(t *testing.T) {
	m := ump.NewM2NoteOnOff(2, true, 60, 0x8000).WithGroup(1)
	require.Equal(t, ump.M2NoteOn, m.Status())
	require.Equal(t, byte(60), m.Note())
	require.Equal(t, uint16(0x8000), m.Velocity16())

	words := m.Words()
	parsed := ump.M2CVMFromWords(words[0], words[1])
	require.Equal(t, m, parsed)
}

func TestM2CVMProgramChangeBankValid(t *testing.T) {
	m := ump.NewM2ProgramChange(0, 42, true, 1, 2)
	require.True(t, m.BankValid())
	require.Equal(t, byte(42), m.Program())
	require.Equal(t, byte(1), m.BankMSB())
	require.Equal(t, byte(2), m.BankLSB())

	noBank := ump.NewM2ProgramChange(0, 42, false, 0, 0)
	require.False(t, noBank.BankValid())
}

func TestData64RoundTrip(t *testing.T) {
	d := ump.NewData64(ump.Data64Start, 6, [6]byte{1, 2, 3, 4, 5, 6}).WithGroup(2)
	require.Equal(t, uint8(2), d.Group())
	require.Equal(t, ump.Data64Start, d.Status())
	require.Equal(t, uint8(6), d.NumBytes())
	require.Equal(t, [6]byte{1, 2, 3, 4, 5, 6}, d.Bytes())

	words := d.Words()
	parsed := ump.Data64FromWords(words[0], words[1])
	require.Equal(t, d, parsed)
}
