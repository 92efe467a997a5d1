package bytestream

import (
	"github.com/laenzlinger/go-midi2/fifo"
	"github.com/laenzlinger/go-midi2/scale"
	"github.com/laenzlinger/go-midi2/ump"
)

// ToBytestream converts Universal MIDI Packet words, fed one at a
// time, into a MIDI-1 byte stream. Only group 0 is forwarded by
// default; SetGroupFilter restricts or widens that.
type ToBytestream struct {
	groupFilter func(group uint8) bool

	pending [4]ump.Word
	n       int
	want    int

	lastStatus [16]byte // running status: only the channel of the last status written is non-zero

	out *fifo.Fifo[byte]
}

// NewToBytestream constructs a translator that forwards only group 0
// by default; SetGroupFilter widens that.
func NewToBytestream() *ToBytestream {
	return &ToBytestream{
		groupFilter: func(group uint8) bool { return group == 0 },
		out:         fifo.New[byte](256),
	}
}

// SetGroupFilter restricts which UMP groups are translated to bytes;
// messages on a rejected group are discarded. This has no equivalent
// in the ported single-group original and exists because a byte
// stream has no group field of its own to carry the distinction.
func (t *ToBytestream) SetGroupFilter(accept func(group uint8) bool) {
	t.groupFilter = accept
}

// Available reports whether a byte is ready to be popped.
func (t *ToBytestream) Available() bool { return !t.out.Empty() }

// PopByte removes and returns the next produced byte.
func (t *ToBytestream) PopByte() byte { return t.out.PopFront() }

func (t *ToBytestream) push(b byte) { t.out.PushBack(b) }

// PushWord feeds a single UMP word to the translator. Multi-word
// messages are buffered internally until complete.
func (t *ToBytestream) PushWord(w ump.Word) {
	if t.n == 0 {
		t.want = ump.MessageSize(ump.TypeOf(w))
	}
	t.pending[t.n] = w
	t.n++
	if t.n < t.want {
		return
	}
	t.dispatch(t.pending, t.n)
	t.n = 0
}

func (t *ToBytestream) dispatch(words [4]ump.Word, n int) {
	mt := ump.TypeOf(words[0])
	group := ump.Group(words[0])
	if !t.groupFilter(group) {
		return
	}

	switch mt {
	case ump.MTSystem:
		t.emitSystem(ump.SystemFromWord(words[0]))
	case ump.MTM1CVM:
		t.emitM1CVM(ump.M1CVMFromWord(words[0]))
	case ump.MTM2CVM:
		t.emitM2CVM(ump.M2CVMFromWords(words[0], words[1]))
	case ump.MTData64:
		t.emitData64(ump.Data64FromWords(words[0], words[1]))
	}
	_ = n
}

func (t *ToBytestream) emitSystem(s ump.System) {
	status := byte(s.Status())
	t.push(status)
	switch s.Status() {
	case ump.SystemMTC, ump.SystemSongSelect:
		t.push(s.Data1())
	case ump.SystemSongPos:
		t.push(s.Data1())
		t.push(s.Data2())
	}
	if !s.Status().IsRealTime() {
		t.lastStatus = [16]byte{}
	}
}

func (t *ToBytestream) emitM1CVM(m ump.M1CVM) {
	status := byte(m.Status())<<4 | m.Channel()
	t.writeStatus(m.Channel(), status)
	t.push(m.Data1())
	if !isOneDataByteMessage(status) {
		t.push(m.Data2())
	}
}

// writeStatus emits status unless it equals the last status byte
// written, implementing running status.
func (t *ToBytestream) writeStatus(channel uint8, status byte) {
	if t.lastStatus[channel] == status {
		return
	}
	t.push(status)
	t.lastStatus = [16]byte{}
	t.lastStatus[channel] = status
}

func (t *ToBytestream) emitM2CVM(m ump.M2CVM) {
	channel := m.Channel()
	switch m.Status() {
	case ump.M2NoteOn, ump.M2NoteOff:
		status := byte(ump.M1NoteOn)<<4 | channel
		if m.Status() == ump.M2NoteOff {
			status = byte(ump.M1NoteOff)<<4 | channel
		}
		velocity7 := scale.Down(uint32(m.Velocity16()), 16, 7)
		if m.Status() == ump.M2NoteOn && velocity7 == 0 {
			velocity7 = 1
		}
		t.writeStatus(channel, status)
		t.push(m.Note())
		t.push(byte(velocity7))
	case ump.M2PolyPressure:
		t.writeStatus(channel, byte(ump.M1PolyPressure)<<4|channel)
		t.push(m.Note())
		t.push(byte(scale.Down(m.Value32(), 32, 7)))
	case ump.M2ControlChange:
		t.writeStatus(channel, byte(ump.M1ControlChange)<<4|channel)
		t.push(m.ControlIndex())
		t.push(byte(scale.Down(m.Value32(), 32, 7)))
	case ump.M2ProgramChange:
		if m.BankValid() {
			t.writeStatus(channel, byte(ump.M1ControlChange)<<4|channel)
			t.push(ccBankSelectMSB)
			t.push(m.BankMSB())
			t.push(ccBankSelectLSB)
			t.push(m.BankLSB())
		}
		t.writeStatus(channel, byte(ump.M1ProgramChange)<<4|channel)
		t.push(m.Program())
	case ump.M2ChannelPressure:
		t.writeStatus(channel, byte(ump.M1ChannelPressure)<<4|channel)
		t.push(byte(scale.Down(m.Value32(), 32, 7)))
	case ump.M2PitchBend:
		value14 := scale.Down(m.Value32(), 32, 14)
		t.writeStatus(channel, byte(ump.M1PitchBend)<<4|channel)
		t.push(byte(value14 & 0x7F))
		t.push(byte((value14 >> 7) & 0x7F))
	case ump.M2RPN, ump.M2NRPN:
		t.emitParameterNumber(channel, m)
	}
}

func (t *ToBytestream) emitParameterNumber(channel uint8, m ump.M2CVM) {
	numberMSB, numberLSB := byte(ccRPNMSB), byte(ccRPNLSB)
	if m.Status() == ump.M2NRPN {
		numberMSB, numberLSB = ccNRPNMSB, ccNRPNLSB
	}
	value14 := scale.Down(m.Value32(), 32, 14)

	t.writeStatus(channel, byte(ump.M1ControlChange)<<4|channel)
	t.push(numberMSB)
	t.push(m.ParamMSB())
	t.push(numberLSB)
	t.push(m.ParamLSB())
	t.push(ccDataEntryMSB)
	t.push(byte(value14 >> 7))
	t.push(ccDataEntryLSB)
	t.push(byte(value14 & 0x7F))
}

func (t *ToBytestream) emitData64(d ump.Data64) {
	data := d.Bytes()
	n := d.NumBytes()
	switch d.Status() {
	case ump.Data64Complete, ump.Data64Start:
		t.push(statusSysExStart)
	}
	for i := uint8(0); i < n; i++ {
		t.push(data[i])
	}
	switch d.Status() {
	case ump.Data64Complete, ump.Data64End:
		t.push(statusSysExStop)
	}
	t.lastStatus = [16]byte{}
}
