package ump

import "github.com/laenzlinger/go-midi2/bitfield"

// Data64Status is the MT-3 (Data-64 / SysEx7 framing) status nibble.
type Data64Status uint8

const (
	Data64Complete Data64Status = 0x0 // entire SysEx fits in a single UMP
	Data64Start    Data64Status = 0x1
	Data64Continue Data64Status = 0x2
	Data64End      Data64Status = 0x3
)

// Data64 is a two-word MT-3 message carrying up to 6 SysEx7 data bytes.
type Data64 struct {
	w0, w1 Word
}

// NewData64 builds a Data-64 message from up to 6 data bytes; n is the
// number of valid bytes (0..6).
func NewData64(status Data64Status, n uint8, data [6]byte) Data64 {
	w0 := bitfield.Set(0, 28, 4, uint32(MTData64))
	w0 = bitfield.Set(w0, 20, 4, uint32(status))
	w0 = bitfield.Set(w0, 16, 4, uint32(n))
	w0 = bitfield.Set(w0, 8, 8, uint32(data[0]))
	w0 = bitfield.Set(w0, 0, 8, uint32(data[1]))
	w1 := bitfield.Set(0, 24, 8, uint32(data[2]))
	w1 = bitfield.Set(w1, 16, 8, uint32(data[3]))
	w1 = bitfield.Set(w1, 8, 8, uint32(data[4]))
	w1 = bitfield.Set(w1, 0, 8, uint32(data[5]))
	return Data64{w0: w0, w1: w1}
}

func (d Data64) WithGroup(g uint8) Data64 { d.w0 = WithGroup(d.w0, g); return d }
func (d Data64) Group() uint8             { return Group(d.w0) }
func (d Data64) Status() Data64Status     { return Data64Status(StatusNibble(d.w0)) }
func (d Data64) NumBytes() uint8          { return uint8(bitfield.Get(d.w0, 16, 4)) }

// Bytes returns the up to 6 data bytes, valid up to NumBytes().
func (d Data64) Bytes() [6]byte {
	return [6]byte{
		byte(bitfield.Get(d.w0, 8, 8)),
		byte(bitfield.Get(d.w0, 0, 8)),
		byte(bitfield.Get(d.w1, 24, 8)),
		byte(bitfield.Get(d.w1, 16, 8)),
		byte(bitfield.Get(d.w1, 8, 8)),
		byte(bitfield.Get(d.w1, 0, 8)),
	}
}

func (d Data64) Words() [2]Word { return [2]Word{d.w0, d.w1} }

// Data64FromWords parses a raw MT-3 word pair into a Data64 view.
func Data64FromWords(w0, w1 Word) Data64 { return Data64{w0: w0, w1: w1} }
