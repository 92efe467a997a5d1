package ump

import "github.com/laenzlinger/go-midi2/bitfield"

// SystemStatusByte identifies an MT-1 System Real Time/Common message,
// using the same status byte values as a MIDI-1 byte stream.
type SystemStatusByte uint8

const (
	SystemMTC         SystemStatusByte = 0xF1
	SystemSongPos     SystemStatusByte = 0xF2
	SystemSongSelect  SystemStatusByte = 0xF3
	SystemTuneRequest SystemStatusByte = 0xF6
	SystemTimingClock SystemStatusByte = 0xF8
	SystemStart       SystemStatusByte = 0xFA
	SystemContinue    SystemStatusByte = 0xFB
	SystemStop        SystemStatusByte = 0xFC
	SystemActiveSense SystemStatusByte = 0xFE
	SystemReset       SystemStatusByte = 0xFF
)

// System is a single-word MT-1 message.
type System struct {
	w Word
}

// NewSystem builds a System message carrying up to two 7-bit data
// bytes, as MTC/song-position/song-select require.
func NewSystem(status SystemStatusByte, data1, data2 byte) System {
	w := WithSystemStatus(0, uint8(status))
	w = bitfield.Set(w, 8, 8, uint32(data1))
	w = bitfield.Set(w, 0, 8, uint32(data2))
	s := System{w: w}
	s.w = bitfield.Set(s.w, 28, 4, uint32(MTSystem))
	return s
}

func (s System) WithGroup(g uint8) System { s.w = WithGroup(s.w, g); return s }
func (s System) Group() uint8             { return Group(s.w) }
func (s System) Status() SystemStatusByte { return SystemStatusByte(SystemStatus(s.w)) }
func (s System) Data1() byte              { return byte(bitfield.Get(s.w, 8, 8)) }
func (s System) Data2() byte              { return byte(bitfield.Get(s.w, 0, 8)) }
func (s System) Word() Word               { return s.w }

// SystemFromWord parses a raw MT-1 word into a System view.
func SystemFromWord(w0 Word) System { return System{w: w0} }

// IsRealTime reports whether status is one of the messages that the
// byte-stream translator must emit immediately, never interrupted by or
// interrupting running status: timing clock, start, continue, stop,
// active sensing, reset and tune request.
func (status SystemStatusByte) IsRealTime() bool {
	switch status {
	case SystemTimingClock, SystemStart, SystemContinue, SystemStop,
		SystemActiveSense, SystemReset, SystemTuneRequest:
		return true
	default:
		return false
	}
}
