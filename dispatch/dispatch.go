// Package dispatch assembles a stream of Universal MIDI Packet words
// into complete messages and routes each to a typed handler, mirroring
// the wider translators' own word-accumulation but exposing it as a
// standalone, reusable component rather than folding it into a single
// translator.
package dispatch

import "github.com/laenzlinger/go-midi2/ump"

// Handlers bundles one callback per UMP message category. Every field
// left nil is silently skipped — a caller interested only in, say,
// channel-voice traffic need not supply the rest. This is the closure
// configuration style; Backend offers a static-dispatch alternative.
type Handlers[C any] struct {
	Utility  func(ctx C, u ump.Utility)
	System   func(ctx C, s ump.System)
	M1CVM    func(ctx C, m ump.M1CVM)
	Data64   func(ctx C, d ump.Data64)
	M2CVM    func(ctx C, m ump.M2CVM)
	Data128  func(ctx C, d ump.Data128)
	Stream   func(ctx C, s ump.Stream)
	FlexData func(ctx C, f ump.FlexData)

	// Unknown receives any reserved message type's raw words, sized
	// according to ump.MessageSize's inferred length for that type.
	Unknown func(ctx C, words []ump.Word)
}

// Backend is the static-dispatch equivalent of Handlers: an interface
// implemented by a caller's own type instead of a struct of closures.
type Backend[C any] interface {
	Utility(ctx C, u ump.Utility)
	System(ctx C, s ump.System)
	M1CVM(ctx C, m ump.M1CVM)
	Data64(ctx C, d ump.Data64)
	M2CVM(ctx C, m ump.M2CVM)
	Data128(ctx C, d ump.Data128)
	Stream(ctx C, s ump.Stream)
	FlexData(ctx C, f ump.FlexData)
	Unknown(ctx C, words []ump.Word)
}

// handlersBackend adapts a Handlers bundle to the Backend interface so
// Dispatcher only needs to hold one shape internally.
type handlersBackend[C any] struct {
	h Handlers[C]
}

func (b handlersBackend[C]) Utility(ctx C, u ump.Utility) {
	if b.h.Utility != nil {
		b.h.Utility(ctx, u)
	}
}
func (b handlersBackend[C]) System(ctx C, s ump.System) {
	if b.h.System != nil {
		b.h.System(ctx, s)
	}
}
func (b handlersBackend[C]) M1CVM(ctx C, m ump.M1CVM) {
	if b.h.M1CVM != nil {
		b.h.M1CVM(ctx, m)
	}
}
func (b handlersBackend[C]) Data64(ctx C, d ump.Data64) {
	if b.h.Data64 != nil {
		b.h.Data64(ctx, d)
	}
}
func (b handlersBackend[C]) M2CVM(ctx C, m ump.M2CVM) {
	if b.h.M2CVM != nil {
		b.h.M2CVM(ctx, m)
	}
}
func (b handlersBackend[C]) Data128(ctx C, d ump.Data128) {
	if b.h.Data128 != nil {
		b.h.Data128(ctx, d)
	}
}
func (b handlersBackend[C]) Stream(ctx C, s ump.Stream) {
	if b.h.Stream != nil {
		b.h.Stream(ctx, s)
	}
}
func (b handlersBackend[C]) FlexData(ctx C, f ump.FlexData) {
	if b.h.FlexData != nil {
		b.h.FlexData(ctx, f)
	}
}
func (b handlersBackend[C]) Unknown(ctx C, words []ump.Word) {
	if b.h.Unknown != nil {
		b.h.Unknown(ctx, words)
	}
}

// Dispatcher accumulates UMP words into complete messages and routes
// each, by message type alone, to the configured backend. Statuses
// within a message type are not inspected: a message with an
// unrecognized status reaches its type's handler, not Unknown.
type Dispatcher[C any] struct {
	ctx     C
	backend Backend[C]

	message [4]ump.Word
	pos     int
}

// New constructs a Dispatcher that routes through the given Backend.
func New[C any](ctx C, backend Backend[C]) *Dispatcher[C] {
	return &Dispatcher[C]{ctx: ctx, backend: backend}
}

// NewWithHandlers constructs a Dispatcher from a Handlers bundle.
func NewWithHandlers[C any](ctx C, h Handlers[C]) *Dispatcher[C] {
	return New[C](ctx, handlersBackend[C]{h: h})
}

// Reset discards any partially accumulated message.
func (d *Dispatcher[C]) Reset() { d.pos = 0 }

// Push feeds a single UMP word. Once enough words for the message
// type carried in the first word have arrived, the message is routed
// and the accumulator resets for the next message.
func (d *Dispatcher[C]) Push(w ump.Word) {
	d.message[d.pos] = w
	d.pos++

	mt := ump.TypeOf(d.message[0])
	size := ump.MessageSize(mt)
	if d.pos < size {
		return
	}
	d.route(mt, d.message, d.pos)
	d.pos = 0
}

func (d *Dispatcher[C]) route(mt ump.MessageType, words [4]ump.Word, n int) {
	switch mt {
	case ump.MTUtility:
		d.backend.Utility(d.ctx, ump.UtilityFromWord(words[0]))
	case ump.MTSystem:
		d.backend.System(d.ctx, ump.SystemFromWord(words[0]))
	case ump.MTM1CVM:
		d.backend.M1CVM(d.ctx, ump.M1CVMFromWord(words[0]))
	case ump.MTData64:
		d.backend.Data64(d.ctx, ump.Data64FromWords(words[0], words[1]))
	case ump.MTM2CVM:
		d.backend.M2CVM(d.ctx, ump.M2CVMFromWords(words[0], words[1]))
	case ump.MTData128:
		d.backend.Data128(d.ctx, ump.Data128FromWords(words))
	case ump.MTUMPStream:
		d.backend.Stream(d.ctx, ump.StreamFromWords(words))
	case ump.MTFlexData:
		d.backend.FlexData(d.ctx, ump.FlexDataFromWords(words))
	default:
		d.backend.Unknown(d.ctx, append([]ump.Word(nil), words[:n]...))
	}
}
