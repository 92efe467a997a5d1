package ci

// Message is the generic decoded shape handed to every CI handler:
// the common header plus whatever fixed bytes and length-prefixed
// variable spans the kind's shape defines. Handlers that need
// kind-specific fields slice Fixed/Spans themselves; CI's message
// catalogue is wide enough that a fully typed struct per kind would
// mostly restate this table. Fixed and Spans alias the Dispatcher's
// own accumulation buffers and are only valid for the duration of the
// handler call; a handler that needs to retain them must copy.
type Message struct {
	Header   Header
	Kind     Kind
	Group    uint8
	DeviceID byte
	Fixed    []byte
	Spans    [][]byte
}

// System groups the dispatcher-level hooks that do not belong to any
// one CI message category: MUID gating, messages of a kind this
// package does not recognize, input discarded for exceeding
// MaxSpanLen, and buffer overflow.
type SystemHandlers[C any] struct {
	// CheckMUID reports whether this endpoint owns destinationMUID on
	// group. It is consulted once the header is parsed, before any
	// per-kind handler runs, for every message not addressed to
	// BroadcastMUID. A false result (or a nil CheckMUID, which this
	// package treats as "not mine") silently discards the rest of the
	// message: no handler other than CheckMUID itself is invoked.
	CheckMUID func(ctx C, group uint8, destinationMUID uint32) bool

	Unknown func(ctx C, header Header, group uint8, deviceID byte, kind Kind, raw []byte)
	Discard func(ctx C, reason string)

	// Overflow fires when a message of unrecognized kind runs past
	// maxUnknownLen before End(): the dispatcher has nowhere left to
	// buffer it. This is spec.md's "pos >= buffer capacity" case,
	// distinct from Discard's "declared length fails a sanity check
	// before any data is buffered" case (the MaxSpanLen check). Either
	// way the dispatcher resets and discards the remainder of the
	// message.
	Overflow func(ctx C, reason string)
}

// ManagementHandlers covers discovery, endpoint info, invalidate-MUID
// and ACK/NAK.
type ManagementHandlers[C any] struct {
	Discovery         func(ctx C, msg Message)
	DiscoveryReply    func(ctx C, msg Message)
	EndpointInfo      func(ctx C, msg Message)
	EndpointInfoReply func(ctx C, msg Message)
	ACK               func(ctx C, msg Message)
	NAK               func(ctx C, msg Message)
	InvalidateMUID    func(ctx C, msg Message)
}

// ProfileHandlers covers the profile configuration and query messages.
type ProfileHandlers[C any] struct {
	Inquiry        func(ctx C, msg Message)
	InquiryReply   func(ctx C, msg Message)
	SetOn          func(ctx C, msg Message)
	SetOff         func(ctx C, msg Message)
	Enabled        func(ctx C, msg Message)
	Disabled       func(ctx C, msg Message)
	Added          func(ctx C, msg Message)
	Removed        func(ctx C, msg Message)
	Details        func(ctx C, msg Message)
	DetailsReply   func(ctx C, msg Message)
	SpecificData   func(ctx C, msg Message)
}

// PropertyExchangeHandlers covers PE capability negotiation and the
// get/set/subscribe/notify request family.
type PropertyExchangeHandlers[C any] struct {
	Capability      func(ctx C, msg Message)
	CapabilityReply func(ctx C, msg Message)
	Get             func(ctx C, msg Message)
	GetReply        func(ctx C, msg Message)
	Set             func(ctx C, msg Message)
	SetReply        func(ctx C, msg Message)
	Subscribe       func(ctx C, msg Message)
	SubscribeReply  func(ctx C, msg Message)
	Notify          func(ctx C, msg Message)
}

// ProcessInquiryHandlers covers the version-2-only process-inquiry
// family.
type ProcessInquiryHandlers[C any] struct {
	Capability          func(ctx C, msg Message)
	CapabilityReply     func(ctx C, msg Message)
	MMReport            func(ctx C, msg Message)
	MMReportReply       func(ctx C, msg Message)
	MMReportEnd         func(ctx C, msg Message)
}

// Handlers groups every CI callback by message category, mirroring
// the way dispatch.Handlers groups UMP callbacks by message type.
type Handlers[C any] struct {
	System           SystemHandlers[C]
	Management       ManagementHandlers[C]
	Profile          ProfileHandlers[C]
	PropertyExchange PropertyExchangeHandlers[C]
	ProcessInquiry   ProcessInquiryHandlers[C]
}

// MaxSpanLen bounds a single variable-length span's declared size.
// The wire format's 14-bit length prefix already caps a span at
// 16383 bytes; MaxSpanLen tightens that to 4096 bytes, and is also the
// capacity of the fixed backing array Dispatcher accumulates a span
// into, so no message, however its length field lies, can drive an
// allocation.
const MaxSpanLen = 4096

// maxFixedLen is the widest fixedLen any shape in shapeOf reports
// (KindDiscoveryReply at CI version 2+: 18 bytes), sized so Dispatcher
// can hold a message's fixed fields in a struct-embedded array.
const maxFixedLen = 18

// maxSpans is the most variable spans any shape in shapeOf reports.
const maxSpans = 2

// maxUnknownLen bounds how many bytes of a message of unrecognized
// kind Dispatcher will buffer for System.Unknown. A message that runs
// past this without End() is a buffer overflow: System.Overflow fires
// and the rest of the message is discarded.
const maxUnknownLen = 4096

type stage int

const (
	stageKind stage = iota
	stageVersion
	stageSourceMUID
	stageDestMUID
	stageFixed
	stageSpanLen
	stageSpanData
	stageUnknown
	stageIdle
)

// Dispatcher accumulates the bytes of a single CI SysEx7 payload and
// routes the completed message to the configured Handlers. Call Start
// once per SysEx7 message (the UMP group and device ID a byte stream
// carries outside the CI payload itself), Push for each payload byte,
// and End when the enclosing SysEx7 message terminates — required only
// to flush a message of unrecognized kind, whose length this package
// cannot otherwise infer.
type Dispatcher[C any] struct {
	ctx C
	h   Handlers[C]

	group    uint8
	deviceID byte

	st stage

	kind    Kind
	version byte
	muidBuf [4]byte
	muidPos int
	header  Header

	sh       shape
	fixedBuf [maxFixedLen]byte
	fixed    []byte
	fixedPos int

	spanBuf    [maxSpans][MaxSpanLen]byte
	spansArr   [maxSpans][]byte
	spans      [][]byte
	spanIdx    int
	spanLenBuf [2]byte
	spanLenPos int
	curSpanLen int
	curSpanPos int

	unknownBuf [maxUnknownLen]byte
	unknownPos int
}

// New constructs a Dispatcher.
func New[C any](ctx C, h Handlers[C]) *Dispatcher[C] {
	return &Dispatcher[C]{ctx: ctx, h: h, st: stageIdle}
}

// Start begins a new CI message carried on the given UMP group and
// addressed to/from deviceID.
func (d *Dispatcher[C]) Start(group uint8, deviceID byte) {
	d.group, d.deviceID = group, deviceID
	d.st = stageKind
	d.muidPos = 0
	d.fixed = nil
	d.fixedPos = 0
	d.spans = nil
	d.spanIdx = 0
	d.unknownPos = 0
}

// End flushes a message of unrecognized kind to System.Unknown. It is
// a no-op for any other dispatcher state.
func (d *Dispatcher[C]) End() {
	if d.st == stageUnknown && d.h.System.Unknown != nil {
		raw := append([]byte(nil), d.unknownBuf[:d.unknownPos]...)
		d.h.System.Unknown(d.ctx, d.header, d.group, d.deviceID, d.kind, raw)
	}
	d.st = stageIdle
}

func (d *Dispatcher[C]) discard(reason string) {
	if d.h.System.Discard != nil {
		d.h.System.Discard(d.ctx, reason)
	}
	d.st = stageIdle
}

// overflow reports a fixed-capacity buffer exceeded by the message in
// progress, resets, and enters the same discard-until-next-start state
// discard does — spec.md's buffer_overflow is a distinct callback from
// the discard-on-bad-data case, but the same reset.
func (d *Dispatcher[C]) overflow(reason string) {
	if d.h.System.Overflow != nil {
		d.h.System.Overflow(d.ctx, reason)
	}
	d.st = stageIdle
}

// Push feeds a single CI payload byte.
func (d *Dispatcher[C]) Push(b byte) {
	switch d.st {
	case stageIdle:
		return

	case stageKind:
		d.kind = Kind(b)
		d.st = stageVersion

	case stageVersion:
		d.version = b
		d.st = stageSourceMUID

	case stageSourceMUID:
		d.muidBuf[d.muidPos] = b
		d.muidPos++
		if d.muidPos == 4 {
			d.header.SourceMUID = decodeMUID7(d.muidBuf[:])
			d.header.Version = d.version
			d.muidPos = 0
			d.st = stageDestMUID
		}

	case stageDestMUID:
		d.muidBuf[d.muidPos] = b
		d.muidPos++
		if d.muidPos == 4 {
			d.header.DestinationMUID = decodeMUID7(d.muidBuf[:])
			if !d.muidAccepted() {
				d.st = stageIdle
				return
			}
			d.beginBody()
		}

	case stageFixed:
		d.fixed[d.fixedPos] = b
		d.fixedPos++
		if d.fixedPos == len(d.fixed) {
			d.afterFixed()
		}

	case stageSpanLen:
		d.spanLenBuf[d.spanLenPos] = b
		d.spanLenPos++
		if d.spanLenPos == 2 {
			d.curSpanLen = decodeLen14(d.spanLenBuf[:])
			if d.curSpanLen > MaxSpanLen {
				d.discard("span length exceeds MaxSpanLen")
				return
			}
			d.curSpanPos = 0
			d.spans[d.spanIdx] = d.spanBuf[d.spanIdx][:d.curSpanLen]
			if d.curSpanLen == 0 {
				d.afterSpan()
			} else {
				d.st = stageSpanData
			}
		}

	case stageSpanData:
		d.spans[d.spanIdx][d.curSpanPos] = b
		d.curSpanPos++
		if d.curSpanPos == d.curSpanLen {
			d.afterSpan()
		}

	case stageUnknown:
		if d.unknownPos >= len(d.unknownBuf) {
			d.overflow("unknown-kind message exceeds maxUnknownLen")
			return
		}
		d.unknownBuf[d.unknownPos] = b
		d.unknownPos++
	}
}

// muidAccepted reports whether the message in progress should be
// dispatched at all: a broadcast destination is always accepted;
// anything else defers to System.CheckMUID.
func (d *Dispatcher[C]) muidAccepted() bool {
	if d.header.DestinationMUID == BroadcastMUID {
		return true
	}
	if d.h.System.CheckMUID == nil {
		return false
	}
	return d.h.System.CheckMUID(d.ctx, d.group, d.header.DestinationMUID)
}

func (d *Dispatcher[C]) beginBody() {
	sh, ok := shapeOf(d.kind, d.version)
	d.sh = sh
	if !ok {
		d.st = stageUnknown
		return
	}
	if sh.fixedLen > 0 {
		d.fixedPos = 0
		d.fixed = d.fixedBuf[:sh.fixedLen]
		d.st = stageFixed
		return
	}
	d.afterFixed()
}

func (d *Dispatcher[C]) afterFixed() {
	if d.sh.varSpans > 0 {
		d.spans = d.spansArr[:d.sh.varSpans]
		d.spanIdx = 0
		d.spanLenPos = 0
		d.st = stageSpanLen
		return
	}
	d.dispatch()
}

func (d *Dispatcher[C]) afterSpan() {
	d.spanIdx++
	if d.spanIdx == d.sh.varSpans {
		d.dispatch()
		return
	}
	d.spanLenPos = 0
	d.st = stageSpanLen
}

func (d *Dispatcher[C]) dispatch() {
	msg := Message{Header: d.header, Kind: d.kind, Group: d.group, DeviceID: d.deviceID, Fixed: d.fixed, Spans: d.spans}
	switch d.kind {
	case KindDiscovery:
		d.call(d.h.Management.Discovery, msg)
	case KindDiscoveryReply:
		d.call(d.h.Management.DiscoveryReply, msg)
	case KindEndpointInfo:
		d.call(d.h.Management.EndpointInfo, msg)
	case KindEndpointInfoReply:
		d.call(d.h.Management.EndpointInfoReply, msg)
	case KindACK:
		d.call(d.h.Management.ACK, msg)
	case KindNAK:
		d.call(d.h.Management.NAK, msg)
	case KindInvalidateMUID:
		d.call(d.h.Management.InvalidateMUID, msg)

	case KindProfileInquiry:
		d.call(d.h.Profile.Inquiry, msg)
	case KindProfileInquiryReply:
		d.call(d.h.Profile.InquiryReply, msg)
	case KindProfileSetOn:
		d.call(d.h.Profile.SetOn, msg)
	case KindProfileSetOff:
		d.call(d.h.Profile.SetOff, msg)
	case KindProfileEnabled:
		d.call(d.h.Profile.Enabled, msg)
	case KindProfileDisabled:
		d.call(d.h.Profile.Disabled, msg)
	case KindProfileAdded:
		d.call(d.h.Profile.Added, msg)
	case KindProfileRemoved:
		d.call(d.h.Profile.Removed, msg)
	case KindProfileDetails:
		d.call(d.h.Profile.Details, msg)
	case KindProfileDetailsReply:
		d.call(d.h.Profile.DetailsReply, msg)
	case KindProfileSpecificData:
		d.call(d.h.Profile.SpecificData, msg)

	case KindPECapability:
		d.call(d.h.PropertyExchange.Capability, msg)
	case KindPECapabilityReply:
		d.call(d.h.PropertyExchange.CapabilityReply, msg)
	case KindPEGet:
		d.call(d.h.PropertyExchange.Get, msg)
	case KindPEGetReply:
		d.call(d.h.PropertyExchange.GetReply, msg)
	case KindPESet:
		d.call(d.h.PropertyExchange.Set, msg)
	case KindPESetReply:
		d.call(d.h.PropertyExchange.SetReply, msg)
	case KindPESub:
		d.call(d.h.PropertyExchange.Subscribe, msg)
	case KindPESubReply:
		d.call(d.h.PropertyExchange.SubscribeReply, msg)
	case KindPENotify:
		d.call(d.h.PropertyExchange.Notify, msg)

	case KindPICapability:
		d.call(d.h.ProcessInquiry.Capability, msg)
	case KindPICapabilityReply:
		d.call(d.h.ProcessInquiry.CapabilityReply, msg)
	case KindPIMMReport:
		d.call(d.h.ProcessInquiry.MMReport, msg)
	case KindPIMMReportReply:
		d.call(d.h.ProcessInquiry.MMReportReply, msg)
	case KindPIMMReportEnd:
		d.call(d.h.ProcessInquiry.MMReportEnd, msg)
	}
	d.st = stageIdle
}

func (d *Dispatcher[C]) call(fn func(ctx C, msg Message), msg Message) {
	if fn != nil {
		fn(d.ctx, msg)
	}
}
