// Package ci implements the MIDI Capability Inquiry (CI) protocol: a
// byte-accumulator dispatcher for CI SysEx7 payloads, the catalogue of
// message kinds it recognizes, and a builder that writes CI messages
// back out to wire bytes.
package ci

import "fmt"

// BroadcastMUID is the reserved MUID meaning "every device".
const BroadcastMUID uint32 = 0x0FFFFFFF

// Header carries the fields common to every CI message. DeviceID and
// the UMP group a message arrived on are supplied out of band, via
// Dispatcher.Start, mirroring the way the wider translators receive
// their group from the transport rather than the payload.
type Header struct {
	Version               byte
	SourceMUID, DestinationMUID uint32
}

const headerBodyLen = 1 + 4 + 4 // version + 2 septet-encoded MUIDs

// Kind identifies a CI message's sub-ID-2 byte. Values match the
// MIDI-CI specification so wire bytes are exchangeable with real CI
// peers.
type Kind byte

const (
	KindDiscovery           Kind = 0x70
	KindDiscoveryReply      Kind = 0x71
	KindEndpointInfo        Kind = 0x72
	KindEndpointInfoReply   Kind = 0x73
	KindACK                 Kind = 0x7D
	KindInvalidateMUID      Kind = 0x7E
	KindNAK                 Kind = 0x7F
	KindProfileInquiry      Kind = 0x20
	KindProfileInquiryReply Kind = 0x21
	KindProfileSetOn        Kind = 0x22
	KindProfileSetOff       Kind = 0x23
	KindProfileEnabled      Kind = 0x24
	KindProfileDisabled     Kind = 0x25
	KindProfileAdded        Kind = 0x26
	KindProfileRemoved      Kind = 0x27
	KindProfileDetails      Kind = 0x28
	KindProfileDetailsReply Kind = 0x29
	KindProfileSpecificData Kind = 0x2F
	KindPECapability        Kind = 0x30
	KindPECapabilityReply   Kind = 0x31
	KindPEGet               Kind = 0x34
	KindPEGetReply          Kind = 0x35
	KindPESet               Kind = 0x36
	KindPESetReply          Kind = 0x37
	KindPESub               Kind = 0x38
	KindPESubReply          Kind = 0x39
	KindPENotify            Kind = 0x3F
	KindPICapability        Kind = 0x40
	KindPICapabilityReply   Kind = 0x41
	KindPIMMReport          Kind = 0x42
	KindPIMMReportReply     Kind = 0x43
	KindPIMMReportEnd       Kind = 0x44
)

// shape describes how a Kind's body, following the 10-byte common
// header, is laid out: fixedLen bytes of fixed fields, then varSpans
// length-prefixed variable byte spans (a 14-bit little-endian septet
// pair followed by that many data bytes).
type shape struct {
	fixedLen int
	varSpans int
}

func shapeOf(kind Kind, version byte) (shape, bool) {
	switch kind {
	case KindDiscovery, KindDiscoveryReply:
		// manufacturer(3) + family(2) + model(2) + version(4) +
		// capability(1) + max sysex size(4 septets) [+ output path id(1) v2+]
		n := 16
		if version > 1 {
			n++
		}
		if kind == KindDiscoveryReply && version > 1 {
			n++ // + function block id
		}
		return shape{fixedLen: n}, true
	case KindEndpointInfo:
		return shape{fixedLen: 1}, true
	case KindEndpointInfoReply:
		return shape{fixedLen: 1, varSpans: 1}, true
	case KindInvalidateMUID:
		return shape{fixedLen: 4}, true
	case KindACK, KindNAK:
		n := 7
		if version > 1 {
			n++ // original sub-ID byte, v2+ only
		}
		return shape{fixedLen: n, varSpans: 1}, true
	case KindProfileInquiry:
		return shape{}, true
	case KindProfileInquiryReply:
		return shape{varSpans: 2}, true
	case KindProfileSetOn, KindProfileSetOff, KindProfileEnabled, KindProfileDisabled,
		KindProfileAdded, KindProfileRemoved:
		n := 5
		if kind == KindProfileEnabled || kind == KindProfileDisabled || kind == KindProfileSetOn {
			n++ // number of channels
		}
		return shape{fixedLen: n}, true
	case KindProfileDetails:
		return shape{fixedLen: 6}, true
	case KindProfileDetailsReply:
		return shape{fixedLen: 6, varSpans: 1}, true
	case KindProfileSpecificData:
		return shape{fixedLen: 5, varSpans: 1}, true
	case KindPECapability, KindPECapabilityReply:
		return shape{fixedLen: 3}, true
	case KindPEGet, KindPEGetReply, KindPESet, KindPESetReply, KindPESub, KindPESubReply, KindPENotify:
		return shape{fixedLen: 1, varSpans: 2}, true
	case KindPICapability:
		if version <= 1 {
			return shape{}, false
		}
		return shape{}, true
	case KindPICapabilityReply:
		if version <= 1 {
			return shape{}, false
		}
		return shape{fixedLen: 1}, true
	case KindPIMMReport:
		if version <= 1 {
			return shape{}, false
		}
		return shape{fixedLen: 4}, true
	case KindPIMMReportReply:
		if version <= 1 {
			return shape{}, false
		}
		return shape{fixedLen: 3}, true
	case KindPIMMReportEnd:
		if version <= 1 {
			return shape{}, false
		}
		return shape{}, true
	default:
		return shape{}, false
	}
}

// encodeMUID7 writes v's low 28 bits as 4 little-endian 7-bit septets.
func encodeMUID7(dst []byte, v uint32) {
	for i := 0; i < 4; i++ {
		dst[i] = byte(v>>(7*i)) & 0x7F
	}
}

func decodeMUID7(src []byte) uint32 {
	var v uint32
	for i := 0; i < 4; i++ {
		v |= uint32(src[i]&0x7F) << (7 * i)
	}
	return v
}

func encodeLen14(dst []byte, n int) {
	dst[0] = byte(n) & 0x7F
	dst[1] = byte(n>>7) & 0x7F
}

func decodeLen14(src []byte) int {
	return int(src[0]&0x7F) | int(src[1]&0x7F)<<7
}

// errTooLarge reports a span or message that would not fit the
// destination buffer passed to Create.
func errTooLarge(kind Kind) error {
	return fmt.Errorf("ci: destination buffer too small for kind %#x", byte(kind))
}
