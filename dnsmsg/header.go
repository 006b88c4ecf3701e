package dnsmsg

import "encoding/binary"

// Opcode is the four-bit OPCODE field of a DNS header.
type Opcode uint8

// Opcodes used by mDNS. Multicast DNS only ever transmits OpcodeQuery; the
// others are accepted here for completeness of the header codec.
const (
	OpcodeQuery  Opcode = 0
	OpcodeIQuery Opcode = 2
	OpcodeStatus Opcode = 3
)

// Rcode is the four-bit RCODE field of a DNS header.
type Rcode uint8

// Response codes. Multicast DNS responses MUST carry RcodeNoError; the rest
// are accepted here for completeness of the header codec.
const (
	RcodeNoError  Rcode = 0
	RcodeFormErr  Rcode = 1
	RcodeServFail Rcode = 2
	RcodeNXDomain Rcode = 3
	RcodeNotImp   Rcode = 4
	RcodeRefused  Rcode = 5
)

const (
	bitQR = 1 << 15
	bitAA = 1 << 10
	bitTC = 1 << 9
	bitRD = 1 << 8
	bitRA = 1 << 7

	opcodeShift = 11
	opcodeMask  = 0xf

	rcodeMask = 0xf
)

// Header is the fixed 12-byte record at the start of every DNS/mDNS packet:
// a transaction id, a bit-packed flags word, and four section counts.
//
// The flags word is manipulated through the Set* methods below rather than
// as a raw field so that every mutation is expressed as a single named bit
// flip; see spec §4.3 for the exact bit layout.
type Header struct {
	ID      uint16
	flags   uint16
	QDCount uint16
	ANCount uint16
	NSCount uint16
	ARCount uint16
}

// QR reports whether the response bit is set.
func (h *Header) QR() bool { return h.flags&bitQR != 0 }

// SetQR sets or clears the response bit. Calling it twice with the same
// argument is equivalent to calling it once: it never touches any other
// bit, and it never reads the bit's previous value to decide what to do.
func (h *Header) SetQR(v bool) { h.setBit(bitQR, v) }

// AA reports whether the authoritative-answer bit is set.
func (h *Header) AA() bool { return h.flags&bitAA != 0 }

// SetAA sets or clears the authoritative-answer bit.
func (h *Header) SetAA(v bool) { h.setBit(bitAA, v) }

// TC reports whether the truncated bit is set.
func (h *Header) TC() bool { return h.flags&bitTC != 0 }

// SetTC sets or clears the truncated bit.
func (h *Header) SetTC(v bool) { h.setBit(bitTC, v) }

// RD reports whether the recursion-desired bit is set.
func (h *Header) RD() bool { return h.flags&bitRD != 0 }

// SetRD sets or clears the recursion-desired bit.
func (h *Header) SetRD(v bool) { h.setBit(bitRD, v) }

// RA reports whether the recursion-available bit is set.
func (h *Header) RA() bool { return h.flags&bitRA != 0 }

// SetRA sets or clears the recursion-available bit.
func (h *Header) SetRA(v bool) { h.setBit(bitRA, v) }

// Opcode returns the four-bit OPCODE field.
func (h *Header) Opcode() Opcode {
	return Opcode((h.flags >> opcodeShift) & opcodeMask)
}

// SetOpcode sets the OPCODE field without disturbing any other bit.
func (h *Header) SetOpcode(op Opcode) {
	h.flags = (h.flags &^ (opcodeMask << opcodeShift)) | (uint16(op)&opcodeMask)<<opcodeShift
}

// Rcode returns the four-bit RCODE field.
func (h *Header) Rcode() Rcode {
	return Rcode(h.flags & rcodeMask)
}

// SetRcode sets the RCODE field without disturbing any other bit.
func (h *Header) SetRcode(rc Rcode) {
	h.flags = (h.flags &^ rcodeMask) | (uint16(rc) & rcodeMask)
}

// setBit sets bit to 1 when v is true and clears it when v is false,
// leaving every other bit in the flags word untouched.
func (h *Header) setBit(bit uint16, v bool) {
	if v {
		h.flags |= bit
	} else {
		h.flags &^= bit
	}
}

// headerSize is the fixed wire size of a DNS header, in bytes.
const headerSize = 12

// appendHeader writes id, flags, and the four section counts, each as a
// big-endian 16-bit integer, in that order.
func appendHeader(out []byte, h Header) []byte {
	var buf [headerSize]byte
	binary.BigEndian.PutUint16(buf[0:2], h.ID)
	binary.BigEndian.PutUint16(buf[2:4], h.flags)
	binary.BigEndian.PutUint16(buf[4:6], h.QDCount)
	binary.BigEndian.PutUint16(buf[6:8], h.ANCount)
	binary.BigEndian.PutUint16(buf[8:10], h.NSCount)
	binary.BigEndian.PutUint16(buf[10:12], h.ARCount)
	return append(out, buf[:]...)
}
