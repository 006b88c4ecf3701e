package dnsmsg

import (
	"encoding/binary"
	"net"
)

// Resource record type codes used by this codec.
//
// Grounded on the original implementation's RRType enum
// (original_source/src/dns.rs) and on the teacher's dnssd.Instance record
// builders, which use the same standard assignments via miekg/dns.
const (
	TypeA    uint16 = 1
	TypePTR  uint16 = 12
	TypeTXT  uint16 = 16
	TypeSRV  uint16 = 33
	TypeAAAA uint16 = 28
)

// ClassIN is the only DNS class mDNS uses.
const ClassIN uint16 = 1

// CacheFlushBit is OR'd into a resource record's class field on the wire to
// mark the record as superseding any cached record with the same
// name/type/class. See spec §3 and §9.
const CacheFlushBit uint16 = 0x8000

// UnicastBit is OR'd into a question's class field to request a unicast
// response. See spec §4 and the GLOSSARY entry "Prefer-unicast bit".
const UnicastBit uint16 = 0x8000

// RData is a DNS record payload. Each concrete type is a tagged variant (A,
// AAAA, PTR, SRV, or TXT); the record envelope around it (name, class, TTL,
// RDLENGTH framing) is shared and lives in record.go.
//
// This mirrors the teacher's per-record builder methods
// (dnssd.Instance.A/AAAA/PTR/SRV/TXT) collapsed into a closed sum type, per
// spec §9's design note that RData should be a tagged variant with a
// common serialisation trait.
type RData interface {
	// TypeCode returns this variant's 16-bit DNS type.
	TypeCode() uint16

	// write appends this variant's RDATA bytes (the exact bytes that follow
	// RDLENGTH) to out and returns the extended slice.
	write(out []byte) ([]byte, error)
}

// A is the RDATA of an A record: a 4-byte IPv4 address in network order.
type A struct {
	Addr net.IP
}

// TypeCode returns TypeA.
func (r A) TypeCode() uint16 { return TypeA }

func (r A) write(out []byte) ([]byte, error) {
	ip4 := r.Addr.To4()
	if ip4 == nil {
		return out, &CodecError{Op: "A", Err: errNotIPv4(r.Addr)}
	}
	return append(out, ip4...), nil
}

// AAAA is the RDATA of an AAAA record: a 16-byte IPv6 address in network
// order.
type AAAA struct {
	Addr net.IP
}

// TypeCode returns TypeAAAA.
func (r AAAA) TypeCode() uint16 { return TypeAAAA }

func (r AAAA) write(out []byte) ([]byte, error) {
	ip6 := r.Addr.To16()
	if ip6 == nil {
		return out, &CodecError{Op: "AAAA", Err: errNotIPv6(r.Addr)}
	}
	return append(out, ip6...), nil
}

// PTR is the RDATA of a PTR record: an uncompressed target name.
type PTR struct {
	Target string
}

// TypeCode returns TypePTR.
func (r PTR) TypeCode() uint16 { return TypePTR }

func (r PTR) write(out []byte) ([]byte, error) {
	return appendName(out, r.Target), nil
}

// SRV is the RDATA of an SRV record: priority, weight, port, then an
// uncompressed target name, in that order.
type SRV struct {
	Priority uint16
	Weight   uint16
	Port     uint16
	Target   string
}

// TypeCode returns TypeSRV.
func (r SRV) TypeCode() uint16 { return TypeSRV }

func (r SRV) write(out []byte) ([]byte, error) {
	var buf [6]byte
	binary.BigEndian.PutUint16(buf[0:2], r.Priority)
	binary.BigEndian.PutUint16(buf[2:4], r.Weight)
	binary.BigEndian.PutUint16(buf[4:6], r.Port)
	out = append(out, buf[:]...)
	return appendName(out, r.Target), nil
}

// TXT is the RDATA of a TXT record: one or more length-prefixed strings.
//
// An empty Entries slice still produces a non-empty RDATA: a single
// zero-length string, per spec §4.2 and the original implementation's
// append_txt_record (which pushes a single zero byte when the accumulated
// buffer would otherwise be empty, because an empty TXT record is illegal
// on the wire).
type TXT struct {
	Entries []string
}

// TypeCode returns TypeTXT.
func (r TXT) TypeCode() uint16 { return TypeTXT }

func (r TXT) write(out []byte) ([]byte, error) {
	start := len(out)

	for _, e := range r.Entries {
		if len(e) > 0xff {
			return out, &CodecError{Op: "TXT", Err: ErrTXTEntryTooLong}
		}
		out = append(out, byte(len(e)))
		out = append(out, e...)
	}

	if len(out) == start {
		out = append(out, 0)
	}

	return out, nil
}

func errNotIPv4(ip net.IP) error {
	return &invalidAddrError{kind: "IPv4", addr: ip}
}

func errNotIPv6(ip net.IP) error {
	return &invalidAddrError{kind: "IPv6", addr: ip}
}

type invalidAddrError struct {
	kind string
	addr net.IP
}

func (e *invalidAddrError) Error() string {
	return "not a valid " + e.kind + " address: " + e.addr.String()
}
