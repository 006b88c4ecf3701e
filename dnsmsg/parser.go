package dnsmsg

import "github.com/miekg/dns"

// ParsedQuestion is a single question from an inbound packet, with the
// prefer-unicast bit already extracted from (and cleared out of) Qclass.
type ParsedQuestion struct {
	Name          string
	Qtype         uint16
	Qclass        uint16
	PreferUnicast bool
}

// Packet is a structured view over an inbound DNS/mDNS message: header
// fields, iterable questions, and the raw answer set. Its implementation is
// a thin wrapper over github.com/miekg/dns, per spec §4.5 — the contract
// (ID/IsResponse/Questions/Msg) is this package's; the actual parsing,
// including compression-pointer resolution, is miekg/dns's.
type Packet struct {
	msg *dns.Msg
}

// Parse decodes buf as a DNS/mDNS message.
//
// A message whose only defect is a set TC (truncated) bit is still
// returned successfully: per RFC 6762 §18.5, a truncated query may carry
// known-answer records in a following packet, and the engine responds to
// what it has rather than discarding the query outright, matching the
// teacher's mdns/server.go handling of dns.ErrTruncated. Every other parse
// failure is returned as an error, which the engine treats as a silent
// drop (spec §4.5, §7).
func Parse(buf []byte) (*Packet, error) {
	m := new(dns.Msg)
	if err := m.Unpack(buf); err != nil {
		if err != dns.ErrTruncated {
			return nil, err
		}
	}

	return &Packet{msg: m}, nil
}

// ID returns the packet's transaction id.
func (p *Packet) ID() uint16 {
	return p.msg.Id
}

// IsResponse reports whether the QR bit is set.
func (p *Packet) IsResponse() bool {
	return p.msg.Response
}

// Questions returns the packet's question section, with the prefer-unicast
// bit unpacked out of each question's class field.
func (p *Packet) Questions() []ParsedQuestion {
	qs := make([]ParsedQuestion, len(p.msg.Question))

	for i, q := range p.msg.Question {
		unicast := q.Qclass&UnicastBit != 0

		qs[i] = ParsedQuestion{
			Name:          q.Name,
			Qtype:         q.Qtype,
			Qclass:        q.Qclass &^ UnicastBit,
			PreferUnicast: unicast,
		}
	}

	return qs
}

// Msg returns the underlying parsed message, for callers that need the
// full answer/authority/additional record sets of a response packet. The
// core treats this as opaque beyond what Questions/ID/IsResponse expose
// (spec §3, "Response event").
func (p *Packet) Msg() *dns.Msg {
	return p.msg
}
