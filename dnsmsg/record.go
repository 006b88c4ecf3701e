package dnsmsg

import (
	"encoding/binary"
	"time"
)

// Question is a single entry in a packet's question section.
type Question struct {
	Name          string
	Type          uint16
	Class         uint16
	PreferUnicast bool
}

// appendQuestion writes name, qtype, and qclass (with the prefer-unicast bit
// OR'd into qclass when requested).
func appendQuestion(out []byte, q Question) []byte {
	out = appendName(out, q.Name)

	var buf [4]byte
	binary.BigEndian.PutUint16(buf[0:2], q.Type)

	class := q.Class
	if q.PreferUnicast {
		class |= UnicastBit
	}
	binary.BigEndian.PutUint16(buf[2:4], class)

	return append(out, buf[:]...)
}

// ResourceRecord is a single entry in a packet's answer (or, equivalently,
// authority/additional) section: a name, a class, a TTL, and a data
// variant.
//
// Unique marks the record as belonging to a "unique" RRSet (bound to this
// host instance, e.g. A/AAAA/SRV/TXT): the cache-flush bit is set on the
// wire when Unique is true. PTR records advertising a service instance
// into a shared service type should leave Unique false, per spec §3/§9.
type ResourceRecord struct {
	Name   string
	Class  uint16
	TTL    time.Duration
	Data   RData
	Unique bool
}

// appendRecord writes name, type, class (cache-flush bit OR'd in when the
// record is Unique), TTL, RDLENGTH, and RDATA, in that order. RDLENGTH is
// computed by reserving two bytes, writing the RDATA, and patching the
// length in place, never by a parallel size formula (spec §4.2).
func appendRecord(out []byte, r ResourceRecord) ([]byte, error) {
	out = appendName(out, r.Name)

	var hdr [8]byte
	binary.BigEndian.PutUint16(hdr[0:2], r.Data.TypeCode())

	class := r.Class
	if r.Unique {
		class |= CacheFlushBit
	}
	binary.BigEndian.PutUint16(hdr[2:4], class)

	binary.BigEndian.PutUint32(hdr[4:8], SecondsTTL(r.TTL))
	out = append(out, hdr[:]...)

	rdlenPos := len(out)
	out = append(out, 0, 0) // placeholder, patched below

	rdataStart := len(out)
	out, err := r.Data.write(out)
	if err != nil {
		return out, err
	}

	rdlen := len(out) - rdataStart
	if rdlen > 0xffff {
		return out, &CodecError{Op: "record", Err: ErrRDATATooLong}
	}

	binary.BigEndian.PutUint16(out[rdlenPos:rdlenPos+2], uint16(rdlen))

	return out, nil
}
