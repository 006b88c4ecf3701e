package dnsmsg_test

import (
	"encoding/binary"
	"net"
	"time"

	"github.com/meilisearch/madness/dnsmsg"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("Builder", func() {
	// Scenario S1: a PTR answer packet.
	It("builds a PTR answer packet with the documented header and framing", func() {
		ttl := 4500 * time.Second

		b := dnsmsg.NewBuilder(12).
			Response(true).
			Authoritative(true).
			AddAnswer(dnsmsg.ResourceRecord{
				Name:   "_myservice._tcp.local",
				Class:  dnsmsg.ClassIN,
				TTL:    ttl,
				Unique: true,
				Data:   dnsmsg.PTR{Target: "marin._myservice._tcp.local"},
			})

		out, err := b.Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(out[0:12]).To(Equal([]byte{
			0x00, 0x0c, // id
			0x84, 0x00, // QR=1, AA=1
			0x00, 0x00, // qdcount
			0x00, 0x01, // ancount
			0x00, 0x00, // nscount
			0x00, 0x00, // arcount
		}))

		name := encodeName("_myservice._tcp.local")
		target := encodeName("marin._myservice._tcp.local")

		i := 12
		Expect(out[i : i+len(name)]).To(Equal(name))
		i += len(name)

		Expect(out[i : i+2]).To(Equal([]byte{0x00, 0x0c})) // type PTR
		i += 2
		Expect(out[i : i+2]).To(Equal([]byte{0x80, 0x01})) // class IN | cache-flush
		i += 2

		ttlBytes := make([]byte, 4)
		binary.BigEndian.PutUint32(ttlBytes, dnsmsg.SecondsTTL(ttl))
		Expect(out[i : i+4]).To(Equal(ttlBytes))
		i += 4

		rdlen := binary.BigEndian.Uint16(out[i : i+2])
		i += 2
		Expect(int(rdlen)).To(Equal(len(target)))
		Expect(out[i : i+int(rdlen)]).To(Equal(target))
		i += int(rdlen)

		Expect(i).To(Equal(len(out)))
	})

	// Scenario S2: an A record.
	It("builds an A record with the documented RDATA", func() {
		b := dnsmsg.NewBuilder(0).
			Response(true).
			AddAnswer(dnsmsg.ResourceRecord{
				Name:  "marin.local",
				Class: dnsmsg.ClassIN,
				TTL:   4500 * time.Second,
				Data:  dnsmsg.A{Addr: net.ParseIP("192.168.31.78")},
			})

		out, err := b.Build()
		Expect(err).NotTo(HaveOccurred())

		name := encodeName("marin.local")
		i := 12 + len(name)

		Expect(out[i : i+2]).To(Equal([]byte{0x00, 0x01})) // type A
		Expect(out[i+2 : i+4]).To(Equal([]byte{0x00, 0x01})) // class IN, no cache-flush
		Expect(out[i+8 : i+10]).To(Equal([]byte{0x00, 0x04})) // RDLENGTH
		Expect(out[i+10 : i+14]).To(Equal([]byte{0xc0, 0xa8, 0x1f, 0x4e}))
	})

	// Scenario S3: an SRV record.
	It("builds an SRV record with priority, weight, port, then target", func() {
		b := dnsmsg.NewBuilder(0).
			Response(true).
			AddAnswer(dnsmsg.ResourceRecord{
				Name:  "marin._myservice._tcp.local",
				Class: dnsmsg.ClassIN,
				TTL:   time.Second,
				Data: dnsmsg.SRV{
					Priority: 0,
					Weight:   0,
					Port:     8594,
					Target:   "marin.local",
				},
			})

		out, err := b.Build()
		Expect(err).NotTo(HaveOccurred())

		name := encodeName("marin._myservice._tcp.local")
		rdataStart := 12 + len(name) + 10 // name + type/class/ttl/rdlength

		Expect(out[rdataStart : rdataStart+6]).To(Equal([]byte{
			0x00, 0x00, // priority
			0x00, 0x00, // weight
			0x21, 0x92, // port 8594
		}))

		target := encodeName("marin.local")
		Expect(out[rdataStart+6 : rdataStart+6+len(target)]).To(Equal(target))
	})

	// Scenario S4: a TXT record.
	It("builds a TXT record as length-prefixed strings", func() {
		b := dnsmsg.NewBuilder(0).
			Response(true).
			AddAnswer(dnsmsg.ResourceRecord{
				Name:  "marin._myservice._tcp.local",
				Class: dnsmsg.ClassIN,
				TTL:   time.Second,
				Data:  dnsmsg.TXT{Entries: []string{"foo=bar", "baz=qux", "foobar"}},
			})

		out, err := b.Build()
		Expect(err).NotTo(HaveOccurred())

		name := encodeName("marin._myservice._tcp.local")
		rdlenPos := 12 + len(name) + 8
		rdlen := binary.BigEndian.Uint16(out[rdlenPos : rdlenPos+2])
		rdata := out[rdlenPos+2 : rdlenPos+2+int(rdlen)]

		Expect(rdata).To(Equal([]byte{
			7, 'f', 'o', 'o', '=', 'b', 'a', 'r',
			7, 'b', 'a', 'z', '=', 'q', 'u', 'x',
			6, 'f', 'o', 'o', 'b', 'a', 'r',
		}))
	})

	It("encodes an empty TXT record as a single zero-length entry", func() {
		b := dnsmsg.NewBuilder(0).
			Response(true).
			AddAnswer(dnsmsg.ResourceRecord{
				Name:  "marin.local",
				Class: dnsmsg.ClassIN,
				TTL:   time.Second,
				Data:  dnsmsg.TXT{},
			})

		out, err := b.Build()
		Expect(err).NotTo(HaveOccurred())

		name := encodeName("marin.local")
		rdlenPos := 12 + len(name) + 8
		rdlen := binary.BigEndian.Uint16(out[rdlenPos : rdlenPos+2])

		Expect(rdlen).To(Equal(uint16(1)))
		Expect(out[rdlenPos+2]).To(Equal(byte(0)))
	})

	It("rejects a TXT entry longer than 255 bytes", func() {
		long := make([]byte, 256)
		for i := range long {
			long[i] = 'a'
		}

		b := dnsmsg.NewBuilder(0).
			Response(true).
			AddAnswer(dnsmsg.ResourceRecord{
				Name:  "marin.local",
				Class: dnsmsg.ClassIN,
				TTL:   time.Second,
				Data:  dnsmsg.TXT{Entries: []string{string(long)}},
			})

		_, err := b.Build()
		Expect(err).To(HaveOccurred())
	})

	It("keeps the header's section counts equal to the list lengths at build time", func() {
		b := dnsmsg.NewBuilder(1).
			AddQuestion(dnsmsg.Question{Name: "_myservice._tcp.local", Type: dnsmsg.TypePTR, Class: dnsmsg.ClassIN}).
			AddAnswer(dnsmsg.ResourceRecord{
				Name:  "marin.local",
				Class: dnsmsg.ClassIN,
				TTL:   time.Second,
				Data:  dnsmsg.A{Addr: net.ParseIP("10.0.0.1")},
			})

		out, err := b.Build()
		Expect(err).NotTo(HaveOccurred())

		Expect(out[4:6]).To(Equal([]byte{0x00, 0x01})) // qdcount
		Expect(out[6:8]).To(Equal([]byte{0x00, 0x01})) // ancount
	})

	It("ORs the prefer-unicast bit into a question's class field", func() {
		b := dnsmsg.NewBuilder(0).
			AddQuestion(dnsmsg.Question{
				Name:          "_services._dns-sd._udp.local",
				Type:          dnsmsg.TypePTR,
				Class:         dnsmsg.ClassIN,
				PreferUnicast: true,
			})

		out, err := b.Build()
		Expect(err).NotTo(HaveOccurred())

		name := encodeName("_services._dns-sd._udp.local")
		i := 12 + len(name)
		Expect(out[i : i+2]).To(Equal([]byte{0x00, 0x0c})) // type PTR
		Expect(out[i+2 : i+4]).To(Equal([]byte{0x80, 0x01})) // class IN | unicast bit
	})
})

// encodeName is a small local oracle mirroring the wire form appendName
// produces, used to assemble expected byte sequences without depending on
// the package's unexported helpers from the black-box test package.
func encodeName(name string) []byte {
	var out []byte
	label := []byte{}

	flush := func() {
		if len(label) > 0 {
			out = append(out, byte(len(label)))
			out = append(out, label...)
			label = label[:0]
		}
	}

	for i := 0; i < len(name); i++ {
		if name[i] == '.' {
			flush()
			continue
		}
		label = append(label, name[i])
	}
	flush()

	return append(out, 0)
}
