package mdns

import (
	"net"
	"strings"

	"github.com/meilisearch/madness/dnsmsg"
)

// EventKind distinguishes the two shapes an Event can take.
type EventKind int

const (
	// EventQuery carries the filtered question list of an inbound query.
	EventQuery EventKind = iota
	// EventResponse carries the parsed view of an inbound response.
	EventResponse
)

// Query is a single question surfaced to the caller, either addressed to
// the meta-service name or to a name the caller has registered.
type Query struct {
	Name          string
	Qtype         uint16
	Qclass        uint16
	PreferUnicast bool
	Source        *net.UDPAddr
	ID            uint16
}

// IsLegacy reports whether the query's source port is not 5353, meaning
// the querier is a "one-shot" resolver per RFC 6762 §6.7 that does not
// implement the full mDNS specification and expects a unicast reply
// regardless of PreferUnicast.
func (q Query) IsLegacy() bool {
	return q.Source.Port != Port
}

// IsMetaServiceQuery reports whether this question is the DNS-SD service
// enumeration query rather than a question about one of the caller's
// registered service names.
func (q Query) IsMetaServiceQuery() bool {
	return q.Name == dnsmsg.MetaQueryName
}

// Event is what Next returns: either a filtered set of inbound queries or
// the parsed view of an inbound response. Exactly one of Queries or
// Response is meaningful, according to Kind.
type Event struct {
	Kind     EventKind
	Queries  []Query
	Response *dnsmsg.Packet
}

// trimRoot strips the trailing root label a parsed name carries, so it can
// be compared against names as the caller spells them when registering.
func trimRoot(name string) string {
	return strings.TrimSuffix(name, ".")
}

// classify turns a parsed inbound packet into the Event the engine
// surfaces from Next, filtering query questions against the advertised
// name set and the meta-service name.
func classify(advertised map[string]struct{}, src *net.UDPAddr, id uint16, pkt *dnsmsg.Packet) Event {
	if pkt.IsResponse() {
		return Event{Kind: EventResponse, Response: pkt}
	}

	var queries []Query

	for _, q := range pkt.Questions() {
		name := trimRoot(q.Name)

		_, known := advertised[name]
		if name != dnsmsg.MetaQueryName && !known {
			continue
		}

		queries = append(queries, Query{
			Name:          name,
			Qtype:         q.Qtype,
			Qclass:        q.Qclass,
			PreferUnicast: q.PreferUnicast,
			Source:        src,
			ID:            id,
		})
	}

	// An empty filtered list is still surfaced, rather than suppressed,
	// so the caller sees every inbound query packet.
	return Event{Kind: EventQuery, Queries: queries}
}
