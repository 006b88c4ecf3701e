// Package mdns drives a multicast DNS service engine: it owns the IPv4/IPv6
// sockets, the advertised-name set, the discovery scheduler, and the send
// queues, and exposes a single cooperative suspension point in Next.
package mdns

import "net"

// Port is the mDNS port number.
const Port = 5353

var (
	// IPv4Group is the multicast group used for mDNS over IPv4.
	//
	// See https://tools.ietf.org/html/rfc6762#section-3.
	IPv4Group = net.ParseIP("224.0.0.251")

	// IPv4Address is the address to which mDNS packets are sent when using IPv4.
	IPv4Address = &net.UDPAddr{IP: IPv4Group, Port: Port}

	// IPv6Group is the multicast group used for mDNS over IPv6.
	//
	// See https://tools.ietf.org/html/rfc6762#section-3.
	IPv6Group = net.ParseIP("ff02::fb")

	// IPv6Address is the address to which mDNS packets are sent when using IPv6.
	IPv6Address = &net.UDPAddr{IP: IPv6Group, Port: Port}
)

// recvBufferSize is the size of the per-socket receive buffer. Datagrams
// larger than this are truncated by the OS before the engine ever sees them.
const recvBufferSize = 2048
