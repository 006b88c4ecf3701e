package mdns

import (
	"context"
	"net"

	"golang.org/x/net/ipv6"
)

// conn6 is the engine's IPv6 multicast socket.
type conn6 struct {
	pc *ipv6.PacketConn
}

func listen6(loopback bool) (*conn6, error) {
	lc := net.ListenConfig{Control: reuseControl}

	raw, err := lc.ListenPacket(context.Background(), "udp6", "[::]:5353")
	if err != nil {
		return nil, err
	}

	pc := ipv6.NewPacketConn(raw)

	if err := pc.SetMulticastLoopback(loopback); err != nil {
		pc.Close()
		return nil, err
	}

	// Interface index 0 means the default interface, matching the
	// unspecified-interface join used for the IPv4 group.
	if err := pc.JoinGroup(nil, &net.UDPAddr{IP: IPv6Group}); err != nil {
		pc.Close()
		return nil, err
	}

	return &conn6{pc: pc}, nil
}

func (c *conn6) Recv(buf []byte) (int, *net.UDPAddr, error) {
	n, _, addr, err := c.pc.ReadFrom(buf)
	if err != nil {
		return n, nil, err
	}
	return n, addr.(*net.UDPAddr), nil
}

func (c *conn6) Send(buf []byte, addr *net.UDPAddr) error {
	_, err := c.pc.WriteTo(buf, nil, addr)
	return err
}

func (c *conn6) Close() error {
	return c.pc.Close()
}
