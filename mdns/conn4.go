package mdns

import (
	"context"
	"net"

	"golang.org/x/net/ipv4"
)

// conn4 is the engine's IPv4 multicast socket.
type conn4 struct {
	pc *ipv4.PacketConn
}

func listen4(loopback bool) (*conn4, error) {
	lc := net.ListenConfig{Control: reuseControl}

	raw, err := lc.ListenPacket(context.Background(), "udp4", "0.0.0.0:5353")
	if err != nil {
		return nil, err
	}

	pc := ipv4.NewPacketConn(raw)

	if err := pc.SetMulticastLoopback(loopback); err != nil {
		pc.Close()
		return nil, err
	}

	if err := pc.SetMulticastTTL(255); err != nil {
		pc.Close()
		return nil, err
	}

	// A nil interface tells JoinGroup to use the system's assigned
	// multicast interface, per the unspecified-interface requirement.
	if err := pc.JoinGroup(nil, &net.UDPAddr{IP: IPv4Group}); err != nil {
		pc.Close()
		return nil, err
	}

	return &conn4{pc: pc}, nil
}

func (c *conn4) Recv(buf []byte) (int, *net.UDPAddr, error) {
	n, _, addr, err := c.pc.ReadFrom(buf)
	if err != nil {
		return n, nil, err
	}
	return n, addr.(*net.UDPAddr), nil
}

func (c *conn4) Send(buf []byte, addr *net.UDPAddr) error {
	_, err := c.pc.WriteTo(buf, nil, addr)
	return err
}

func (c *conn4) Close() error {
	return c.pc.Close()
}
