package pinger

import (
	"net/netip"
	"time"
)

// Conn is an IPv4 ICMP datagram endpoint. ReadFrom returns whole datagrams
// including the IPv4 header. WriteTo sends a bare ICMP message, the kernel
// prepends IP header. ReadFrom and WriteTo may be called concurrently.
type Conn interface {
	WriteTo(b []byte, dst netip.Addr) error
	// ReadFrom returns ErrTimeout when nothing arrived within receive timeout
	// and net.ErrClosed once the connection is closed.
	ReadFrom(b []byte) (int, netip.Addr, error)
	Close() error
}

// ListenFunc opens a Conn bound to addr. Reads wake up after recvTimeout.
type ListenFunc func(bind netip.Addr, recvTimeout time.Duration) (Conn, error)

// ENOBUFS may happen on send under load, retry a few times
const sendRetries = 6
