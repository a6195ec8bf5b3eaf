package multiping

import (
	"net"
	"net/netip"
	"sync"
	"sync/atomic"
	"time"

	"github.com/SyntropyNet/nethealth/pkg/multiping/pinger"
)

var localAddr = netip.MustParseAddr("192.0.2.254")

// fakeConn emulates a raw ICMP socket. Hosts present in responders answer
// echo requests after the configured delay, others stay silent.
type fakeConn struct {
	recvTimeout time.Duration
	rx          chan []byte
	errs        chan error
	closed      chan struct{}
	closeOnce   sync.Once
	closes      atomic.Int32

	mu         sync.Mutex
	responders map[netip.Addr]time.Duration
	writeErr   map[netip.Addr]error
	sent       map[netip.Addr]int
}

func newFakeConn() *fakeConn {
	return &fakeConn{
		recvTimeout: 20 * time.Millisecond,
		rx:          make(chan []byte, 1024),
		errs:        make(chan error, 16),
		closed:      make(chan struct{}),
		responders:  make(map[netip.Addr]time.Duration),
		writeErr:    make(map[netip.Addr]error),
		sent:        make(map[netip.Addr]int),
	}
}

func (c *fakeConn) respond(host netip.Addr, delay time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responders[host] = delay
}

func (c *fakeConn) failWrites(host netip.Addr, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.writeErr[host] = err
}

func (c *fakeConn) sentTo(host netip.Addr) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sent[host]
}

func (c *fakeConn) listen(bind netip.Addr, recvTimeout time.Duration) (pinger.Conn, error) {
	return c, nil
}

// inject delivers a raw datagram to the reader
func (c *fakeConn) inject(b []byte) {
	select {
	case c.rx <- b:
	case <-c.closed:
	}
}

func (c *fakeConn) WriteTo(b []byte, dst netip.Addr) error {
	select {
	case <-c.closed:
		return net.ErrClosed
	default:
	}

	c.mu.Lock()
	err := c.writeErr[dst]
	delay, ok := c.responders[dst]
	if err == nil {
		c.sent[dst]++
	}
	c.mu.Unlock()

	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	req, perr := pinger.ParseEcho(b)
	if perr != nil {
		return perr
	}
	reply, perr := pinger.MarshalPacket(dst, localAddr, 64,
		pinger.MarshalEcho(pinger.TypeEchoReply, 0, req.ID, req.Seq, req.Data))
	if perr != nil {
		return perr
	}
	time.AfterFunc(delay, func() { c.inject(reply) })
	return nil
}

func (c *fakeConn) ReadFrom(b []byte) (int, netip.Addr, error) {
	select {
	case <-c.closed:
		return 0, netip.Addr{}, net.ErrClosed
	default:
	}

	select {
	case p := <-c.rx:
		return copy(b, p), localAddr, nil
	case err := <-c.errs:
		return 0, netip.Addr{}, err
	case <-time.After(c.recvTimeout):
		return 0, netip.Addr{}, pinger.ErrTimeout
	case <-c.closed:
		return 0, netip.Addr{}, net.ErrClosed
	}
}

func (c *fakeConn) Close() error {
	c.closes.Add(1)
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}
