//go:build linux || darwin

package pinger

import (
	"errors"
	"fmt"
	"net"
	"net/netip"
	"sync/atomic"
	"time"

	"golang.org/x/sys/unix"
)

type rawConn struct {
	fd     int
	closed atomic.Bool
}

// ListenRaw opens a raw AF_INET/IPPROTO_ICMP socket. Requires CAP_NET_RAW
// (or root), the returned error carries the errno (EPERM, EACCES).
func ListenRaw(bind netip.Addr, recvTimeout time.Duration) (Conn, error) {
	if !bind.Is4() {
		return nil, fmt.Errorf("%w: bind %s", ErrInvalidAddr, bind)
	}

	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_RAW, unix.IPPROTO_ICMP)
	if err != nil {
		return nil, fmt.Errorf("socket: %w", err)
	}

	sa := &unix.SockaddrInet4{Addr: bind.As4()}
	if err := unix.Bind(fd, sa); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("bind %s: %w", bind, err)
	}

	if recvTimeout > 0 {
		tv := unix.NsecToTimeval(recvTimeout.Nanoseconds())
		if err := unix.SetsockoptTimeval(fd, unix.SOL_SOCKET, unix.SO_RCVTIMEO, &tv); err != nil {
			unix.Close(fd)
			return nil, fmt.Errorf("setsockopt SO_RCVTIMEO: %w", err)
		}
	}

	return &rawConn{fd: fd}, nil
}

func (c *rawConn) WriteTo(b []byte, dst netip.Addr) error {
	if c.closed.Load() {
		return net.ErrClosed
	}
	if !dst.Is4() {
		return fmt.Errorf("%w: %s", ErrInvalidAddr, dst)
	}

	sa := &unix.SockaddrInet4{Addr: dst.As4()}
	var err error
	for tries := sendRetries; tries > 0; tries-- {
		err = unix.Sendto(c.fd, b, 0, sa)
		if errors.Is(err, unix.ENOBUFS) {
			continue
		}
		break
	}
	return err
}

func (c *rawConn) ReadFrom(b []byte) (int, netip.Addr, error) {
	for {
		if c.closed.Load() {
			return 0, netip.Addr{}, net.ErrClosed
		}

		n, from, err := unix.Recvfrom(c.fd, b, 0)
		switch {
		case err == nil:
			var src netip.Addr
			if sa, ok := from.(*unix.SockaddrInet4); ok {
				src = netip.AddrFrom4(sa.Addr)
			}
			return n, src, nil
		case errors.Is(err, unix.EINTR):
			continue
		case errors.Is(err, unix.EAGAIN), errors.Is(err, unix.EWOULDBLOCK):
			return 0, netip.Addr{}, ErrTimeout
		case c.closed.Load():
			return 0, netip.Addr{}, net.ErrClosed
		default:
			return 0, netip.Addr{}, err
		}
	}
}

func (c *rawConn) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	return unix.Close(c.fd)
}
