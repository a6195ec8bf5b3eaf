//go:build !linux && !darwin

package pinger

import (
	"errors"
	"net/netip"
	"time"
)

func ListenRaw(bind netip.Addr, recvTimeout time.Duration) (Conn, error) {
	return nil, errors.New("raw icmp sockets are not supported on this platform")
}
