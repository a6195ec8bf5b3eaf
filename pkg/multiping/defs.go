package multiping

import (
	"errors"
	"time"

	"github.com/SyntropyNet/nethealth/pkg/scontext"
)

const pkgName = "multiping"

const (
	DefaultPeriod      = 100 * time.Millisecond
	DefaultTimeout     = time.Second
	DefaultRecvTimeout = 200 * time.Millisecond
	DefaultPayloadSize = 32

	// Ethernet MTU sized receive buffer
	recvBufferSize = 1500
	// redraws of a colliding (id, seq) before overwriting
	maxKeyDraws = 4
)

var (
	ErrSocketUnavailable = errors.New("raw socket unavailable")
	ErrUnsolicitedReply  = errors.New("unsolicited reply")
	ErrTransmitFailure   = errors.New("transmit failure")
	ErrNoHosts           = errors.New("no hosts")
	ErrInvalidAddr       = errors.New("invalid host address")
	ErrRunning           = scontext.ErrRunning
)

// in-flight probes are keyed by ICMP identifier and sequence
type pendingKey struct {
	id  uint16
	seq uint16
}
