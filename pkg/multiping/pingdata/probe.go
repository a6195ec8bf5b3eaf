package pingdata

import (
	"fmt"
	"net/netip"
	"time"
)

// Status of a single probe
type Status uint8

const (
	StatusPending Status = iota
	StatusComplete
	StatusLost
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusComplete:
		return "complete"
	case StatusLost:
		return "lost"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// Probe is one echo request and its outcome.
// Zero RecvTime and invalid ReplyAddr mean no reply has been received (yet).
type Probe struct {
	ID        uint16
	Seq       uint16
	Target    netip.Addr
	SendTime  time.Time
	RecvTime  time.Time
	ReplyAddr netip.Addr
	Lost      bool
}

func (p Probe) Status() Status {
	switch {
	case p.Lost:
		return StatusLost
	case !p.RecvTime.IsZero():
		return StatusComplete
	default:
		return StatusPending
	}
}

// Latency is round trip time. Only meaningful for complete probes.
func (p Probe) Latency() time.Duration {
	if p.Status() != StatusComplete {
		return 0
	}
	return p.RecvTime.Sub(p.SendTime)
}

func (p Probe) String() string {
	switch p.Status() {
	case StatusComplete:
		return fmt.Sprintf("%s id=%d seq=%d rtt=%s", p.Target, p.ID, p.Seq, p.Latency())
	default:
		return fmt.Sprintf("%s id=%d seq=%d %s", p.Target, p.ID, p.Seq, p.Status())
	}
}
