package pingdata

import (
	"fmt"
	"time"
)

// Stats of a history snapshot. Min, Max and Mean cover complete probes only.
type Stats struct {
	Min      time.Duration
	Max      time.Duration
	Mean     time.Duration
	Complete int
	Lost     int
}

// Compute aggregates a snapshot. Pending entries are ignored.
func Compute(snapshot []Probe) Stats {
	var s Stats
	var total time.Duration

	for _, p := range snapshot {
		switch p.Status() {
		case StatusLost:
			s.Lost++
		case StatusComplete:
			rtt := p.Latency()
			if s.Complete == 0 || rtt < s.Min {
				s.Min = rtt
			}
			if rtt > s.Max {
				s.Max = rtt
			}
			total += rtt
			s.Complete++
		}
	}

	if s.Complete > 0 {
		s.Mean = total / time.Duration(s.Complete)
	}
	return s
}

func (s Stats) Valid() bool {
	return s.Complete+s.Lost > 0
}

// Loss returns ratio of lost probes
func (s Stats) Loss() float32 {
	if s.Valid() {
		return float32(s.Lost) / float32(s.Complete+s.Lost)
	}
	return 0
}

func (s Stats) String() string {
	return fmt.Sprintf("rx=%d, lost=%d, min=%s, max=%s, avg=%s",
		s.Complete, s.Lost, s.Min, s.Max, s.Mean)
}
