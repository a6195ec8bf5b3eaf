package multiping

import (
	"bytes"
	"context"
	"fmt"
	"math/rand"
	"net/netip"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/SyntropyNet/nethealth/pkg/multiping/pingdata"
	"github.com/SyntropyNet/nethealth/pkg/multiping/pinger"
)

// sender owns its random source and encode buffer
type sender struct {
	mp      *MultiPing
	rnd     *rand.Rand
	payload []byte
	buf     []byte
}

func newSender(mp *MultiPing) *sender {
	size := max(mp.PayloadSize, 0)
	return &sender{
		mp:      mp,
		rnd:     rand.New(rand.NewSource(time.Now().UnixNano())),
		payload: bytes.Repeat([]byte{1}, size),
		buf:     make([]byte, 0, pinger.EchoHeaderLen+size),
	}
}

func (s *sender) run(ctx context.Context) {
	mp := s.mp
	timer := time.NewTimer(0)
	defer timer.Stop()

	var slot int64
	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		for _, host := range mp.hosts {
			s.send(host)
		}
		mp.expire(time.Now())

		slot = nextSlot(mp.origin, mp.Period, slot, time.Now())
		timer.Reset(time.Until(mp.origin.Add(time.Duration(slot) * mp.Period)))
	}
}

// nextSlot returns the schedule slot following slot. When already more than
// one period late, skips to the first slot in the future instead of bursting.
func nextSlot(origin time.Time, period time.Duration, slot int64, now time.Time) int64 {
	next := slot + 1
	if now.Sub(origin.Add(time.Duration(next)*period)) > period {
		next = int64(now.Sub(origin)/period) + 1
	}
	return next
}

// newKey draws a random (id, seq) not used by a pending or a recently
// expired probe. Needs mp.lock.
func (s *sender) newKey() pendingKey {
	mp := s.mp
	var key pendingKey
	for i := 0; i <= maxKeyDraws; i++ {
		key = pendingKey{
			id:  uint16(s.rnd.Intn(0x10000)),
			seq: uint16(s.rnd.Intn(0x10000)),
		}
		_, busy := mp.pending[key]
		_, dead := mp.tombstones[key]
		if !busy && !dead {
			break
		}
	}
	return key
}

func (s *sender) send(host netip.Addr) {
	mp := s.mp

	mp.lock.Lock()
	key := s.newKey()
	probe := pingdata.Probe{
		ID:       key.id,
		Seq:      key.seq,
		Target:   host,
		SendTime: time.Now(),
	}
	delete(mp.tombstones, key)
	mp.pending[key] = probe
	mp.lock.Unlock()

	s.buf = pinger.AppendEcho(s.buf[:0], pinger.TypeEchoRequest, 0, key.id, key.seq, s.payload)
	err := mp.conn.WriteTo(s.buf, host)
	if err == nil {
		mp.counters.sent.Add(1)
		return
	}

	mp.counters.txErrors.Add(1)
	mp.log.WithFields(logrus.Fields{
		"host": host,
		"id":   key.id,
		"seq":  key.seq,
	}).WithError(fmt.Errorf("%w: %w", ErrTransmitFailure, err)).Error("Send failed")

	mp.lock.Lock()
	// receiver could not have matched it, but expiry or a colliding draw may
	// have replaced it meanwhile
	cur, ok := mp.pending[key]
	owned := ok && cur.SendTime.Equal(probe.SendTime) && cur.Target == host
	if owned {
		delete(mp.pending, key)
	}
	mp.lock.Unlock()

	if owned {
		probe.Lost = true
		mp.counters.lost.Add(1)
		mp.record(probe)
	}
}
