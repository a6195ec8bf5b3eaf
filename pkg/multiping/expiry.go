package multiping

import (
	"slices"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/SyntropyNet/nethealth/pkg/multiping/pingdata"
)

// expire moves probes pending for at least Timeout into history as lost.
// Expired keys stay tombstoned for one more Timeout so late replies can be
// told from foreign ones.
func (mp *MultiPing) expire(now time.Time) {
	var lost []pingdata.Probe

	mp.lock.Lock()
	for key, p := range mp.pending {
		if now.Sub(p.SendTime) < mp.Timeout {
			continue
		}
		delete(mp.pending, key)
		mp.tombstones[key] = now.Add(mp.Timeout)
		p.Lost = true
		lost = append(lost, p)
	}
	for key, until := range mp.tombstones {
		if !now.Before(until) {
			delete(mp.tombstones, key)
		}
	}
	mp.lock.Unlock()

	slices.SortFunc(lost, func(a, b pingdata.Probe) int {
		return a.SendTime.Compare(b.SendTime)
	})
	for _, p := range lost {
		mp.counters.lost.Add(1)
		mp.record(p)
		mp.log.WithFields(logrus.Fields{
			"host": p.Target,
			"id":   p.ID,
			"seq":  p.Seq,
		}).Debug("Probe lost")
	}
}
