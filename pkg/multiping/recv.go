package multiping

import (
	"context"
	"errors"
	"net"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/SyntropyNet/nethealth/pkg/multiping/pinger"
)

const (
	reasonExpired = "expired"
	reasonUnknown = "unknown"
)

func (mp *MultiPing) recvLoop(ctx context.Context) {
	buf := make([]byte, recvBufferSize)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		n, _, err := mp.conn.ReadFrom(buf)
		now := time.Now()
		switch {
		case err == nil:
			mp.processPacket(buf[:n], now)
		case errors.Is(err, pinger.ErrTimeout):
			// periodic wake up to check ctx
		case errors.Is(err, net.ErrClosed):
			return
		default:
			mp.log.WithError(err).Error("Socket receive")
			select {
			case <-ctx.Done():
				return
			case <-time.After(mp.RecvTimeout):
			}
		}
	}
}

// processPacket matches an echo reply to its pending probe.
// Other ICMP messages (including own requests on loopback) are ignored.
func (mp *MultiPing) processPacket(b []byte, now time.Time) {
	pkt, err := pinger.ParsePacket(b)
	if err != nil {
		mp.counters.malformed.Add(1)
		mp.log.WithError(err).Warn("Decode failed")
		return
	}
	if pkt.Header.Protocol != pinger.ProtocolICMP || !pkt.Echo.IsReply() {
		return
	}

	fields := logrus.Fields{
		"id":  pkt.Echo.ID,
		"seq": pkt.Echo.Seq,
		"src": pkt.Src(),
	}
	if !pkt.ChecksumOK {
		mp.log.WithFields(fields).Debug("ICMP checksum mismatch")
	}

	key := pendingKey{id: pkt.Echo.ID, seq: pkt.Echo.Seq}
	mp.lock.Lock()
	probe, ok := mp.pending[key]
	if ok {
		delete(mp.pending, key)
	}
	_, expired := mp.tombstones[key]
	mp.lock.Unlock()

	if !ok {
		mp.counters.unsl.Add(1)
		fields["reason"] = reasonUnknown
		if expired {
			fields["reason"] = reasonExpired
		}
		mp.log.WithFields(fields).WithError(ErrUnsolicitedReply).Info("Reply dropped")
		return
	}

	probe.RecvTime = now
	probe.ReplyAddr = pkt.Src()
	if probe.ReplyAddr != probe.Target {
		fields["host"] = probe.Target
		mp.log.WithFields(fields).Debug("Reply from other address")
	}

	mp.counters.received.Add(1)
	mp.record(probe)
	if mp.Client != nil {
		mp.Client.PingProcess(probe)
	}
}
