package multiping

import (
	"context"
	"fmt"
	"io"
	"net/netip"
	"sync"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/SyntropyNet/nethealth/pkg/multiping/pingdata"
	"github.com/SyntropyNet/nethealth/pkg/multiping/pinger"
	"github.com/SyntropyNet/nethealth/pkg/scontext"
)

// MultiPing continuously probes a set of hosts. One sender goroutine paces
// echo requests, one receiver goroutine matches replies to pending probes.
// Exported fields must be set before Start.
type MultiPing struct {
	Period      time.Duration
	Timeout     time.Duration
	RecvTimeout time.Duration
	Capacity    int
	PayloadSize int
	Bind        netip.Addr
	Listen      pinger.ListenFunc
	Client      PingClient

	log logrus.FieldLogger
	ctx *scontext.StartStopContext

	// guards Start/Stop and everything they replace
	startLock sync.RWMutex
	conn      pinger.Conn
	hosts     []netip.Addr
	data      *pingdata.PingData
	origin    time.Time

	// guards pending and tombstones
	lock       sync.Mutex
	pending    map[pendingKey]pingdata.Probe
	tombstones map[pendingKey]time.Time

	counters counters
}

type counters struct {
	sent, received, lost      atomic.Uint64
	txErrors, malformed, unsl atomic.Uint64
}

// Counters is a snapshot of engine counters
type Counters struct {
	Sent           uint64
	Received       uint64
	Lost           uint64
	TransmitErrors uint64
	Malformed      uint64
	Unsolicited    uint64
}

func New(ctx context.Context, log logrus.FieldLogger) *MultiPing {
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}

	return &MultiPing{
		Period:      DefaultPeriod,
		Timeout:     DefaultTimeout,
		RecvTimeout: DefaultRecvTimeout,
		Capacity:    pingdata.DefaultCapacity,
		PayloadSize: DefaultPayloadSize,
		Bind:        netip.IPv4Unspecified(),
		Listen:      pinger.ListenRaw,
		log:         log.WithField("pkg", pkgName),
		ctx:         scontext.New(ctx),
		data:        pingdata.NewPingData(pingdata.DefaultCapacity),
	}
}

// Start opens the socket and starts probing hosts. Duplicate hosts are
// probed once. Socket errors are wrapped into ErrSocketUnavailable.
func (mp *MultiPing) Start(hosts ...netip.Addr) error {
	mp.startLock.Lock()
	defer mp.startLock.Unlock()

	if mp.ctx.Running() {
		return ErrRunning
	}
	if len(hosts) == 0 {
		return ErrNoHosts
	}
	if mp.Period <= 0 {
		mp.Period = DefaultPeriod
	}
	if mp.Timeout <= 0 {
		mp.Timeout = DefaultTimeout
	}
	if mp.RecvTimeout <= 0 {
		mp.RecvTimeout = DefaultRecvTimeout
	}

	var unique []netip.Addr
	seen := make(map[netip.Addr]struct{}, len(hosts))
	for _, h := range hosts {
		if !h.Is4() {
			return fmt.Errorf("%w: %s", ErrInvalidAddr, h)
		}
		if _, ok := seen[h]; ok {
			continue
		}
		seen[h] = struct{}{}
		unique = append(unique, h)
	}

	if mp.Listen == nil {
		mp.Listen = pinger.ListenRaw
	}
	conn, err := mp.Listen(mp.Bind, mp.RecvTimeout)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrSocketUnavailable, err)
	}

	if _, err := mp.ctx.Start(); err != nil {
		conn.Close()
		return err
	}

	mp.conn = conn
	mp.prepare(unique)

	mp.log.WithFields(logrus.Fields{
		"hosts":  len(unique),
		"period": mp.Period,
		"bind":   mp.Bind,
	}).Info("Starting")

	sender := newSender(mp)
	mp.ctx.Go(sender.run)
	mp.ctx.Go(mp.recvLoop)
	return nil
}

// prepare resets probing state for a new run
func (mp *MultiPing) prepare(hosts []netip.Addr) {
	mp.hosts = hosts
	mp.data = pingdata.NewPingData(mp.Capacity)
	mp.data.Add(hosts...)

	mp.lock.Lock()
	mp.pending = make(map[pendingKey]pingdata.Probe)
	mp.tombstones = make(map[pendingKey]time.Time)
	mp.lock.Unlock()

	mp.origin = time.Now()
}

// Stop stops sender and receiver and closes the socket.
// Safe to call several times or before Start.
func (mp *MultiPing) Stop() {
	mp.startLock.Lock()
	defer mp.startLock.Unlock()

	if err := mp.ctx.Stop(); err != nil {
		return
	}

	if err := mp.conn.Close(); err != nil {
		mp.log.WithError(err).Warn("Socket close")
	}
	mp.log.Info("Stopped")
}

// Hosts returns probed hosts in configured order
func (mp *MultiPing) Hosts() []netip.Addr {
	mp.startLock.RLock()
	defer mp.startLock.RUnlock()

	return append([]netip.Addr(nil), mp.hosts...)
}

// Data gives read access to host histories.
func (mp *MultiPing) Data() *pingdata.PingData {
	mp.startLock.RLock()
	defer mp.startLock.RUnlock()

	return mp.data
}

// Snapshot returns a copy of host history, oldest first
func (mp *MultiPing) Snapshot(host netip.Addr) ([]pingdata.Probe, bool) {
	h, ok := mp.Data().Get(host)
	if !ok {
		return nil, false
	}
	return h.Snapshot(), true
}

// Pending returns count of in-flight probes
func (mp *MultiPing) Pending() int {
	mp.lock.Lock()
	defer mp.lock.Unlock()

	return len(mp.pending)
}

func (mp *MultiPing) Counters() Counters {
	return Counters{
		Sent:           mp.counters.sent.Load(),
		Received:       mp.counters.received.Load(),
		Lost:           mp.counters.lost.Load(),
		TransmitErrors: mp.counters.txErrors.Load(),
		Malformed:      mp.counters.malformed.Load(),
		Unsolicited:    mp.counters.unsl.Load(),
	}
}

// record appends finished probe to target's history
func (mp *MultiPing) record(p pingdata.Probe) {
	if h, ok := mp.data.Get(p.Target); ok {
		h.Append(p)
	}
}

func (c Counters) String() string {
	return fmt.Sprintf("sent=%d, received=%d, lost=%d, txerr=%d, malformed=%d, unsolicited=%d",
		c.Sent, c.Received, c.Lost, c.TransmitErrors, c.Malformed, c.Unsolicited)
}
