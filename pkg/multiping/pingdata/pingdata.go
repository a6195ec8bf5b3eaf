package pingdata

import (
	"fmt"
	"io"
	"net/netip"
	"slices"
	"sync"
)

// Ping data. Holds host latency histories in insertion order.
// Use Add, Get and Iterate functions. No internal logic will be exposed.
type PingData struct {
	lock     sync.RWMutex
	capacity int
	hosts    []netip.Addr
	entries  map[netip.Addr]*History
}

func NewPingData(capacity int) *PingData {
	return &PingData{
		capacity: capacity,
		entries:  make(map[netip.Addr]*History),
	}
}

// Add - adds some hosts to be pinged. Known hosts keep their history.
func (pr *PingData) Add(hosts ...netip.Addr) {
	pr.lock.Lock()
	defer pr.lock.Unlock()

	for _, ip := range hosts {
		if _, ok := pr.entries[ip]; ok {
			continue
		}
		pr.entries[ip] = NewHistory(pr.capacity)
		pr.hosts = append(pr.hosts, ip)
	}
}

// Hosts returns configured hosts in insertion order
func (pr *PingData) Hosts() []netip.Addr {
	pr.lock.RLock()
	defer pr.lock.RUnlock()

	return slices.Clone(pr.hosts)
}

// Get searches for latency history of a host
func (pr *PingData) Get(ip netip.Addr) (*History, bool) {
	pr.lock.RLock()
	defer pr.lock.RUnlock()

	val, ok := pr.entries[ip]
	return val, ok
}

// Iterate runs through all hosts in insertion order and calls callback.
func (pr *PingData) Iterate(callback func(ip netip.Addr, val *History)) {
	pr.lock.RLock()
	hosts := slices.Clone(pr.hosts)
	entries := make([]*History, len(hosts))
	for i, ip := range hosts {
		entries[i] = pr.entries[ip]
	}
	pr.lock.RUnlock()

	for i, ip := range hosts {
		callback(ip, entries[i])
	}
}

func (pr *PingData) Dump(w io.Writer, title ...string) {
	for _, l := range title {
		w.Write([]byte(l))
	}

	pr.Iterate(func(ip netip.Addr, val *History) {
		line := fmt.Sprintf("%s: %s\n", ip, val.Stats().String())
		w.Write([]byte(line))
	})
}
