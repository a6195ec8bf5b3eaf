package multiping

import "github.com/SyntropyNet/nethealth/pkg/multiping/pingdata"

// Unified interface to process completed probes.
// PingProcess is called from the receiver goroutine and must not block.
type PingClient interface {
	PingProcess(p pingdata.Probe)
}
