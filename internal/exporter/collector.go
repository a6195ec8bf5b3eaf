package exporter

import (
	"net/netip"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/SyntropyNet/nethealth/pkg/multiping"
	"github.com/SyntropyNet/nethealth/pkg/multiping/pingdata"
)

// Source is the probe engine as seen by the collector
type Source interface {
	Hosts() []netip.Addr
	Snapshot(host netip.Addr) ([]pingdata.Probe, bool)
	Counters() multiping.Counters
	Pending() int
}

var (
	hostLabels = []string{"host"}

	descLatencyAvg = prometheus.NewDesc(
		"nethealth_latency_avg_ms",
		"Average latency over history window",
		hostLabels, nil,
	)
	descLatencyMin = prometheus.NewDesc(
		"nethealth_latency_min_ms",
		"Minimal latency over history window",
		hostLabels, nil,
	)
	descLatencyMax = prometheus.NewDesc(
		"nethealth_latency_max_ms",
		"Maximal latency over history window",
		hostLabels, nil,
	)
	descWindowLost = prometheus.NewDesc(
		"nethealth_window_lost_probes",
		"Lost probes in history window",
		hostLabels, nil,
	)
	descWindowLoss = prometheus.NewDesc(
		"nethealth_window_loss_ratio",
		"Ratio of lost probes in history window",
		hostLabels, nil,
	)
	descPending = prometheus.NewDesc(
		"nethealth_pending_probes",
		"Probes waiting for a reply",
		nil, nil,
	)
	descSent = prometheus.NewDesc(
		"nethealth_probes_sent_total",
		"Echo requests sent",
		nil, nil,
	)
	descReceived = prometheus.NewDesc(
		"nethealth_probes_received_total",
		"Echo replies matched to a probe",
		nil, nil,
	)
	descLost = prometheus.NewDesc(
		"nethealth_probes_lost_total",
		"Probes expired or failed to send",
		nil, nil,
	)
	descTxErrors = prometheus.NewDesc(
		"nethealth_transmit_errors_total",
		"Echo request send failures",
		nil, nil,
	)
	descMalformed = prometheus.NewDesc(
		"nethealth_malformed_packets_total",
		"Received packets failed to decode",
		nil, nil,
	)
	descUnsolicited = prometheus.NewDesc(
		"nethealth_unsolicited_replies_total",
		"Echo replies without a pending probe",
		nil, nil,
	)
)

// Collector exports host history statistics and engine counters on scrape.
// It is also a PingClient feeding round trip time histogram.
type Collector struct {
	src Source
	rtt *prometheus.HistogramVec
}

func NewCollector(src Source) *Collector {
	return &Collector{
		src: src,
		rtt: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "nethealth_rtt_seconds",
			Help:    "Round trip time of echo replies",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		}, hostLabels),
	}
}

func (c *Collector) PingProcess(p pingdata.Probe) {
	c.rtt.WithLabelValues(p.Target.String()).Observe(p.Latency().Seconds())
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	c.rtt.Describe(ch)
	for _, d := range []*prometheus.Desc{
		descLatencyAvg, descLatencyMin, descLatencyMax, descWindowLost, descWindowLoss,
		descPending, descSent, descReceived, descLost, descTxErrors, descMalformed, descUnsolicited,
	} {
		ch <- d
	}
}

func ms(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.rtt.Collect(ch)

	for _, host := range c.src.Hosts() {
		snapshot, ok := c.src.Snapshot(host)
		if !ok {
			continue
		}
		stats := pingdata.Compute(snapshot)
		ip := host.String()

		ch <- prometheus.MustNewConstMetric(descLatencyAvg, prometheus.GaugeValue, ms(stats.Mean), ip)
		ch <- prometheus.MustNewConstMetric(descLatencyMin, prometheus.GaugeValue, ms(stats.Min), ip)
		ch <- prometheus.MustNewConstMetric(descLatencyMax, prometheus.GaugeValue, ms(stats.Max), ip)
		ch <- prometheus.MustNewConstMetric(descWindowLost, prometheus.GaugeValue, float64(stats.Lost), ip)
		ch <- prometheus.MustNewConstMetric(descWindowLoss, prometheus.GaugeValue, float64(stats.Loss()), ip)
	}

	cnt := c.src.Counters()
	ch <- prometheus.MustNewConstMetric(descPending, prometheus.GaugeValue, float64(c.src.Pending()))
	ch <- prometheus.MustNewConstMetric(descSent, prometheus.CounterValue, float64(cnt.Sent))
	ch <- prometheus.MustNewConstMetric(descReceived, prometheus.CounterValue, float64(cnt.Received))
	ch <- prometheus.MustNewConstMetric(descLost, prometheus.CounterValue, float64(cnt.Lost))
	ch <- prometheus.MustNewConstMetric(descTxErrors, prometheus.CounterValue, float64(cnt.TransmitErrors))
	ch <- prometheus.MustNewConstMetric(descMalformed, prometheus.CounterValue, float64(cnt.Malformed))
	ch <- prometheus.MustNewConstMetric(descUnsolicited, prometheus.CounterValue, float64(cnt.Unsolicited))
}
