package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "pnl_checker"

// Outcome labels of RPCCalls.
const (
	OutcomeOK          = "ok"
	OutcomeNoValue     = "no_value"
	OutcomeUndecodable = "undecodable"
)

var (
	// RPCCalls counts balanceOf calls per chain and outcome.
	RPCCalls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "rpc_calls_total",
		Help:      "balanceOf eth_call requests by chain and outcome.",
	}, []string{"chain", "outcome"})

	// RPCDuration observes the latency of single eth_call round-trips.
	RPCDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "rpc_call_duration_seconds",
		Help:      "Latency of balanceOf eth_call round-trips.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"chain"})

	// ReportRecords is the number of reconciled records of the last run.
	ReportRecords = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "report_records",
		Help:      "Reconciled records produced by the last run.",
	})

	// UnknownBaselines is the number of records of the last run without a baseline entry.
	UnknownBaselines = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "report_unknown_baselines",
		Help:      "Records of the last run whose baseline defaulted to zero.",
	})

	registerOnce sync.Once
)

// MustRegisterMetrics registers the collectors with the default registry once.
func MustRegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(RPCCalls, RPCDuration, ReportRecords, UnknownBaselines)
	})
}

// WriteTextfile dumps the default registry in the node_exporter textfile format.
func WriteTextfile(path string) error {
	MustRegisterMetrics()
	return prometheus.WriteToTextfile(path, prometheus.DefaultGatherer)
}
