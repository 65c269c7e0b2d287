package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all prometheus metrics
type Metrics struct {
	OracleRequests     prometheus.Counter
	OracleResponses    prometheus.Counter
	OracleReports      prometheus.Counter
	RegisteredOracles  prometheus.Gauge
	DispatchTime       prometheus.Histogram
	ErrorsCount        *prometheus.CounterVec
	ContractOperations *prometheus.CounterVec
}

// NewMetrics creates new prometheus metrics registered on reg.
// Pass prometheus.DefaultRegisterer to expose them through promhttp.Handler.
func NewMetrics(namespace string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		OracleRequests: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "oracle_requests_total",
			Help:      "The total number of OracleRequest events received",
		}),
		OracleResponses: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "oracle_responses_total",
			Help:      "The total number of oracle responses submitted to the contract",
		}),
		OracleReports: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "oracle_reports_total",
			Help:      "The total number of OracleReport events received",
		}),
		RegisteredOracles: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "registered_oracles",
			Help:      "The number of oracles cached by the relay",
		}),
		DispatchTime: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "oracle_dispatch_time_seconds",
			Help:      "Time taken to answer an oracle request",
			Buckets:   prometheus.DefBuckets,
		}),
		ErrorsCount: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "errors_total",
			Help:      "The total number of errors",
		}, []string{"operation"}),
		ContractOperations: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "contract_operations_total",
			Help:      "The total number of contract operations issued by the dapp",
		}, []string{"operation"}),
	}
}
