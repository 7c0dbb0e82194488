package api

import (
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	dataReads    *prometheus.CounterVec
	dataWrites   *prometheus.CounterVec
	authFailures prometheus.Counter
}

func newMetrics(registry *prometheus.Registry) *metrics {
	m := &metrics{
		dataReads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tldbuddy_data_reads_total",
			Help: "Reads of the app data document by result (hit, miss, error).",
		}, []string{"result"}),
		dataWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tldbuddy_data_writes_total",
			Help: "Writes of the app data document by result (ok, invalid, error).",
		}, []string{"result"}),
		authFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "tldbuddy_auth_failures_total",
			Help: "Rejected logins and requests without a valid session.",
		}),
	}
	registry.MustRegister(m.dataReads, m.dataWrites, m.authFailures)
	return m
}
