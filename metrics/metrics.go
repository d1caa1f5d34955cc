package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Scan outcomes by action (start/stop) and result (ok or the error code)
	ScanCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prodtrack_scan_total",
			Help: "Total number of processed QR scan events",
		},
		[]string{"action", "result"},
	)

	// Report requests by report type
	ReportRequestCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "prodtrack_report_requests_total",
			Help: "Total number of report requests",
		},
		[]string{"report"},
	)

	// Orders created
	OrderCreatedCount = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "prodtrack_orders_created_total",
			Help: "Total number of orders created",
		},
	)
)
