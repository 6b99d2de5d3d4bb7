package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymledger_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gymledger_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	LoginsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymledger_logins_total",
			Help: "Login attempts by role and outcome",
		},
		[]string{"role", "outcome"},
	)

	MembersRegisteredTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymledger_members_registered_total",
			Help: "Total number of registered members",
		},
	)

	PlanExtensionsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymledger_plan_extensions_total",
			Help: "Total number of membership extensions",
		},
	)

	SupplementSalesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymledger_supplement_sales_total",
			Help: "Total number of supplement sales",
		},
		[]string{"product"},
	)

	RevenueTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymledger_revenue_total",
			Help: "Recorded revenue by category",
		},
		[]string{"category"},
	)

	UpdateConflictsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "gymledger_member_update_conflicts_total",
			Help: "Member updates retried after a concurrent write",
		},
	)

	ReportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymledger_reports_total",
			Help: "Sales reports generated by window kind and format",
		},
		[]string{"window", "format"},
	)

	MessagesGeneratedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gymledger_messages_generated_total",
			Help: "Member messages by type and source",
		},
		[]string{"type", "source"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordLogin(role, outcome string) {
	LoginsTotal.WithLabelValues(role, outcome).Inc()
}

func RecordMemberRegistered(amount float64) {
	MembersRegisteredTotal.Inc()
	RevenueTotal.WithLabelValues("MEMBERSHIP").Add(amount)
}

func RecordPlanExtension(amount float64) {
	PlanExtensionsTotal.Inc()
	RevenueTotal.WithLabelValues("MEMBERSHIP").Add(amount)
}

func RecordSupplementSale(product string, amount float64) {
	SupplementSalesTotal.WithLabelValues(product).Inc()
	RevenueTotal.WithLabelValues("SUPPLEMENT").Add(amount)
}

func RecordUpdateConflict() {
	UpdateConflictsTotal.Inc()
}

func RecordReport(window, format string) {
	ReportsTotal.WithLabelValues(window, format).Inc()
}

func RecordMessage(messageType, source string) {
	MessagesGeneratedTotal.WithLabelValues(messageType, source).Inc()
}
