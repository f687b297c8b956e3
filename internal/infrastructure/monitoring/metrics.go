package monitoring

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type DBMetrics struct {
	QueryDuration *prometheus.HistogramVec
}

type CreditMetrics struct {
	DecisionsTotal    *prometheus.CounterVec
	OriginationsTotal *prometheus.CounterVec
	OriginationRetry  prometheus.Counter
	CustomersTotal    prometheus.Counter
}

type PortfolioMetrics struct {
	Customers       prometheus.Gauge
	ActiveLoans     prometheus.Gauge
	LateLoans       prometheus.Gauge
	ActivePrincipal prometheus.Gauge
	LastSnapshot    prometheus.Gauge
}

var (
	DB = DBMetrics{
		QueryDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "credit_engine_db_query_duration_seconds",
				Help:    "Histogram of database query latencies.",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"query_name", "status"},
		),
	}

	Credit = CreditMetrics{
		DecisionsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_engine_eligibility_decisions_total",
				Help: "Eligibility decisions by outcome and rejection reason.",
			},
			[]string{"outcome", "reason"},
		),
		OriginationsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "credit_engine_loan_originations_total",
				Help: "Loan origination attempts by result.",
			},
			[]string{"result"},
		),
		OriginationRetry: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "credit_engine_loan_origination_retries_total",
				Help: "Origination transactions retried after a write conflict.",
			},
		),
		CustomersTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "credit_engine_customers_registered_total",
				Help: "Total number of customers successfully registered.",
			},
		),
	}

	Portfolio = PortfolioMetrics{
		Customers: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "credit_engine_portfolio_customers",
			Help: "Number of customers at the last portfolio snapshot.",
		}),
		ActiveLoans: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "credit_engine_portfolio_active_loans",
			Help: "Number of active loans at the last portfolio snapshot.",
		}),
		LateLoans: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "credit_engine_portfolio_late_loans",
			Help: "Number of active loans with outstanding EMIs at the last portfolio snapshot.",
		}),
		ActivePrincipal: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "credit_engine_portfolio_active_principal",
			Help: "Sum of active loan principal at the last portfolio snapshot.",
		}),
		LastSnapshot: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "credit_engine_portfolio_last_snapshot_timestamp_seconds",
			Help: "Unix time of the last successful portfolio snapshot.",
		}),
	}
)

func RecordDBQuery(queryName, status string, duration time.Duration) {
	DB.QueryDuration.WithLabelValues(queryName, status).Observe(duration.Seconds())
}

// RecordDecision counts one eligibility decision. reason is empty for approvals.
func RecordDecision(approved bool, reason string) {
	outcome := "rejected"
	if approved {
		outcome = "approved"
	}
	Credit.DecisionsTotal.WithLabelValues(outcome, reason).Inc()
}

func RecordOrigination(result string) {
	Credit.OriginationsTotal.WithLabelValues(result).Inc()
}

func RecordOriginationRetry() {
	Credit.OriginationRetry.Inc()
}

func RecordCustomerRegistered() {
	Credit.CustomersTotal.Inc()
}

func RecordPortfolioSnapshot(customers, activeLoans, lateLoans int64, activePrincipal float64, at time.Time) {
	Portfolio.Customers.Set(float64(customers))
	Portfolio.ActiveLoans.Set(float64(activeLoans))
	Portfolio.LateLoans.Set(float64(lateLoans))
	Portfolio.ActivePrincipal.Set(activePrincipal)
	Portfolio.LastSnapshot.Set(float64(at.Unix()))
}
