package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "Duration of requests issued to the remote API in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method"},
	)

	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of requests issued to the remote API",
		},
		[]string{"endpoint", "method", "outcome"},
	)
)

var (
	StoreFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_failures_total",
			Help: "Total number of swallowed key-value store failures",
		},
		[]string{"backend", "op"},
	)

	SessionRestoresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "session_restores_total",
			Help: "Total number of session restore attempts at startup",
		},
		[]string{"outcome"},
	)
)

var (
	CartMutationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cart_mutations_total",
			Help: "Total number of cart mutations",
		},
		[]string{"mode", "op"},
	)

	CartReloadsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "cart_reloads_total",
			Help: "Total number of server cart reloads",
		},
	)
)

var (
	OrdersCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Total number of orders created at checkout",
		},
	)

	SubscriptionsCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "subscriptions_created_total",
			Help: "Total number of project subscriptions created",
		},
	)

	PaymentConfirmationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_confirmations_total",
			Help: "Total number of payment confirmations sent to the API",
		},
		[]string{"kind", "status"},
	)

	PaymentAbandonedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_abandoned_total",
			Help: "Total number of payments cancelled before confirmation, leaving an unconfirmed record",
		},
		[]string{"kind"},
	)

	PaymentSimulationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_simulations_total",
			Help: "Total number of simulated mobile money payments run to completion",
		},
		[]string{"provider"},
	)
)
