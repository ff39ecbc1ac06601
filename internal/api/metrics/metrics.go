// Package metrics defines the custom Prometheus metrics of the POS API. It is
// the single source of truth for metric names, labels, and help strings.
//
// Metrics are registered with the default registry on package init through
// promauto; the dispatcher gauges are registered by RegisterQueueDepth and
// RegisterDroppedNotifications.
package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/shopspring/decimal"

	"github.com/bistro/pos-system/internal/core/domain"
)

const namespace = "pos"

// ── Order metrics ─────────────────────────────────────────────────────────────

// OrdersCreatedTotal counts completed checkouts.
// Labels:
//   - payment_method: "cash" or "card"
//   - order_type: "dine_in" or "takeout"
var OrdersCreatedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_created_total",
		Help:      "Total number of orders checked out, by payment method and order type.",
	},
	[]string{"payment_method", "order_type"},
)

// OrderTotalAmount observes the grand total of each order in currency units.
var OrderTotalAmount = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "order_total_amount",
		Help:      "Grand total of checked-out orders.",
		Buckets:   []float64{5, 10, 20, 35, 50, 75, 100, 150, 250, 500},
	},
)

// OrdersVoidedTotal counts voided sales.
var OrdersVoidedTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "orders_voided_total",
		Help:      "Total number of voided sales.",
	},
)

// ── Notification metrics ──────────────────────────────────────────────────────

// NotificationsTotal counts delivery attempts per notifier.
// Labels:
//   - notifier: "webhook" or "amqp"
//   - result: "sent" or "failed"
var NotificationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "notifications_total",
		Help:      "Total number of order notifications, by notifier and result.",
	},
	[]string{"notifier", "result"},
)

// NotificationDuration measures delivery time per notifier, retries included.
var NotificationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "notification_duration_seconds",
		Help:      "Duration of order notification delivery.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"notifier"},
)

// ── Auth metrics ──────────────────────────────────────────────────────────────

// LoginsTotal counts login attempts.
// Label:
//   - result: "success", "invalid", "inactive" or "throttled"
var LoginsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "logins_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// RegisterQueueDepth exposes the notification backlog reported by depth.
// It must be called at most once.
func RegisterQueueDepth(depth func() int) {
	promauto.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "notification_queue_depth",
			Help:      "Current number of order notifications waiting for a worker.",
		},
		func() float64 { return float64(depth()) },
	)
}

// RegisterDroppedNotifications exposes the number of notifications the
// dispatcher discarded. It must be called at most once.
func RegisterDroppedNotifications(dropped func() int64) {
	promauto.NewCounterFunc(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_dropped_total",
			Help:      "Order notifications discarded because a worker queue was full or stopped.",
		},
		func() float64 { return float64(dropped()) },
	)
}

// ObserveOrder records a completed checkout.
func ObserveOrder(paymentMethod, orderType string, total decimal.Decimal) {
	OrdersCreatedTotal.WithLabelValues(paymentMethod, orderType).Inc()
	OrderTotalAmount.Observe(total.InexactFloat64())
}

// DeliveryObserver feeds notifier outcomes into the notification metrics.
type DeliveryObserver struct{}

func (DeliveryObserver) ObserveDelivery(notifier string, err error, elapsed time.Duration) {
	result := "sent"
	if err != nil {
		result = "failed"
	}
	NotificationsTotal.WithLabelValues(notifier, result).Inc()
	NotificationDuration.WithLabelValues(notifier).Observe(elapsed.Seconds())
}

// LoginResult maps a login error to the result label of LoginsTotal.
func LoginResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrEmployeeInactive):
		return "inactive"
	default:
		return "invalid"
	}
}
