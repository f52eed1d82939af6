// Package metrics defines the prometheus collectors of the order bot.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Inbound event results
const (
	ResultProcessed = "processed"
	ResultDuplicate = "duplicate"
	ResultSelf      = "self"
	ResultIgnored   = "ignored"
)

// Metrics holds the collectors. A nil *Metrics records nothing.
type Metrics struct {
	InboundEvents    *prometheus.CounterVec
	StageTransitions *prometheus.CounterVec
	UpstreamErrors   *prometheus.CounterVec
	Orders           *prometheus.CounterVec
	ActiveSessions   prometheus.GaugeFunc
}

// New registers the collectors with reg. sessions, when not nil, backs the
// active sessions gauge.
func New(reg prometheus.Registerer, sessions func() int) *Metrics {
	factory := promauto.With(reg)

	m := &Metrics{
		InboundEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "orderbot_inbound_events_total",
			Help: "Inbound webhook events by handling result.",
		}, []string{"result"}),
		StageTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "orderbot_stage_transitions_total",
			Help: "Session stage changes.",
		}, []string{"from", "to"}),
		UpstreamErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "orderbot_upstream_errors_total",
			Help: "Failed calls to external collaborators.",
		}, []string{"upstream"}),
		Orders: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "orderbot_orders_total",
			Help: "Orders handed to the operator by payment method and status.",
		}, []string{"method", "status"}),
	}
	if sessions != nil {
		m.ActiveSessions = factory.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "orderbot_sessions",
			Help: "Customer sessions held in memory.",
		}, func() float64 { return float64(sessions()) })
	}
	return m
}

// Inbound counts one inbound event
func (m *Metrics) Inbound(result string) {
	if m == nil {
		return
	}
	m.InboundEvents.WithLabelValues(result).Inc()
}

// Transition counts a stage change
func (m *Metrics) Transition(from, to string) {
	if m == nil || from == to {
		return
	}
	m.StageTransitions.WithLabelValues(from, to).Inc()
}

// UpstreamError counts a failed upstream call
func (m *Metrics) UpstreamError(upstream string) {
	if m == nil {
		return
	}
	m.UpstreamErrors.WithLabelValues(upstream).Inc()
}

// Order counts an order reaching the operator
func (m *Metrics) Order(method, status string) {
	if m == nil {
		return
	}
	m.Orders.WithLabelValues(method, status).Inc()
}
