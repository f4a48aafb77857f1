package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	applicationEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "joblobby",
			Subsystem: "ledger",
			Name:      "application_events_total",
			Help:      "申请状态变化次数（按事件类型）。",
		},
		[]string{"event"},
	)

	eventEnqueueFailedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "joblobby",
			Subsystem: "ledger",
			Name:      "event_enqueue_failed_total",
			Help:      "通知任务入队失败次数。",
		},
	)

	loginFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "joblobby",
			Subsystem: "auth",
			Name:      "login_failures_total",
			Help:      "登录失败次数（按原因）。",
		},
		[]string{"reason"},
	)
)

// ApplicationEvent counts one apply, status change or withdrawal.
func ApplicationEvent(event string) {
	applicationEventsTotal.WithLabelValues(event).Inc()
}

// EventEnqueueFailed counts a notification task that could not be queued.
func EventEnqueueFailed() {
	eventEnqueueFailedTotal.Inc()
}

// LoginFailure counts a rejected login by reason ("credentials" or "throttled").
func LoginFailure(reason string) {
	loginFailuresTotal.WithLabelValues(reason).Inc()
}
