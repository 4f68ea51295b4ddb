// Package metrics exposes the Prometheus instruments used by the webhook
// pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	WebhooksReceived = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_received_total",
			Help: "Total number of webhook events received",
		},
		[]string{"event_type"},
	)

	WebhooksFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_events_failed_total",
			Help: "Total number of webhook events that aborted with an error",
		},
		[]string{"event_type", "error_code"},
	)

	WebhookDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "webhook_event_duration_seconds",
			Help: "Duration of end-to-end webhook processing in seconds",
		},
		[]string{"event_type"},
	)

	StageFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "webhook_stage_failures_total",
			Help: "Isolated per-stage failures that did not abort the event",
		},
		[]string{"stage"},
	)

	CommentsPosted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clickup_comments_posted_total",
			Help: "Comments successfully posted per destination route",
		},
		[]string{"route"},
	)

	TasksCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clickup_tasks_created_total",
			Help: "Tasks created per kind (parent or subtask)",
		},
		[]string{"kind"},
	)
)
