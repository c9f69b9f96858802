// Package metrics defines and registers all custom Prometheus metrics for the
// KreaTask API. It is the single source of truth for metric names, labels, and
// help strings.
//
// Metrics are registered with the default Prometheus registry on import via
// promauto and exposed by the router at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "kreatask"

// ── Task metrics ──────────────────────────────────────────────────────────────

// TasksCompletedTotal counts tasks that entered Completed.
// Label:
//   - category: Low, Medium, High or Critical
var TasksCompletedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "tasks_completed_total",
		Help:      "Total number of tasks moved to Completed, by category.",
	},
	[]string{"category"},
)

// ScoringFaultsTotal counts completed tasks skipped by the aggregator.
// Label:
//   - reason: invalid_category, missing_completion_date, missing_due_date, unknown
var ScoringFaultsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scoring_faults_total",
		Help:      "Total number of completed tasks that could not be scored.",
	},
	[]string{"reason"},
)

// ── Leaderboard metrics ───────────────────────────────────────────────────────

// LeaderboardRequestsTotal counts leaderboard reads.
// Labels:
//   - mode: all or employees
//   - cache: hit, miss or error
var LeaderboardRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "leaderboard_requests_total",
		Help:      "Total number of leaderboard reads, by mode and cache result.",
	},
	[]string{"mode", "cache"},
)

// LeaderboardComputeDuration measures a full aggregation including storage reads.
var LeaderboardComputeDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "leaderboard_compute_duration_seconds",
		Help:      "Duration of a leaderboard aggregation from storage read to ranking.",
		Buckets:   prometheus.DefBuckets,
	},
)

// ── Access metrics ────────────────────────────────────────────────────────────

// PermissionDenialsTotal counts requests rejected by the permission gate.
// Label:
//   - action: the permission action that was denied
var PermissionDenialsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "permission_denials_total",
		Help:      "Total number of actions denied by the permission gate.",
	},
	[]string{"action"},
)

// RoleChangesTotal counts successful role assignments.
// Label:
//   - role: the newly assigned canonical role
var RoleChangesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "role_changes_total",
		Help:      "Total number of role changes, by new role.",
	},
	[]string{"role"},
)

// ── Status event metrics ──────────────────────────────────────────────────────

// StatusEventsProcessedTotal counts queued status moves applied successfully.
// Label:
//   - status: the status the task moved to
var StatusEventsProcessedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_events_processed_total",
		Help:      "Total number of status events successfully processed.",
	},
	[]string{"status"},
)

// StatusEventsErrorsTotal counts queued status moves that failed.
// Label:
//   - reason: invalid_transition, task_not_found, permission_denied, conflict, update_failed
var StatusEventsErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_events_errors_total",
		Help:      "Total number of status events that failed processing.",
	},
	[]string{"reason"},
)

// StatusEventsDedupTotal counts deduplication decisions.
// Label:
//   - result: "hit" (duplicate, skipped) or "miss" (new event, processed)
var StatusEventsDedupTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "status_events_dedup_total",
		Help:      "Total number of deduplication checks, labelled by result (hit/miss).",
	},
	[]string{"result"},
)

// StatusEventsQueueDepth tracks the number of events waiting in each worker channel.
// Label:
//   - worker_id: numeric worker index (e.g. "0", "1", …)
var StatusEventsQueueDepth = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "status_events_queue_depth",
		Help:      "Current number of events pending in each dispatcher worker channel.",
	},
	[]string{"worker_id"},
)

// StatusEventDuration measures how long a single event takes end-to-end.
// Label:
//   - status: the target status, or "error" on failure
var StatusEventDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "status_event_processing_duration_seconds",
		Help:      "Duration of status event processing from dequeue to persistence.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"status"},
)
