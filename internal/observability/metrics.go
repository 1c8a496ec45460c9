// Package observability provides metrics and tracing.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrorRate counts Redis errors by operation type.
	RedisErrorRate = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "levelup_redis_error_rate_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// DatabaseQueryLatency records repository call latency by operation and table.
	DatabaseQueryLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "levelup_database_query_latency_seconds",
		Help:    "Database query latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation", "table"})

	// ScansSubmitted counts scans by type and moderation status.
	ScansSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "levelup_scans_submitted_total",
		Help: "Total number of scans submitted",
	}, []string{"scan_type", "status"})

	// XPAwarded sums XP granted by source.
	XPAwarded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "levelup_xp_awarded_total",
		Help: "Total XP awarded",
	}, []string{"source"})

	// LevelUps counts level transitions.
	LevelUps = promauto.NewCounter(prometheus.CounterOpts{
		Name: "levelup_level_ups_total",
		Help: "Total number of level-ups",
	})

	// XPConflictRetries counts optimistic XP writes that lost a race and retried.
	XPConflictRetries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "levelup_xp_conflict_retries_total",
		Help: "Total number of XP update retries after a concurrent write",
	})

	// SocialActions counts feed interactions by action.
	SocialActions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "levelup_social_actions_total",
		Help: "Total social interactions by action",
	}, []string{"action"})

	// MessageThroughput counts chat messages per message type.
	MessageThroughput = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "levelup_message_throughput_total",
		Help: "Total number of chat messages processed",
	}, []string{"message_type"})

	// ModerationDecisions counts classifier outcomes, including fail-open errors.
	ModerationDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "levelup_moderation_decisions_total",
		Help: "Total moderation decisions by classifier and outcome",
	}, []string{"classifier", "outcome"})

	// AssistantReplies counts coach replies by source (llm or fallback).
	AssistantReplies = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "levelup_assistant_replies_total",
		Help: "Total assistant replies by source",
	}, []string{"source"})

	// CircuitBreakerState is 0 closed, 1 half-open, 2 open.
	CircuitBreakerState = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "levelup_circuit_breaker_state",
		Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
	}, []string{"name"})

	// CircuitBreakerTransitions counts breaker state changes.
	CircuitBreakerTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "levelup_circuit_breaker_transitions_total",
		Help: "Total circuit breaker state transitions",
	}, []string{"name", "from", "to"})

	// CacheLookups counts cache-aside reads by cache and result.
	CacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "levelup_cache_lookups_total",
		Help: "Total cache lookups by cache name and result",
	}, []string{"cache", "result"})
)

// TrackQuery returns a function that records query latency when called (e.g. defer).
func TrackQuery(operation, table string) func() {
	start := time.Now()
	return func() {
		DatabaseQueryLatency.WithLabelValues(operation, table).Observe(time.Since(start).Seconds())
	}
}
