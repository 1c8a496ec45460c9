package assistant

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"levelup/internal/middleware"
	"levelup/internal/models"
	"levelup/internal/observability"

	gobreaker "github.com/sony/gobreaker/v2"
)

// BreakerSettings tunes the circuit around the model endpoint.
type BreakerSettings struct {
	Name        string
	MaxRequests uint32
	Interval    time.Duration
	Timeout     time.Duration
	// MinRequests and FailureRatio decide when the circuit opens.
	MinRequests  uint32
	FailureRatio float64
}

// DefaultBreakerSettings opens after 5 calls with at least 60% failures and
// probes again after 30 seconds.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		Name:         "assistant-llm",
		MaxRequests:  1,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		MinRequests:  5,
		FailureRatio: 0.6,
	}
}

// BreakerClient guards another Client with a circuit breaker.
type BreakerClient struct {
	next Client
	cb   *gobreaker.CircuitBreaker[string]
	name string
}

// NewBreakerClient wraps next.
func NewBreakerClient(next Client, s BreakerSettings) *BreakerClient {
	observability.CircuitBreakerState.WithLabelValues(s.Name).Set(0)

	cb := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        s.Name,
		MaxRequests: s.MaxRequests,
		Interval:    s.Interval,
		Timeout:     s.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < s.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= s.FailureRatio
		},
		// A missing key is configuration, not an outage.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrNotConfigured)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			middleware.Logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()))
			observability.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			observability.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return &BreakerClient{next: next, cb: cb, name: s.Name}
}

func (b *BreakerClient) GenerateReply(ctx context.Context, history []models.AssistantMessage) (string, error) {
	return b.cb.Execute(func() (string, error) {
		return b.next.GenerateReply(ctx, history)
	})
}

// State reports the current breaker state.
func (b *BreakerClient) State() gobreaker.State {
	return b.cb.State()
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}
