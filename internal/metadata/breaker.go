package metadata

import (
	"context"
	"errors"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"moviebuddy/internal/logging"
	"moviebuddy/internal/metadata/omdb"
	"moviebuddy/internal/metrics"
	"moviebuddy/internal/services"
)

// BreakerSettings configure the circuit breaker around OMDb lookups.
type BreakerSettings struct {
	Name string
	// Failures is the number of consecutive failures that opens the breaker.
	// Zero disables the breaker.
	Failures uint32
	// Cooldown is how long the breaker stays open before a trial request.
	Cooldown time.Duration
}

func newBreaker(settings BreakerSettings, f *Fetcher) *gobreaker.CircuitBreaker[*omdb.Response] {
	if settings.Failures == 0 {
		return nil
	}
	name := settings.Name
	if name == "" {
		name = "omdb"
	}
	cooldown := settings.Cooldown
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	metrics.SetBreakerState(name, stateToFloat(gobreaker.StateClosed))

	threshold := settings.Failures
	return gobreaker.NewCircuitBreaker[*omdb.Response](gobreaker.Settings{
		Name:        name,
		MaxRequests: uint32(max(f.workers, 1)),
		Timeout:     cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		IsSuccessful: func(err error) bool {
			// Caller cancellations and bad input say nothing about OMDb health.
			return err == nil ||
				errors.Is(err, context.Canceled) ||
				errors.Is(err, services.ErrValidation)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.SetBreakerState(name, stateToFloat(to))
			f.logger.Info("circuit breaker state changed",
				logging.String("breaker", name),
				logging.String("from", stateToString(from)),
				logging.String("to", stateToString(to)),
			)
		},
	})
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

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
