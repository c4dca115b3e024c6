// Curator - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/curator

package recommend

import (
	"errors"

	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/tomtom215/curator/internal/metrics"
)

// strategyBreaker skips a strategy after repeated failures.
type strategyBreaker struct {
	cb *gobreaker.CircuitBreaker[[]Score]
}

//nolint:gocritic // hugeParam: zerolog.Logger is designed to be passed by value
func newStrategyBreaker(source Source, cfg BreakerConfig, logger zerolog.Logger) *strategyBreaker {
	threshold := cfg.FailureThreshold
	if threshold == 0 {
		threshold = 5
	}
	name := "strategy_" + source.String()
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			metrics.SetCircuitBreakerState(name, int(to))
			logger.Warn().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("strategy circuit breaker changed state")
		},
	}
	metrics.SetCircuitBreakerState(name, int(gobreaker.StateClosed))
	return &strategyBreaker{cb: gobreaker.NewCircuitBreaker[[]Score](settings)}
}

func (b *strategyBreaker) execute(fn func() ([]Score, error)) ([]Score, error) {
	return b.cb.Execute(fn)
}

func (b *strategyBreaker) state() gobreaker.State {
	return b.cb.State()
}

func isBreakerOpen(err error) bool {
	return errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests)
}
